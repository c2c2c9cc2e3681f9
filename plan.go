package ecs

import "sort"

// Plan is a schedule's fully resolved execution order: a sequence of
// levels, each a set of systems that can run concurrently because no two
// of them conflict under AccessPolicy.Conflicts (spec §4.3, §4.4).
// Consecutive levels are separated by an implicit barrier where queued
// commands are applied.
type Plan struct {
	Levels [][]SystemTypeId
}

// buildPlan resolves sr into a Plan, or a *ConfigurationError if the
// resulting constraint graph is unsatisfiable (a cycle, or a reference to
// a system set with no known members).
func buildPlan(sr *scheduleRegistry) (*Plan, error) {
	ids := append([]SystemTypeId(nil), sr.order...)

	edges := make(map[SystemTypeId]map[SystemTypeId]struct{}, len(ids)) // a -> b means a must run before b
	addEdge := func(a, b SystemTypeId) {
		if a == b {
			return
		}
		m, ok := edges[a]
		if !ok {
			m = make(map[SystemTypeId]struct{})
			edges[a] = m
		}
		m[b] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := edges[id]; !ok {
			edges[id] = make(map[SystemTypeId]struct{})
		}
	}

	membersOf := func(set SystemSetId) []SystemTypeId {
		var members []SystemTypeId
		for _, id := range ids {
			for _, s := range sr.systems[id].sets {
				if s == set {
					members = append(members, id)
					break
				}
			}
		}
		return members
	}

	// Direct system-to-system edges.
	for _, id := range ids {
		info := sr.systems[id]
		for _, b := range info.before {
			addEdge(id, b)
		}
		for _, a := range info.after {
			addEdge(a, id)
		}
	}

	// Set membership lowers to a cross-product of edges between members
	// (spec §4.1).
	for setID, setInfo := range sr.sets {
		members := membersOf(setID)
		for _, beforeSet := range setInfo.before {
			beforeMembers := membersOf(beforeSet)
			if len(beforeMembers) == 0 {
				return nil, newUnknownSetError(setInfo.Name, beforeSet)
			}
			for _, a := range members {
				for _, b := range beforeMembers {
					addEdge(a, b)
				}
			}
		}
		for _, afterSet := range setInfo.after {
			afterMembers := membersOf(afterSet)
			if len(afterMembers) == 0 {
				return nil, newUnknownSetError(setInfo.Name, afterSet)
			}
			for _, a := range afterMembers {
				for _, m := range members {
					addEdge(a, m)
				}
			}
		}
	}

	reaches := func(from, to SystemTypeId) bool {
		if from == to {
			return true
		}
		visited := map[SystemTypeId]bool{from: true}
		stack := []SystemTypeId{from}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for next := range edges[n] {
				if next == to {
					return true
				}
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		return false
	}

	// Deterministic tie-breaking: any conflicting pair left unordered by
	// the graph above gets a forced edge, sorted by (name, type-id), so
	// scheduling is reproducible across runs rather than depending on map
	// iteration order (spec §4.3 — "deterministic tie-breaking").
	sorted := append([]SystemTypeId(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool {
		ni, nj := sr.systems[sorted[i]].Name, sr.systems[sorted[j]].Name
		if ni != nj {
			return ni < nj
		}
		return sorted[i] < sorted[j]
	})
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if reaches(a, b) || reaches(b, a) {
				continue
			}
			if sr.systems[a].Policy.Conflicts(sr.systems[b].Policy) {
				addEdge(a, b)
			}
		}
	}

	if cycle := findCycle(ids, edges, sr); cycle != nil {
		return nil, newCycleError(cycle)
	}

	return &Plan{Levels: levelize(ids, edges)}, nil
}

// findCycle runs DFS with a recursion stack to find one cycle, returning
// the offending system names in cycle order, or nil if the graph is
// acyclic.
func findCycle(ids []SystemTypeId, edges map[SystemTypeId]map[SystemTypeId]struct{}, sr *scheduleRegistry) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[SystemTypeId]int, len(ids))
	var path []SystemTypeId
	var cycle []SystemTypeId

	var visit func(n SystemTypeId) bool
	visit = func(n SystemTypeId) bool {
		color[n] = gray
		path = append(path, n)
		for next := range edges[n] {
			switch color[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				// Found the back edge; extract the cycle from path.
				for i := len(path) - 1; i >= 0; i-- {
					cycle = append(cycle, path[i])
					if path[i] == next {
						break
					}
				}
				return true
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return false
	}

	for _, id := range ids {
		if color[id] == white {
			if visit(id) {
				names := make([]string, len(cycle))
				for i, c := range cycle {
					names[i] = sr.systems[c].Name
				}
				return names
			}
		}
	}
	return nil
}

// levelize runs Kahn's algorithm, grouping each round of zero in-degree
// nodes into one level. Because conflicting pairs are always connected by
// an edge (explicit, set-derived, or tie-break), any two systems that
// land in the same level are conflict-free by construction — including
// exclusive systems, which conflict with everything and therefore always
// end up alone in their level with no extra special-casing required.
func levelize(ids []SystemTypeId, edges map[SystemTypeId]map[SystemTypeId]struct{}) [][]SystemTypeId {
	indegree := make(map[SystemTypeId]int, len(ids))
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, targets := range edges {
		for t := range targets {
			indegree[t]++
		}
	}

	remaining := len(ids)
	var levels [][]SystemTypeId
	for remaining > 0 {
		var level []SystemTypeId
		for _, id := range ids {
			if indegree[id] == 0 {
				level = append(level, id)
			}
		}
		sort.Slice(level, func(i, j int) bool { return level[i] < level[j] })
		for _, id := range level {
			indegree[id] = -1 // consumed
			remaining--
		}
		for _, id := range level {
			for t := range edges[id] {
				if indegree[t] >= 0 {
					indegree[t]--
				}
			}
		}
		levels = append(levels, level)
	}
	return levels
}
