package ecs

import (
	"fmt"
	"sort"
	"sync"
)

// maxComponentTypes bounds the process-wide ComponentTypeId space so a
// signature fits a fixed-width bitset. Exceeding it is a
// ConfigurationError at RegisterComponentStrategy time, never a silent
// overflow.
const maxComponentTypes = 256

const bitsetWords = maxComponentTypes / 64

// typeBitset is an archetype's component-type signature: a function of
// the component-type set only, independent of insertion order (spec
// §4.1 — "Signature: a function of the component-type set").
type typeBitset [bitsetWords]uint64

func (b *typeBitset) set(id ComponentTypeId) {
	b[id/64] |= 1 << (id % 64)
}

func (b typeBitset) has(id ComponentTypeId) bool {
	return b[id/64]&(1<<(id%64)) != 0
}

// supersetOf reports whether b contains every bit set in sub, i.e. an
// archetype with signature b satisfies a query requiring sub.
func (b typeBitset) supersetOf(sub typeBitset) bool {
	for i := range b {
		if b[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

// archetype groups every entity sharing an identical component-type set
// into columnar storage, one Column per component type, row-indexed in
// lockstep with the entities slice (spec §4.1).
type archetype struct {
	signature   typeBitset
	types       []ComponentTypeId // sorted ascending
	columns     map[ComponentTypeId]Column
	entities    []Entity
	addEdges    map[ComponentTypeId]*archetype
	removeEdges map[ComponentTypeId]*archetype
}

// removeRow deletes row via swap-remove against every column and the
// entity list, reporting the entity that moved into row (if any) so the
// caller can fix up its location table entry.
func (a *archetype) removeRow(row int) (moved Entity, ok bool) {
	last := len(a.entities) - 1
	for _, col := range a.columns {
		col.SwapRemove(row)
	}
	if row != last {
		a.entities[row] = a.entities[last]
		moved, ok = a.entities[row], true
	}
	a.entities[last] = Entity{}
	a.entities = a.entities[:last]
	return moved, ok
}

type entityLocation struct {
	arch *archetype
	row  int
}

// archetypeStore is the World's intrinsic component storage engine:
// archetype-indexed columnar storage with cached single-type transition
// edges, one Column per component type per archetype (spec §4.1, §4.2).
type archetypeStore struct {
	mu         sync.RWMutex
	strategies map[ComponentTypeId]StorageStrategy
	registered map[ComponentTypeId]struct{}
	archetypes map[typeBitset]*archetype
	order      []*archetype // insertion order, for deterministic Query iteration
	empty      *archetype
	locations  map[Entity]entityLocation
}

func newArchetypeStore() *archetypeStore {
	s := &archetypeStore{
		strategies: make(map[ComponentTypeId]StorageStrategy),
		registered: make(map[ComponentTypeId]struct{}),
		archetypes: make(map[typeBitset]*archetype),
		locations:  make(map[Entity]entityLocation),
	}
	s.empty = s.newArchetypeLocked(typeBitset{}, nil)
	return s
}

// registerStrategy opts a component type into a non-default storage
// strategy. Must be called before the type is first inserted; a second
// registration of the same type is a programmer error.
func (s *archetypeStore) registerStrategy(id ComponentTypeId, strat StorageStrategy) error {
	if strat == nil {
		return ErrNilStorageStrategy
	}
	if id >= maxComponentTypes {
		return &ConfigurationError{
			Sentinel: ErrUnresolvableConflict,
			Detail:   fmt.Sprintf("component type id %d exceeds the %d-type bitset capacity", id, maxComponentTypes),
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registered[id]; ok {
		return ErrComponentAlreadyRegistered
	}
	s.registered[id] = struct{}{}
	s.strategies[id] = strat
	return nil
}

func (s *archetypeStore) newColumn(id ComponentTypeId) Column {
	if strat, ok := s.strategies[id]; ok {
		return strat.NewColumn()
	}
	return NewDenseStrategy().NewColumn()
}

// newArchetypeLocked creates and indexes a fresh archetype for sig/types.
// Caller must hold s.mu.
func (s *archetypeStore) newArchetypeLocked(sig typeBitset, types []ComponentTypeId) *archetype {
	a := &archetype{
		signature:   sig,
		types:       types,
		columns:     make(map[ComponentTypeId]Column, len(types)),
		addEdges:    make(map[ComponentTypeId]*archetype),
		removeEdges: make(map[ComponentTypeId]*archetype),
	}
	for _, t := range types {
		a.columns[t] = s.newColumn(t)
	}
	s.archetypes[sig] = a
	s.order = append(s.order, a)
	return a
}

func insertSorted(types []ComponentTypeId, id ComponentTypeId) []ComponentTypeId {
	i := sort.Search(len(types), func(i int) bool { return types[i] >= id })
	out := make([]ComponentTypeId, len(types)+1)
	copy(out, types[:i])
	out[i] = id
	copy(out[i+1:], types[i:])
	return out
}

func removeSorted(types []ComponentTypeId, id ComponentTypeId) []ComponentTypeId {
	out := make([]ComponentTypeId, 0, len(types)-1)
	for _, t := range types {
		if t != id {
			out = append(out, t)
		}
	}
	return out
}

// edgeAdd returns (creating if necessary) the archetype reached from src
// by adding component id, caching the edge both ways (spec §4.1 —
// "O(1) cached transition edges").
func (s *archetypeStore) edgeAdd(src *archetype, id ComponentTypeId) *archetype {
	if dst, ok := src.addEdges[id]; ok {
		return dst
	}
	sig := src.signature
	sig.set(id)
	dst, ok := s.archetypes[sig]
	if !ok {
		dst = s.newArchetypeLocked(sig, insertSorted(src.types, id))
	}
	src.addEdges[id] = dst
	dst.removeEdges[id] = src
	return dst
}

// edgeRemove is edgeAdd's inverse.
func (s *archetypeStore) edgeRemove(src *archetype, id ComponentTypeId) *archetype {
	if dst, ok := src.removeEdges[id]; ok {
		return dst
	}
	sig := src.signature
	sig[id/64] &^= 1 << (id % 64)
	dst, ok := s.archetypes[sig]
	if !ok {
		dst = s.newArchetypeLocked(sig, removeSorted(src.types, id))
	}
	src.removeEdges[id] = dst
	dst.addEdges[id] = src
	return dst
}

// moveRowFixup performs src.removeRow and repairs the location table for
// whichever entity swapped into the vacated row.
func (s *archetypeStore) moveRowFixup(src *archetype, row int) {
	if moved, ok := src.removeRow(row); ok {
		s.locations[moved] = entityLocation{arch: src, row: row}
	}
}

func (s *archetypeStore) onSpawn(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := len(s.empty.entities)
	s.empty.entities = append(s.empty.entities, e)
	s.locations[e] = entityLocation{arch: s.empty, row: row}
}

func (s *archetypeStore) onDespawn(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[e]
	if !ok {
		return
	}
	s.moveRowFixup(loc.arch, loc.row)
	delete(s.locations, e)
}

// insert attaches value (already boxed as *T) under id to e, moving e's
// archetype if it doesn't already carry id, or overwriting in place if
// it does.
func (s *archetypeStore) insert(e Entity, id ComponentTypeId, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[e]
	if !ok {
		return fmt.Errorf("%w: insert on %v", ErrEntityStale, e)
	}
	src := loc.arch
	if src.signature.has(id) {
		src.columns[id].Set(loc.row, value)
		return nil
	}
	dst := s.edgeAdd(src, id)
	for _, t := range dst.types {
		if t == id {
			dst.columns[t].Append(value)
			continue
		}
		dst.columns[t].Append(src.columns[t].Get(loc.row))
	}
	dst.entities = append(dst.entities, e)
	s.locations[e] = entityLocation{arch: dst, row: len(dst.entities) - 1}
	s.moveRowFixup(src, loc.row)
	return nil
}

// remove detaches id from e, moving e's archetype. A no-op if e does not
// carry id.
func (s *archetypeStore) remove(e Entity, id ComponentTypeId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[e]
	if !ok || !loc.arch.signature.has(id) {
		return
	}
	src := loc.arch
	dst := s.edgeRemove(src, id)
	for _, t := range dst.types {
		dst.columns[t].Append(src.columns[t].Get(loc.row))
	}
	dst.entities = append(dst.entities, e)
	s.locations[e] = entityLocation{arch: dst, row: len(dst.entities) - 1}
	s.moveRowFixup(src, loc.row)
}

// get returns the boxed value stored for id on e.
func (s *archetypeStore) get(e Entity, id ComponentTypeId) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[e]
	if !ok || !loc.arch.signature.has(id) {
		return nil, false
	}
	return loc.arch.columns[id].Get(loc.row), true
}

// has reports whether e currently carries id.
func (s *archetypeStore) has(e Entity, id ComponentTypeId) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[e]
	return ok && loc.arch.signature.has(id)
}

// query iterates entities whose archetype is a superset of ids,
// archetype-major then row-ascending, stable across calls within a tick
// since archetype creation order does not change mid-tick (spec §4.2).
// A snapshot of the archetype list and each matching archetype's entity
// slice is taken under RLock and released before the callback runs.
func (s *archetypeStore) query(ids []ComponentTypeId) func(func(Entity) bool) {
	return func(yield func(Entity) bool) {
		s.mu.RLock()
		archs := make([]*archetype, len(s.order))
		copy(archs, s.order)
		s.mu.RUnlock()

		var want typeBitset
		for _, id := range ids {
			want.set(id)
		}
		for _, a := range archs {
			if !a.signature.supersetOf(want) {
				continue
			}
			s.mu.RLock()
			snapshot := make([]Entity, len(a.entities))
			copy(snapshot, a.entities)
			s.mu.RUnlock()
			for _, e := range snapshot {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// archetypeCount reports how many distinct archetypes currently exist,
// including the empty one. Used by observability and tests.
func (s *archetypeStore) archetypeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.archetypes)
}
