package ecs

import "sync"

// scheduleRegistry holds every system and set registered against one
// schedule, plus the interned run conditions and the memoized Plan
// derived from them.
type scheduleRegistry struct {
	systems    map[SystemTypeId]*SystemInfo
	order      []SystemTypeId // registration order, so plan construction iterates systems deterministically
	sets       map[SystemSetId]*SystemSetInfo
	conditions conditionInterner
	plan       *Plan
}

func newScheduleRegistry() *scheduleRegistry {
	return &scheduleRegistry{
		systems: make(map[SystemTypeId]*SystemInfo),
		sets:    make(map[SystemSetId]*SystemSetInfo),
	}
}

// SystemRegistry owns system/set registration for every schedule in a
// single App (spec §4.1). It is the source of truth Plan is built from;
// any mutation invalidates that schedule's memoized Plan.
type SystemRegistry struct {
	mu        sync.Mutex
	schedules map[ScheduleId]*scheduleRegistry
}

// NewSystemRegistry constructs an empty registry.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{schedules: make(map[ScheduleId]*scheduleRegistry)}
}

func (r *SystemRegistry) scheduleLocked(id ScheduleId) *scheduleRegistry {
	sr, ok := r.schedules[id]
	if !ok {
		sr = newScheduleRegistry()
		r.schedules[id] = sr
	}
	return sr
}

// AddSystem registers a system identified by marker type T against
// schedule, applying opts in order. Registering the same marker type
// twice against the same schedule replaces the prior registration.
func AddSystem[T any](r *SystemRegistry, schedule ScheduleId, fn SystemFunc, opts ...SystemOption) SystemTypeId {
	id := SystemTypeOf[T]()
	info := &SystemInfo{ID: id, Name: SystemTypeName(id), Fn: fn, Policy: NewAccessPolicy()}
	for _, opt := range opts {
		opt(info)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sr := r.scheduleLocked(schedule)
	for _, cond := range info.conditions {
		info.conditionIndices = append(info.conditionIndices, sr.conditions.intern(cond))
	}
	if _, exists := sr.systems[id]; !exists {
		sr.order = append(sr.order, id)
	}
	sr.systems[id] = info
	sr.plan = nil
	return id
}

// ConfigureSet registers ordering constraints and run conditions for the
// set identified by marker type T against schedule. Membership itself is
// declared per-system via InSet[T]; ConfigureSet only needs to be called
// when the set has its own before/after/RunIf constraints.
func ConfigureSet[T any](r *SystemRegistry, schedule ScheduleId, opts ...SystemSetOption) SystemSetId {
	id := SystemSetTypeOf[T]()
	info := &SystemSetInfo{ID: id, Name: SystemSetTypeName(id)}
	for _, opt := range opts {
		opt(info)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sr := r.scheduleLocked(schedule)
	for _, cond := range info.conditions {
		info.conditionIndices = append(info.conditionIndices, sr.conditions.intern(cond))
	}
	sr.sets[id] = info
	sr.plan = nil
	return id
}

// snapshot returns the schedule's registry, or nil if nothing was ever
// registered against it.
func (r *SystemRegistry) snapshot(schedule ScheduleId) *scheduleRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.schedules[schedule]
}

// Plan returns the memoized Plan for schedule, building and caching it
// on first use or after a registration invalidated the cache. A schedule
// with nothing registered yields an empty Plan, not an error.
func (r *SystemRegistry) Plan(schedule ScheduleId) (*Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr, ok := r.schedules[schedule]
	if !ok {
		return &Plan{}, nil
	}
	if sr.plan != nil {
		return sr.plan, nil
	}
	plan, err := buildPlan(sr)
	if err != nil {
		return nil, err
	}
	sr.plan = plan
	return plan, nil
}

// Schedules returns every schedule id that has had a system registered
// or a set configured against it, in unspecified order. App.Build
// validates each one.
func (r *SystemRegistry) Schedules() []ScheduleId {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ScheduleId, 0, len(r.schedules))
	for id := range r.schedules {
		ids = append(ids, id)
	}
	return ids
}
