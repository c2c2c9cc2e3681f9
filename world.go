package ecs

// World owns every entity, component, and resource in a single ECS
// instance. It has no opinion on scheduling; Scheduler and Runner drive
// systems against it (spec §3).
type World struct {
	entities  *EntityRegistry
	storage   *archetypeStore
	resources *ResourceContainer
}

// WorldOption configures a World at construction time, following the
// same functional-options shape used for SchedulerOption.
type WorldOption func(*World)

// WithComponentStrategy opts component type T into a non-default storage
// strategy (e.g. a deduplicating shared strategy) before the world is
// used. Panics if T already has a registered strategy (the same one or a
// different one), if strategy is nil, or if T's id is past the bitset
// capacity.
func WithComponentStrategy[T any](strategy StorageStrategy) WorldOption {
	return func(w *World) {
		if err := w.storage.registerStrategy(ComponentTypeOf[T](), strategy); err != nil {
			panic(err)
		}
	}
}

// NewWorld constructs an empty World ready to receive entities,
// components, and resources.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		entities:  NewEntityRegistry(),
		storage:   newArchetypeStore(),
		resources: newResourceContainer(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry exposes the entity allocator directly, for callers that need
// liveness checks outside of commands (e.g. tests, observability).
func (w *World) Registry() *EntityRegistry { return w.entities }

// Resources exposes the resource container directly.
func (w *World) Resources() *ResourceContainer { return w.resources }

// SpawnNow creates an entity immediately, bypassing the command buffer.
// Intended for world setup before the first tick (Module.Build, tests);
// systems should use the Spawn command instead so structural changes
// stay confined to barriers.
func (w *World) SpawnNow() Entity {
	id := w.entities.Create()
	w.storage.onSpawn(id)
	return id
}

// DespawnNow destroys an entity immediately. See SpawnNow.
func (w *World) DespawnNow(id Entity) bool {
	if !w.entities.Destroy(id) {
		return false
	}
	w.storage.onDespawn(id)
	return true
}

// IsAlive reports whether id refers to a live entity.
func (w *World) IsAlive(id Entity) bool { return w.entities.IsAlive(id) }

// RegisterComponentStrategy opts component type T into strategy after
// the World already exists. Must be called before T is first inserted;
// use WithComponentStrategy instead when the strategy is known at
// NewWorld time.
func RegisterComponentStrategy[T any](w *World, strategy StorageStrategy) error {
	return w.storage.registerStrategy(ComponentTypeOf[T](), strategy)
}

// InsertComponentNow attaches v to id immediately, bypassing the command
// buffer. See SpawnNow for when this is appropriate.
func InsertComponentNow[T any](w *World, id Entity, v T) error {
	boxed := new(T)
	*boxed = v
	return w.storage.insert(id, ComponentTypeOf[T](), boxed)
}

// RemoveComponentNow detaches T from id immediately.
func RemoveComponentNow[T any](w *World, id Entity) {
	w.storage.remove(id, ComponentTypeOf[T]())
}

// GetComponent returns a pointer to id's T component, or false if id is
// stale or lacks T. The pointer aliases live storage: mutation is
// visible immediately to anything holding the same pointer.
func GetComponent[T any](w *World, id Entity) (*T, bool) {
	v, ok := w.storage.get(id, ComponentTypeOf[T]())
	if !ok {
		return nil, false
	}
	typed, ok := v.(*T)
	if !ok {
		return nil, false
	}
	return typed, true
}

// GetComponentMut is an alias for GetComponent: Go has no const-pointer
// distinction, so the read/write split is enforced by AccessPolicy at
// plan-validation time, not by the returned type.
func GetComponentMut[T any](w *World, id Entity) (*T, bool) { return GetComponent[T](w, id) }

// HasComponent reports whether id currently carries T.
func HasComponent[T any](w *World, id Entity) bool {
	return w.storage.has(id, ComponentTypeOf[T]())
}

// Query iterates live entities whose archetype carries every component
// type in ids, archetype-major then row-ascending (spec §4.2). Use the
// generic Query1/Query2 helpers for typed access to the matched
// components.
func (w *World) Query(ids ...ComponentTypeId) func(func(Entity) bool) {
	return w.storage.query(ids)
}

// Query1 iterates entities carrying A, yielding a direct pointer into
// storage for in-place mutation.
func Query1[A any](w *World) func(func(Entity, *A) bool) {
	idA := ComponentTypeOf[A]()
	return func(yield func(Entity, *A) bool) {
		for e := range w.Query(idA) {
			a, ok := GetComponent[A](w, e)
			if !ok {
				continue
			}
			if !yield(e, a) {
				return
			}
		}
	}
}

// Query2 iterates entities carrying both A and B.
func Query2[A, B any](w *World) func(func(Entity, *A, *B) bool) {
	idA, idB := ComponentTypeOf[A](), ComponentTypeOf[B]()
	return func(yield func(Entity, *A, *B) bool) {
		for e := range w.Query(idA, idB) {
			a, ok := GetComponent[A](w, e)
			if !ok {
				continue
			}
			b, ok := GetComponent[B](w, e)
			if !ok {
				continue
			}
			if !yield(e, a, b) {
				return
			}
		}
	}
}

// Query3 iterates entities carrying A, B, and C.
func Query3[A, B, C any](w *World) func(func(Entity, *A, *B, *C) bool) {
	idA, idB, idC := ComponentTypeOf[A](), ComponentTypeOf[B](), ComponentTypeOf[C]()
	return func(yield func(Entity, *A, *B, *C) bool) {
		for e := range w.Query(idA, idB, idC) {
			a, ok := GetComponent[A](w, e)
			if !ok {
				continue
			}
			b, ok := GetComponent[B](w, e)
			if !ok {
				continue
			}
			c, ok := GetComponent[C](w, e)
			if !ok {
				continue
			}
			if !yield(e, a, b, c) {
				return
			}
		}
	}
}

// ApplyCommands flushes a command buffer against the world in order,
// recording any per-command failure as a CommandApplyError without
// aborting the remaining commands (spec §7).
func (w *World) ApplyCommands(system SystemTypeId, buf *CommandBuffer) []*CommandApplyError {
	var failures []*CommandApplyError
	buf.Drain(func(i int, cmd Command) {
		if err := cmd.Apply(w); err != nil {
			failures = append(failures, &CommandApplyError{System: system, Index: i, Cause: err})
		}
	})
	return failures
}
