package ecs

import "sync"

// ResourceContainer holds shared, type-keyed singleton values accessible
// to systems (spec §3). There is at most one instance per
// ResourceTypeId; it is borrowed shared or exclusive per tick under the
// governance of each system's AccessPolicy, never copied by the
// container itself.
type ResourceContainer struct {
	mu     sync.RWMutex
	values map[ResourceTypeId]any
}

func newResourceContainer() *ResourceContainer {
	return &ResourceContainer{values: make(map[ResourceTypeId]any)}
}

// Get returns the raw value stored for id, if any.
func (r *ResourceContainer) Get(id ResourceTypeId) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[id]
	return v, ok
}

// Set installs or replaces the value stored for id.
func (r *ResourceContainer) Set(id ResourceTypeId, value any) {
	r.mu.Lock()
	r.values[id] = value
	r.mu.Unlock()
}

// Delete removes the value stored for id, if any.
func (r *ResourceContainer) Delete(id ResourceTypeId) {
	r.mu.Lock()
	delete(r.values, id)
	r.mu.Unlock()
}

// Range iterates the container's contents in unspecified order until fn
// returns false.
func (r *ResourceContainer) Range(fn func(ResourceTypeId, any) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for k, v := range r.values {
		if !fn(k, v) {
			return
		}
	}
}

// InsertResource installs a resource on the world, keyed by its static
// type. The value is boxed once so GetResource/GetResourceMut can hand
// out a stable pointer for in-place mutation — Go has no const-pointer
// distinction, so read vs. write is a declared AccessPolicy concern, not
// a compiler-enforced one (spec §4.2). Modules call this at Build() time;
// command buffers call it at flush time via insertResourceCommand.
func InsertResource[T any](w *World, value T) {
	boxed := new(T)
	*boxed = value
	w.resources.Set(ResourceTypeOf[T](), boxed)
}

// GetResource returns a pointer to the installed resource, or
// ResourceMissing if none was installed (spec §7: always fatal — callers
// are expected to propagate or panic; the container itself only reports
// absence).
func GetResource[T any](w *World) (*T, error) {
	v, ok := w.resources.Get(ResourceTypeOf[T]())
	if !ok {
		return nil, &ResourceMissing{Resource: ResourceTypeOf[T]()}
	}
	typed, ok := v.(*T)
	if !ok {
		return nil, &ResourceMissing{Resource: ResourceTypeOf[T]()}
	}
	return typed, nil
}

// GetResourceMut is an alias for GetResource: both read and write access
// observe the same boxed value, with AccessPolicy governing who is
// permitted to call which at plan-validation time.
func GetResourceMut[T any](w *World) (*T, error) { return GetResource[T](w) }

// MustGetResource panics if the resource is missing. Intended for use at
// Build() time where missing resources are a programmer error.
func MustGetResource[T any](w *World) *T {
	v, err := GetResource[T](w)
	if err != nil {
		panic(err)
	}
	return v
}

// RemoveResource uninstalls the resource for T, if any.
func RemoveResource[T any](w *World) {
	w.resources.Delete(ResourceTypeOf[T]())
}
