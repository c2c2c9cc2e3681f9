package ecs

import (
	"reflect"
	"sync"
)

// ComponentTypeId identifies a component type within a process.
type ComponentTypeId uint32

// ResourceTypeId identifies a resource type within a process.
type ResourceTypeId uint32

// SystemTypeId identifies a system type within a process.
type SystemTypeId uint32

// SystemSetId identifies a system set within a process.
type SystemSetId uint32

// ScheduleId identifies a named schedule.
type ScheduleId string

// namedType supplies a display name in place of the registry's
// demangled-name fallback. It is checked on the zero value of T, so a
// type implements it with a value-receiver method: func (T) TypeName()
// string. A pointer-receiver method is seen only when T is the pointer
// type itself.
type namedType interface {
	TypeName() string
}

// typeRegistry assigns dense, process-stable integer ids per type
// category. Ids are assigned on first observation and cached; IdOf is
// referentially transparent for the process lifetime (spec §4.1).
type typeRegistry[Id ~uint32] struct {
	mu    sync.Mutex
	ids   map[reflect.Type]Id
	names map[Id]string
	next  Id
}

func newTypeRegistry[Id ~uint32]() *typeRegistry[Id] {
	return &typeRegistry[Id]{
		ids:   make(map[reflect.Type]Id),
		names: make(map[Id]string),
	}
}

func (r *typeRegistry[Id]) idOf(t reflect.Type, zero any) Id {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id
	}
	r.next++
	id := r.next
	r.ids[t] = id
	r.names[id] = displayNameOf(t, zero)
	return id
}

func (r *typeRegistry[Id]) nameOf(id Id) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[id]
}

func displayNameOf(t reflect.Type, zero any) string {
	if named, ok := zero.(namedType); ok {
		if name := named.TypeName(); name != "" {
			return name
		}
	}
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

var (
	componentTypes = newTypeRegistry[ComponentTypeId]()
	resourceTypes  = newTypeRegistry[ResourceTypeId]()
	systemTypes    = newTypeRegistry[SystemTypeId]()
	systemSetTypes = newTypeRegistry[SystemSetId]()
)

// ComponentTypeOf returns the stable ComponentTypeId for T, assigning one
// on first observation.
func ComponentTypeOf[T any]() ComponentTypeId {
	var zero T
	return componentTypes.idOf(reflect.TypeOf(zero), zero)
}

// ComponentTypeName returns the display name registered for id.
func ComponentTypeName(id ComponentTypeId) string { return componentTypes.nameOf(id) }

// ResourceTypeOf returns the stable ResourceTypeId for T.
func ResourceTypeOf[T any]() ResourceTypeId {
	var zero T
	return resourceTypes.idOf(reflect.TypeOf(zero), zero)
}

// ResourceTypeName returns the display name registered for id.
func ResourceTypeName(id ResourceTypeId) string { return resourceTypes.nameOf(id) }

// SystemTypeOf returns the stable SystemTypeId for T, the marker type
// that names a system in AddSystem, Before and After.
func SystemTypeOf[T any]() SystemTypeId {
	var zero T
	return systemTypes.idOf(reflect.TypeOf(zero), zero)
}

// SystemTypeName returns the display name registered for id.
func SystemTypeName(id SystemTypeId) string { return systemTypes.nameOf(id) }

// SystemSetTypeOf returns the stable SystemSetId for T, a marker type
// used to name a system set.
func SystemSetTypeOf[T any]() SystemSetId {
	var zero T
	return systemSetTypes.idOf(reflect.TypeOf(zero), zero)
}

// SystemSetTypeName returns the display name registered for id.
func SystemSetTypeName(id SystemSetId) string { return systemSetTypes.nameOf(id) }
