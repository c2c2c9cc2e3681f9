package storage

import (
	"reflect"

	ecs "github.com/solenoid-ecs/solenoid"
)

// sharedEntry is a single interned value and its row refcount.
type sharedEntry struct {
	value any
	refs  int
}

type sharedStrategy struct{}

// NewSharedStrategy returns a column strategy that deduplicates equal
// component values behind a single shared boxed instance, refcounted per
// row. Intended for components whose value is identical across many
// entities — shared base stats, a tag payload — where dense's one slot
// per row wastes memory copying the same data repeatedly.
//
// Values must be comparable once dereferenced; values that aren't
// (slices, maps, funcs) fall back to dense-equivalent behavior for that
// row, since there is no key to dedupe on.
func NewSharedStrategy() ecs.StorageStrategy { return sharedStrategy{} }

func (sharedStrategy) Name() string          { return "shared" }
func (sharedStrategy) NewColumn() ecs.Column { return &sharedColumn{byKey: make(map[any]*sharedEntry)} }

type sharedColumn struct {
	values []any
	byKey  map[any]*sharedEntry
}

func dedupKey(v any) (key any, ok bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	elem := rv.Elem()
	if !elem.CanInterface() || !elem.Comparable() {
		return nil, false
	}
	return elem.Interface(), true
}

func (c *sharedColumn) intern(v any) any {
	key, ok := dedupKey(v)
	if !ok {
		return v
	}
	if e, found := c.byKey[key]; found {
		e.refs++
		return e.value
	}
	c.byKey[key] = &sharedEntry{value: v, refs: 1}
	return v
}

func (c *sharedColumn) release(v any) {
	key, ok := dedupKey(v)
	if !ok {
		return
	}
	if e, found := c.byKey[key]; found {
		e.refs--
		if e.refs <= 0 {
			delete(c.byKey, key)
		}
	}
}

func (c *sharedColumn) Len() int { return len(c.values) }

func (c *sharedColumn) Get(row int) any { return c.values[row] }

func (c *sharedColumn) Set(row int, value any) {
	c.release(c.values[row])
	c.values[row] = c.intern(value)
}

func (c *sharedColumn) Append(value any) int {
	c.values = append(c.values, c.intern(value))
	return len(c.values) - 1
}

func (c *sharedColumn) SwapRemove(row int) {
	c.release(c.values[row])
	last := len(c.values) - 1
	if row != last {
		c.values[row] = c.values[last]
	}
	c.values[last] = nil
	c.values = c.values[:last]
}

var _ ecs.Column = (*sharedColumn)(nil)
