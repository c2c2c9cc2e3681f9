package ecs

// Column is a single component type's storage within one archetype: a
// row-indexed, append/swap-remove sequence of boxed values, one slot per
// entity row (spec §4.2 — "contiguous columns, one per component type,
// indexed by a row number"). Values flowing through a Column are always
// a boxed *T (see InsertComponent); the column itself is type-erased and
// only moves data around.
type Column interface {
	Len() int
	Get(row int) any
	Set(row int, value any)
	Append(value any) (row int)
	// SwapRemove deletes row by moving the last row into its place (or
	// simply truncating if row is already last) and shrinking by one.
	SwapRemove(row int)
}

// StorageStrategy selects a Column implementation for a component type.
// Components default to the dense strategy unless RegisterComponentStrategy
// (or WithComponentStrategy) opts
// them into an alternative such as the deduplicating shared strategy in
// the storage subpackage, applied here per-column within an archetype
// rather than per global component table.
type StorageStrategy interface {
	Name() string
	NewColumn() Column
}

type denseStrategy struct{}

// NewDenseStrategy returns the default column strategy: one slot per
// row, no deduplication.
func NewDenseStrategy() StorageStrategy { return denseStrategy{} }

func (denseStrategy) Name() string      { return "dense" }
func (denseStrategy) NewColumn() Column { return &denseColumn{} }

type denseColumn struct {
	values []any
}

func (c *denseColumn) Len() int { return len(c.values) }

func (c *denseColumn) Get(row int) any { return c.values[row] }

func (c *denseColumn) Set(row int, value any) { c.values[row] = value }

func (c *denseColumn) Append(value any) int {
	c.values = append(c.values, value)
	return len(c.values) - 1
}

func (c *denseColumn) SwapRemove(row int) {
	last := len(c.values) - 1
	if row != last {
		c.values[row] = c.values[last]
	}
	c.values[last] = nil
	c.values = c.values[:last]
}

var _ Column = (*denseColumn)(nil)
