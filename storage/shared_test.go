package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type baseStats struct {
	MaxHealth int
}

func TestSharedColumnDedupesEqualValues(t *testing.T) {
	col := NewSharedStrategy().NewColumn()

	a := &baseStats{MaxHealth: 50}
	b := &baseStats{MaxHealth: 50} // distinct pointer, equal value
	c := &baseStats{MaxHealth: 75}

	rowA := col.Append(a)
	rowB := col.Append(b)
	rowC := col.Append(c)

	require.Same(t, col.Get(rowA), col.Get(rowB))
	require.NotSame(t, col.Get(rowA), col.Get(rowC))
}

func TestSharedColumnSwapRemoveReleasesRef(t *testing.T) {
	col := NewSharedStrategy().NewColumn()
	a := &baseStats{MaxHealth: 50}
	col.Append(a)
	col.Append(a)
	require.Equal(t, 2, col.Len())

	col.SwapRemove(0)
	require.Equal(t, 1, col.Len())
	require.Equal(t, a, col.Get(0))
	require.Equal(t, 1, col.(*sharedColumn).byKey[baseStats{MaxHealth: 50}].refs)
}

func TestDenseStrategyNamesItself(t *testing.T) {
	require.Equal(t, "dense", NewDenseStrategy().Name())
	require.Equal(t, "shared", NewSharedStrategy().Name())
}
