package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type tickCounter struct{ N int }

func TestInsertAndGetResource(t *testing.T) {
	w := NewWorld()
	InsertResource(w, tickCounter{N: 1})

	r, err := GetResource[tickCounter](w)
	require.NoError(t, err)
	require.Equal(t, 1, r.N)
}

func TestGetResourceMutMutatesInPlace(t *testing.T) {
	w := NewWorld()
	InsertResource(w, tickCounter{N: 0})

	r, err := GetResourceMut[tickCounter](w)
	require.NoError(t, err)
	r.N += 2

	r2, _ := GetResource[tickCounter](w)
	require.Equal(t, 2, r2.N)
}

func TestGetResourceMissingReturnsResourceMissing(t *testing.T) {
	w := NewWorld()
	_, err := GetResource[tickCounter](w)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrResourceMissing)
}

func TestRemoveResource(t *testing.T) {
	w := NewWorld()
	InsertResource(w, tickCounter{N: 1})
	RemoveResource[tickCounter](w)

	_, err := GetResource[tickCounter](w)
	require.ErrorIs(t, err, ErrResourceMissing)
}

func TestMustGetResourcePanicsWhenMissing(t *testing.T) {
	w := NewWorld()
	require.Panics(t, func() { MustGetResource[tickCounter](w) })
}
