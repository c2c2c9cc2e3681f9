package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorldSpawnNowAndQuery1(t *testing.T) {
	w := NewWorld()
	a := w.SpawnNow()
	require.NoError(t, InsertComponentNow(w, a, posComponent{X: 1, Y: 1}))
	b := w.SpawnNow()
	require.NoError(t, InsertComponentNow(w, b, posComponent{X: 2, Y: 2}))

	var seen []Entity
	for e, p := range Query1[posComponent](w) {
		seen = append(seen, e)
		p.X *= 10 // confirm the yielded pointer aliases live storage
	}
	require.ElementsMatch(t, []Entity{a, b}, seen)

	pa, _ := GetComponent[posComponent](w, a)
	require.Equal(t, 10.0, pa.X)
}

func TestWorldQuery2OnlyMatchesBothTypes(t *testing.T) {
	w := NewWorld()
	both := w.SpawnNow()
	require.NoError(t, InsertComponentNow(w, both, posComponent{}))
	require.NoError(t, InsertComponentNow(w, both, velComponent{X: 1}))

	onlyPos := w.SpawnNow()
	require.NoError(t, InsertComponentNow(w, onlyPos, posComponent{}))

	var matched []Entity
	for e := range w.Query(ComponentTypeOf[posComponent](), ComponentTypeOf[velComponent]()) {
		matched = append(matched, e)
	}
	require.Equal(t, []Entity{both}, matched)
}

func TestWorldApplyCommandsReportsFailuresWithoutAborting(t *testing.T) {
	w := NewWorld()
	var a Entity
	buf := AcquireCommandBuffer()
	defer ReleaseCommandBuffer(buf)

	stale := Entity{index: 123, generation: 1}
	buf.Push(Spawn(&a))
	buf.Push(RemoveComponent[posComponent](stale)) // not alive: recorded as a failure, not fatal
	buf.Push(InsertComponent(stale, posComponent{}))

	failures := w.ApplyCommands(SystemTypeId(1), buf)
	require.True(t, w.IsAlive(a)) // the spawn before the bad commands still applied
	require.Len(t, failures, 2)
	for _, f := range failures {
		require.ErrorIs(t, f.Cause, ErrEntityStale)
	}
}

func TestWorldDespawnNowRemovesFromQuery(t *testing.T) {
	w := NewWorld()
	a := w.SpawnNow()
	require.NoError(t, InsertComponentNow(w, a, posComponent{}))
	require.True(t, w.DespawnNow(a))

	var count int
	for range Query1[posComponent](w) {
		count++
	}
	require.Equal(t, 0, count)
}
