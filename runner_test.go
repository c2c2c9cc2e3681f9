package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type startupSystem struct{}
type firstSystem struct{}
type lastSystem struct{}

func TestRunnerRunStartupRunsStartupTrioOnce(t *testing.T) {
	reg := NewSystemRegistry()
	var count int
	AddSystem[startupSystem](reg, Startup, func(*SystemContext) { count++ })

	sched := NewScheduler(reg)
	defer sched.Close()
	r := NewRunner(NewWorld(), sched)

	require.NoError(t, r.RunStartup())
	require.Equal(t, 1, count)
	require.Equal(t, uint64(0), r.TickCount())
}

func TestRunnerRunTickIncrementsTickCountAndRunsTickSchedules(t *testing.T) {
	reg := NewSystemRegistry()
	var firstRuns, lastRuns int
	AddSystem[firstSystem](reg, First, func(*SystemContext) { firstRuns++ })
	AddSystem[lastSystem](reg, Last, func(*SystemContext) { lastRuns++ })

	sched := NewScheduler(reg)
	defer sched.Close()
	r := NewRunner(NewWorld(), sched)
	require.NoError(t, r.RunStartup())

	require.NoError(t, r.RunTick())
	require.Equal(t, uint64(1), r.TickCount())
	require.Equal(t, 1, firstRuns)
	require.Equal(t, 1, lastRuns)

	require.NoError(t, r.RunTick())
	require.Equal(t, uint64(2), r.TickCount())
	require.Equal(t, 2, firstRuns)
}

func TestRunnerStopEndsLoopBetweenSchedulesNotMidLevel(t *testing.T) {
	reg := NewSystemRegistry()
	sched := NewScheduler(reg)
	defer sched.Close()
	r := NewRunner(NewWorld(), sched)

	AddSystem[firstSystem](reg, First, func(*SystemContext) {
		r.Stop()
	})
	AddSystem[lastSystem](reg, Last, func(*SystemContext) {
		t.Fatal("Last schedule must not run once Stop is requested mid-tick")
	})

	require.NoError(t, r.RunStartup())
	require.NoError(t, r.RunTick())
}

func TestRunnerRunLoopExitsAfterStop(t *testing.T) {
	reg := NewSystemRegistry()
	sched := NewScheduler(reg)
	defer sched.Close()
	r := NewRunner(NewWorld(), sched)

	var ticks int
	AddSystem[firstSystem](reg, First, func(*SystemContext) {
		ticks++
		if ticks >= 3 {
			r.Stop()
		}
	})

	require.NoError(t, r.Run())
	require.GreaterOrEqual(t, ticks, 3)
}
