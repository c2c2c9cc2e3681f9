package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) OnTickStart(ScheduleId, string) { r.events = append(r.events, "tick-start") }
func (r *recordingObserver) OnLevelStart(ScheduleId, string, int, []string) {
	r.events = append(r.events, "level-start")
}
func (r *recordingObserver) OnSystemComplete(ScheduleId, string, string, error) {
	r.events = append(r.events, "system-complete")
}
func (r *recordingObserver) OnBarrier(ScheduleId, string, int, int, int) {
	r.events = append(r.events, "barrier")
}
func (r *recordingObserver) OnTickComplete(ScheduleId, string) {
	r.events = append(r.events, "tick-complete")
}

func TestCompositeObserverFansOutToEveryMember(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	composite := NewCompositeObserver(a, nil, b)

	composite.OnTickStart(Update, "tick-1")
	composite.OnLevelStart(Update, "tick-1", 0, []string{"sys"})
	composite.OnSystemComplete(Update, "tick-1", "sys", nil)
	composite.OnBarrier(Update, "tick-1", 0, 1, 0)
	composite.OnTickComplete(Update, "tick-1")

	want := []string{"tick-start", "level-start", "system-complete", "barrier", "tick-complete"}
	require.Equal(t, want, a.events)
	require.Equal(t, want, b.events)
}

func TestNopObserverDiscardsEverything(t *testing.T) {
	var o SchedulerObserver = NopObserver{}
	require.NotPanics(t, func() {
		o.OnTickStart(Update, "t")
		o.OnLevelStart(Update, "t", 0, nil)
		o.OnSystemComplete(Update, "t", "sys", errors.New("boom"))
		o.OnBarrier(Update, "t", 0, 0, 0)
		o.OnTickComplete(Update, "t")
	})
}

func TestLoggingObserverWarnsOnBarrierFailures(t *testing.T) {
	spy := &capturingLogger{}
	obs := NewLoggingObserver(spy)

	obs.OnBarrier(Update, "tick-1", 0, 2, 0)
	obs.OnBarrier(Update, "tick-1", 1, 0, 3)

	require.Equal(t, 1, spy.debugCount)
	require.Equal(t, 1, spy.warnCount)
}

type capturingLogger struct {
	debugCount int
	warnCount  int
}

func (c *capturingLogger) Debug(string, map[string]any)        { c.debugCount++ }
func (c *capturingLogger) Info(string, map[string]any)         {}
func (c *capturingLogger) Warn(string, map[string]any)         { c.warnCount++ }
func (c *capturingLogger) Error(string, error, map[string]any) {}

func TestNewTickIDProducesDistinctValues(t *testing.T) {
	a := newTickID()
	b := newTickID()
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}
