package ecs

import "github.com/google/uuid"

// SchedulerObserver receives lifecycle events from a running Scheduler.
// Implementations compose via CompositeObserver; Scheduler itself only
// ever talks to one observer.
type SchedulerObserver interface {
	OnTickStart(schedule ScheduleId, tickID string)
	OnLevelStart(schedule ScheduleId, tickID string, level int, systems []string)
	OnSystemComplete(schedule ScheduleId, tickID string, system string, err error)
	OnBarrier(schedule ScheduleId, tickID string, level int, applied, failed int)
	OnTickComplete(schedule ScheduleId, tickID string)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) OnTickStart(ScheduleId, string)                       {}
func (NopObserver) OnLevelStart(ScheduleId, string, int, []string)       {}
func (NopObserver) OnSystemComplete(ScheduleId, string, string, error)   {}
func (NopObserver) OnBarrier(ScheduleId, string, int, int, int)          {}
func (NopObserver) OnTickComplete(ScheduleId, string)                    {}

var _ SchedulerObserver = NopObserver{}

// CompositeObserver fans a single event out to every wrapped observer, in
// order, so a Scheduler can be wired to logging, metrics, and tracing
// simultaneously without any of them knowing about the others.
type CompositeObserver struct {
	observers []SchedulerObserver
}

// NewCompositeObserver builds a CompositeObserver over obs. A nil entry
// is skipped rather than panicking, so callers can conditionally wire
// observers without filtering the slice themselves.
func NewCompositeObserver(obs ...SchedulerObserver) *CompositeObserver {
	c := &CompositeObserver{}
	for _, o := range obs {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
	return c
}

func (c *CompositeObserver) OnTickStart(schedule ScheduleId, tickID string) {
	for _, o := range c.observers {
		o.OnTickStart(schedule, tickID)
	}
}

func (c *CompositeObserver) OnLevelStart(schedule ScheduleId, tickID string, level int, systems []string) {
	for _, o := range c.observers {
		o.OnLevelStart(schedule, tickID, level, systems)
	}
}

func (c *CompositeObserver) OnSystemComplete(schedule ScheduleId, tickID, system string, err error) {
	for _, o := range c.observers {
		o.OnSystemComplete(schedule, tickID, system, err)
	}
}

func (c *CompositeObserver) OnBarrier(schedule ScheduleId, tickID string, level, applied, failed int) {
	for _, o := range c.observers {
		o.OnBarrier(schedule, tickID, level, applied, failed)
	}
}

func (c *CompositeObserver) OnTickComplete(schedule ScheduleId, tickID string) {
	for _, o := range c.observers {
		o.OnTickComplete(schedule, tickID)
	}
}

var _ SchedulerObserver = (*CompositeObserver)(nil)

// loggingObserver narrates scheduler lifecycle events through a Logger at
// debug level; tick ids are a random uuid per tick, not a counter, so
// logs correlate cleanly across a distributed fleet of identical worlds.
type loggingObserver struct {
	log Logger
}

// NewLoggingObserver wraps log as a SchedulerObserver.
func NewLoggingObserver(log Logger) SchedulerObserver {
	return &loggingObserver{log: log}
}

func (o *loggingObserver) OnTickStart(schedule ScheduleId, tickID string) {
	o.log.Debug("tick start", map[string]any{"schedule": schedule, "tick": tickID})
}

func (o *loggingObserver) OnLevelStart(schedule ScheduleId, tickID string, level int, systems []string) {
	o.log.Debug("level start", map[string]any{"schedule": schedule, "tick": tickID, "level": level, "systems": systems})
}

func (o *loggingObserver) OnSystemComplete(schedule ScheduleId, tickID, system string, err error) {
	if err != nil {
		o.log.Error("system failed", err, map[string]any{"schedule": schedule, "tick": tickID, "system": system})
		return
	}
	o.log.Debug("system complete", map[string]any{"schedule": schedule, "tick": tickID, "system": system})
}

func (o *loggingObserver) OnBarrier(schedule ScheduleId, tickID string, level, applied, failed int) {
	fields := map[string]any{"schedule": schedule, "tick": tickID, "level": level, "applied": applied, "failed": failed}
	if failed > 0 {
		o.log.Warn("barrier applied with failures", fields)
		return
	}
	o.log.Debug("barrier applied", fields)
}

func (o *loggingObserver) OnTickComplete(schedule ScheduleId, tickID string) {
	o.log.Debug("tick complete", map[string]any{"schedule": schedule, "tick": tickID})
}

var _ SchedulerObserver = (*loggingObserver)(nil)

// newTickID returns a fresh random identifier for one schedule run.
func newTickID() string {
	return uuid.NewString()
}
