package ecs

import (
	"sync/atomic"
	"time"
)

// Runner drives the well-known schedule sequence against a World and
// Scheduler: PreStartup/Startup/PostStartup exactly once, then
// First/PreUpdate/Update/PostUpdate/Last every tick until stopped (spec
// §5). It tracks wall-clock delta time and a monotonically increasing
// tick counter.
type Runner struct {
	world     *World
	scheduler *Scheduler
	stop      atomic.Bool
	tick      uint64
	lastTick  time.Time
}

// NewRunner constructs a Runner over world and scheduler.
func NewRunner(world *World, scheduler *Scheduler) *Runner {
	return &Runner{world: world, scheduler: scheduler}
}

// RunStartup runs the startup trio once, in order. Call it exactly once,
// before the first RunTick.
func (r *Runner) RunStartup() error {
	for _, sched := range startupSchedules {
		if err := r.scheduler.Tick(r.world, sched, 0, r.tick); err != nil {
			return err
		}
	}
	r.lastTick = r.now()
	return nil
}

// now reads the wall clock; RunStartup and RunTick take every timestamp
// through it.
func (r *Runner) now() time.Time { return time.Now() }

// RunTick runs First through Last once, computing delta as the elapsed
// time since the previous RunTick (or RunStartup, for the first call),
// and increments the tick counter.
func (r *Runner) RunTick() error {
	now := r.now()
	delta := now.Sub(r.lastTick).Seconds()
	r.lastTick = now
	r.tick++
	for _, sched := range tickSchedules {
		if r.stop.Load() {
			return nil
		}
		if err := r.scheduler.Tick(r.world, sched, delta, r.tick); err != nil {
			return err
		}
	}
	return nil
}

// Run calls RunStartup once, then RunTick in a loop until Stop is
// called or a schedule returns an error. The stop flag is only checked
// between schedules, never mid-level, so a level's join barrier always
// completes (spec §5 — cooperative stop).
func (r *Runner) Run() error {
	if err := r.RunStartup(); err != nil {
		return err
	}
	for !r.stop.Load() {
		if err := r.RunTick(); err != nil {
			return err
		}
	}
	return nil
}

// Stop requests the run loop exit after the current schedule finishes.
func (r *Runner) Stop() { r.stop.Store(true) }

// TickCount returns how many ticks RunTick has begun, counting one that
// Stop cut short.
func (r *Runner) TickCount() uint64 { return r.tick }
