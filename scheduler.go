package ecs

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"
)

// Scheduler runs a schedule's Plan against a World: evaluating run
// conditions, dispatching each level across the worker pool, and
// applying queued commands at the barrier between levels in
// SystemTypeId order (spec §4.4, §4.5).
type Scheduler struct {
	registry     *SystemRegistry
	pool         *WorkerPool
	logger       Logger
	metrics      Metrics
	observer     SchedulerObserver
	accessChecks bool
}

// SchedulerOption configures a Scheduler at construction time.
type SchedulerOption func(*Scheduler)

// WithWorkerPoolSize sets the number of goroutines backing the
// scheduler's WorkerPool. Defaults to 1 if never set or set <= 0.
func WithWorkerPoolSize(n int) SchedulerOption {
	return func(s *Scheduler) { s.pool = NewWorkerPool(n) }
}

// WithLogger installs a Logger. Defaults to NopLogger.
func WithLogger(l Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// WithMetrics installs a Metrics sink. Defaults to NopMetrics.
func WithMetrics(m Metrics) SchedulerOption {
	return func(s *Scheduler) { s.metrics = m }
}

// WithObserver installs a SchedulerObserver. Defaults to NopObserver.
func WithObserver(o SchedulerObserver) SchedulerOption {
	return func(s *Scheduler) { s.observer = o }
}

// WithAccessChecks sets the Scheduler's access-check flag. Defaults to
// true. The flag is only recorded: AssertReads*/AssertWrites* are plain
// functions that do not consult it, so they panic on an undeclared
// access whatever its value.
func WithAccessChecks(enabled bool) SchedulerOption {
	return func(s *Scheduler) { s.accessChecks = enabled }
}

// NewScheduler constructs a Scheduler over registry.
func NewScheduler(registry *SystemRegistry, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		registry:     registry,
		logger:       NopLogger{},
		metrics:      NopMetrics{},
		observer:     NopObserver{},
		accessChecks: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = NewWorkerPool(1)
	}
	return s
}

// Close shuts down the scheduler's worker pool, waiting for in-flight
// work to finish.
func (s *Scheduler) Close() { s.pool.Close() }

// BuildSchedule validates and caches schedule's Plan, surfacing any
// ConfigurationError immediately rather than waiting for the first Tick.
// Called by App.Build for every schedule SystemRegistry.Schedules reports.
func (s *Scheduler) BuildSchedule(schedule ScheduleId) error {
	_, err := s.registry.Plan(schedule)
	return err
}

// Tick runs one pass of schedule against world. delta is the elapsed
// time since the previous tick of this schedule, in seconds; tickNum is
// an app-wide monotonically increasing counter threaded through to
// SystemContext.Tick.
func (s *Scheduler) Tick(world *World, schedule ScheduleId, delta float64, tickNum uint64) error {
	plan, err := s.registry.Plan(schedule)
	if err != nil {
		return err
	}
	sr := s.registry.snapshot(schedule)
	if sr == nil || len(plan.Levels) == 0 {
		return nil
	}

	tickID := newTickID()
	start := time.Now()
	s.observer.OnTickStart(schedule, tickID)

	for level, systemIDs := range plan.Levels {
		s.runLevel(world, sr, schedule, tickID, level, systemIDs, delta, tickNum)
	}

	s.observer.OnTickComplete(schedule, tickID)
	s.metrics.ObserveTickDuration(schedule, time.Since(start).Seconds())
	return nil
}

type levelOutcome struct {
	id     SystemTypeId
	buffer *CommandBuffer
	ran    bool
}

func (s *Scheduler) runLevel(world *World, sr *scheduleRegistry, schedule ScheduleId, tickID string, level int, systemIDs []SystemTypeId, delta float64, tickNum uint64) {
	names := make([]string, len(systemIDs))
	for i, id := range systemIDs {
		names[i] = sr.systems[id].Name
	}
	s.observer.OnLevelStart(schedule, tickID, level, names)

	outcomes := make([]levelOutcome, len(systemIDs))
	jobs := make([]job, 0, len(systemIDs))

	for i, id := range systemIDs {
		i, id := i, id
		info := sr.systems[id]
		if !s.conditionsPass(world, sr, info) {
			outcomes[i] = levelOutcome{id: id, ran: false}
			continue
		}
		buf := AcquireCommandBuffer()
		outcomes[i] = levelOutcome{id: id, buffer: buf, ran: true}
		ctx := &SystemContext{
			World:      world,
			Buffer:     buf,
			Delta:      delta,
			Tick:       tickNum,
			Systems:    s.registry,
			systemName: info.Name,
			policy:     info.Policy,
		}
		jobs = append(jobs, func() {
			systemStart := time.Now()
			err := s.runGuarded(info, ctx)
			s.metrics.ObserveSystemDuration(schedule, info.Name, time.Since(systemStart).Seconds())
			s.observer.OnSystemComplete(schedule, tickID, info.Name, err)
			if err != nil {
				s.logger.Error("system failed", err, map[string]any{"schedule": schedule, "system": info.Name})
			} else {
				atomic.AddUint64(&info.ExecutionCount, 1)
			}
		})
	}

	s.pool.RunLevel(jobs)

	applied, failed := s.applyBarrier(world, schedule, level, outcomes)
	s.observer.OnBarrier(schedule, tickID, level, applied, failed)
}

// conditionsPass evaluates both the system's own run conditions and
// those of every set it belongs to.
func (s *Scheduler) conditionsPass(world *World, sr *scheduleRegistry, info *SystemInfo) bool {
	if !sr.conditions.evaluateAll(world, info.conditionIndices) {
		return false
	}
	for _, setID := range info.sets {
		if setInfo, ok := sr.sets[setID]; ok {
			if !sr.conditions.evaluateAll(world, setInfo.conditionIndices) {
				return false
			}
		}
	}
	return true
}

// runGuarded invokes info.Fn, converting a panic into an error so one
// system's bug surfaces as a logged failure rather than crashing the
// tick.
func (s *Scheduler) runGuarded(info *SystemInfo, ctx *SystemContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("system %s panicked: %v", info.Name, r)
		}
	}()
	info.Fn(ctx)
	return nil
}

// applyBarrier flushes every command buffer produced by this level, in
// SystemTypeId ascending order for determinism (spec §4.5), logging and
// skipping individual failures rather than aborting the flush.
func (s *Scheduler) applyBarrier(world *World, schedule ScheduleId, level int, outcomes []levelOutcome) (applied, failed int) {
	ran := make([]levelOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.ran {
			ran = append(ran, o)
		}
	}
	sort.Slice(ran, func(i, j int) bool { return ran[i].id < ran[j].id })

	for _, o := range ran {
		count := o.buffer.Len()
		failures := world.ApplyCommands(o.id, o.buffer)
		applied += count - len(failures)
		failed += len(failures)
		for _, f := range failures {
			s.logger.Warn("command apply failed", map[string]any{
				"schedule": schedule, "level": level, "system": SystemTypeName(f.System), "index": f.Index, "cause": f.Cause.Error(),
			})
		}
		ReleaseCommandBuffer(o.buffer)
	}
	if applied > 0 || failed > 0 {
		s.metrics.IncCommandsApplied(schedule, applied)
		if failed > 0 {
			s.metrics.IncCommandFailures(schedule, failed)
		}
	}
	return applied, failed
}
