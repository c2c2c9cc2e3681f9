package ecs

// Module is the unit of composition applications are built from: it
// registers systems, resources, and sets against an App during Build,
// and releases anything it owns during Destroy.
type Module interface {
	Build(app *App) error
	Destroy(app *App) error
}

// App wires a World, a SystemRegistry, and a Scheduler together and
// drives them through a Runner. It is the top-level entry point a
// program constructs once at startup.
type App struct {
	World     *World
	Systems   *SystemRegistry
	Scheduler *Scheduler
	Runner    *Runner

	modules []Module
}

// AppOption configures an App at construction time.
type AppOption func(*appConfig)

type appConfig struct {
	worldOpts     []WorldOption
	schedulerOpts []SchedulerOption
}

// WithWorldOptions forwards opts to NewWorld.
func WithWorldOptions(opts ...WorldOption) AppOption {
	return func(c *appConfig) { c.worldOpts = append(c.worldOpts, opts...) }
}

// WithSchedulerOptions forwards opts to NewScheduler.
func WithSchedulerOptions(opts ...SchedulerOption) AppOption {
	return func(c *appConfig) { c.schedulerOpts = append(c.schedulerOpts, opts...) }
}

// NewApp constructs an App with a fresh World, SystemRegistry, Scheduler,
// and Runner.
func NewApp(opts ...AppOption) *App {
	cfg := &appConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	world := NewWorld(cfg.worldOpts...)
	systems := NewSystemRegistry()
	scheduler := NewScheduler(systems, cfg.schedulerOpts...)
	app := &App{
		World:     world,
		Systems:   systems,
		Scheduler: scheduler,
	}
	app.Runner = NewRunner(world, scheduler)
	return app
}

// AddModule calls m.Build(app) and records m so Shutdown can later call
// m.Destroy. A module's Build error aborts AddModule immediately; no
// partial module is recorded.
func (a *App) AddModule(m Module) error {
	if err := m.Build(a); err != nil {
		return err
	}
	a.modules = append(a.modules, m)
	return nil
}

// Build validates every schedule with a registered system or a configured
// set, surfacing ConfigurationErrors (cycles, unknown sets) before the
// first tick rather than mid-run (spec §7).
func (a *App) Build() error {
	for _, schedule := range a.Systems.Schedules() {
		if err := a.Scheduler.BuildSchedule(schedule); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown calls Destroy on every added module in reverse registration
// order, then closes the Scheduler's worker pool.
func (a *App) Shutdown() error {
	var firstErr error
	for i := len(a.modules) - 1; i >= 0; i-- {
		if err := a.modules[i].Destroy(a); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.Scheduler.Close()
	return firstErr
}
