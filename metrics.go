package ecs

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the capability interface the scheduler reports tick/system
// timing and counts through. A Prometheus-backed implementation is
// provided below; tests typically use a no-op.
type Metrics interface {
	ObserveTickDuration(schedule ScheduleId, seconds float64)
	ObserveSystemDuration(schedule ScheduleId, system string, seconds float64)
	IncCommandsApplied(schedule ScheduleId, count int)
	IncCommandFailures(schedule ScheduleId, count int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ObserveTickDuration(ScheduleId, float64)         {}
func (NopMetrics) ObserveSystemDuration(ScheduleId, string, float64) {}
func (NopMetrics) IncCommandsApplied(ScheduleId, int)              {}
func (NopMetrics) IncCommandFailures(ScheduleId, int)              {}

var _ Metrics = NopMetrics{}

// PrometheusMetrics registers and updates a small set of Prometheus
// collectors: a tick-duration histogram, a per-system duration
// histogram, and two monotonic counters for command application
// outcomes.
type PrometheusMetrics struct {
	tickDuration    *prometheus.HistogramVec
	systemDuration  *prometheus.HistogramVec
	commandsApplied *prometheus.CounterVec
	commandFailures *prometheus.CounterVec
}

// NewPrometheusMetrics constructs collectors and registers them against
// reg. Pass prometheus.DefaultRegisterer for the global registry, or a
// fresh *prometheus.Registry in tests to avoid collisions across cases.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		tickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solenoid",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of a full schedule run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"schedule"}),
		systemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solenoid",
			Name:      "system_duration_seconds",
			Help:      "Wall-clock duration of a single system invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"schedule", "system"}),
		commandsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solenoid",
			Name:      "commands_applied_total",
			Help:      "Commands successfully applied at a barrier.",
		}, []string{"schedule"}),
		commandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solenoid",
			Name:      "command_failures_total",
			Help:      "Commands that failed to apply at a barrier.",
		}, []string{"schedule"}),
	}
	reg.MustRegister(m.tickDuration, m.systemDuration, m.commandsApplied, m.commandFailures)
	return m
}

func (m *PrometheusMetrics) ObserveTickDuration(schedule ScheduleId, seconds float64) {
	m.tickDuration.WithLabelValues(string(schedule)).Observe(seconds)
}

func (m *PrometheusMetrics) ObserveSystemDuration(schedule ScheduleId, system string, seconds float64) {
	m.systemDuration.WithLabelValues(string(schedule), system).Observe(seconds)
}

func (m *PrometheusMetrics) IncCommandsApplied(schedule ScheduleId, count int) {
	m.commandsApplied.WithLabelValues(string(schedule)).Add(float64(count))
}

func (m *PrometheusMetrics) IncCommandFailures(schedule ScheduleId, count int) {
	m.commandFailures.WithLabelValues(string(schedule)).Add(float64(count))
}

var _ Metrics = (*PrometheusMetrics)(nil)
