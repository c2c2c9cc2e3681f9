package ecs

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the capability interface the scheduler logs through. It is
// small and structured-field based rather than a class hierarchy, so any
// backend — zerolog, a test spy, a no-op — can satisfy it directly.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, err error, fields map[string]any)
}

// NopLogger discards everything. Used as the Scheduler default so tests
// and one-off programs don't need to wire a backend.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]any)        {}
func (NopLogger) Info(string, map[string]any)         {}
func (NopLogger) Warn(string, map[string]any)         {}
func (NopLogger) Error(string, error, map[string]any) {}

var _ Logger = NopLogger{}

// zerologLogger adapts Logger onto zerolog.Logger, the structured logger
// used throughout this module's ambient stack.
type zerologLogger struct {
	z zerolog.Logger
}

// NewZerologLogger wraps z as a Logger. Passing zerolog.Nop() yields a
// Logger equivalent to NopLogger but routed through the same code path,
// useful when callers want a single logging backend end to end.
func NewZerologLogger(z zerolog.Logger) Logger {
	return &zerologLogger{z: z}
}

// NewConsoleLogger returns a human-readable, colorized zerolog backend
// writing to stderr. The Scheduler does not use it unless WithLogger
// installs it; its default is NopLogger.
func NewConsoleLogger(level zerolog.Level) Logger {
	z := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	return NewZerologLogger(z)
}

func withFields(e *zerolog.Event, fields map[string]any) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}

func (l *zerologLogger) Debug(msg string, fields map[string]any) {
	withFields(l.z.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields map[string]any) {
	withFields(l.z.Info(), fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields map[string]any) {
	withFields(l.z.Warn(), fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, err error, fields map[string]any) {
	withFields(l.z.Error().Err(err), fields).Msg(msg)
}

var _ Logger = (*zerologLogger)(nil)
