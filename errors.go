package ecs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed wrappers below carry structured fields; callers
// that only need the error kind can still errors.Is against these.
var (
	// ErrComponentAlreadyRegistered indicates an attempt to register the
	// same component storage strategy twice.
	ErrComponentAlreadyRegistered = errors.New("ecs: component already registered")
	// ErrComponentNotRegistered signals lookup on an unknown component type.
	ErrComponentNotRegistered = errors.New("ecs: component not registered")
	// ErrNilStorageStrategy is returned when storage registration receives a nil strategy.
	ErrNilStorageStrategy = errors.New("ecs: nil storage strategy")
	// ErrWorkerPoolClosed indicates jobs cannot be submitted because the pool closed.
	ErrWorkerPoolClosed = errors.New("ecs: worker pool closed")

	// ErrCycle is the sentinel behind ConfigurationError cycle reports.
	ErrCycle = errors.New("ecs: ordering cycle")
	// ErrUnknownSet is the sentinel behind ConfigurationError unknown-set reports.
	ErrUnknownSet = errors.New("ecs: unknown system set")
	// ErrUnresolvableConflict is the sentinel behind the ConfigurationError
	// registerStrategy returns for a component type id at or past the
	// storage bitset capacity. Access conflicts never produce it: the
	// planner orders every conflicting pair with a tie-break edge.
	ErrUnresolvableConflict = errors.New("ecs: unresolvable access conflict")

	// ErrAccessViolation is the sentinel behind AccessViolation.
	ErrAccessViolation = errors.New("ecs: access outside declared policy")

	// ErrEntityStale indicates an operation targeted a despawned entity.
	// Lookups such as GetComponent and HasComponent report absence instead
	// of returning it. InsertComponentNow and commands applied to a stale
	// entity return it wrapped; at a barrier those command failures are
	// logged and skipped as CommandApplyError.
	ErrEntityStale = errors.New("ecs: entity is stale")

	// ErrResourceMissing is the sentinel behind ResourceMissing.
	ErrResourceMissing = errors.New("ecs: resource not installed")

	// ErrCommandApplyFailed is the sentinel behind CommandApplyError.
	ErrCommandApplyFailed = errors.New("ecs: command application failed")
)

// ConfigurationError reports a fatal misconfiguration: at Build() time,
// a cycle in the ordering graph or a set's before/after naming a set
// that has no member systems; at strategy registration, a component type
// id past the storage bitset capacity (spec §7). A system's membership
// in a set that was never configured is not reported. It names every
// offending system/set for diagnosis.
type ConfigurationError struct {
	Sentinel error
	Systems  []string
	Sets     []string
	Detail   string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("ecs: configuration error: ")
	b.WriteString(e.Detail)
	if len(e.Systems) > 0 {
		b.WriteString(" systems=[")
		b.WriteString(strings.Join(e.Systems, ", "))
		b.WriteString("]")
	}
	if len(e.Sets) > 0 {
		b.WriteString(" sets=[")
		b.WriteString(strings.Join(e.Sets, ", "))
		b.WriteString("]")
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Sentinel }

func newCycleError(cycle []string) *ConfigurationError {
	return &ConfigurationError{
		Sentinel: ErrCycle,
		Systems:  cycle,
		Detail:   fmt.Sprintf("ordering cycle among %d systems", len(cycle)),
	}
}

func newUnknownSetError(set string, unknown SystemSetId) *ConfigurationError {
	return &ConfigurationError{
		Sentinel: ErrUnknownSet,
		Sets:     []string{set, SystemSetTypeName(unknown)},
		Detail:   "set ordering names a set with no member systems",
	}
}

// AccessViolation reports a system requesting access outside its
// declared AccessPolicy. The AssertReads*/AssertWrites* helpers panic
// with it; WithAccessChecks(false) does not disable them.
type AccessViolation struct {
	System string
	Kind   string // "component-read", "component-write", "resource-read", "resource-write"
	Target string
}

func (e *AccessViolation) Error() string {
	return fmt.Sprintf("ecs: system %s attempted undeclared %s access to %s", e.System, e.Kind, e.Target)
}

func (e *AccessViolation) Unwrap() error { return ErrAccessViolation }

// ResourceMissing reports a read/write of an uninstalled resource.
// Always fatal: modules must declare their resource dependencies.
type ResourceMissing struct {
	Resource ResourceTypeId
}

func (e *ResourceMissing) Error() string {
	name := ResourceTypeName(e.Resource)
	if name == "" {
		name = fmt.Sprintf("#%d", e.Resource)
	}
	return fmt.Sprintf("ecs: resource %s not installed", name)
}

func (e *ResourceMissing) Unwrap() error { return ErrResourceMissing }

// CommandApplyError reports a single command that failed to apply during
// a barrier flush, e.g. inserting a component on an entity despawned
// earlier in the same tick. It is logged and skipped; it never aborts
// the tick (spec §7).
type CommandApplyError struct {
	System SystemTypeId
	Index  int
	Cause  error
}

func (e *CommandApplyError) Error() string {
	return fmt.Sprintf("ecs: command %d from system %s failed: %v", e.Index, SystemTypeName(e.System), e.Cause)
}

func (e *CommandApplyError) Unwrap() error { return ErrCommandApplyFailed }
