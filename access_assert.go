package ecs

// AssertReadsComponent panics with an AccessViolation if the running
// system did not declare read (or write) access to T. Call it from
// inside a system body around component access that isn't already
// mediated by a typed helper — an opt-in guard rather than mandatory
// interception of every Get/Set, since the Plan's conflict detection is
// what actually keeps concurrent access safe; this only catches a
// mismatch between a system's declared policy and what it actually
// touches (spec §7 — AccessViolation, fatal in debug builds).
func AssertReadsComponent[T any](ctx *SystemContext) {
	id := ComponentTypeOf[T]()
	if _, ok := ctx.policy.ComponentReads[id]; ok {
		return
	}
	if _, ok := ctx.policy.ComponentWrites[id]; ok {
		return
	}
	panic(&AccessViolation{System: ctx.systemName, Kind: "component-read", Target: ComponentTypeName(id)})
}

// AssertWritesComponent panics with an AccessViolation if the running
// system did not declare write access to T.
func AssertWritesComponent[T any](ctx *SystemContext) {
	id := ComponentTypeOf[T]()
	if _, ok := ctx.policy.ComponentWrites[id]; ok {
		return
	}
	panic(&AccessViolation{System: ctx.systemName, Kind: "component-write", Target: ComponentTypeName(id)})
}

// AssertReadsResource panics with an AccessViolation if the running
// system did not declare read (or write) access to resource T.
func AssertReadsResource[T any](ctx *SystemContext) {
	id := ResourceTypeOf[T]()
	if _, ok := ctx.policy.ResourceReads[id]; ok {
		return
	}
	if _, ok := ctx.policy.ResourceWrites[id]; ok {
		return
	}
	panic(&AccessViolation{System: ctx.systemName, Kind: "resource-read", Target: ResourceTypeName(id)})
}

// AssertWritesResource panics with an AccessViolation if the running
// system did not declare write access to resource T.
func AssertWritesResource[T any](ctx *SystemContext) {
	id := ResourceTypeOf[T]()
	if _, ok := ctx.policy.ResourceWrites[id]; ok {
		return
	}
	panic(&AccessViolation{System: ctx.systemName, Kind: "resource-write", Target: ResourceTypeName(id)})
}
