package ecs

// Well-known schedule ids, run by Runner in this fixed order every
// frame: the PreStartup/Startup/PostStartup trio runs exactly once, then
// First through Last repeat every tick (spec §5).
const (
	PreStartup  ScheduleId = "pre-startup"
	Startup     ScheduleId = "startup"
	PostStartup ScheduleId = "post-startup"

	First      ScheduleId = "first"
	PreUpdate  ScheduleId = "pre-update"
	Update     ScheduleId = "update"
	PostUpdate ScheduleId = "post-update"
	Last       ScheduleId = "last"

	// Render is not driven by Runner's default loop; modules that render
	// schedule it explicitly once per frame after Last.
	Render ScheduleId = "render"
)

// startupSchedules run once, in order, before the first tick.
var startupSchedules = []ScheduleId{PreStartup, Startup, PostStartup}

// tickSchedules run every tick, in order.
var tickSchedules = []ScheduleId{First, PreUpdate, Update, PostUpdate, Last}
