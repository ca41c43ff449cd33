// Package motionplan provides sampling-based motion planning for
// articulated robots: a reusable planning context binds a robot model,
// a joint group, and a scene snapshot, turns constraint specifications
// into sampleable goal regions, runs single or parallel planner
// attempts, and converts solution paths into time-parameterized
// trajectories.
//
// The implementation lives under internal/; this package re-exports
// the supported surface.
package motionplan
