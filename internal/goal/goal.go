// Package goal models "success" for a planning attempt as sampleable
// goal regions derived from constraints. Regions are created fresh when
// constraints are set and destroyed on clear; a union region treats
// several regions as alternatives.
package goal

// Goal is the minimal capability every goal region provides.
type Goal interface {
	// IsSatisfied reports whether a state lies in the goal region.
	IsSatisfied(state []float64) bool
}

// Sampleable is a goal region that can also produce candidate states.
type Sampleable interface {
	Goal
	// SampleGoal writes one goal state into out and reports success.
	SampleGoal(out []float64) bool
	// MaxSampleCount returns the most distinct samples the region will
	// produce.
	MaxSampleCount() int
}

// LazySampler is a goal region backed by a background producer of goal
// states. Sampling must be stopped before the owning context is reused
// or samples leak into an unrelated solve.
type LazySampler interface {
	Sampleable
	// StartSampling launches the background producer. Starting an
	// already-running producer is a no-op.
	StartSampling()
	// StopSampling halts the producer and waits for it to exit.
	// Stopping a stopped producer is a no-op.
	StopSampling()
	// IsSampling reports whether the producer is running.
	IsSampling() bool
}

// StateRepairer lets the problem definition fix up already-produced
// goal states that turned out invalid.
type StateRepairer interface {
	// RepairStates calls repair for each stored state; when repair
	// reports a replacement, the stored state is overwritten.
	RepairStates(repair func(state []float64) ([]float64, bool))
}
