package goal

import "sync/atomic"

// Mux is a union of sampleable goal regions: a state satisfies the mux
// when any member region accepts it. Sampling rotates its starting
// region so no member is preferred beyond its own behaviour.
type Mux struct {
	regions []Sampleable
	next    atomic.Uint32
}

// NewMux wraps the regions. Callers pass two or more; a single region
// should be used directly.
func NewMux(regions []Sampleable) *Mux {
	return &Mux{regions: regions}
}

// Regions returns the member regions.
func (m *Mux) Regions() []Sampleable { return m.regions }

// IsSatisfied implements Goal: any member accepting the state suffices.
func (m *Mux) IsSatisfied(state []float64) bool {
	for _, r := range m.regions {
		if r.IsSatisfied(state) {
			return true
		}
	}
	return false
}

// SampleGoal implements Sampleable, fanning out from a rotating start
// index.
func (m *Mux) SampleGoal(out []float64) bool {
	n := len(m.regions)
	if n == 0 {
		return false
	}
	start := int(m.next.Add(1)-1) % n
	for i := 0; i < n; i++ {
		if m.regions[(start+i)%n].SampleGoal(out) {
			return true
		}
	}
	return false
}

// MaxSampleCount implements Sampleable as the sum over members.
func (m *Mux) MaxSampleCount() int {
	total := 0
	for _, r := range m.regions {
		total += r.MaxSampleCount()
	}
	return total
}

// StartSampling starts every member that samples lazily.
func (m *Mux) StartSampling() {
	for _, r := range m.regions {
		if ls, ok := r.(LazySampler); ok {
			ls.StartSampling()
		}
	}
}

// StopSampling stops every member that samples lazily.
func (m *Mux) StopSampling() {
	for _, r := range m.regions {
		if ls, ok := r.(LazySampler); ok {
			ls.StopSampling()
		}
	}
}

// IsSampling reports whether any member producer is running.
func (m *Mux) IsSampling() bool {
	for _, r := range m.regions {
		if ls, ok := r.(LazySampler); ok && ls.IsSampling() {
			return true
		}
	}
	return false
}

// RepairStates fans the repair pass out to members that store states.
func (m *Mux) RepairStates(repair func(state []float64) ([]float64, bool)) {
	for _, r := range m.regions {
		if sr, ok := r.(StateRepairer); ok {
			sr.RepairStates(repair)
		}
	}
}
