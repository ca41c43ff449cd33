package goal

import (
	"sync"
	"time"

	"github.com/arcline-robotics/motionplan/internal/constraint"
	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/space"
)

// ConstrainedSamplerConfig assembles a ConstrainedSampler.
type ConstrainedSamplerConfig struct {
	// Space is the planning domain states are expressed in.
	Space *space.StateSpace
	// Seed is the complete robot state used to fill joints outside the
	// planned group; it is cloned, never mutated.
	Seed *model.RobotState
	// Set verifies candidate states against the merged constraints.
	Set *constraint.Set
	// Sampler produces candidate robot states for the constraints.
	Sampler constraint.Sampler
	// MaxSamples bounds the background queue. Zero means 10.
	MaxSamples int
	// MaxAttempts bounds each individual sampling try. Zero means 100.
	MaxAttempts int
}

// ConstrainedSampler is a goal region over one merged constraint set.
// A background goroutine lazily fills a queue of goal states while
// planning proceeds.
type ConstrainedSampler struct {
	space       *space.StateSpace
	seed        *model.RobotState
	set         *constraint.Set
	sampler     constraint.Sampler
	maxSamples  int
	maxAttempts int

	mu     sync.Mutex
	states [][]float64
	next   int

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewConstrainedSampler builds the region. It does not start sampling.
func NewConstrainedSampler(cfg ConstrainedSamplerConfig) *ConstrainedSampler {
	maxSamples := cfg.MaxSamples
	if maxSamples <= 0 {
		maxSamples = 10
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	return &ConstrainedSampler{
		space:       cfg.Space,
		seed:        cfg.Seed,
		set:         cfg.Set,
		sampler:     cfg.Sampler,
		maxSamples:  maxSamples,
		maxAttempts: maxAttempts,
	}
}

// IsSatisfied implements Goal by mapping the state back into the robot
// representation and checking the constraint set.
func (g *ConstrainedSampler) IsSatisfied(state []float64) bool {
	rs := g.seed.Clone()
	rs.SetFromGroup(g.space.Group(), state)
	return g.set.Satisfied(rs)
}

// MaxSampleCount implements Sampleable.
func (g *ConstrainedSampler) MaxSampleCount() int { return g.maxSamples }

// SampleGoal implements Sampleable. Queued background samples are
// served round-robin; with an empty queue one synchronous sampling
// attempt is made.
func (g *ConstrainedSampler) SampleGoal(out []float64) bool {
	g.mu.Lock()
	if n := len(g.states); n > 0 {
		copy(out, g.states[g.next%n])
		g.next++
		g.mu.Unlock()
		return true
	}
	g.mu.Unlock()

	return g.sampleOnce(out)
}

// sampleOnce runs the constraint sampler synchronously.
func (g *ConstrainedSampler) sampleOnce(out []float64) bool {
	rs := g.seed.Clone()
	if !g.sampler.Sample(rs, g.maxAttempts) {
		return false
	}
	rs.CopyGroupTo(g.space.Group(), out)
	return true
}

// SampleCount returns the number of queued background samples.
func (g *ConstrainedSampler) SampleCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.states)
}

// RepairStates implements StateRepairer over the queued samples.
func (g *ConstrainedSampler) RepairStates(repair func(state []float64) ([]float64, bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, st := range g.states {
		if fixed, ok := repair(st); ok {
			g.states[i] = fixed
		}
	}
}

// StartSampling implements LazySampler.
func (g *ConstrainedSampler) StartSampling() {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	if g.running {
		return
	}
	g.running = true
	g.stopCh = make(chan struct{})
	g.doneCh = make(chan struct{})
	go g.sampleLoop(g.stopCh, g.doneCh)
}

// StopSampling implements LazySampler.
func (g *ConstrainedSampler) StopSampling() {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	if !g.running {
		return
	}
	close(g.stopCh)
	<-g.doneCh
	g.running = false
}

// IsSampling implements LazySampler.
func (g *ConstrainedSampler) IsSampling() bool {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	return g.running
}

func (g *ConstrainedSampler) sampleLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	st := make([]float64, g.space.Dimension())
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		g.mu.Lock()
		full := len(g.states) >= g.maxSamples
		g.mu.Unlock()
		if full {
			// Queue is full; park until stopped.
			<-stopCh
			return
		}

		if g.sampleOnce(st) {
			cp := make([]float64, len(st))
			copy(cp, st)
			g.mu.Lock()
			g.states = append(g.states, cp)
			g.mu.Unlock()
		} else {
			// Hopeless constraints would otherwise hot-spin.
			select {
			case <-stopCh:
				return
			case <-time.After(time.Millisecond):
			}
		}
	}
}
