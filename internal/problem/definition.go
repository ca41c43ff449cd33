package problem

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arcline-robotics/motionplan/internal/goal"
	"github.com/arcline-robotics/motionplan/internal/space"
)

// Solution is one planner-produced path plus its provenance.
type Solution struct {
	ID          string
	PlannerName string
	Path        *Path
	// Approximate marks a path that got close to, but did not fully
	// satisfy, the goal.
	Approximate bool
	Elapsed     time.Duration
}

// NewSolution stamps a solution with a fresh id.
func NewSolution(plannerName string, p *Path, approximate bool, elapsed time.Duration) *Solution {
	return &Solution{
		ID:          uuid.NewString(),
		PlannerName: plannerName,
		Path:        p,
		Approximate: approximate,
		Elapsed:     elapsed,
	}
}

// Definition is the problem planners solve: start states, a goal, and
// the accumulated solutions. Start states and goal are set before a
// solve and read-only during it; the solution list is the only part
// touched concurrently and is guarded.
type Definition struct {
	si     *space.Information
	starts [][]float64
	goal   goal.Goal

	mu        sync.Mutex
	solutions []*Solution
}

// NewDefinition creates an empty problem over the space information.
func NewDefinition(si *space.Information) *Definition {
	return &Definition{si: si}
}

// SpaceInformation returns the space information the problem uses.
func (d *Definition) SpaceInformation() *space.Information { return d.si }

// AddStartState appends a start state (copied).
func (d *Definition) AddStartState(st []float64) {
	cp := make([]float64, len(st))
	copy(cp, st)
	d.starts = append(d.starts, cp)
}

// ClearStartStates drops all start states.
func (d *Definition) ClearStartStates() { d.starts = nil }

// StartStates returns the stored start states.
func (d *Definition) StartStates() [][]float64 { return d.starts }

// SetGoal installs the goal; nil clears it.
func (d *Definition) SetGoal(g goal.Goal) { d.goal = g }

// Goal returns the installed goal, possibly nil.
func (d *Definition) Goal() goal.Goal { return d.goal }

// AddSolution records a solution. Safe for concurrent use by parallel
// planner workers.
func (d *Definition) AddSolution(s *Solution) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.solutions = append(d.solutions, s)
}

// ClearSolutionPaths drops all stored solutions.
func (d *Definition) ClearSolutionPaths() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.solutions = nil
}

// SolutionCount returns the number of stored solutions.
func (d *Definition) SolutionCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.solutions)
}

// HasSolution reports whether any exact solution is stored; when only
// approximate solutions exist it still reports true, matching the
// boolean solve contract.
func (d *Definition) HasSolution() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.solutions) > 0
}

// HasApproximateSolution reports whether the best stored solution is
// approximate.
func (d *Definition) HasApproximateSolution() bool {
	best := d.BestSolution()
	return best != nil && best.Approximate
}

// BestSolution returns the stored solution with the shortest path,
// preferring exact solutions over approximate ones.
func (d *Definition) BestSolution() *Solution {
	d.mu.Lock()
	defer d.mu.Unlock()
	var best *Solution
	for _, s := range d.solutions {
		if best == nil {
			best = s
			continue
		}
		if best.Approximate != s.Approximate {
			if best.Approximate {
				best = s
			}
			continue
		}
		if s.Path.Length() < best.Path.Length() {
			best = s
		}
	}
	return best
}

// FixInvalidInputStates attempts to repair out-of-bounds or invalid
// start and goal states by clamping to bounds and sampling nearby, each
// within dist and at most attempts tries per state. It reports whether
// every invalid state was repaired; unrepaired states are left in place
// for the solver to reject.
func (d *Definition) FixInvalidInputStates(dist float64, attempts int) bool {
	repair := func(st []float64) ([]float64, bool) {
		if d.si.IsValid(st) {
			return nil, false
		}
		sp := d.si.Space()
		clamped := make([]float64, len(st))
		copy(clamped, st)
		sp.EnforceBounds(clamped)
		if d.si.IsValid(clamped) && sp.Distance(st, clamped) <= dist {
			return clamped, true
		}
		smp := sp.AllocDefaultSampler()
		cand := make([]float64, len(st))
		for i := 0; i < attempts; i++ {
			smp.SampleUniformNear(cand, st, dist)
			if d.si.IsValid(cand) && sp.Distance(st, cand) <= dist*math.Sqrt(float64(len(st))) {
				cp := make([]float64, len(cand))
				copy(cp, cand)
				return cp, true
			}
		}
		return nil, false
	}

	allFixed := true
	for i, st := range d.starts {
		if d.si.IsValid(st) {
			continue
		}
		if fixed, ok := repair(st); ok {
			d.starts[i] = fixed
		} else {
			allFixed = false
		}
	}
	if sr, ok := d.goal.(goal.StateRepairer); ok {
		sr.RepairStates(func(st []float64) ([]float64, bool) {
			fixed, ok := repair(st)
			if !ok && !d.si.IsValid(st) {
				allFixed = false
			}
			return fixed, ok
		})
	}
	return allFixed
}
