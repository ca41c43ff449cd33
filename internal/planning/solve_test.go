package planning

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arcline-robotics/motionplan/internal/goal"
	"github.com/arcline-robotics/motionplan/internal/planner"
	"github.com/arcline-robotics/motionplan/internal/problem"
	"github.com/arcline-robotics/motionplan/internal/space"
)

// Shared instrumentation for the test planner types registered below.
var (
	probeCalls      atomic.Int32
	probeConcurrent atomic.Int32
	probePeak       atomic.Int32
	probeFail       atomic.Bool
)

func resetProbes() {
	probeCalls.Store(0)
	probeConcurrent.Store(0)
	probePeak.Store(0)
	probeFail.Store(false)
}

// probePlanner counts invocations and tracks peak concurrency. It
// answers with a two-state path from the first start to a goal sample.
type probePlanner struct {
	si          *space.Information
	approximate bool
}

func (p *probePlanner) Name() string { return "test.probe" }
func (p *probePlanner) Clear()       {}

func (p *probePlanner) Solve(ctx context.Context, def *problem.Definition, timeout time.Duration) (*problem.Solution, error) {
	probeCalls.Add(1)
	cur := probeConcurrent.Add(1)
	defer probeConcurrent.Add(-1)
	for {
		peak := probePeak.Load()
		if cur <= peak || probePeak.CompareAndSwap(peak, cur) {
			break
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}

	if probeFail.Load() {
		return nil, planner.ErrNoSolution
	}
	start := def.StartStates()[0]
	out := make([]float64, len(start))
	if g, ok := def.Goal().(goal.Sampleable); !ok || !g.SampleGoal(out) {
		return nil, planner.ErrNoSolution
	}
	path := problem.NewPath(p.si.Space(), [][]float64{append([]float64(nil), start...), out})
	return problem.NewSolution(p.Name(), path, p.approximate, time.Millisecond), nil
}

func init() {
	planner.Register("test.probe", func(si *space.Information, params map[string]string) (planner.Planner, error) {
		return &probePlanner{si: si}, nil
	})
	planner.Register("test.approx", func(si *space.Information, params map[string]string) (planner.Planner, error) {
		return &probePlanner{si: si, approximate: true}, nil
	})
}

func TestSolveWithoutGoalFails(t *testing.T) {
	c := armContext(t, nil)
	if c.Solve(time.Second, 1) {
		t.Error("Solve succeeded with no goal")
	}
}

func TestSolveOnce(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	configureWithGoal(t, c)
	resetProbes()

	if !c.Solve(time.Second, 1) {
		t.Fatal("solve failed")
	}
	if probeCalls.Load() != 1 {
		t.Errorf("planner invocations = %d, want 1", probeCalls.Load())
	}
	if c.def.SolutionCount() != 1 {
		t.Errorf("solutions = %d, want 1", c.def.SolutionCount())
	}
	if c.LastPlanTime() <= 0 {
		t.Error("LastPlanTime not recorded")
	}
	// Lazy goal sampling must not outlive the solve.
	if ls, ok := c.def.Goal().(goal.LazySampler); ok && ls.IsSampling() {
		t.Error("lazy sampling still running after Solve")
	}
}

func TestSolveParallelSingleRound(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	c.maxPlanningThreads = 4
	configureWithGoal(t, c)
	resetProbes()

	if !c.Solve(time.Second, 3) {
		t.Fatal("parallel solve failed")
	}
	if probeCalls.Load() != 3 {
		t.Errorf("planner invocations = %d, want 3", probeCalls.Load())
	}
}

func TestSolveRoundsBeyondThreadCap(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	c.maxPlanningThreads = 2
	configureWithGoal(t, c)
	resetProbes()

	// count=5 with a cap of 2 runs rounds of 2, 2, and 1.
	if !c.Solve(time.Second, 5) {
		t.Fatal("rounds solve failed")
	}
	if probeCalls.Load() != 5 {
		t.Errorf("planner invocations = %d, want 5", probeCalls.Load())
	}
	if peak := probePeak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, exceeds thread cap 2", peak)
	}
}

func TestSolveRoundsAllMustSucceed(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	c.maxPlanningThreads = 2
	configureWithGoal(t, c)
	resetProbes()
	probeFail.Store(true)

	if c.Solve(200*time.Millisecond, 5) {
		t.Error("solve succeeded although every round failed")
	}
	if c.def.SolutionCount() != 0 {
		t.Errorf("solutions = %d, want 0", c.def.SolutionCount())
	}
}

func TestSolveApproximateStillSucceeds(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.approx"})
	configureWithGoal(t, c)
	resetProbes()

	if !c.Solve(time.Second, 1) {
		t.Error("solve with approximate solution reported failure")
	}
	if !c.def.HasApproximateSolution() {
		t.Error("approximate solution not recorded as approximate")
	}
}

func TestSolveRepairsMarginalInputStates(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	configureWithGoal(t, c)
	resetProbes()

	// A start barely outside the joint bound is clamped back in.
	c.def.AddStartState([]float64{-math.Pi - 0.005, 0})
	if !c.Solve(time.Second, 1) {
		t.Fatal("solve failed")
	}
	starts := c.def.StartStates()
	if got := starts[1][0]; got < -math.Pi {
		t.Errorf("marginal start state not repaired: %v", got)
	}
}

func TestSolveEndToEndRRT(t *testing.T) {
	c := armContext(t, map[string]string{
		"type":  "geometric.RRT",
		"range": "0.5",
	})
	configureWithGoal(t, c)

	if !c.Solve(2*time.Second, 1) {
		t.Fatal("RRT failed on an unconstrained arm")
	}
	best := c.def.BestSolution()
	if best == nil {
		t.Fatal("no best solution")
	}
	last := best.Path.States[len(best.Path.States)-1]
	if !c.def.Goal().IsSatisfied(last) {
		t.Errorf("final state %v not in goal region", last)
	}
}
