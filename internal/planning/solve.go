package planning

import (
	"context"
	"time"

	"github.com/arcline-robotics/motionplan/internal/goal"
	"github.com/arcline-robotics/motionplan/internal/planner"
)

const (
	// inputRepairAttempts bounds the sampling tries per invalid input
	// state; the second repair pass widens the distance tenfold.
	inputRepairAttempts   = 100
	inputRepairRetryScale = 10.0
)

// Solve attempts the configured problem count times with the same
// timeout per round and reports overall success. count <= 1 runs the
// cached planner once; up to the thread cap runs one parallel round
// with path hybridization; beyond the cap runs full rounds of cap
// instances plus one partial round, succeeding only when every round
// succeeds. Lazy goal sampling is started before and stopped
// unconditionally after the attempt.
func (c *Context) Solve(timeout time.Duration, count int) bool {
	g := c.def.Goal()
	if g == nil {
		Opsf("%s: cannot solve: no goal set", c.name)
		return false
	}

	c.def.ClearSolutionPaths()
	if c.current != nil {
		c.current.Clear()
	}

	if ls, ok := g.(goal.LazySampler); ok {
		ls.StartSampling()
		defer ls.StopSampling()
	}

	// Repair marginally invalid start and goal states; retry once with
	// a tenfold distance before giving up and letting planners reject.
	dist := c.space.MaximumExtent() / 1000
	if !c.def.FixInvalidInputStates(dist, inputRepairAttempts) {
		Diagf("%s: input states not repaired within %v; retrying wider", c.name, dist)
		c.def.FixInvalidInputStates(dist*inputRepairRetryScale, inputRepairAttempts)
	}

	begin := time.Now()
	var result bool
	if count <= 1 {
		result = c.solveOnce(timeout)
	} else {
		result = c.solveParallel(timeout, count)
	}
	c.mu.Lock()
	c.lastPlanTime = time.Since(begin)
	c.mu.Unlock()

	if c.def.HasApproximateSolution() {
		Opsf("%s: computed solution is approximate", c.name)
	}
	Tracef("%s: solve finished in %v, success=%v, solutions=%d",
		c.name, time.Since(begin), result, c.def.SolutionCount())
	return result
}

func (c *Context) solveOnce(timeout time.Duration) bool {
	Diagf("%s: solving the planning problem once", c.name)
	p, err := c.planner()
	if err != nil {
		Opsf("%s: cannot allocate planner: %v", c.name, err)
		return false
	}
	sol, err := p.Solve(context.Background(), c.def, timeout)
	if err != nil || sol == nil {
		if err != nil {
			Diagf("%s: planner %s: %v", c.name, p.Name(), err)
		}
		return false
	}
	c.def.AddSolution(sol)
	return true
}

func (c *Context) solveParallel(timeout time.Duration, count int) bool {
	Diagf("%s: solving the planning problem %d times", c.name, count)
	c.parallel.ClearHybridizationPaths()

	if count <= c.maxPlanningThreads {
		c.fillPlannerPool(count)
		return c.parallel.Solve(timeout, 1, true)
	}

	// More attempts than threads: full rounds of the thread cap, then a
	// partial round with the remainder. Overall success requires every
	// round to succeed.
	result := true
	for i := 0; i < count/c.maxPlanningThreads; i++ {
		c.fillPlannerPool(c.maxPlanningThreads)
		ok := c.parallel.Solve(timeout, 1, true)
		result = result && ok
	}
	if rem := count % c.maxPlanningThreads; rem > 0 {
		c.fillPlannerPool(rem)
		ok := c.parallel.Solve(timeout, 1, true)
		result = result && ok
	}
	return result
}

// planner returns the cached single-threaded planner, constructing it
// from the recipe (or the goal's default type) on first use.
func (c *Context) planner() (planner.Planner, error) {
	if c.current != nil {
		return c.current, nil
	}
	p, err := c.allocPlanner()
	if err == nil {
		c.current = p
	}
	return p, err
}

// fillPlannerPool replaces the parallel pool with n fresh instances.
// Each instance owns private search state; only the solution list is
// shared.
func (c *Context) fillPlannerPool(n int) {
	c.parallel.ClearPlanners()
	for i := 0; i < n; i++ {
		p, err := c.allocPlanner()
		if err != nil {
			Opsf("%s: cannot allocate planner instance %d: %v", c.name, i, err)
			continue
		}
		c.parallel.AddPlanner(p)
	}
}

func (c *Context) allocPlanner() (planner.Planner, error) {
	if c.recipe != nil {
		return c.recipe.Build(c.si)
	}
	return planner.NewDefault(c.si, c.def.Goal())
}
