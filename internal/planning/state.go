package planning

import (
	"errors"
	"fmt"

	"github.com/arcline-robotics/motionplan/internal/constraint"
	"github.com/arcline-robotics/motionplan/internal/goal"
	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/scene"
)

// ErrInvalidGoalConstraints reports goal constraint input that yields
// no usable goal region.
var ErrInvalidGoalConstraints = errors.New("invalid goal constraints")

// SetPlanningScene swaps in a new scene snapshot. All request-scoped
// state from the previous scene is cleared first.
func (c *Context) SetPlanningScene(s scene.Scene) error {
	if s == nil {
		return fmt.Errorf("planning context %q: nil planning scene", c.name)
	}
	c.Clear()
	c.scene = s
	return nil
}

// SetStartState installs a complete robot start state (copied). Stale
// solve state is cleared first.
func (c *Context) SetStartState(rs *model.RobotState) {
	c.Clear()
	c.startState = rs.Clone()
}

// Clear resets all request-scoped state: solutions, start states, the
// goal (stopping any lazy sampling first), and the stored constraints.
// The scene, start state, and planner configuration survive. Clearing
// twice is a no-op.
func (c *Context) Clear() {
	if g := c.def.Goal(); g != nil {
		if ls, ok := g.(goal.LazySampler); ok {
			ls.StopSampling()
		}
	}
	c.def.ClearSolutionPaths()
	c.def.ClearStartStates()
	c.def.SetGoal(nil)
	c.parallel.ClearHybridizationPaths()
	c.pathConstraints = nil
	c.goalConstraints = nil
	if c.current != nil {
		c.current.Clear()
	}
}

// SetPlanningConstraints derives the goal from constraint input: each
// goal specification is merged with the path constraints (goal wins on
// conflicts) and becomes one sampleable goal region; several regions
// form a union with no preferential ordering. Specifications that
// normalize to nothing are dropped. When no usable region remains the
// previous goal is left untouched and ErrInvalidGoalConstraints is
// returned.
func (c *Context) SetPlanningConstraints(goalSpecs []constraint.Constraints, pathSpec constraint.Constraints) error {
	if c.scene == nil {
		return fmt.Errorf("planning context %q: no planning scene set", c.name)
	}

	var sets []*constraint.Set
	for _, gs := range goalSpecs {
		merged := constraint.Merge(gs, pathSpec)
		set := constraint.NewSet(c.spec.Model, c.scene.Transforms())
		set.Add(merged)
		if !set.Empty() {
			sets = append(sets, set)
		}
	}
	if len(sets) == 0 {
		Opsf("%s: no goal constraints specified; there is no problem to solve", c.name)
		return ErrInvalidGoalConstraints
	}
	c.goalConstraints = sets

	c.pathConstraints = constraint.NewSet(c.spec.Model, c.scene.Transforms())
	c.pathConstraints.Add(pathSpec)

	g, err := c.constructGoal()
	if err != nil {
		c.def.SetGoal(nil)
		return err
	}
	c.def.SetGoal(g)
	return nil
}

// PathConstraints returns the active path constraint set, possibly nil.
func (c *Context) PathConstraints() *constraint.Set { return c.pathConstraints }
