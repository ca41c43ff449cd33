package planning

import (
	"fmt"
	"math"
	"time"

	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/problem"
	"github.com/arcline-robotics/motionplan/internal/trajectory"
)

// SimplifySolution shortcuts the best stored solution path in place
// within the timeout. Without a solution it logs and returns.
func (c *Context) SimplifySolution(timeout time.Duration) {
	sol := c.def.BestSolution()
	if sol == nil {
		Diagf("%s: no solution to simplify", c.name)
		return
	}
	begin := time.Now()
	before := sol.Path.Length()
	sol.Path.Shortcut(c.si, timeout)
	c.mu.Lock()
	c.lastSimplify = time.Since(begin)
	c.mu.Unlock()
	Diagf("%s: simplification %.3f -> %.3f in %v", c.name, before, sol.Path.Length(), time.Since(begin))
}

// InterpolateSolution redistributes the best stored solution so
// adjacent waypoints are at most the configured segment length apart.
// An unset segment length logs a warning and changes nothing.
func (c *Context) InterpolateSolution() {
	sol := c.def.BestSolution()
	if sol == nil {
		Diagf("%s: no solution to interpolate", c.name)
		return
	}
	if c.maxSolutionSegmentLength <= 0 {
		Opsf("%s: maximum solution segment length is not set; skipping interpolation", c.name)
		return
	}
	count := int(math.Floor(0.5 + sol.Path.Length()/c.maxSolutionSegmentLength))
	sol.Path.Interpolate(count)
}

// ConvertPath turns a geometric path into a time-parameterized
// trajectory in the scene's planning frame. Single-DoF joints become
// joint points; planar and floating joints become multi-DoF pose
// points. Every path state maps to exactly one point per section.
func (c *Context) ConvertPath(p *problem.Path) (*trajectory.Trajectory, error) {
	if c.scene == nil {
		return nil, fmt.Errorf("planning context %q: cannot convert path without a planning scene", c.name)
	}
	if p == nil || len(p.States) == 0 {
		return nil, fmt.Errorf("planning context %q: cannot convert empty path", c.name)
	}

	var oneDOF, multiDOF []*model.Joint
	for _, j := range c.spec.Group.Joints() {
		switch j.VariableCount() {
		case 0:
		case 1:
			oneDOF = append(oneDOF, j)
		default:
			multiDOF = append(multiDOF, j)
		}
	}

	traj := &trajectory.Trajectory{FrameID: c.scene.PlanningFrame()}
	for _, j := range oneDOF {
		traj.JointNames = append(traj.JointNames, j.Name)
	}
	for _, j := range multiDOF {
		traj.MultiDOFJointNames = append(traj.MultiDOFJointNames, j.Name)
		traj.ChildFrameIDs = append(traj.ChildFrameIDs, j.ChildLink)
	}

	dists := make([]float64, len(p.States)-1)
	for i := 1; i < len(p.States); i++ {
		dists[i-1] = c.space.Distance(p.States[i-1], p.States[i])
	}
	times := trajectory.TimeParametrize(dists, c.maxVelocity, c.maxAcceleration, trajectory.DefaultSmoothingWindow)

	ks := c.startState.Clone()
	for i, st := range p.States {
		ks.SetFromGroup(c.spec.Group, st)
		if len(oneDOF) > 0 {
			pt := trajectory.JointPoint{
				Positions:     make([]float64, len(oneDOF)),
				TimeFromStart: times[i],
			}
			for j, jm := range oneDOF {
				if vals, ok := ks.JointPositions(jm.Name); ok {
					pt.Positions[j] = vals[0]
				}
			}
			traj.Points = append(traj.Points, pt)
		}
		if len(multiDOF) > 0 {
			pt := trajectory.MultiDOFPoint{
				Poses:         make([]model.Pose, len(multiDOF)),
				TimeFromStart: times[i],
			}
			for j, jm := range multiDOF {
				if pose, ok := ks.JointPose(jm.Name); ok {
					pt.Poses[j] = pose
				}
			}
			traj.MultiDOFPoints = append(traj.MultiDOFPoints, pt)
		}
	}
	return traj, nil
}

// SolutionPath converts the best stored solution into a trajectory.
// The second return is false when there is no solution or conversion
// fails.
func (c *Context) SolutionPath() (*trajectory.Trajectory, bool) {
	sol := c.def.BestSolution()
	if sol == nil {
		return nil, false
	}
	traj, err := c.ConvertPath(sol.Path)
	if err != nil {
		Opsf("%s: cannot convert solution path: %v", c.name, err)
		return nil, false
	}
	return traj, true
}
