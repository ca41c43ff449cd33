// Package trajectory defines the time-parameterized output of a
// planning attempt: single-DoF joint points and multi-DoF pose points,
// each stamped with its elapsed-time offset.
package trajectory

import (
	"time"

	"github.com/arcline-robotics/motionplan/internal/model"
)

// JointPoint is one waypoint over the single-DoF joints.
type JointPoint struct {
	// Positions holds one value per trajectory joint name, in order.
	Positions     []float64
	TimeFromStart time.Duration
}

// MultiDOFPoint is one waypoint over the multi-DoF joints.
type MultiDOFPoint struct {
	// Poses holds one pose per multi-DoF joint name, in order.
	Poses         []model.Pose
	TimeFromStart time.Duration
}

// Trajectory is the converted result of a planning attempt. It is
// built fresh per conversion; ownership transfers to the caller.
type Trajectory struct {
	// FrameID is the planning frame all poses are expressed in.
	FrameID string

	JointNames []string
	Points     []JointPoint

	MultiDOFJointNames []string
	ChildFrameIDs      []string
	MultiDOFPoints     []MultiDOFPoint
}
