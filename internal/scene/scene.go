// Package scene defines the read-only planning-scene snapshot a
// planning context plans against: a fixed planning frame, known frame
// transforms, and access to the robot model. Snapshots are swapped
// wholesale, never partially updated.
package scene

import (
	"github.com/arcline-robotics/motionplan/internal/model"
)

// Scene is one consistent snapshot of the world. Implementations must
// be safe for concurrent readers; a context holds exactly one active
// scene at a time and replaces it atomically.
type Scene interface {
	// Name identifies the snapshot for logging and benchmark records.
	Name() string
	// PlanningFrame returns the frame id all output trajectories are
	// expressed in.
	PlanningFrame() string
	// Transforms returns the snapshot's frame transforms.
	Transforms() *Transforms
	// Model returns the robot model the snapshot was built for.
	Model() *model.Model
}

// Transforms maps frame ids to their pose in a fixed target frame.
type Transforms struct {
	target string
	poses  map[string]model.Pose
}

// NewTransforms creates an empty transform table for the target frame.
func NewTransforms(targetFrame string) *Transforms {
	return &Transforms{
		target: targetFrame,
		poses:  make(map[string]model.Pose),
	}
}

// TargetFrame returns the frame all lookups resolve into.
func (t *Transforms) TargetFrame() string { return t.target }

// Set records the pose of a frame in the target frame.
func (t *Transforms) Set(frame string, p model.Pose) {
	t.poses[frame] = p
}

// Lookup returns the pose of a frame in the target frame. The target
// frame itself resolves to the identity.
func (t *Transforms) Lookup(frame string) (model.Pose, bool) {
	if frame == t.target || frame == "" {
		return model.IdentityPose(), true
	}
	p, ok := t.poses[frame]
	return p, ok
}

// Static is an immutable Scene implementation assembled by the caller.
type Static struct {
	SceneName string
	Frame     string
	TF        *Transforms
	Robot     *model.Model
}

// NewStatic builds a static scene snapshot. A nil transform table is
// replaced by an empty one rooted at the planning frame.
func NewStatic(name, planningFrame string, m *model.Model, tf *Transforms) *Static {
	if tf == nil {
		tf = NewTransforms(planningFrame)
	}
	return &Static{SceneName: name, Frame: planningFrame, TF: tf, Robot: m}
}

// Name implements Scene.
func (s *Static) Name() string { return s.SceneName }

// PlanningFrame implements Scene.
func (s *Static) PlanningFrame() string { return s.Frame }

// Transforms implements Scene.
func (s *Static) Transforms() *Transforms { return s.TF }

// Model implements Scene.
func (s *Static) Model() *model.Model { return s.Robot }
