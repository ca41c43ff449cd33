// Package constraint carries goal and path constraint specifications
// and the sampler contracts used to turn them into states. The sampler
// construction itself is an external collaborator; this package defines
// the data and the Build contract it must satisfy.
package constraint

import (
	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/scene"
)

// JointConstraint pins a single-variable joint near a position.
type JointConstraint struct {
	JointName      string
	Position       float64
	ToleranceAbove float64
	ToleranceBelow float64
	Weight         float64
}

// PoseConstraint pins a multi-DoF joint's child link near a target pose
// expressed in ReferenceFrame.
type PoseConstraint struct {
	JointName            string
	ReferenceFrame       string
	Target               model.Pose
	PositionTolerance    float64
	OrientationTolerance float64
	Weight               float64
}

// Constraints is a flat specification: every listed constraint must
// hold simultaneously.
type Constraints struct {
	Name  string
	Joint []JointConstraint
	Pose  []PoseConstraint
}

// Empty reports whether the specification constrains nothing.
func (c Constraints) Empty() bool {
	return len(c.Joint) == 0 && len(c.Pose) == 0
}

// Merge combines two specifications. When both constrain the same
// joint, the first argument wins; everything else is concatenated.
func Merge(a, b Constraints) Constraints {
	out := Constraints{Name: a.Name}
	if out.Name == "" {
		out.Name = b.Name
	}
	out.Joint = append(out.Joint, a.Joint...)
	out.Pose = append(out.Pose, a.Pose...)

	seenJoint := make(map[string]bool, len(a.Joint))
	for _, jc := range a.Joint {
		seenJoint[jc.JointName] = true
	}
	for _, jc := range b.Joint {
		if !seenJoint[jc.JointName] {
			out.Joint = append(out.Joint, jc)
		}
	}
	seenPose := make(map[string]bool, len(a.Pose))
	for _, pc := range a.Pose {
		seenPose[pc.JointName] = true
	}
	for _, pc := range b.Pose {
		if !seenPose[pc.JointName] {
			out.Pose = append(out.Pose, pc)
		}
	}
	return out
}

// Set evaluates an accumulated group of constraints against robot
// states. It is rebuilt from scratch whenever a context's constraints
// change.
type Set struct {
	model *model.Model
	tf    *scene.Transforms
	all   Constraints
}

// NewSet creates an empty constraint set bound to a model and the
// scene's transforms.
func NewSet(m *model.Model, tf *scene.Transforms) *Set {
	return &Set{model: m, tf: tf}
}

// Add appends a specification to the set, dropping entries that name
// joints the model does not have.
func (s *Set) Add(c Constraints) {
	for _, jc := range c.Joint {
		if _, ok := s.model.Joint(jc.JointName); ok {
			s.all.Joint = append(s.all.Joint, jc)
		}
	}
	for _, pc := range c.Pose {
		if _, ok := s.model.Joint(pc.JointName); ok {
			s.all.Pose = append(s.all.Pose, pc)
		}
	}
}

// Empty reports whether the set holds no constraints.
func (s *Set) Empty() bool { return s.all.Empty() }

// All returns the accumulated constraints.
func (s *Set) All() Constraints { return s.all }

// Satisfied reports whether every constraint in the set holds for the
// given state.
func (s *Set) Satisfied(rs *model.RobotState) bool {
	for _, jc := range s.all.Joint {
		vals, ok := rs.JointPositions(jc.JointName)
		if !ok || len(vals) == 0 {
			return false
		}
		d := vals[0] - jc.Position
		if d > jc.ToleranceAbove || -d > jc.ToleranceBelow {
			return false
		}
	}
	for _, pc := range s.all.Pose {
		pose, ok := rs.JointPose(pc.JointName)
		if !ok {
			return false
		}
		target := pc.Target
		if ref, ok := s.tf.Lookup(pc.ReferenceFrame); ok {
			target = ref.Mul(pc.Target)
		}
		if pose.TranslationDistance(target) > pc.PositionTolerance {
			return false
		}
		if pc.OrientationTolerance > 0 && pose.AngularDistance(target) > pc.OrientationTolerance {
			return false
		}
	}
	return true
}
