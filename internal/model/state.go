package model

import "fmt"

// RobotState holds a complete set of variable values for every joint of
// a model. Planning contexts own a mutable copy; scenes and constraint
// samplers read it.
type RobotState struct {
	model     *Model
	positions map[string][]float64
}

// NewRobotState returns a state with every variable at the midpoint of
// its bounds (zero when the midpoint is unbounded or symmetric). Floating
// joints start at the identity orientation.
func NewRobotState(m *Model) *RobotState {
	s := &RobotState{
		model:     m,
		positions: make(map[string][]float64, len(m.Joints())),
	}
	for _, j := range m.Joints() {
		vals := make([]float64, j.VariableCount())
		for i, b := range j.Bounds {
			vals[i] = (b.Min + b.Max) / 2
		}
		if j.Type == Floating {
			// x y z qx qy qz qw: identity quaternion.
			vals[3], vals[4], vals[5], vals[6] = 0, 0, 0, 1
		}
		s.positions[j.Name] = vals
	}
	return s
}

// Model returns the model this state belongs to.
func (s *RobotState) Model() *Model { return s.model }

// Clone returns a deep copy of the state.
func (s *RobotState) Clone() *RobotState {
	c := &RobotState{
		model:     s.model,
		positions: make(map[string][]float64, len(s.positions)),
	}
	for name, vals := range s.positions {
		cp := make([]float64, len(vals))
		copy(cp, vals)
		c.positions[name] = cp
	}
	return c
}

// JointPositions returns the variable values of the named joint. The
// returned slice aliases the state; callers must not retain it across
// mutations.
func (s *RobotState) JointPositions(name string) ([]float64, bool) {
	v, ok := s.positions[name]
	return v, ok
}

// SetJointPositions overwrites the variable values of the named joint.
func (s *RobotState) SetJointPositions(name string, vals []float64) error {
	j, ok := s.model.Joint(name)
	if !ok {
		return fmt.Errorf("unknown joint %q", name)
	}
	if len(vals) != j.VariableCount() {
		return fmt.Errorf("joint %q: expected %d values, got %d", name, j.VariableCount(), len(vals))
	}
	copy(s.positions[name], vals)
	return nil
}

// JointPose returns the spatial pose of a multi-DoF joint. Single-DoF
// and fixed joints report ok=false.
func (s *RobotState) JointPose(name string) (Pose, bool) {
	j, ok := s.model.Joint(name)
	if !ok {
		return Pose{}, false
	}
	vals := s.positions[name]
	switch j.Type {
	case Floating:
		return PoseFromVariables(vals), true
	case Planar:
		return PoseFromPlanarVariables(vals), true
	default:
		return Pose{}, false
	}
}

// CopyGroupTo flattens the group's joint values into dst, which must
// have the group's variable count.
func (s *RobotState) CopyGroupTo(g *JointGroup, dst []float64) {
	i := 0
	for _, j := range g.Joints() {
		i += copy(dst[i:], s.positions[j.Name])
	}
}

// SetFromGroup scatters a flat group state vector back into the joint
// values of this state. Joints outside the group are untouched.
func (s *RobotState) SetFromGroup(g *JointGroup, src []float64) {
	i := 0
	for _, j := range g.Joints() {
		n := j.VariableCount()
		copy(s.positions[j.Name], src[i:i+n])
		i += n
	}
}
