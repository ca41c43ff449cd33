// Package model describes the kinematic structure a planning context
// plans for: joints, joint groups, variable bounds, and robot states.
// The model is query-only from the planner's point of view.
package model

import "fmt"

// JointType enumerates the joint kinds the planner distinguishes.
type JointType int

const (
	// Fixed joints carry no planning variables.
	Fixed JointType = iota
	// Revolute joints have one angular variable.
	Revolute
	// Prismatic joints have one linear variable.
	Prismatic
	// Planar joints have three variables (x, y, theta).
	Planar
	// Floating joints have seven variables (x, y, z, qx, qy, qz, qw).
	Floating
)

// String returns the lowercase joint type name.
func (t JointType) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Revolute:
		return "revolute"
	case Prismatic:
		return "prismatic"
	case Planar:
		return "planar"
	case Floating:
		return "floating"
	default:
		return fmt.Sprintf("joint_type(%d)", int(t))
	}
}

// VariableBound limits a single planning variable.
type VariableBound struct {
	Min, Max float64
}

// Joint is one articulation of the robot model.
type Joint struct {
	Name      string
	Type      JointType
	ChildLink string
	// Bounds has one entry per variable. Quaternion components of
	// floating joints conventionally use [-1, 1].
	Bounds []VariableBound
}

// VariableCount returns the number of planning variables for the joint.
func (j *Joint) VariableCount() int {
	switch j.Type {
	case Revolute, Prismatic:
		return 1
	case Planar:
		return 3
	case Floating:
		return 7
	default:
		return 0
	}
}

// Model is an immutable robot description shared by scenes and contexts.
type Model struct {
	name   string
	joints []*Joint
	byName map[string]*Joint
	groups map[string]*JointGroup
}

// NewModel builds a model from its joints. Joint names must be unique.
func NewModel(name string, joints []*Joint) (*Model, error) {
	m := &Model{
		name:   name,
		joints: joints,
		byName: make(map[string]*Joint, len(joints)),
		groups: make(map[string]*JointGroup),
	}
	for _, j := range joints {
		if j.VariableCount() != len(j.Bounds) {
			return nil, fmt.Errorf("joint %q: %s joint needs %d bounds, got %d",
				j.Name, j.Type, j.VariableCount(), len(j.Bounds))
		}
		if _, dup := m.byName[j.Name]; dup {
			return nil, fmt.Errorf("duplicate joint name %q", j.Name)
		}
		m.byName[j.Name] = j
	}
	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Joints returns all joints in declaration order.
func (m *Model) Joints() []*Joint { return m.joints }

// Joint looks a joint up by name.
func (m *Model) Joint(name string) (*Joint, bool) {
	j, ok := m.byName[name]
	return j, ok
}

// AddGroup defines a named joint group over existing joints.
func (m *Model) AddGroup(name string, jointNames []string) (*JointGroup, error) {
	if _, dup := m.groups[name]; dup {
		return nil, fmt.Errorf("duplicate group name %q", name)
	}
	g := &JointGroup{name: name}
	for _, jn := range jointNames {
		j, ok := m.byName[jn]
		if !ok {
			return nil, fmt.Errorf("group %q: unknown joint %q", name, jn)
		}
		g.offsets = append(g.offsets, g.variableCount)
		g.joints = append(g.joints, j)
		g.variableCount += j.VariableCount()
	}
	m.groups[name] = g
	return g, nil
}

// Group looks a joint group up by name.
func (m *Model) Group(name string) (*JointGroup, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// JointGroup is an ordered subset of a model's joints planned together.
type JointGroup struct {
	name          string
	joints        []*Joint
	offsets       []int
	variableCount int
}

// Name returns the group name.
func (g *JointGroup) Name() string { return g.name }

// Joints returns the group's joints in order.
func (g *JointGroup) Joints() []*Joint { return g.joints }

// VariableCount returns the total variable count across the group.
func (g *JointGroup) VariableCount() int { return g.variableCount }

// JointOffset returns the index of the joint's first variable within a
// group-ordered state vector.
func (g *JointGroup) JointOffset(name string) (int, bool) {
	for i, j := range g.joints {
		if j.Name == name {
			return g.offsets[i], true
		}
	}
	return 0, false
}

// VariableBounds returns the concatenated bounds of all group variables.
func (g *JointGroup) VariableBounds() []VariableBound {
	out := make([]VariableBound, 0, g.variableCount)
	for _, j := range g.joints {
		out = append(out, j.Bounds...)
	}
	return out
}
