package constraint

import (
	"math"
	"testing"

	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/scene"
)

func twoJointModel(t *testing.T) (*model.Model, *model.JointGroup) {
	t.Helper()
	m, err := model.NewModel("arm", []*model.Joint{
		{Name: "j1", Type: model.Revolute, ChildLink: "l1",
			Bounds: []model.VariableBound{{Min: -math.Pi, Max: math.Pi}}},
		{Name: "j2", Type: model.Revolute, ChildLink: "l2",
			Bounds: []model.VariableBound{{Min: -math.Pi, Max: math.Pi}}},
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	g, err := m.AddGroup("arm", []string{"j1", "j2"})
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	return m, g
}

func TestMergeFirstWinsPerJoint(t *testing.T) {
	a := Constraints{Joint: []JointConstraint{
		{JointName: "j1", Position: 1.0, ToleranceAbove: 0.1, ToleranceBelow: 0.1},
	}}
	b := Constraints{Joint: []JointConstraint{
		{JointName: "j1", Position: 2.0, ToleranceAbove: 0.1, ToleranceBelow: 0.1},
		{JointName: "j2", Position: 0.5, ToleranceAbove: 0.1, ToleranceBelow: 0.1},
	}}

	out := Merge(a, b)
	if len(out.Joint) != 2 {
		t.Fatalf("merged joint count = %d, want 2", len(out.Joint))
	}
	if out.Joint[0].Position != 1.0 {
		t.Errorf("j1 position = %v, want goal value 1.0 to win", out.Joint[0].Position)
	}
	if out.Joint[1].JointName != "j2" {
		t.Errorf("second constraint = %q, want j2", out.Joint[1].JointName)
	}
}

func TestMergeEmpty(t *testing.T) {
	out := Merge(Constraints{}, Constraints{})
	if !out.Empty() {
		t.Error("merge of empty constraints should be empty")
	}
}

func TestSetSatisfied(t *testing.T) {
	m, _ := twoJointModel(t)
	tf := scene.NewTransforms("world")
	set := NewSet(m, tf)
	set.Add(Constraints{Joint: []JointConstraint{
		{JointName: "j1", Position: 0.5, ToleranceAbove: 0.1, ToleranceBelow: 0.1},
	}})

	rs := model.NewRobotState(m)
	if err := rs.SetJointPositions("j1", []float64{0.55}); err != nil {
		t.Fatal(err)
	}
	if !set.Satisfied(rs) {
		t.Error("0.55 should satisfy 0.5 ± 0.1")
	}
	if err := rs.SetJointPositions("j1", []float64{0.7}); err != nil {
		t.Fatal(err)
	}
	if set.Satisfied(rs) {
		t.Error("0.7 should violate 0.5 ± 0.1")
	}
}

func TestSetDropsUnknownJoints(t *testing.T) {
	m, _ := twoJointModel(t)
	set := NewSet(m, scene.NewTransforms("world"))
	set.Add(Constraints{Joint: []JointConstraint{
		{JointName: "no_such_joint", Position: 0},
	}})
	if !set.Empty() {
		t.Error("constraints on unknown joints should be dropped")
	}
}

func TestBoundsSamplerHitsTolerance(t *testing.T) {
	m, g := twoJointModel(t)
	tf := scene.NewTransforms("world")
	c := Constraints{Joint: []JointConstraint{
		{JointName: "j1", Position: 1.0, ToleranceAbove: 0.05, ToleranceBelow: 0.05},
		{JointName: "j2", Position: -1.0, ToleranceAbove: 0.05, ToleranceBelow: 0.05},
	}}

	sampler, err := BoundsBuilder{Seed: 7}.Build(g, c, m, tf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rs := model.NewRobotState(m)
	if !sampler.Sample(rs, 100) {
		t.Fatal("sampler failed to produce a state in 100 attempts")
	}
	v1, _ := rs.JointPositions("j1")
	v2, _ := rs.JointPositions("j2")
	if math.Abs(v1[0]-1.0) > 0.05 {
		t.Errorf("j1 = %v outside tolerance", v1[0])
	}
	if math.Abs(v2[0]+1.0) > 0.05 {
		t.Errorf("j2 = %v outside tolerance", v2[0])
	}
}
