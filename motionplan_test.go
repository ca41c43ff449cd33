package motionplan

import (
	"math"
	"testing"
	"time"
)

// TestPlanEndToEnd drives the exported surface the way an embedding
// application would: model, scene, constraints, solve, trajectory.
func TestPlanEndToEnd(t *testing.T) {
	bound := []VariableBound{{Min: -math.Pi, Max: math.Pi}}
	m, err := NewModel("arm", []*Joint{
		{Name: "shoulder", Type: Revolute, ChildLink: "upper_arm", Bounds: bound},
		{Name: "elbow", Type: Revolute, ChildLink: "forearm", Bounds: bound},
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := m.AddGroup("arm", []string{"shoulder", "elbow"})
	if err != nil {
		t.Fatal(err)
	}

	cfgFile, err := ParseConfig([]byte(`
planner_configs:
  Default:
    type: geometric::RRTConnect
groups:
  arm:
    default_planner_config: Default
    max_velocity: 1.0
    max_acceleration: 2.0
`))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := cfgFile.ContextConfig("arm", "")
	if err != nil {
		t.Fatal(err)
	}

	ctx, err := New("arm_ctx", Spec{
		Model:                    m,
		Group:                    g,
		Config:                   cfg,
		MaxSolutionSegmentLength: 0.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetPlanningScene(NewStatic("empty", "world", m, nil)); err != nil {
		t.Fatal(err)
	}

	goalSpec := Constraints{
		Name: "reach",
		Joint: []JointConstraint{
			{JointName: "shoulder", Position: 1.0, ToleranceAbove: 0.1, ToleranceBelow: 0.1, Weight: 1},
			{JointName: "elbow", Position: -0.5, ToleranceAbove: 0.1, ToleranceBelow: 0.1, Weight: 1},
		},
	}
	if err := ctx.SetPlanningConstraints([]Constraints{goalSpec}, Constraints{}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Configure(); err != nil {
		t.Fatal(err)
	}

	if !ctx.Solve(5*time.Second, 1) {
		t.Fatal("solve failed")
	}
	ctx.SimplifySolution(100 * time.Millisecond)
	ctx.InterpolateSolution()

	traj, ok := ctx.SolutionPath()
	if !ok {
		t.Fatal("no solution trajectory")
	}
	if traj.FrameID != "world" {
		t.Errorf("frame = %q, want world", traj.FrameID)
	}
	if len(traj.Points) < 2 {
		t.Fatalf("trajectory has %d points", len(traj.Points))
	}
	for i := 1; i < len(traj.Points); i++ {
		if traj.Points[i].TimeFromStart < traj.Points[i-1].TimeFromStart {
			t.Fatalf("times not non-decreasing at %d", i)
		}
	}
	final := traj.Points[len(traj.Points)-1]
	if math.Abs(final.Positions[0]-1.0) > 0.1+1e-9 {
		t.Errorf("final shoulder = %v, want within 0.1 of 1.0", final.Positions[0])
	}
	if math.Abs(final.Positions[1]+0.5) > 0.1+1e-9 {
		t.Errorf("final elbow = %v, want within 0.1 of -0.5", final.Positions[1])
	}
}

func TestInvalidGoalConstraintsSentinel(t *testing.T) {
	bound := []VariableBound{{Min: -1, Max: 1}}
	m, err := NewModel("stub", []*Joint{
		{Name: "j", Type: Prismatic, ChildLink: "link", Bounds: bound},
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := m.AddGroup("g", []string{"j"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := New("stub_ctx", Spec{Model: m, Group: g})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetPlanningScene(NewStatic("empty", "world", m, nil)); err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetPlanningConstraints(nil, Constraints{}); err != ErrInvalidGoalConstraints {
		t.Errorf("err = %v, want ErrInvalidGoalConstraints", err)
	}
}
