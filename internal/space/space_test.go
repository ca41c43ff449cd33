package space

import (
	"math"
	"testing"

	"github.com/arcline-robotics/motionplan/internal/model"
)

func testGroup(t *testing.T) *model.JointGroup {
	t.Helper()
	m, err := model.NewModel("arm", []*model.Joint{
		{Name: "j1", Type: model.Revolute, ChildLink: "l1",
			Bounds: []model.VariableBound{{Min: -2, Max: 2}}},
		{Name: "j2", Type: model.Revolute, ChildLink: "l2",
			Bounds: []model.VariableBound{{Min: -1, Max: 1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := m.AddGroup("arm", []string{"j1", "j2"})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMaximumExtent(t *testing.T) {
	s := NewStateSpace("arm", testGroup(t))
	want := math.Sqrt(16 + 4)
	if got := s.MaximumExtent(); math.Abs(got-want) > 1e-12 {
		t.Errorf("MaximumExtent = %v, want %v", got, want)
	}
}

func TestEnforceBounds(t *testing.T) {
	s := NewStateSpace("arm", testGroup(t))
	st := []float64{5, -3}
	if s.SatisfiesBounds(st) {
		t.Fatal("out-of-bounds state reported in bounds")
	}
	s.EnforceBounds(st)
	if st[0] != 2 || st[1] != -1 {
		t.Errorf("EnforceBounds = %v, want [2 -1]", st)
	}
	if !s.SatisfiesBounds(st) {
		t.Error("clamped state still out of bounds")
	}
}

func TestResolveJointsProjection(t *testing.T) {
	s := NewStateSpace("arm", testGroup(t))
	pe, err := s.ResolveProjection(" joints(j2) ")
	if err != nil {
		t.Fatalf("ResolveProjection: %v", err)
	}
	out := make([]float64, pe.Dimension())
	pe.Project([]float64{0.25, 0.75}, out)
	if len(out) != 1 || out[0] != 0.75 {
		t.Errorf("projection = %v, want [0.75]", out)
	}

	if _, err := s.ResolveProjection("joints(nope)"); err == nil {
		t.Error("expected error for unknown joint")
	}
	if _, err := s.ResolveProjection("bogus"); err == nil {
		t.Error("expected error for unknown spec")
	}
}

func TestParamSetWarnsOnUnknown(t *testing.T) {
	si := NewInformation(NewStateSpace("arm", testGroup(t)))

	applied := si.Params().Set("longest_valid_segment_fraction", "0.1")
	if !applied {
		t.Fatal("known param rejected")
	}
	if si.Params().Set("range", "0.5") {
		t.Error("unknown param accepted")
	}
	si.Params().SetAll(map[string]string{"range": "0.5"}, true)
	if _, ok := si.Params().Get("range"); ok {
		t.Error("unknown param stored by SetAll")
	}
}

func TestCheckMotionSubdivides(t *testing.T) {
	s := NewStateSpace("arm", testGroup(t))
	si := NewInformation(s)
	// Invalidate a thin slab in the middle of j1's range.
	si.SetStateValidityChecker(ValidityFunc(func(st []float64) bool {
		return math.Abs(st[0]) > 0.01
	}))
	si.Setup()

	if si.CheckMotion([]float64{-1, 0}, []float64{1, 0}) {
		t.Error("motion through the invalid slab should fail")
	}
	if !si.CheckMotion([]float64{0.5, 0}, []float64{1, 0}) {
		t.Error("motion clear of the slab should pass")
	}
}

func TestSamplerStaysInBounds(t *testing.T) {
	s := NewStateSpace("arm", testGroup(t))
	smp := s.AllocSampler()
	st := make([]float64, s.Dimension())
	for i := 0; i < 100; i++ {
		smp.SampleUniform(st)
		if !s.SatisfiesBounds(st) {
			t.Fatalf("uniform sample out of bounds: %v", st)
		}
	}
	near := []float64{1.9, 0.9}
	for i := 0; i < 100; i++ {
		smp.SampleUniformNear(st, near, 0.3)
		if !s.SatisfiesBounds(st) {
			t.Fatalf("near sample out of bounds: %v", st)
		}
		if math.Abs(st[0]-near[0]) > 0.3+1e-9 || math.Abs(st[1]-near[1]) > 0.3+1e-9 {
			t.Fatalf("near sample too far: %v", st)
		}
	}
}
