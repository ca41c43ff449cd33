// Package space implements the bounded configuration space a planning
// context plans in, plus the space information wrapper that carries
// validity checking and runtime-settable parameters.
package space

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/arcline-robotics/motionplan/internal/model"
)

// StateSampler draws states from a space. Planner instances each own a
// private sampler so parallel solves never share RNG state.
type StateSampler interface {
	SampleUniform(out []float64)
	SampleUniformNear(out, near []float64, dist float64)
}

// StateSamplerAllocator builds a sampler for a space. Contexts install
// an allocator to route sampling through path-constrained samplers; the
// default allocator returns the space's uniform sampler.
type StateSamplerAllocator func(s *StateSpace) StateSampler

// StateSpace is the bounded planning domain for one joint group.
// States are flat float64 vectors in group variable order.
type StateSpace struct {
	name   string
	group  *model.JointGroup
	bounds []model.VariableBound

	projections       map[string]ProjectionEvaluator
	defaultProjection ProjectionEvaluator
	samplerAlloc      StateSamplerAllocator
}

// NewStateSpace builds a space over the group's variable bounds.
func NewStateSpace(name string, group *model.JointGroup) *StateSpace {
	return &StateSpace{
		name:        name,
		group:       group,
		bounds:      group.VariableBounds(),
		projections: make(map[string]ProjectionEvaluator),
	}
}

// Name returns the space name.
func (s *StateSpace) Name() string { return s.name }

// Group returns the joint group the space spans.
func (s *StateSpace) Group() *model.JointGroup { return s.group }

// Dimension returns the number of planning variables.
func (s *StateSpace) Dimension() int { return len(s.bounds) }

// Bounds returns the per-variable bounds.
func (s *StateSpace) Bounds() []model.VariableBound { return s.bounds }

// Distance returns the Euclidean distance between two states.
func (s *StateSpace) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// MaximumExtent returns the diagonal of the bounding box, the largest
// possible distance between two states in the space.
func (s *StateSpace) MaximumExtent() float64 {
	sum := 0.0
	for _, b := range s.bounds {
		w := b.Max - b.Min
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Interpolate writes the state a fraction t of the way from a to b.
func (s *StateSpace) Interpolate(a, b []float64, t float64, out []float64) {
	for i := range out {
		out[i] = a[i] + t*(b[i]-a[i])
	}
}

// SatisfiesBounds reports whether every variable is within bounds.
func (s *StateSpace) SatisfiesBounds(st []float64) bool {
	for i, b := range s.bounds {
		if st[i] < b.Min || st[i] > b.Max {
			return false
		}
	}
	return true
}

// EnforceBounds clamps every variable into its bounds in place.
func (s *StateSpace) EnforceBounds(st []float64) {
	for i, b := range s.bounds {
		if st[i] < b.Min {
			st[i] = b.Min
		} else if st[i] > b.Max {
			st[i] = b.Max
		}
	}
}

// SetPlanningVolume rebounds the translational variables of multi-DoF
// joints (floating x/y/z, planar x/y). Other variables are unaffected.
func (s *StateSpace) SetPlanningVolume(minX, maxX, minY, maxY, minZ, maxZ float64) {
	off := 0
	for _, j := range s.group.Joints() {
		switch j.Type {
		case model.Floating:
			s.bounds[off] = model.VariableBound{Min: minX, Max: maxX}
			s.bounds[off+1] = model.VariableBound{Min: minY, Max: maxY}
			s.bounds[off+2] = model.VariableBound{Min: minZ, Max: maxZ}
		case model.Planar:
			s.bounds[off] = model.VariableBound{Min: minX, Max: maxX}
			s.bounds[off+1] = model.VariableBound{Min: minY, Max: maxY}
		}
		off += j.VariableCount()
	}
}

// SetStateSamplerAllocator installs a custom sampler allocator.
func (s *StateSpace) SetStateSamplerAllocator(alloc StateSamplerAllocator) {
	s.samplerAlloc = alloc
}

// AllocSampler returns a fresh sampler for this space, honouring the
// installed allocator and falling back to the default uniform sampler.
func (s *StateSpace) AllocSampler() StateSampler {
	if s.samplerAlloc != nil {
		if smp := s.samplerAlloc(s); smp != nil {
			return smp
		}
	}
	return s.AllocDefaultSampler()
}

// AllocDefaultSampler returns the uniform sampler for this space.
func (s *StateSpace) AllocDefaultSampler() StateSampler {
	return &uniformSampler{space: s, rng: rand.New(rand.NewSource(rand.Int63()))}
}

type uniformSampler struct {
	space *StateSpace
	rng   *rand.Rand
}

func (u *uniformSampler) SampleUniform(out []float64) {
	for i, b := range u.space.bounds {
		out[i] = b.Min + u.rng.Float64()*(b.Max-b.Min)
	}
}

func (u *uniformSampler) SampleUniformNear(out, near []float64, dist float64) {
	for i, b := range u.space.bounds {
		lo := math.Max(b.Min, near[i]-dist)
		hi := math.Min(b.Max, near[i]+dist)
		if hi < lo {
			lo, hi = b.Min, b.Max
		}
		out[i] = lo + u.rng.Float64()*(hi-lo)
	}
}
