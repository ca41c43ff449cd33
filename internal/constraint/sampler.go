package constraint

import (
	"math"
	"math/rand"

	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/scene"
)

// Sampler produces robot states satisfying a constraint specification.
// Implementations mutate the passed state in place and report success.
type Sampler interface {
	Sample(rs *model.RobotState, maxAttempts int) bool
}

// SamplerBuilder constructs a Sampler for one constraint specification.
// Production deployments plug in IK-backed builders; BoundsBuilder is
// the built-in fallback.
type SamplerBuilder interface {
	Build(group *model.JointGroup, c Constraints, m *model.Model, tf *scene.Transforms) (Sampler, error)
}

// BoundsBuilder builds rejection samplers that draw joint values
// uniformly from the constraint tolerances (or the joint bounds when a
// joint is unconstrained) and verify the full specification.
type BoundsBuilder struct {
	// Seed fixes the sampler RNG when non-zero. Zero seeds from
	// rand.Int63 for independent sampler streams.
	Seed int64
}

// Build implements SamplerBuilder.
func (b BoundsBuilder) Build(group *model.JointGroup, c Constraints, m *model.Model, tf *scene.Transforms) (Sampler, error) {
	set := NewSet(m, tf)
	set.Add(c)
	seed := b.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &boundsSampler{
		group: group,
		set:   set,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

type boundsSampler struct {
	group *model.JointGroup
	set   *Set
	rng   *rand.Rand
}

// Sample draws candidate states until the constraint set is satisfied
// or maxAttempts is exhausted.
func (s *boundsSampler) Sample(rs *model.RobotState, maxAttempts int) bool {
	c := s.set.All()
	byJoint := make(map[string]JointConstraint, len(c.Joint))
	for _, jc := range c.Joint {
		byJoint[jc.JointName] = jc
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for _, j := range s.group.Joints() {
			vals := make([]float64, j.VariableCount())
			if jc, ok := byJoint[j.Name]; ok && j.VariableCount() == 1 {
				lo := jc.Position - jc.ToleranceBelow
				hi := jc.Position + jc.ToleranceAbove
				vals[0] = lo + s.rng.Float64()*(hi-lo)
			} else {
				for i, b := range j.Bounds {
					vals[i] = b.Min + s.rng.Float64()*(b.Max-b.Min)
				}
				if j.Type == model.Floating {
					randomUnitQuaternion(s.rng, vals[3:7])
				}
			}
			if err := rs.SetJointPositions(j.Name, vals); err != nil {
				return false
			}
		}
		if s.set.Satisfied(rs) {
			return true
		}
	}
	return false
}

// randomUnitQuaternion fills q with a uniformly distributed unit
// quaternion (Shoemake's subgroup algorithm).
func randomUnitQuaternion(rng *rand.Rand, q []float64) {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	s1 := math.Sqrt(1 - u1)
	s2 := math.Sqrt(u1)
	q[0] = s1 * math.Sin(2*math.Pi*u2) // qx
	q[1] = s1 * math.Cos(2*math.Pi*u2) // qy
	q[2] = s2 * math.Sin(2*math.Pi*u3) // qz
	q[3] = s2 * math.Cos(2*math.Pi*u3) // qw
}
