package planning

import (
	"github.com/arcline-robotics/motionplan/internal/goal"
)

// constructGoal turns the stored goal constraint sets into a sampleable
// goal. One set yields its region directly; several sets yield a union
// region that rotates sampling across members. Sets for which no
// sampler can be built are skipped with a warning.
func (c *Context) constructGoal() (goal.Sampleable, error) {
	regions := make([]goal.Sampleable, 0, len(c.goalConstraints))
	for _, set := range c.goalConstraints {
		smp, err := c.spec.SamplerBuilder.Build(c.spec.Group, set.All(), c.spec.Model, c.scene.Transforms())
		if err != nil {
			Opsf("%s: cannot build sampler for goal constraints %q: %v", c.name, set.All().Name, err)
			continue
		}
		regions = append(regions, goal.NewConstrainedSampler(goal.ConstrainedSamplerConfig{
			Space:       c.space,
			Seed:        c.startState,
			Set:         set,
			Sampler:     smp,
			MaxSamples:  c.maxGoalSamples,
			MaxAttempts: c.maxSamplingAttempts,
		}))
	}
	if len(regions) == 0 {
		Opsf("%s: unable to construct goal representation", c.name)
		return nil, ErrInvalidGoalConstraints
	}
	Tracef("%s: constructed goal from %d region(s)", c.name, len(regions))
	if len(regions) == 1 {
		return regions[0], nil
	}
	return goal.NewMux(regions), nil
}
