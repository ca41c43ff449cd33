package planning

import (
	"strconv"
	"strings"

	"github.com/arcline-robotics/motionplan/internal/planner"
)

// Reserved configuration keys consumed by the context itself; anything
// else flows to the planner recipe and the space parameter set.
const (
	keyProjectionEvaluator = "projection_evaluator"
	keyMaxVelocity         = "max_velocity"
	keyMaxAcceleration     = "max_acceleration"
	keyPlannerType         = "type"
)

// UseConfig applies a flat string configuration map. Recognized keys
// are consumed independently: a malformed value is logged and skipped
// without disturbing the other keys or the previously stored value.
// A "type" key binds a deferred planner recipe carrying the residual
// entries; with or without one, the residual entries are also offered
// to the space parameter set, which warns about names it does not know.
func (c *Context) UseConfig(cfg map[string]string) {
	if len(cfg) == 0 {
		return
	}
	rest := make(map[string]string, len(cfg))
	for k, v := range cfg {
		rest[k] = v
	}

	if v, ok := rest[keyProjectionEvaluator]; ok {
		c.SetProjectionEvaluator(strings.TrimSpace(v))
		delete(rest, keyProjectionEvaluator)
	}
	if v, ok := rest[keyMaxVelocity]; ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			Opsf("%s: unable to parse maximum velocity %q: %v", c.name, v, err)
		} else {
			c.maxVelocity = f
			Diagf("%s: maximum velocity set to %v", c.name, f)
		}
		delete(rest, keyMaxVelocity)
	}
	if v, ok := rest[keyMaxAcceleration]; ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			Opsf("%s: unable to parse maximum acceleration %q: %v", c.name, v, err)
		} else {
			c.maxAcceleration = f
			Diagf("%s: maximum acceleration set to %v", c.name, f)
		}
		delete(rest, keyMaxAcceleration)
	}

	if len(rest) == 0 {
		return
	}

	if typ, ok := rest[keyPlannerType]; !ok {
		Opsf("%s: attribute %q not specified in planner configuration", c.name, keyPlannerType)
	} else {
		delete(rest, keyPlannerType)
		params := make(map[string]string, len(rest))
		for k, v := range rest {
			params[k] = v
		}
		c.recipe = &planner.Recipe{Type: strings.TrimSpace(typ), Params: params}
		// Any cached instance was built from the previous recipe.
		c.current = nil
		Diagf("%s: planner configuration bound to type %q; remaining parameters apply at planner construction", c.name, c.recipe.Type)
	}

	// Residual entries may also name space parameters. Setup first so
	// parameter-dependent quantities recompute from the applied values.
	c.si.Setup()
	c.si.Params().SetAll(rest, true)
}

// SetProjectionEvaluator resolves a projection specification and
// installs it as the space's default projection. Failures are logged
// and leave the previous projection in place.
func (c *Context) SetProjectionEvaluator(spec string) {
	if c.space == nil {
		Opsf("%s: cannot set projection evaluator without a state space", c.name)
		return
	}
	pe, err := c.space.ResolveProjection(spec)
	if err != nil {
		Opsf("%s: cannot resolve projection evaluator: %v", c.name, err)
		return
	}
	c.space.RegisterDefaultProjection(pe)
	Diagf("%s: default projection set to %q", c.name, spec)
}
