// Package planning implements the planning context: the long-lived
// object that binds a robot model, a joint group, a scene snapshot, and
// planner configuration into repeated solve attempts. A context is
// reused across requests; scene, start state, and constraints are
// swapped between solves and stale results are cleared first.
package planning

import (
	"fmt"
	"sync"
	"time"

	"github.com/arcline-robotics/motionplan/internal/constraint"
	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/planner"
	"github.com/arcline-robotics/motionplan/internal/problem"
	"github.com/arcline-robotics/motionplan/internal/scene"
	"github.com/arcline-robotics/motionplan/internal/space"
)

// Defaults applied by New when the corresponding Spec field is zero.
const (
	DefaultMaxGoalSamples      = 10
	DefaultMaxSamplingAttempts = 100
	DefaultMaxPlanningThreads  = 4
)

// Spec carries everything a context needs at construction time.
// Model and Group are required; the rest defaults sensibly.
type Spec struct {
	Model *model.Model
	Group *model.JointGroup

	// SamplerBuilder turns constraint specifications into samplers.
	// Nil selects the built-in bounds rejection builder.
	SamplerBuilder constraint.SamplerBuilder

	// ValidityChecker is the external state admissibility collaborator
	// (collision checking). Nil accepts every in-bounds state.
	ValidityChecker space.StateValidityChecker

	// Config is the planner configuration applied during Configure; the
	// same map UseConfig accepts.
	Config map[string]string

	// MaxGoalSamples bounds the lazy goal sample queue per region.
	MaxGoalSamples int
	// MaxSamplingAttempts bounds each individual goal sampling try.
	MaxSamplingAttempts int
	// MaxPlanningThreads caps concurrent planner instances per round.
	MaxPlanningThreads int

	// MaxSolutionSegmentLength is the waypoint spacing target for
	// solution interpolation. Zero or negative skips interpolation.
	MaxSolutionSegmentLength float64

	// MaxVelocity and MaxAcceleration seed trajectory time
	// parametrization; planner configuration may override them.
	MaxVelocity     float64
	MaxAcceleration float64
}

// Context is one reusable planning setup for a (model, group) pair.
// Methods are not safe for concurrent use; a context serves one
// request at a time, like the rest of the pipeline stages.
type Context struct {
	name string
	spec Spec

	space    *space.StateSpace
	si       *space.Information
	def      *problem.Definition
	parallel *planner.ParallelPlan

	scene      scene.Scene
	startState *model.RobotState

	pathConstraints *constraint.Set
	goalConstraints []*constraint.Set

	// recipe defers planner allocation to solve time; current caches
	// the single-threaded instance between solves.
	recipe  *planner.Recipe
	current planner.Planner

	maxVelocity              float64
	maxAcceleration          float64
	maxSolutionSegmentLength float64
	maxGoalSamples           int
	maxSamplingAttempts      int
	maxPlanningThreads       int

	mu           sync.Mutex
	lastPlanTime time.Duration
	lastSimplify time.Duration
}

// New creates a context. The start state initializes to the model's
// default state; install a real one with SetStartState.
func New(name string, spec Spec) (*Context, error) {
	if spec.Model == nil {
		return nil, fmt.Errorf("planning context %q: nil model", name)
	}
	if spec.Group == nil {
		return nil, fmt.Errorf("planning context %q: nil joint group", name)
	}
	if spec.SamplerBuilder == nil {
		spec.SamplerBuilder = constraint.BoundsBuilder{}
	}

	sp := space.NewStateSpace(name, spec.Group)
	si := space.NewInformation(sp)
	def := problem.NewDefinition(si)

	c := &Context{
		name:                     name,
		spec:                     spec,
		space:                    sp,
		si:                       si,
		def:                      def,
		parallel:                 planner.NewParallelPlan(def),
		startState:               model.NewRobotState(spec.Model),
		maxVelocity:              spec.MaxVelocity,
		maxAcceleration:          spec.MaxAcceleration,
		maxSolutionSegmentLength: spec.MaxSolutionSegmentLength,
		maxGoalSamples:           spec.MaxGoalSamples,
		maxSamplingAttempts:      spec.MaxSamplingAttempts,
		maxPlanningThreads:       spec.MaxPlanningThreads,
	}
	if c.maxGoalSamples <= 0 {
		c.maxGoalSamples = DefaultMaxGoalSamples
	}
	if c.maxSamplingAttempts <= 0 {
		c.maxSamplingAttempts = DefaultMaxSamplingAttempts
	}
	if c.maxPlanningThreads <= 0 {
		c.maxPlanningThreads = DefaultMaxPlanningThreads
	}
	if spec.ValidityChecker != nil {
		si.SetStateValidityChecker(spec.ValidityChecker)
	}
	return c, nil
}

// Name returns the context name.
func (c *Context) Name() string { return c.name }

// Space returns the planning state space.
func (c *Context) Space() *space.StateSpace { return c.space }

// SpaceInformation returns the space information the context plans with.
func (c *Context) SpaceInformation() *space.Information { return c.si }

// Problem returns the problem definition the context solves.
func (c *Context) Problem() *problem.Definition { return c.def }

// Scene returns the active planning scene, possibly nil.
func (c *Context) Scene() scene.Scene { return c.scene }

// StartState returns the complete robot start state.
func (c *Context) StartState() *model.RobotState { return c.startState }

// Recipe returns the deferred planner recipe, nil until a planner type
// is configured.
func (c *Context) Recipe() *planner.Recipe { return c.recipe }

// MaxPlanningThreads returns the per-round planner instance cap.
func (c *Context) MaxPlanningThreads() int { return c.maxPlanningThreads }

// MaxVelocity returns the configured velocity bound.
func (c *Context) MaxVelocity() float64 { return c.maxVelocity }

// MaxAcceleration returns the configured acceleration bound.
func (c *Context) MaxAcceleration() float64 { return c.maxAcceleration }

// MaxSolutionSegmentLength returns the interpolation spacing target.
func (c *Context) MaxSolutionSegmentLength() float64 { return c.maxSolutionSegmentLength }

// SetMaxSolutionSegmentLength overrides the interpolation spacing.
func (c *Context) SetMaxSolutionSegmentLength(v float64) { c.maxSolutionSegmentLength = v }

// LastPlanTime returns the solve duration of the most recent Solve.
func (c *Context) LastPlanTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPlanTime
}

// LastSimplifyTime returns the duration of the most recent
// SimplifySolution.
func (c *Context) LastSimplifyTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSimplify
}

// SetPlanningVolume rebounds the translational variables of floating
// and planar joints in the planning space.
func (c *Context) SetPlanningVolume(minX, maxX, minY, maxY, minZ, maxZ float64) {
	c.space.SetPlanningVolume(minX, maxX, minY, maxY, minZ, maxZ)
	// Extent-derived quantities are stale until the next setup.
	c.si.Setup()
}

// SetStateSamplerAllocator routes planner state sampling through a
// custom allocator (for example a path-constraint-aware sampler).
func (c *Context) SetStateSamplerAllocator(alloc space.StateSamplerAllocator) {
	c.space.SetStateSamplerAllocator(alloc)
}

// Configure finalizes the context after scene, start state, and
// constraints are in place: it pushes the start state into the problem,
// applies the construction-time planner configuration, and runs space
// setup. Call it once per request, after SetPlanningConstraints.
func (c *Context) Configure() error {
	if c.def.Goal() == nil {
		return fmt.Errorf("planning context %q: cannot configure with no goal set", c.name)
	}

	start := make([]float64, c.spec.Group.VariableCount())
	c.startState.CopyGroupTo(c.spec.Group, start)
	c.def.ClearStartStates()
	c.def.AddStartState(start)

	c.UseConfig(c.spec.Config)
	if !c.si.IsSetup() {
		c.si.Setup()
	}
	Diagf("%s: context configured, space dimension %d", c.name, c.space.Dimension())
	return nil
}
