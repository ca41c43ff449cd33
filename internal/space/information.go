package space

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/arcline-robotics/motionplan/internal/monitoring"
)

// StateValidityChecker decides whether a single state is admissible
// (collision-free, constraint-satisfying). Implementations must be safe
// for concurrent use: parallel planner instances share one checker.
type StateValidityChecker interface {
	Valid(state []float64) bool
}

// ValidityFunc adapts a function to StateValidityChecker.
type ValidityFunc func(state []float64) bool

// Valid implements StateValidityChecker.
func (f ValidityFunc) Valid(state []float64) bool { return f(state) }

// ParamSet is a declared set of runtime-settable string parameters.
// Unknown keys are rejected (and optionally warned about) rather than
// stored blindly.
type ParamSet struct {
	mu      sync.Mutex
	setters map[string]func(string) error
	values  map[string]string
}

func newParamSet() *ParamSet {
	return &ParamSet{
		setters: make(map[string]func(string) error),
		values:  make(map[string]string),
	}
}

// Declare registers a parameter and its setter. Declaring an existing
// name replaces the setter and keeps the stored value.
func (p *ParamSet) Declare(name string, set func(string) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setters[name] = set
}

// Set applies a single parameter. It returns false for unknown names
// and for setter failures.
func (p *ParamSet) Set(name, value string) bool {
	p.mu.Lock()
	set, ok := p.setters[name]
	p.mu.Unlock()
	if !ok {
		return false
	}
	if err := set(value); err != nil {
		monitoring.Logf("param %q: cannot apply value %q: %v", name, value, err)
		return false
	}
	p.mu.Lock()
	p.values[name] = value
	p.mu.Unlock()
	return true
}

// SetAll applies every entry of cfg. Unknown keys are skipped; when
// warnUnknown is set they are logged.
func (p *ParamSet) SetAll(cfg map[string]string, warnUnknown bool) {
	// Deterministic application order for reproducible logs.
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !p.Set(k, cfg[k]) && warnUnknown {
			monitoring.Logf("param %q is not known to the space information; ignoring", k)
		}
	}
}

// Get returns the last applied value for a parameter.
func (p *ParamSet) Get(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	return v, ok
}

// Information bundles a state space with validity checking, motion
// checking resolution, and runtime parameters. It mirrors the problem
// side of the planning setup: planners receive it read-only.
type Information struct {
	space  *StateSpace
	params *ParamSet
	valid  StateValidityChecker

	setupDone bool

	// longestValidSegmentFraction controls motion-check subdivision as
	// a fraction of the space's maximum extent.
	longestValidSegmentFraction float64
	resolution                  float64
}

// NewInformation wraps a state space. Setup must run before motion
// checks are meaningful.
func NewInformation(s *StateSpace) *Information {
	si := &Information{
		space:                       s,
		params:                      newParamSet(),
		longestValidSegmentFraction: 0.01,
	}
	si.params.Declare("longest_valid_segment_fraction", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if f <= 0 || f > 1 {
			return fmt.Errorf("fraction %v out of (0, 1]", f)
		}
		si.longestValidSegmentFraction = f
		return nil
	})
	return si
}

// Space returns the wrapped state space.
func (si *Information) Space() *StateSpace { return si.space }

// Params returns the runtime parameter set.
func (si *Information) Params() *ParamSet { return si.params }

// SetStateValidityChecker installs the validity checker.
func (si *Information) SetStateValidityChecker(c StateValidityChecker) {
	si.valid = c
}

// Setup finalizes derived quantities. Safe to call repeatedly; later
// parameter changes take effect on the next call.
func (si *Information) Setup() {
	si.resolution = si.space.MaximumExtent() * si.longestValidSegmentFraction
	si.setupDone = true
}

// IsSetup reports whether Setup has run.
func (si *Information) IsSetup() bool { return si.setupDone }

// IsValid checks bounds and the validity checker for one state.
func (si *Information) IsValid(state []float64) bool {
	if !si.space.SatisfiesBounds(state) {
		return false
	}
	if si.valid == nil {
		return true
	}
	return si.valid.Valid(state)
}

// CheckMotion verifies the straight segment from a to b at the
// configured resolution. Endpoints are checked first.
func (si *Information) CheckMotion(a, b []float64) bool {
	if !si.IsValid(a) || !si.IsValid(b) {
		return false
	}
	d := si.space.Distance(a, b)
	res := si.resolution
	if res <= 0 {
		res = si.space.MaximumExtent() * 0.01
	}
	if res <= 0 {
		return true
	}
	steps := int(d / res)
	tmp := make([]float64, len(a))
	for i := 1; i < steps; i++ {
		si.space.Interpolate(a, b, float64(i)/float64(steps), tmp)
		if !si.IsValid(tmp) {
			return false
		}
	}
	return true
}
