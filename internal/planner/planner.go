// Package planner defines the opaque-solver contract a planning
// context drives, a registry of planner factories, the deferred
// allocation recipe bound at configuration time, and a parallel runner
// that fans one problem out across planner instances.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arcline-robotics/motionplan/internal/goal"
	"github.com/arcline-robotics/motionplan/internal/problem"
	"github.com/arcline-robotics/motionplan/internal/space"
)

// ErrNoSolution reports a solve attempt that ran out of time or states
// without reaching the goal.
var ErrNoSolution = errors.New("no solution found")

// Planner is the opaque solver contract. Implementations own all their
// search state; the problem definition is shared read-only except for
// its serialized solution list.
type Planner interface {
	// Name identifies the planner for logs and solution records.
	Name() string
	// Solve attempts the problem within the timeout. It returns the
	// solution (possibly approximate) or ErrNoSolution. The context
	// carries the deadline for parallel rounds; planners must honour
	// both.
	Solve(ctx context.Context, def *problem.Definition, timeout time.Duration) (*problem.Solution, error)
	// Clear resets internal search state so the instance can be reused
	// against a changed problem.
	Clear()
}

// Factory constructs a planner for a space with planner-specific
// string parameters.
type Factory func(si *space.Information, params map[string]string) (Planner, error)

var (
	regMu     sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a planner type constructible by name.
func Register(typeName string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[typeName] = f
}

// Lookup resolves a planner type name. The legacy "geometric::X"
// spelling is accepted as an alias for "geometric.X".
func Lookup(typeName string) (Factory, bool) {
	typeName = strings.ReplaceAll(typeName, "::", ".")
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := factories[typeName]
	return f, ok
}

// Types returns the registered planner type names, sorted.
func Types() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Recipe is the deferred planner-allocation value bound at
// configuration time: it captures the type name and the residual
// parameter map now and constructs instances later, when a planner is
// actually needed.
type Recipe struct {
	Type   string
	Params map[string]string
}

// Build constructs a planner instance from the recipe.
func (r *Recipe) Build(si *space.Information) (Planner, error) {
	f, ok := Lookup(r.Type)
	if !ok {
		return nil, fmt.Errorf("unknown planner type %q (registered: %s)", r.Type, strings.Join(Types(), ", "))
	}
	p, err := f(si, r.Params)
	if err != nil {
		return nil, fmt.Errorf("construct planner %q: %w", r.Type, err)
	}
	return p, nil
}

// DefaultType picks a planner type for a goal when no recipe was
// configured: sampleable goals get the bidirectional default.
func DefaultType(g goal.Goal) string {
	if _, ok := g.(goal.Sampleable); ok {
		return "geometric.RRTConnect"
	}
	return "geometric.RRT"
}

// NewDefault constructs the default planner for a goal.
func NewDefault(si *space.Information, g goal.Goal) (Planner, error) {
	r := Recipe{Type: DefaultType(g)}
	return r.Build(si)
}
