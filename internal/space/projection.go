package space

import (
	"fmt"
	"strings"
)

// ProjectionEvaluator maps full states into a low-dimensional space for
// planners that need coverage estimates.
type ProjectionEvaluator interface {
	Dimension() int
	Project(state []float64, out []float64)
}

// JointsProjection projects onto the first variable of each named
// joint.
type JointsProjection struct {
	offsets []int
}

// Dimension implements ProjectionEvaluator.
func (p *JointsProjection) Dimension() int { return len(p.offsets) }

// Project implements ProjectionEvaluator.
func (p *JointsProjection) Project(state []float64, out []float64) {
	for i, off := range p.offsets {
		out[i] = state[off]
	}
}

// RegisterProjection makes an evaluator resolvable by name.
func (s *StateSpace) RegisterProjection(name string, pe ProjectionEvaluator) {
	s.projections[name] = pe
}

// RegisterDefaultProjection installs the projection planners use when
// none is requested explicitly.
func (s *StateSpace) RegisterDefaultProjection(pe ProjectionEvaluator) {
	s.defaultProjection = pe
}

// DefaultProjection returns the installed default projection, or nil.
func (s *StateSpace) DefaultProjection() ProjectionEvaluator {
	return s.defaultProjection
}

// ResolveProjection turns a projection specification into an evaluator.
// Accepted forms: a previously registered name, or "joints(a,b,...)"
// naming joints of the space's group.
func (s *StateSpace) ResolveProjection(spec string) (ProjectionEvaluator, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty projection specification")
	}
	if pe, ok := s.projections[spec]; ok {
		return pe, nil
	}
	if strings.HasPrefix(spec, "joints(") && strings.HasSuffix(spec, ")") {
		inner := spec[len("joints(") : len(spec)-1]
		var offsets []int
		for _, name := range strings.Split(inner, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			off, ok := s.group.JointOffset(name)
			if !ok {
				return nil, fmt.Errorf("projection %q: joint %q not in group %q", spec, name, s.group.Name())
			}
			offsets = append(offsets, off)
		}
		if len(offsets) == 0 {
			return nil, fmt.Errorf("projection %q names no joints", spec)
		}
		return &JointsProjection{offsets: offsets}, nil
	}
	return nil, fmt.Errorf("unknown projection specification %q", spec)
}
