// Package problem holds the shared planning problem: start states, the
// goal, the raw geometric paths planners produce, and the solution
// aggregator parallel solves write into.
package problem

import (
	"math/rand"
	"time"

	"github.com/arcline-robotics/motionplan/internal/space"
)

// Path is an ordered sequence of planner-produced states. It is
// produced once per successful solve and consumed exactly once by
// post-processing.
type Path struct {
	Space  *space.StateSpace
	States [][]float64
}

// NewPath wraps states in a path bound to a space.
func NewPath(s *space.StateSpace, states [][]float64) *Path {
	return &Path{Space: s, States: states}
}

// StateCount returns the number of states.
func (p *Path) StateCount() int { return len(p.States) }

// Length returns the sum of segment distances.
func (p *Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.States); i++ {
		total += p.Space.Distance(p.States[i-1], p.States[i])
	}
	return total
}

// Clone deep-copies the path.
func (p *Path) Clone() *Path {
	states := make([][]float64, len(p.States))
	for i, st := range p.States {
		cp := make([]float64, len(st))
		copy(cp, st)
		states[i] = cp
	}
	return &Path{Space: p.Space, States: states}
}

// Interpolate redistributes the path over at least count evenly spaced
// states. Counts at or below the current state count leave the path
// unchanged.
func (p *Path) Interpolate(count int) {
	n := len(p.States)
	if count <= n || n < 2 {
		return
	}
	total := p.Length()
	if total <= 0 {
		return
	}

	// Cumulative arc length per original state.
	cum := make([]float64, n)
	for i := 1; i < n; i++ {
		cum[i] = cum[i-1] + p.Space.Distance(p.States[i-1], p.States[i])
	}

	dim := len(p.States[0])
	out := make([][]float64, count)
	seg := 0
	for i := 0; i < count; i++ {
		target := total * float64(i) / float64(count-1)
		for seg < n-2 && cum[seg+1] < target {
			seg++
		}
		st := make([]float64, dim)
		segLen := cum[seg+1] - cum[seg]
		t := 0.0
		if segLen > 0 {
			t = (target - cum[seg]) / segLen
		}
		if t > 1 {
			t = 1
		}
		p.Space.Interpolate(p.States[seg], p.States[seg+1], t, st)
		out[i] = st
	}
	// Endpoints stay exact.
	copy(out[0], p.States[0])
	copy(out[count-1], p.States[n-1])
	p.States = out
}

// Shortcut performs bounded-time random shortcutting in place: pairs of
// non-adjacent states whose connecting segment passes the motion check
// have the states between them removed.
func (p *Path) Shortcut(si *space.Information, timeout time.Duration) {
	if len(p.States) < 3 {
		return
	}
	rng := rand.New(rand.NewSource(rand.Int63()))
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) && len(p.States) > 2 {
		i := rng.Intn(len(p.States) - 2)
		j := i + 2 + rng.Intn(len(p.States)-i-2)
		if si.CheckMotion(p.States[i], p.States[j]) {
			p.States = append(p.States[:i+1], p.States[j:]...)
		}
	}
}
