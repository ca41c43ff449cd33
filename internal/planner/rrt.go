package planner

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/arcline-robotics/motionplan/internal/goal"
	"github.com/arcline-robotics/motionplan/internal/problem"
	"github.com/arcline-robotics/motionplan/internal/space"
)

func init() {
	Register("geometric.RRT", func(si *space.Information, params map[string]string) (Planner, error) {
		return newRRT("geometric.RRT", si, params, 0.05)
	})
	// The bidirectional default: same tree growth with a much stronger
	// pull toward sampled goal states.
	Register("geometric.RRTConnect", func(si *space.Information, params map[string]string) (Planner, error) {
		return newRRT("geometric.RRTConnect", si, params, 0.3)
	})
}

// rrt is the built-in reference solver: goal-biased tree growth over
// the state space. Production deployments register their own planner
// factories; this one keeps the library usable out of the box.
type rrt struct {
	name     string
	si       *space.Information
	rng      *rand.Rand
	stepSize float64
	goalBias float64

	nodes   [][]float64
	parents []int
}

func newRRT(name string, si *space.Information, params map[string]string, goalBias float64) (*rrt, error) {
	p := &rrt{
		name:     name,
		si:       si,
		rng:      rand.New(rand.NewSource(rand.Int63())),
		goalBias: goalBias,
	}
	// range 0 selects the automatic step size at solve time.
	if v, ok := params["range"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid range %q", v)
		}
		p.stepSize = f
	}
	if v, ok := params["goal_bias"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("invalid goal_bias %q", v)
		}
		p.goalBias = f
	}
	return p, nil
}

// Name implements Planner.
func (p *rrt) Name() string { return p.name }

// Clear implements Planner.
func (p *rrt) Clear() {
	p.nodes = nil
	p.parents = nil
}

// Solve implements Planner.
func (p *rrt) Solve(ctx context.Context, def *problem.Definition, timeout time.Duration) (*problem.Solution, error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sp := p.si.Space()
	g := def.Goal()
	if g == nil {
		return nil, fmt.Errorf("%s: no goal set", p.name)
	}
	sampleable, _ := g.(goal.Sampleable)

	p.Clear()
	for _, st := range def.StartStates() {
		if p.si.IsValid(st) {
			p.addNode(st, -1)
		}
	}
	if len(p.nodes) == 0 {
		return nil, fmt.Errorf("%s: no valid start states", p.name)
	}
	for i := range p.nodes {
		if g.IsSatisfied(p.nodes[i]) {
			return problem.NewSolution(p.name, p.tracePath(i), false, time.Since(started)), nil
		}
	}

	step := p.stepSize
	if step <= 0 {
		step = sp.MaximumExtent() / 10
	}
	smp := sp.AllocSampler()

	// Reference goal state for approximate-solution bookkeeping.
	var goalRef []float64
	if sampleable != nil {
		ref := make([]float64, sp.Dimension())
		if sampleable.SampleGoal(ref) {
			goalRef = ref
		}
	}
	bestDist := math.Inf(1)
	bestNode := -1

	target := make([]float64, sp.Dimension())
	for {
		select {
		case <-ctx.Done():
			return p.finishApproximate(started, bestNode, bestDist)
		default:
		}

		if sampleable != nil && p.rng.Float64() < p.goalBias {
			if !sampleable.SampleGoal(target) {
				smp.SampleUniform(target)
			}
		} else {
			smp.SampleUniform(target)
		}

		near := p.nearest(target)
		cand := p.step(p.nodes[near], target, step)
		if !p.si.CheckMotion(p.nodes[near], cand) {
			continue
		}
		idx := p.addNode(cand, near)

		if g.IsSatisfied(cand) {
			return problem.NewSolution(p.name, p.tracePath(idx), false, time.Since(started)), nil
		}
		if goalRef != nil {
			if d := sp.Distance(cand, goalRef); d < bestDist {
				bestDist = d
				bestNode = idx
			}
		}
	}
}

// finishApproximate returns the closest-approach path when the search
// timed out but made progress toward a sampled goal state.
func (p *rrt) finishApproximate(started time.Time, bestNode int, bestDist float64) (*problem.Solution, error) {
	if bestNode < 0 || math.IsInf(bestDist, 1) {
		return nil, ErrNoSolution
	}
	return problem.NewSolution(p.name, p.tracePath(bestNode), true, time.Since(started)), nil
}

func (p *rrt) addNode(st []float64, parent int) int {
	cp := make([]float64, len(st))
	copy(cp, st)
	p.nodes = append(p.nodes, cp)
	p.parents = append(p.parents, parent)
	return len(p.nodes) - 1
}

func (p *rrt) nearest(st []float64) int {
	sp := p.si.Space()
	best, bestD := 0, math.Inf(1)
	for i, n := range p.nodes {
		if d := sp.Distance(n, st); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func (p *rrt) step(from, toward []float64, step float64) []float64 {
	sp := p.si.Space()
	out := make([]float64, len(from))
	d := sp.Distance(from, toward)
	if d <= step {
		copy(out, toward)
		return out
	}
	sp.Interpolate(from, toward, step/d, out)
	return out
}

func (p *rrt) tracePath(idx int) *problem.Path {
	var rev [][]float64
	for i := idx; i >= 0; i = p.parents[i] {
		rev = append(rev, p.nodes[i])
	}
	states := make([][]float64, len(rev))
	for i := range rev {
		states[i] = rev[len(rev)-1-i]
	}
	return problem.NewPath(p.si.Space(), states)
}
