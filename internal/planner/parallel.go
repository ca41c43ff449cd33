package planner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arcline-robotics/motionplan/internal/monitoring"
	"github.com/arcline-robotics/motionplan/internal/problem"
)

// ParallelPlan runs several planner instances concurrently against one
// shared, read-only problem definition. Workers contribute solutions
// through the definition's serialized solution list; hybridization runs
// as a single aggregation pass after all workers have joined.
type ParallelPlan struct {
	def *problem.Definition

	mu          sync.Mutex
	planners    []Planner
	hybridPaths []*problem.Path
}

// NewParallelPlan creates a runner bound to a problem definition.
func NewParallelPlan(def *problem.Definition) *ParallelPlan {
	return &ParallelPlan{def: def}
}

// ClearPlanners empties the planner pool.
func (pp *ParallelPlan) ClearPlanners() {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.planners = nil
}

// AddPlanner appends a planner instance to the pool.
func (pp *ParallelPlan) AddPlanner(p Planner) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.planners = append(pp.planners, p)
}

// PlannerCount returns the pool size.
func (pp *ParallelPlan) PlannerCount() int {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	return len(pp.planners)
}

// ClearHybridizationPaths drops paths carried over from earlier rounds.
func (pp *ParallelPlan) ClearHybridizationPaths() {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.hybridPaths = nil
}

// Solve runs every pooled planner concurrently with the same timeout.
// The round stops early once minSolutions exact solutions exist. It
// reports whether the problem holds any solution afterwards.
func (pp *ParallelPlan) Solve(timeout time.Duration, minSolutions int, hybridize bool) bool {
	pp.mu.Lock()
	pool := make([]Planner, len(pp.planners))
	copy(pool, pp.planners)
	pp.mu.Unlock()
	if len(pool) == 0 {
		return false
	}
	if minSolutions < 1 {
		minSolutions = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var exact atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for _, pl := range pool {
		pl := pl
		g.Go(func() error {
			sol, err := pl.Solve(gctx, pp.def, timeout)
			if err != nil || sol == nil {
				// Individual worker failure does not fail the round.
				return nil
			}
			pp.def.AddSolution(sol)
			if hybridize {
				pp.mu.Lock()
				pp.hybridPaths = append(pp.hybridPaths, sol.Path)
				pp.mu.Unlock()
			}
			if !sol.Approximate && exact.Add(1) >= int32Clamp(minSolutions) {
				cancel()
			}
			return nil
		})
	}
	// Workers never return errors; Wait is the join barrier.
	_ = g.Wait()

	if hybridize {
		pp.hybridizePaths()
	}
	return pp.def.HasSolution()
}

func int32Clamp(v int) int32 {
	if v > 1<<30 {
		return 1 << 30
	}
	return int32(v)
}

// hybridizePaths combines solution paths from concurrent runs: it
// splices suffixes of alternative paths onto the current best wherever
// the paths pass close to each other and the connecting motion is
// valid, keeping the result only when it is shorter.
func (pp *ParallelPlan) hybridizePaths() {
	pp.mu.Lock()
	paths := make([]*problem.Path, len(pp.hybridPaths))
	copy(paths, pp.hybridPaths)
	pp.mu.Unlock()
	if len(paths) < 2 {
		return
	}

	si := pp.def.SpaceInformation()
	sp := si.Space()
	best := paths[0]
	for _, p := range paths[1:] {
		if p.Length() < best.Length() {
			best = p
		}
	}
	matchRadius := sp.MaximumExtent() / 20

	improved := best
	for _, other := range paths {
		if other == best {
			continue
		}
		for i := 0; i < len(best.States); i++ {
			for j := 0; j < len(other.States); j++ {
				if sp.Distance(best.States[i], other.States[j]) > matchRadius {
					continue
				}
				if !si.CheckMotion(best.States[i], other.States[j]) {
					continue
				}
				cand := spliced(best, i, other, j)
				if cand.Length() >= improved.Length() {
					continue
				}
				// Splices must still end in the goal region.
				if g := pp.def.Goal(); g != nil && !g.IsSatisfied(cand.States[len(cand.States)-1]) {
					continue
				}
				improved = cand
			}
		}
	}
	if improved != best {
		monitoring.Logf("hybridization shortened best path %.3f -> %.3f", best.Length(), improved.Length())
		pp.def.AddSolution(problem.NewSolution("hybrid", improved, false, 0))
	}
}

// spliced joins a's prefix through index i with b's suffix from j.
func spliced(a *problem.Path, i int, b *problem.Path, j int) *problem.Path {
	states := make([][]float64, 0, i+1+len(b.States)-j)
	for _, st := range a.States[:i+1] {
		cp := make([]float64, len(st))
		copy(cp, st)
		states = append(states, cp)
	}
	for _, st := range b.States[j:] {
		cp := make([]float64, len(st))
		copy(cp, st)
		states = append(states, cp)
	}
	return problem.NewPath(a.Space, states)
}
