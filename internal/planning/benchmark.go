package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BenchmarkRun is one recorded benchmark invocation.
type BenchmarkRun struct {
	ID         string
	Experiment string
	Timeout    time.Duration
	Count      int
	CreatedAt  time.Time
}

// BenchmarkAttempt is one solve attempt within a run.
type BenchmarkAttempt struct {
	RunID       string
	Attempt     int
	Success     bool
	Approximate bool
	SolveTime   time.Duration
	PathLength  float64
	StateCount  int
}

// BenchmarkSink persists benchmark results. A nil sink keeps results
// in logs only.
type BenchmarkSink interface {
	RecordRun(run BenchmarkRun) error
	RecordAttempt(att BenchmarkAttempt) error
}

// Benchmark runs count independent solve attempts with a fresh planner
// instance each, recording per-attempt outcomes to the sink. The
// experiment name encodes model, group, scene, and context so runs
// against different setups stay distinguishable.
func (c *Context) Benchmark(timeout time.Duration, count int, sink BenchmarkSink) (BenchmarkRun, error) {
	if c.def.Goal() == nil {
		return BenchmarkRun{}, fmt.Errorf("planning context %q: cannot benchmark with no goal set", c.name)
	}
	sceneName := ""
	if c.scene != nil {
		sceneName = c.scene.Name()
	}
	run := BenchmarkRun{
		ID: uuid.NewString(),
		Experiment: fmt.Sprintf("%s_%s_%s_%s",
			c.spec.Model.Name(), c.spec.Group.Name(), sceneName, c.name),
		Timeout:   timeout,
		Count:     count,
		CreatedAt: time.Now().UTC(),
	}
	if sink != nil {
		if err := sink.RecordRun(run); err != nil {
			return run, fmt.Errorf("record benchmark run: %w", err)
		}
	}
	Diagf("%s: benchmarking experiment %q, %d attempts at %v each", c.name, run.Experiment, count, timeout)

	for i := 0; i < count; i++ {
		c.def.ClearSolutionPaths()
		att := BenchmarkAttempt{RunID: run.ID, Attempt: i}

		p, err := c.allocPlanner()
		if err != nil {
			Opsf("%s: benchmark attempt %d: cannot allocate planner: %v", c.name, i, err)
		} else {
			begin := time.Now()
			sol, serr := p.Solve(context.Background(), c.def, timeout)
			att.SolveTime = time.Since(begin)
			if serr == nil && sol != nil {
				att.Success = true
				att.Approximate = sol.Approximate
				att.PathLength = sol.Path.Length()
				att.StateCount = sol.Path.StateCount()
			}
		}
		Tracef("%s: benchmark attempt %d: success=%v approximate=%v time=%v length=%.3f",
			c.name, i, att.Success, att.Approximate, att.SolveTime, att.PathLength)

		if sink != nil {
			if err := sink.RecordAttempt(att); err != nil {
				return run, fmt.Errorf("record benchmark attempt %d: %w", i, err)
			}
		}
	}
	return run, nil
}
