package planning

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memorySink struct {
	runs     []BenchmarkRun
	attempts []BenchmarkAttempt
}

func (s *memorySink) RecordRun(run BenchmarkRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *memorySink) RecordAttempt(att BenchmarkAttempt) error {
	s.attempts = append(s.attempts, att)
	return nil
}

func TestBenchmarkRecordsAttempts(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	configureWithGoal(t, c)
	resetProbes()

	sink := &memorySink{}
	run, err := c.Benchmark(500*time.Millisecond, 3, sink)
	require.NoError(t, err)

	require.Len(t, sink.runs, 1)
	require.Equal(t, run.ID, sink.runs[0].ID)
	require.NotEmpty(t, run.ID)
	require.Equal(t, 3, run.Count)

	// Experiment names encode the full setup.
	for _, part := range []string{"planar_arm", "arm", "empty_scene", "arm_ctx"} {
		require.Truef(t, strings.Contains(run.Experiment, part),
			"experiment %q missing %q", run.Experiment, part)
	}

	require.Len(t, sink.attempts, 3)
	for i, att := range sink.attempts {
		require.Equal(t, run.ID, att.RunID)
		require.Equal(t, i, att.Attempt)
		require.True(t, att.Success)
		require.Greater(t, att.SolveTime, time.Duration(0))
		require.Greater(t, att.StateCount, 0)
	}
	require.EqualValues(t, 3, probeCalls.Load())
}

func TestBenchmarkRequiresGoal(t *testing.T) {
	c := armContext(t, nil)
	_, err := c.Benchmark(time.Second, 1, nil)
	require.Error(t, err)
}

func TestBenchmarkNilSink(t *testing.T) {
	c := armContext(t, map[string]string{"type": "test.probe"})
	configureWithGoal(t, c)
	resetProbes()

	run, err := c.Benchmark(500*time.Millisecond, 2, nil)
	require.NoError(t, err)
	require.Equal(t, 2, run.Count)
	require.EqualValues(t, 2, probeCalls.Load())
}
