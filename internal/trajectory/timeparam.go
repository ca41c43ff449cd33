package trajectory

import (
	"math"
	"time"
)

// DefaultSmoothingWindow is the averaging window used when converting
// paths to trajectories.
const DefaultSmoothingWindow = 50

// TimeParametrize assigns an elapsed time to each state of a geometric
// path given its per-segment distances. Velocities follow a trapezoidal
// profile bounded by maxVel and maxAccel (starting and ending at rest),
// then segment durations are smoothed over the averaging window.
//
// Non-positive maxVel falls back to unit velocity; non-positive
// maxAccel disables acceleration limiting. The returned times are
// non-decreasing with times[0] == 0.
func TimeParametrize(dists []float64, maxVel, maxAccel float64, window int) []time.Duration {
	n := len(dists) + 1
	times := make([]time.Duration, n)
	if n < 2 {
		return times
	}

	vel := maxVel
	if vel <= 0 {
		vel = 1
	}

	// Per-segment peak velocities.
	v := make([]float64, len(dists))
	for i := range v {
		v[i] = vel
	}
	if maxAccel > 0 {
		// Ramp up from rest.
		prev := 0.0
		for i := range v {
			if cap := math.Sqrt(prev*prev + 2*maxAccel*dists[i]); cap < v[i] {
				v[i] = cap
			}
			prev = v[i]
		}
		// Ramp down to rest.
		next := 0.0
		for i := len(v) - 1; i >= 0; i-- {
			if cap := math.Sqrt(next*next + 2*maxAccel*dists[i]); cap < v[i] {
				v[i] = cap
			}
			next = v[i]
		}
	}

	dt := make([]float64, len(dists))
	for i, d := range dists {
		if d <= 0 || v[i] <= 0 {
			continue
		}
		dt[i] = d / v[i]
	}
	dt = smooth(dt, window)

	elapsed := 0.0
	for i := 1; i < n; i++ {
		elapsed += dt[i-1]
		times[i] = time.Duration(elapsed * float64(time.Second))
	}
	return times
}

// smooth returns the centered moving average of xs over the window.
func smooth(xs []float64, window int) []float64 {
	if window <= 1 || len(xs) < 2 {
		return xs
	}
	half := window / 2
	out := make([]float64, len(xs))
	for i := range xs {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(xs) {
			hi = len(xs) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += xs[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
