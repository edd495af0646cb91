package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// maxGridPoints caps grids built from (tFinal, dt) pairs.
const maxGridPoints = 10_000_000

// UniformGrid returns 0, dt, 2dt, ... up to and including tFinal (within
// half a step of rounding).
func UniformGrid(tFinal, dt float64) ([]float64, error) {
	const op = "uniform grid"
	if math.IsNaN(tFinal) || math.IsInf(tFinal, 0) || tFinal < 0 {
		return nil, InvalidArgument(op, "t_final", tFinal, "must be finite and >= 0")
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return nil, InvalidArgument(op, "dt", dt, "must be finite and > 0")
	}
	steps := math.Floor(tFinal/dt + 1e-9)
	if steps+1 > maxGridPoints {
		return nil, InvalidArgument(op, "dt", dt, "produces too many grid points")
	}
	n := int(steps) + 1
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = float64(i) * dt
	}
	return grid, nil
}

// Linspace returns n evenly spaced points from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	const op = "linspace"
	if n < 2 {
		return nil, InvalidArgument(op, "n", float64(n), "must be >= 2")
	}
	if !(hi > lo) {
		return nil, InvalidArgument(op, "hi", hi, "must be greater than lo")
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// ValidateTimes checks that times is a non-empty, finite, non-negative and
// strictly increasing sequence.
func ValidateTimes(times []float64) error {
	const op = "validate times"
	if len(times) == 0 {
		return InvalidArgument(op, "len(times)", 0, "must be non-empty")
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return InvalidArgument(op, "t", t, "must be finite")
		}
		if t < 0 {
			return InvalidArgument(op, "t", t, "must be >= 0")
		}
		if i > 0 && t <= times[i-1] {
			return InvalidArgument(op, "t", t, "times must be strictly increasing")
		}
	}
	return nil
}
