// Package tsstats wraps github.com/montanaflynn/stats with the typed
// error taxonomy this engine needs (fit, evaluate, anomaly all call these
// primitives on small in-memory slices).
//
// Grounded on the teacher repo's stats.go: that file reimplements
// Sum/Mean/Median/Min/Max/StdDev/Percentile by hand and references two
// sentinels, ErrEmptyInput and ErrBounds, that it never defines (a latent
// compile error in the teacher source). This package keeps the same
// function surface and sentinel names but backs them with the vetted
// montanaflynn/stats implementations instead of hand-rolled loops, and
// actually defines the sentinels (errors.go).
package tsstats

import (
	"github.com/montanaflynn/stats"
)

// Sum returns the sum of input, or ErrEmptyInput if input is empty.
func Sum(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	v, err := stats.Sum(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Mean returns the arithmetic mean of input, or ErrEmptyInput if empty.
func Mean(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	v, err := stats.Mean(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Median returns the median of input. Unlike the teacher's Median, input
// is never mutated: montanaflynn/stats sorts an internal copy.
func Median(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	v, err := stats.Median(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Min returns the smallest value in input, or ErrEmptyInput if empty.
func Min(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	v, err := stats.Min(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Max returns the largest value in input, or ErrEmptyInput if empty.
func Max(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	v, err := stats.Max(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// StdDev returns the sample standard deviation of input (denominator n-1),
// ErrEmptyInput if input is empty, or ErrBounds if it holds a single value.
func StdDev(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	if len(input) < 2 {
		return 0, ErrBounds
	}
	v, err := stats.StandardDeviationSample(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// PopStdDev returns the population standard deviation of input (the
// anomaly detector fits over the full residual population, not a sample).
func PopStdDev(input []float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	v, err := stats.StandardDeviationPopulation(stats.Float64Data(input))
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Percentile returns the p-th percentile of input (nearest-rank), or
// ErrBounds if p is outside (0, 100].
func Percentile(input []float64, p float64) (float64, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	if p <= 0 || p > 100 {
		return 0, ErrBounds
	}
	v, err := stats.PercentileNearestRank(stats.Float64Data(input), p)
	if err != nil {
		return 0, err
	}
	return v, nil
}
