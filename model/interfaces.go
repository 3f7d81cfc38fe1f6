// Package model implements the periodic-average model (fit, reconstruct,
// forecast) and defines the Forecaster/Reconstructor seam external
// collaborator models (Prophet, ARIMA, Keras-backed, ...) would implement;
// this port only ships PeriodicAverageModel against that seam, matching
// spec.md's Non-goal that excludes those external model wrappers
// themselves while still requiring the contract they plug into.
package model

import "github.com/usefulrisk/timeseria"

// Forecaster produces n synthetic elements extending a series.
type Forecaster interface {
	Predict(s *timeseria.Series[timeseria.DataTimePoint], n int, fromIndex int) (*timeseria.Series[timeseria.DataTimePoint], error)
}

// Reconstructor returns a copy of a slot series with its low-coverage gaps
// filled, stamping data_reconstructed on every element it fills.
type Reconstructor interface {
	Reconstruct(s *timeseria.Series[timeseria.DataTimeSlot]) (*timeseria.Series[timeseria.DataTimeSlot], error)
}

var _ Reconstructor = (*PeriodicAverageModel)(nil)
