// Package timeseria provides a typed container for regular and irregular
// time series together with the element lattice (points, slots, with or
// without a timestamp, with or without a payload) that every other package
// in this module builds on.
//
// Unlike most numeric libraries, timeseria treats succession and data-shape
// as first-class invariants: a Series[T] can only ever hold elements of
// exactly one concrete type, in strict order, with a uniform data shape.
// This makes it safe for the downstream resampler (package resample), the
// periodic-average model (package model) and the evaluation harness
// (package eval) to assume a well-formed input without re-validating it in
// their hot loops.
//
// Key features:
//
//   - Eight concrete element variants (Point, TimePoint, DataPoint,
//     DataTimePoint, Slot, TimeSlot, DataSlot, DataTimeSlot) modeling the
//     product of "timed?" and "carries data?" over "point vs slot".
//
//   - Append-time validation of the succession, data-shape, slot-span and
//     timezone invariants, each failing with its own typed error
//     (ErrOrder, ErrShape, ErrSpan, ErrTimezone).
//
//   - A per-element DataIndexes side channel (data_loss, data_reconstructed,
//     anomaly) that travels with a series through resampling, fitting and
//     anomaly detection without polluting the payload itself.
//
// Typical usage:
//
//	s, _ := timeseria.NewSeries[timeseria.DataTimePoint]()
//	_ = s.Append(timeseria.NewDataTimePoint(60, timeseria.NewScalarData(1), timeseria.UTC))
//	_ = s.Append(timeseria.NewDataTimePoint(120, timeseria.NewScalarData(2), timeseria.UTC))
package timeseria
