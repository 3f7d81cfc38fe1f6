package timeseria

import "errors"

// Error taxonomy for the core data model and the transforms built on it
// (resample, model, eval, anomaly). Each sentinel is surfaced wrapped with
// %w so callers can both match with errors.Is and read a specific message.
//
// The teacher repo (usefulrisk/timeseries, stats.go) references
// ErrEmptyInput and ErrBounds without ever defining them; this file
// completes that pattern and extends it to the full taxonomy the engine
// needs.
var (
	// ErrType is raised on a type-uniformity violation (I1): an append
	// that would mix concrete element kinds in one series. In this port
	// Go generics make such mistakes a compile error, so no function in
	// this module currently returns ErrType.
	ErrType = errors.New("timeseria: type mismatch")

	// ErrShape is raised on a data-shape-uniformity violation (I3): a
	// scalar/vector/mapping kind, vector length, or mapping key set that
	// differs from the series' first element.
	ErrShape = errors.New("timeseria: data shape mismatch")

	// ErrOrder is raised on a succession violation (I2, I6): an element
	// that does not strictly follow its predecessor, or a duplicate
	// timestamp.
	ErrOrder = errors.New("timeseria: order violation")

	// ErrSpan is raised on a span-uniformity violation (I4): a slot whose
	// duration differs from the series' first slot.
	ErrSpan = errors.New("timeseria: slot span mismatch")

	// ErrTimezone is raised on a timezone-uniformity violation (I5).
	ErrTimezone = errors.New("timeseria: timezone mismatch")

	// ErrUnitIncompatible is raised when combining a PhysicalUnit with a
	// variable CalendarUnit (day/week/month/year) in a context that
	// requires a fixed duration.
	ErrUnitIncompatible = errors.New("timeseria: incompatible units")

	// ErrEmptySeries is raised by an operation that requires at least one
	// element.
	ErrEmptySeries = errors.New("timeseria: empty series")

	// ErrNotFitted is raised by predict/apply/evaluate on a model that has
	// not been fit (or loaded) yet.
	ErrNotFitted = errors.New("timeseria: model not fitted")

	// ErrInsufficientData is raised when an evaluation round has fewer
	// evaluable anchors than required (two per cross-validation round).
	ErrInsufficientData = errors.New("timeseria: insufficient data")

	// ErrUnsupported covers multivariate fit/apply, DST-aware phase
	// indexing with a resolution above one hour, and calendar-unit phase
	// indexing.
	ErrUnsupported = errors.New("timeseria: unsupported operation")
)
