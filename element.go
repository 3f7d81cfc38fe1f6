package timeseria

import (
	"math"
	"time"
)

// RelTolerance is the relative floating-point tolerance used throughout the
// package to collapse slot-boundary slivers, per spec §3 ("modulo
// floating-point tolerance of 1e-9 relative") and §4.C.
const RelTolerance = 1e-9

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= RelTolerance*scale
}

// SeriesElement is the capability set every concrete element variant
// implements, letting Series[T] enforce invariants I1-I6 generically
// without a type switch in the hot append path. Go generics already give us
// I1 for free (a Series[T] can never hold a concrete type other than T);
// the first four methods below cover I2-I6.
type SeriesElement interface {
	// succeeds reports whether the receiver validly follows prev in a
	// series (I2, I6 for points; I2 for slots, via start==prev.end).
	// prev is always the same concrete type as the receiver.
	succeeds(prev SeriesElement) error

	// dataShape returns the element's data shape fingerprint and whether
	// it carries data at all (I3).
	dataShape() (DataShape, bool)

	// timezone returns the element's presentational timezone and whether
	// it is timed at all (I5).
	timezone() (*time.Location, bool)

	// span returns the element's slot span and whether it is a slot at
	// all (I4).
	span() (float64, bool)

	// orderingValue returns the element's primary ordering coordinate:
	// Coordinates[0] for untimed points, t for timed points, and the
	// start coordinate for slots. Used by Series.Resolution to infer the
	// sampling interval generically across element kinds.
	orderingValue() float64
}

// UTC is a convenience alias for time.UTC, used pervasively by callers that
// don't care about presentational timezone.
var UTC = time.UTC

// Point is an ordered tuple of real numbers: the base, untimed,
// payload-free element kind.
type Point struct {
	Coordinates []float64
}

// NewPoint builds a Point from the given coordinates.
func NewPoint(coords ...float64) Point {
	return Point{Coordinates: append([]float64(nil), coords...)}
}

// Equal reports whether two points have identical coordinate tuples.
func (p Point) Equal(o Point) bool {
	if len(p.Coordinates) != len(o.Coordinates) {
		return false
	}
	for i := range p.Coordinates {
		if p.Coordinates[i] != o.Coordinates[i] {
			return false
		}
	}
	return true
}

// Untimed, non-slot points are ordered by their first coordinate: the
// spec defines succession explicitly only for TimePoints (by t) and Slots
// (by start==end); for the plain Point variant we generalize to strict
// ascent of the first coordinate so the container still rejects duplicates
// and out-of-order data (an Open Question resolution, see DESIGN.md).
func (p Point) succeeds(prev SeriesElement) error {
	pp := prev.(Point)
	if len(p.Coordinates) == 0 || len(pp.Coordinates) == 0 {
		return nil
	}
	if p.Coordinates[0] <= pp.Coordinates[0] {
		return ErrOrder
	}
	return nil
}

func (p Point) dataShape() (DataShape, bool)        { return DataShape{}, false }
func (p Point) timezone() (*time.Location, bool)     { return nil, false }
func (p Point) span() (float64, bool)                { return 0, false }
func (p Point) orderingValue() float64 {
	if len(p.Coordinates) == 0 {
		return 0
	}
	return p.Coordinates[0]
}

// TimePoint is a Point whose single coordinate is an epoch second (UTC
// relative), carrying a presentational timezone that is not part of its
// identity.
type TimePoint struct {
	T  float64
	TZ *time.Location
}

// NewTimePoint builds a TimePoint at epoch second t, presented in tz (UTC if
// tz is nil).
func NewTimePoint(t float64, tz *time.Location) TimePoint {
	if tz == nil {
		tz = time.UTC
	}
	return TimePoint{T: t, TZ: tz}
}

// Equal reports t-equality; the timezone is presentational only (spec §3).
func (p TimePoint) Equal(o TimePoint) bool { return p.T == o.T }

// Time returns the wall-clock time.Time in the point's timezone.
func (p TimePoint) Time() time.Time {
	sec := math.Floor(p.T)
	nsec := (p.T - sec) * 1e9
	return time.Unix(int64(sec), int64(nsec)).In(p.TZ)
}

func (p TimePoint) succeeds(prev SeriesElement) error {
	pp := prev.(TimePoint)
	if p.T <= pp.T {
		return ErrOrder
	}
	return nil
}

func (p TimePoint) dataShape() (DataShape, bool)    { return DataShape{}, false }
func (p TimePoint) timezone() (*time.Location, bool) { return p.TZ, true }
func (p TimePoint) span() (float64, bool)            { return 0, false }
func (p TimePoint) orderingValue() float64 { return p.T }

// DataPoint is a Point carrying a payload and the quality side channel.
type DataPoint struct {
	Point
	Data    Data
	Indexes DataIndexes
}

// NewDataPoint builds a DataPoint.
func NewDataPoint(coords []float64, data Data) DataPoint {
	return DataPoint{Point: NewPoint(coords...), Data: data}
}

func (p DataPoint) succeeds(prev SeriesElement) error {
	pp := prev.(DataPoint)
	return p.Point.succeeds(pp.Point)
}

func (p DataPoint) dataShape() (DataShape, bool)    { return p.Data.Shape(), true }
func (p DataPoint) timezone() (*time.Location, bool) { return nil, false }
func (p DataPoint) span() (float64, bool)            { return 0, false }
func (p DataPoint) orderingValue() float64 { return p.Point.orderingValue() }

// DataTimePoint is both timed and data-carrying: the common case for this
// engine (a single measurement channel sampled at an instant).
type DataTimePoint struct {
	TimePoint
	Data    Data
	Indexes DataIndexes
}

// NewDataTimePoint builds a DataTimePoint at epoch second t.
func NewDataTimePoint(t float64, data Data, tz *time.Location) DataTimePoint {
	return DataTimePoint{TimePoint: NewTimePoint(t, tz), Data: data}
}

func (p DataTimePoint) succeeds(prev SeriesElement) error {
	pp := prev.(DataTimePoint)
	return p.TimePoint.succeeds(pp.TimePoint)
}

func (p DataTimePoint) dataShape() (DataShape, bool)     { return p.Data.Shape(), true }
func (p DataTimePoint) timezone() (*time.Location, bool) { return p.TZ, true }
func (p DataTimePoint) span() (float64, bool)            { return 0, false }
func (p DataTimePoint) orderingValue() float64 { return p.TimePoint.orderingValue() }

// Slot is a half-open interval [Start, End) between two points of equal
// arity, Start strictly before End.
type Slot struct {
	Start, End Point
}

// NewSlot builds a Slot; panics if start and end have mismatched arity.
func NewSlot(start, end Point) Slot {
	if len(start.Coordinates) != len(end.Coordinates) {
		panic("timeseria: slot endpoints have mismatched arity")
	}
	return Slot{Start: start, End: end}
}

// Span returns the mean per-coordinate delta between End and Start.
func (s Slot) Span() float64 {
	if len(s.Start.Coordinates) == 0 {
		return 0
	}
	sum := 0.0
	for i := range s.Start.Coordinates {
		sum += s.End.Coordinates[i] - s.Start.Coordinates[i]
	}
	return sum / float64(len(s.Start.Coordinates))
}

func (s Slot) succeeds(prev SeriesElement) error {
	ps := prev.(Slot)
	for i := range s.Start.Coordinates {
		if !almostEqual(s.Start.Coordinates[i], ps.End.Coordinates[i]) {
			return ErrOrder
		}
	}
	return nil
}

func (s Slot) dataShape() (DataShape, bool)    { return DataShape{}, false }
func (s Slot) timezone() (*time.Location, bool) { return nil, false }
func (s Slot) span() (float64, bool)            { return s.Span(), true }
func (s Slot) orderingValue() float64 { return s.Start.orderingValue() }

// TimeSlot is a Slot whose endpoints are TimePoints sharing a timezone.
type TimeSlot struct {
	Start, End TimePoint
}

// NewTimeSlot builds a TimeSlot; panics if start is not strictly before end.
func NewTimeSlot(start, end TimePoint) TimeSlot {
	if start.T >= end.T {
		panic("timeseria: slot start must precede end")
	}
	return TimeSlot{Start: start, End: end}
}

// Span returns End.T - Start.T in seconds.
func (s TimeSlot) Span() float64 { return s.End.T - s.Start.T }

func (s TimeSlot) succeeds(prev SeriesElement) error {
	ps := prev.(TimeSlot)
	if !almostEqual(s.Start.T, ps.End.T) {
		return ErrOrder
	}
	return nil
}

func (s TimeSlot) dataShape() (DataShape, bool)     { return DataShape{}, false }
func (s TimeSlot) timezone() (*time.Location, bool) { return s.Start.TZ, true }
func (s TimeSlot) span() (float64, bool)            { return s.Span(), true }
func (s TimeSlot) orderingValue() float64 { return s.Start.T }

// DataSlot is a Slot carrying a payload, an optional coverage fraction, and
// the quality side channel. A nil Coverage means "not computed": callers
// that need a concrete number should treat it as fully covered (1.0), which
// is the resolution this port picked for the spec's "optional coverage"
// (see DESIGN.md Open Questions).
type DataSlot struct {
	Slot
	Data     Data
	Coverage *float64
	Indexes  DataIndexes
}

// CoverageOrFull returns Coverage, defaulting to 1.0 when unset.
func (s DataSlot) CoverageOrFull() float64 {
	if s.Coverage == nil {
		return 1
	}
	return *s.Coverage
}

// DataLoss returns 1-coverage.
func (s DataSlot) DataLoss() float64 { return 1 - s.CoverageOrFull() }

func (s DataSlot) succeeds(prev SeriesElement) error {
	ps := prev.(DataSlot)
	return s.Slot.succeeds(ps.Slot)
}

func (s DataSlot) dataShape() (DataShape, bool)    { return s.Data.Shape(), true }
func (s DataSlot) timezone() (*time.Location, bool) { return nil, false }
func (s DataSlot) span() (float64, bool)            { return s.Span(), true }
func (s DataSlot) orderingValue() float64 { return s.Slot.orderingValue() }

// DataTimeSlot is both timed and data-carrying: the output kind of the
// resampler (package resample) and the unit the periodic-average model
// operates on.
type DataTimeSlot struct {
	TimeSlot
	Data     Data
	Coverage *float64
	Indexes  DataIndexes
}

// CoverageOrFull returns Coverage, defaulting to 1.0 when unset.
func (s DataTimeSlot) CoverageOrFull() float64 {
	if s.Coverage == nil {
		return 1
	}
	return *s.Coverage
}

// DataLoss returns 1-coverage.
func (s DataTimeSlot) DataLoss() float64 { return 1 - s.CoverageOrFull() }

func (s DataTimeSlot) succeeds(prev SeriesElement) error {
	ps := prev.(DataTimeSlot)
	return s.TimeSlot.succeeds(ps.TimeSlot)
}

func (s DataTimeSlot) dataShape() (DataShape, bool)     { return s.Data.Shape(), true }
func (s DataTimeSlot) timezone() (*time.Location, bool) { return s.Start.TZ, true }
func (s DataTimeSlot) span() (float64, bool)            { return s.Span(), true }
func (s DataTimeSlot) orderingValue() float64 { return s.TimeSlot.orderingValue() }
