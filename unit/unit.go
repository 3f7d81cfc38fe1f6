// Package unit implements the two kinds of interval this engine adds to a
// point: a PhysicalUnit, a fixed real duration, and a CalendarUnit, a
// labeled multiple of {second, minute, hour, day, week, month, year} whose
// real duration depends on the instant it's applied at.
//
// Grounded on the teacher repo's DataUnit.Dchron (timeseries/dataunit.go),
// which carries a time.Duration delta between observations; this package
// generalizes that single fixed-duration notion into the two-kind lattice
// the engine's resampler and model need for calendar-aligned slots (spec
// §4.A).
package unit

import (
	"errors"
	"fmt"
	"time"
)

// ErrIncompatible is returned when combining a PhysicalUnit with a variable
// CalendarUnit (day or coarser) in a context requiring a fixed duration.
var ErrIncompatible = errors.New("unit: incompatible units")

// CalendarKind enumerates the calendar multiples a CalendarUnit can carry.
type CalendarKind uint8

const (
	Second CalendarKind = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

// fixedSeconds holds the exact length of one calendar unit for kinds with
// no DST/month-length variability (second through hour).
var fixedSeconds = map[CalendarKind]float64{
	Second: 1,
	Minute: 60,
	Hour:   3600,
}

// variable reports whether a calendar kind's real duration depends on the
// instant it is evaluated at.
func (k CalendarKind) variable() bool {
	_, fixed := fixedSeconds[k]
	return !fixed
}

func (k CalendarKind) String() string {
	switch k {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

// PhysicalUnit is a fixed, additive real duration in seconds.
type PhysicalUnit struct {
	Seconds float64
}

// NewPhysicalUnit builds a PhysicalUnit of the given length in seconds.
func NewPhysicalUnit(seconds float64) PhysicalUnit { return PhysicalUnit{Seconds: seconds} }

// Equal reports value equality within the package-wide relative tolerance.
func (p PhysicalUnit) Equal(o PhysicalUnit) bool { return almostEqual(p.Seconds, o.Seconds) }

// DurationS returns the unit's length in seconds; PhysicalUnit is
// instant-independent so `at` is ignored.
func (p PhysicalUnit) DurationS(at time.Time) float64 { return p.Seconds }

// AddToCoordinate returns v shifted by the unit (scalar add, spec §4.A).
func (p PhysicalUnit) AddToCoordinate(v float64) float64 { return v + p.Seconds }

// AddToEpoch shifts an epoch-second instant by the unit.
func (p PhysicalUnit) AddToEpoch(t float64) float64 { return t + p.Seconds }

func (p PhysicalUnit) String() string { return fmt.Sprintf("%gs", p.Seconds) }

// CalendarUnit is a labeled multiple of a calendar kind (e.g. "3 months").
// Applying it to a TimePoint shifts the localized datetime and converts
// back to epoch seconds, so the same nominal unit can span different real
// durations depending on where it lands (DST, variable month length).
type CalendarUnit struct {
	Kind CalendarKind
	N    int
}

// NewCalendarUnit builds a CalendarUnit of n repetitions of kind.
func NewCalendarUnit(kind CalendarKind, n int) CalendarUnit {
	return CalendarUnit{Kind: kind, N: n}
}

// Variable reports whether this unit's real duration depends on the
// instant it's evaluated at (day or coarser).
func (c CalendarUnit) Variable() bool { return c.Kind.variable() }

// Equal reports canonical-label equality: same kind and count.
func (c CalendarUnit) Equal(o CalendarUnit) bool { return c.Kind == o.Kind && c.N == o.N }

func (c CalendarUnit) String() string {
	if c.N == 1 {
		return "1 " + c.Kind.String()
	}
	return fmt.Sprintf("%d %ss", c.N, c.Kind.String())
}

// DurationS returns the unit's exact length in seconds at the given
// instant. For second/minute/hour this is instant-independent; for
// day/week/month/year the implementer must return the *local* duration at
// `at`, since DST transitions and variable month lengths change it.
func (c CalendarUnit) DurationS(at time.Time) float64 {
	if v, ok := fixedSeconds[c.Kind]; ok {
		return v * float64(c.N)
	}
	shifted := c.AddToTime(at)
	return shifted.Sub(at).Seconds()
}

// AddToTime shifts t by the calendar unit in t's own location, so DST and
// month-length effects are resolved in the correct timezone.
func (c CalendarUnit) AddToTime(t time.Time) time.Time {
	switch c.Kind {
	case Second:
		return t.Add(time.Duration(c.N) * time.Second)
	case Minute:
		return t.Add(time.Duration(c.N) * time.Minute)
	case Hour:
		return t.Add(time.Duration(c.N) * time.Hour)
	case Day:
		return t.AddDate(0, 0, c.N)
	case Week:
		return t.AddDate(0, 0, 7*c.N)
	case Month:
		return t.AddDate(0, c.N, 0)
	case Year:
		return t.AddDate(c.N, 0, 0)
	default:
		return t
	}
}

// AddToEpoch shifts an epoch-second instant presented in loc by the
// calendar unit, returning the new epoch second (spec §4.A point+unit).
func (c CalendarUnit) AddToEpoch(tEpoch float64, loc *time.Location) float64 {
	if loc == nil {
		loc = time.UTC
	}
	t := epochToTime(tEpoch, loc)
	shifted := c.AddToTime(t)
	return timeToEpoch(shifted)
}

func epochToTime(t float64, loc *time.Location) time.Time {
	sec := int64(t)
	nsec := int64((t - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).In(loc)
}

func timeToEpoch(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// AddPhysicalAndCalendar combines a PhysicalUnit and a CalendarUnit,
// returning ErrIncompatible if the calendar component is variable (day or
// coarser): a fixed-duration context can't absorb a variable one (spec
// §4.A failures).
func AddPhysicalAndCalendar(p PhysicalUnit, c CalendarUnit) (PhysicalUnit, error) {
	if c.Variable() {
		return PhysicalUnit{}, fmt.Errorf("%w: cannot add physical unit to variable calendar unit %s", ErrIncompatible, c)
	}
	return PhysicalUnit{Seconds: p.Seconds + c.DurationS(time.Unix(0, 0).UTC())}, nil
}

const relTolerance = 1e-9

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := a
	if scale < 0 {
		scale = -scale
	}
	if b2 := b; b2 < 0 {
		b2 = -b2
		if b2 > scale {
			scale = b2
		}
	} else if b2 > scale {
		scale = b2
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= relTolerance*scale
}
