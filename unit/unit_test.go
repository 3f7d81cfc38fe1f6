package unit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhysicalUnitDurationIsInstantIndependent(t *testing.T) {
	p := NewPhysicalUnit(3600)
	d1 := p.DurationS(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	d2 := p.DurationS(time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, d1, d2)
	assert.Equal(t, 3600.0, d1)
}

func TestCalendarUnitFixedKindsAreExact(t *testing.T) {
	c := NewCalendarUnit(Minute, 5)
	assert.Equal(t, 300.0, c.DurationS(time.Now()))
}

func TestCalendarUnitDayDSTVariable(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable in test environment")
	}
	// Spring-forward day in 2024: March 10.
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	c := NewCalendarUnit(Day, 1)
	d := c.DurationS(at)
	assert.Equal(t, 23*3600.0, d)
}

func TestCalendarUnitVariableReporting(t *testing.T) {
	assert.False(t, NewCalendarUnit(Hour, 1).Variable())
	assert.True(t, NewCalendarUnit(Day, 1).Variable())
	assert.True(t, NewCalendarUnit(Month, 1).Variable())
}

func TestAddPhysicalAndCalendarIncompatible(t *testing.T) {
	_, err := AddPhysicalAndCalendar(NewPhysicalUnit(60), NewCalendarUnit(Day, 1))
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestAddPhysicalAndCalendarCompatible(t *testing.T) {
	sum, err := AddPhysicalAndCalendar(NewPhysicalUnit(60), NewCalendarUnit(Minute, 1))
	assert.NoError(t, err)
	assert.Equal(t, 120.0, sum.Seconds)
}

func TestCalendarUnitEqual(t *testing.T) {
	assert.True(t, NewCalendarUnit(Month, 2).Equal(NewCalendarUnit(Month, 2)))
	assert.False(t, NewCalendarUnit(Month, 2).Equal(NewCalendarUnit(Month, 3)))
}

func TestCalendarUnitAddToEpochRoundTrips(t *testing.T) {
	c := NewCalendarUnit(Hour, 2)
	t0 := 0.0
	t1 := c.AddToEpoch(t0, time.UTC)
	assert.Equal(t, 7200.0, t1)
}
