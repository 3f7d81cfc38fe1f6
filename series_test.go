package timeseria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAppendOrder(t *testing.T) {
	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)

	require.NoError(t, s.Append(NewTimePoint(60, UTC)))
	require.NoError(t, s.Append(NewTimePoint(120, UTC)))

	err = s.Append(NewTimePoint(120, UTC))
	assert.ErrorIs(t, err, ErrOrder)

	err = s.Append(NewTimePoint(90, UTC))
	assert.ErrorIs(t, err, ErrOrder)

	assert.Equal(t, 2, s.Len())
}

func TestSeriesAppendTotal(t *testing.T) {
	// Property: appending N valid elements yields a series of length N.
	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Append(NewTimePoint(float64(i)*60, UTC)))
	}
	assert.Equal(t, 100, s.Len())
}

func TestSeriesShapeUniformity(t *testing.T) {
	s, err := NewSeries[DataTimePoint]()
	require.NoError(t, err)

	require.NoError(t, s.Append(NewDataTimePoint(60, NewScalarData(1), UTC)))
	err = s.Append(NewDataTimePoint(120, NewVectorData([]float64{1, 2}), UTC))
	assert.ErrorIs(t, err, ErrShape)
}

func TestSeriesTimezoneUniformity(t *testing.T) {
	tokyo, err := loadLocationOrFixed("Asia/Tokyo")
	require.NoError(t, err)

	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	require.NoError(t, s.Append(NewTimePoint(60, UTC)))

	err = s.Append(NewTimePoint(120, tokyo))
	assert.ErrorIs(t, err, ErrTimezone)
}

func TestSeriesSpanUniformity(t *testing.T) {
	s, err := NewSeries[TimeSlot]()
	require.NoError(t, err)

	require.NoError(t, s.Append(NewTimeSlot(NewTimePoint(0, UTC), NewTimePoint(60, UTC))))
	require.NoError(t, s.Append(NewTimeSlot(NewTimePoint(60, UTC), NewTimePoint(120, UTC))))

	err = s.Append(NewTimeSlot(NewTimePoint(120, UTC), NewTimePoint(210, UTC)))
	assert.ErrorIs(t, err, ErrSpan)
}

func TestSeriesSlotSuccession(t *testing.T) {
	s, err := NewSeries[TimeSlot]()
	require.NoError(t, err)
	require.NoError(t, s.Append(NewTimeSlot(NewTimePoint(0, UTC), NewTimePoint(60, UTC))))

	// A slot whose start doesn't match the previous slot's end is rejected.
	err = s.Append(NewTimeSlot(NewTimePoint(61, UTC), NewTimePoint(121, UTC)))
	assert.ErrorIs(t, err, ErrOrder)
}

func TestSeriesDuplicateIsIndependent(t *testing.T) {
	// Property: Duplicate() produces a deep, independent copy (P2).
	s, err := NewSeries[DataTimePoint]()
	require.NoError(t, err)
	require.NoError(t, s.Append(NewDataTimePoint(60, NewScalarData(1), UTC)))
	require.NoError(t, s.Append(NewDataTimePoint(120, NewScalarData(2), UTC)))

	dup := s.Duplicate()
	require.Equal(t, s.Len(), dup.Len())

	mutated := dup.At(0)
	mutated.Data.Set("0", 999)
	dup.elements[0] = mutated

	orig := s.At(0).Data
	v, _ := orig.Get("0")
	assert.Equal(t, 1.0, v)

	dupV, _ := dup.At(0).Data.Get("0")
	assert.Equal(t, 999.0, dupV)
}

func TestSeriesResolutionUniform(t *testing.T) {
	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(NewTimePoint(float64(i)*60, UTC)))
	}
	res, mode := s.Resolution()
	assert.Equal(t, 60.0, res)
	assert.Equal(t, ResolutionUniform, mode)
}

func TestSeriesResolutionVariableInfersMode(t *testing.T) {
	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	ts := []float64{0, 60, 120, 190, 250, 310}
	for _, v := range ts {
		require.NoError(t, s.Append(NewTimePoint(v, UTC)))
	}
	res, mode := s.Resolution()
	assert.Equal(t, ResolutionVariable, mode)
	assert.Equal(t, 60.0, res)
}

func TestSeriesSliceIndex(t *testing.T) {
	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(NewTimePoint(float64(i)*60, UTC)))
	}
	sub, err := s.SliceIndex(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())
	assert.Equal(t, 120.0, sub.At(0).T)
}

func TestSeriesSliceTime(t *testing.T) {
	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(NewTimePoint(float64(i)*60, UTC)))
	}
	sub, err := s.SliceTime(120, 300)
	require.NoError(t, err)
	assert.Equal(t, 120.0, sub.At(0).T)
	assert.Equal(t, 240.0, sub.At(sub.Len()-1).T)
}

func TestSeriesChangeTimezone(t *testing.T) {
	tokyo, err := loadLocationOrFixed("Asia/Tokyo")
	require.NoError(t, err)

	s, err := NewSeries[TimePoint]()
	require.NoError(t, err)
	require.NoError(t, s.Append(NewTimePoint(60, UTC)))

	require.NoError(t, s.ChangeTimezone(tokyo))
	assert.Equal(t, tokyo.String(), s.At(0).TZ.String())
	assert.Equal(t, 60.0, s.At(0).T)
}

func TestSeriesDataLabels(t *testing.T) {
	s, err := NewSeries[DataTimePoint]()
	require.NoError(t, err)
	require.NoError(t, s.Append(NewDataTimePoint(60, NewMappingData(map[string]float64{"a": 1, "b": 2}), UTC)))
	assert.Equal(t, []string{"a", "b"}, s.DataLabels())
}

func TestDataShapeEqual(t *testing.T) {
	a := NewVectorData([]float64{1, 2, 3}).Shape()
	b := NewVectorData([]float64{4, 5, 6}).Shape()
	c := NewVectorData([]float64{4, 5}).Shape()
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestDataIndexesReconstructedAndAnomaly(t *testing.T) {
	var idx DataIndexes
	assert.False(t, idx.Reconstructed())
	idx.MarkReconstructed()
	assert.True(t, idx.Reconstructed())

	assert.False(t, idx.IsAnomaly())
	idx.SetAnomaly(true)
	assert.True(t, idx.IsAnomaly())
}

// loadLocationOrFixed loads a named zone, falling back to a fixed +9h
// stand-in if the test environment lacks the IANA tzdata database.
func loadLocationOrFixed(name string) (*time.Location, error) {
	l, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 9*60*60), nil
	}
	return l, nil
}
