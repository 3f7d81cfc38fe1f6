package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/usefulrisk/timeseria"
	"github.com/usefulrisk/timeseria/unit"
)

func buildUniformSeries(t *testing.T, count int, resolution float64, values []float64) *timeseria.Series[timeseria.DataTimePoint] {
	t.Helper()
	s, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		v := 1.0
		if i < len(values) {
			v = values[i]
		}
		require.NoError(t, s.Append(timeseria.NewDataTimePoint(float64(i)*resolution, timeseria.NewScalarData(v), timeseria.UTC)))
	}
	return s
}

func TestResampleEmptySeries(t *testing.T) {
	s, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	require.NoError(t, err)
	_, err = Resample(s, Options{Unit: unit.NewPhysicalUnit(60)})
	assert.ErrorIs(t, err, timeseria.ErrEmptySeries)
}

func TestResampleSameResolutionFullCoverage(t *testing.T) {
	s := buildUniformSeries(t, 10, 60, nil)
	out, err := Resample(s, Options{Unit: unit.NewPhysicalUnit(60)})
	require.NoError(t, err)
	require.True(t, out.Len() > 0)
	for i := 0; i < out.Len(); i++ {
		cov := out.At(i).CoverageOrFull()
		assert.InDelta(t, 1.0, cov, 1e-6)
	}
}

func TestResampleDownsampleAggregatesValues(t *testing.T) {
	// 60 one-minute points aggregated into a single one-hour slot; values
	// constant at 1.0 (buildUniformSeries' default), so the aggregate should
	// also be ~1.0 with full coverage.
	s := buildUniformSeries(t, 60, 60, nil)
	for i := 0; i < s.Len(); i++ {
		_ = i
	}
	out, err := Resample(s, Options{Unit: unit.NewPhysicalUnit(3600)})
	require.NoError(t, err)
	require.True(t, out.Len() >= 1)
	v, ok := out.At(0).Data.Get("0")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 0.2)
}

func TestResampleUpsamplingWarns(t *testing.T) {
	s := buildUniformSeries(t, 5, 3600, nil)
	core, logs := observer.New(zap.WarnLevel)
	out, err := Resample(s, Options{Unit: unit.NewPhysicalUnit(60), Logger: zap.New(core).Sugar()})
	require.NoError(t, err)
	assert.True(t, out.Len() > 5)
	assert.Equal(t, 1, logs.Len())
}

func TestResampleInvalidUnit(t *testing.T) {
	s := buildUniformSeries(t, 3, 60, nil)
	_, err := Resample(s, Options{Unit: unit.NewPhysicalUnit(0)})
	assert.ErrorIs(t, err, timeseria.ErrUnsupported)
}

// literal scenario: input [(60,1),(120,2),(180,3),(240,4)] at U=60s ->
// slots [(60,120,1,cov=1),(120,180,2,cov=1),(180,240,3,cov=1)].
func TestResampleScenarioIdentity(t *testing.T) {
	s, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	require.NoError(t, err)
	for _, pair := range [][2]float64{{60, 1}, {120, 2}, {180, 3}, {240, 4}} {
		require.NoError(t, s.Append(timeseria.NewDataTimePoint(pair[0], timeseria.NewScalarData(pair[1]), timeseria.UTC)))
	}

	out, err := Resample(s, Options{Unit: unit.NewPhysicalUnit(60)})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	wantStart := []float64{60, 120, 180}
	wantValue := []float64{1, 2, 3}
	for i := 0; i < 3; i++ {
		slot := out.At(i)
		assert.InDelta(t, wantStart[i], slot.Start.T, 1e-9)
		assert.InDelta(t, wantStart[i]+60, slot.End.T, 1e-9)
		v, ok := slot.Data.Get("0")
		require.True(t, ok)
		assert.InDelta(t, wantValue[i], v, 1e-9)
		assert.InDelta(t, 1.0, slot.CoverageOrFull(), 1e-9)
	}
}

// literal scenario: same input at U=120s -> [(60,180,1.5,cov=1),(180,300,3.5,cov=1)].
func TestResampleScenarioDownByTwo(t *testing.T) {
	s, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	require.NoError(t, err)
	for _, pair := range [][2]float64{{60, 1}, {120, 2}, {180, 3}, {240, 4}} {
		require.NoError(t, s.Append(timeseria.NewDataTimePoint(pair[0], timeseria.NewScalarData(pair[1]), timeseria.UTC)))
	}

	out, err := Resample(s, Options{Unit: unit.NewPhysicalUnit(120)})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	wantStart := []float64{60, 180}
	wantValue := []float64{1.5, 3.5}
	for i := 0; i < 2; i++ {
		slot := out.At(i)
		assert.InDelta(t, wantStart[i], slot.Start.T, 1e-9)
		assert.InDelta(t, wantStart[i]+120, slot.End.T, 1e-9)
		v, ok := slot.Data.Get("0")
		require.True(t, ok)
		assert.InDelta(t, wantValue[i], v, 1e-9)
		assert.InDelta(t, 1.0, slot.CoverageOrFull(), 1e-9)
	}
}
