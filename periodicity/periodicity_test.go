package periodicity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefulrisk/timeseria/internal/tsgen"
)

func TestDetectFindsKnownPeriod(t *testing.T) {
	s, err := tsgen.Periodic(tsgen.Options{
		Seed: 7, Count: 240, Resolution: 60, Period: 24,
		Amplitude: 5, Mean: 10, NoiseStdev: 0.05,
	})
	require.NoError(t, err)

	p, err := Detect(s)
	require.NoError(t, err)
	assert.InDelta(t, 24, p, 1)
}

func TestDetectNoSignalReturnsPositivePeriod(t *testing.T) {
	s, err := tsgen.Periodic(tsgen.Options{
		Seed: 3, Count: 100, Resolution: 60, Period: 0,
		Mean: 5, NoiseStdev: 3,
	})
	require.NoError(t, err)

	p, err := Detect(s)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 1)
}

func TestDetectShortSeriesReturnsOne(t *testing.T) {
	s, err := tsgen.Periodic(tsgen.Options{Seed: 1, Count: 2, Resolution: 60})
	require.NoError(t, err)
	p, err := Detect(s)
	require.NoError(t, err)
	assert.Equal(t, 1, p)
}
