package tsgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefulrisk/timeseria"
)

func TestPeriodicDeterministic(t *testing.T) {
	opt := Options{Seed: 42, Count: 50, Resolution: 60, Period: 10, Amplitude: 2, Mean: 5, NoiseStdev: 0.1}
	a, err := Periodic(opt)
	require.NoError(t, err)
	b, err := Periodic(opt)
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	for i := 0; i < a.Len(); i++ {
		av, _ := a.At(i).Data.Get("0")
		bv, _ := b.At(i).Data.Get("0")
		assert.Equal(t, av, bv)
	}
}

func TestPeriodicUniformResolution(t *testing.T) {
	s, err := Periodic(Options{Seed: 1, Count: 20, Resolution: 30, StartT: 0})
	require.NoError(t, err)
	assert.Equal(t, 20, s.Len())
	res, mode := s.Resolution()
	assert.Equal(t, timeseria.ResolutionUniform, mode)
	assert.Equal(t, 30.0, res)
}
