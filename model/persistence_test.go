package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefulrisk/timeseria"
	"github.com/usefulrisk/timeseria/internal/tsgen"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := tsgen.Periodic(tsgen.Options{
		Seed: 9, Count: 150, Resolution: 60, Period: 12,
		Amplitude: 3, Mean: 8, NoiseStdev: 0.01,
	})
	require.NoError(t, err)

	m := New(nil)
	require.NoError(t, m.Fit(s, FitOptions{Periodicity: 12}))

	dir := t.TempDir()
	id, err := m.Save(dir)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := Load(dir, id)
	require.NoError(t, err)
	assert.Equal(t, m.Periodicity, loaded.Periodicity)
	assert.Equal(t, m.Resolution, loaded.Resolution)
	assert.Equal(t, len(m.Averages), len(loaded.Averages))
	for phase, v := range m.Averages {
		assert.InDelta(t, v, loaded.Averages[phase], 1e-9)
	}
}

func TestSaveRequiresFit(t *testing.T) {
	m := New(nil)
	_, err := m.Save(t.TempDir())
	assert.ErrorIs(t, err, timeseria.ErrNotFitted)
}
