package model

import (
	"time"

	"github.com/usefulrisk/timeseria"
	"github.com/usefulrisk/timeseria/internal/tsio"
)

// Save persists the fitted model under dir/<id>/data.json (spec §6) and
// returns the generated model id.
func (m *PeriodicAverageModel) Save(dir string) (string, error) {
	if !m.fitted {
		return "", timeseria.ErrNotFitted
	}
	window := m.Window
	dto := tsio.ModelDTO{
		FittedAt:    time.Now(),
		Periodicity: m.Periodicity,
		DSTAffected: m.DSTAffected,
		Averages:    tsio.AveragesFromPhaseMap(m.Averages),
		Resolution:  m.Resolution,
		Window:      &window,
		Label:       m.Label,
	}
	return tsio.Save(dir, dto)
}

// Load restores a model previously written by Save.
func Load(dir, id string) (*PeriodicAverageModel, error) {
	dto, err := tsio.Load(dir, id)
	if err != nil {
		return nil, err
	}
	averages, err := tsio.AveragesToPhaseMap(dto.Averages)
	if err != nil {
		return nil, err
	}
	m := New(nil)
	m.Periodicity = dto.Periodicity
	m.DSTAffected = dto.DSTAffected
	m.Averages = averages
	m.Resolution = dto.Resolution
	m.Label = dto.Label
	if dto.Window != nil {
		m.Window = *dto.Window
	}
	m.fitted = true
	return m, nil
}
