// Package tsio persists a fitted PeriodicAverageModel as a
// `<model-id>/data.json` directory per spec §6, mirroring the teacher
// repo's ToJSON DTO idiom (jsonexport.go: a plain struct mirroring the
// domain type field-for-field, with nil standing in for "not set") rather
// than marshaling the domain struct directly.
package tsio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ModelDTO is the JSON-friendly parameter bundle for a fitted
// PeriodicAverageModel (spec §6 External Interfaces).
type ModelDTO struct {
	ID           string             `json:"id"`
	FittedAt     time.Time          `json:"fitted_at"`
	Periodicity  int                `json:"periodicity"`
	DSTAffected  bool               `json:"dst_affected"`
	Averages     map[string]float64 `json:"averages"`
	Resolution   float64            `json:"resolution"`
	Window       *int               `json:"window,omitempty"`
	Stdev        *float64           `json:"stdev,omitempty"`
	AEThreshold  *float64           `json:"AE_threshold,omitempty"`
	OffsetMethod string             `json:"offset_method,omitempty"`
	Label        string             `json:"label,omitempty"`
	ForecasterID string             `json:"forecaster_id,omitempty"`
}

// AveragesFromPhaseMap converts a phase(int)->value map into the
// stringified-key form the spec's JSON schema requires.
func AveragesFromPhaseMap(m map[int]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for phase, v := range m {
		out[strconv.Itoa(phase)] = v
	}
	return out
}

// AveragesToPhaseMap is the inverse of AveragesFromPhaseMap.
func AveragesToPhaseMap(m map[string]float64) (map[int]float64, error) {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		phase, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("tsio: invalid phase key %q: %w", k, err)
		}
		out[phase] = v
	}
	return out, nil
}

// Save writes dto to <dir>/<id>/data.json, generating a UUIDv4 id if dto.ID
// is empty, and returns the id used.
func Save(dir string, dto ModelDTO) (string, error) {
	id := dto.ID
	if id == "" {
		id = uuid.NewString()
		dto.ID = id
	}
	modelDir := filepath.Join(dir, id)
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", fmt.Errorf("tsio: create model directory: %w", err)
	}
	raw, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return "", fmt.Errorf("tsio: marshal model: %w", err)
	}
	if err := os.WriteFile(filepath.Join(modelDir, "data.json"), raw, 0o644); err != nil {
		return "", fmt.Errorf("tsio: write data.json: %w", err)
	}
	return id, nil
}

// Load reads <dir>/<id>/data.json into a ModelDTO.
func Load(dir, id string) (ModelDTO, error) {
	raw, err := os.ReadFile(filepath.Join(dir, id, "data.json"))
	if err != nil {
		return ModelDTO{}, fmt.Errorf("tsio: read data.json: %w", err)
	}
	var dto ModelDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return ModelDTO{}, fmt.Errorf("tsio: unmarshal model: %w", err)
	}
	return dto, nil
}
