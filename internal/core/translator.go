package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"rul-backend/pkg/api"
)

type rawPrediction struct {
	UnitID *api.UnitID `json:"Unit_ID"`
	RUL    *float64    `json:"RUL"`
}

// ParsePredictions decodes prediction job stdout: a JSON array whose elements
// each carry a Unit_ID and a numeric RUL. Order is preserved and no records
// are dropped, merged or validated beyond their shape.
func ParsePredictions(stdout []byte) ([]api.PredictionRecord, error) {
	var raw []rawPrediction
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputParseFailed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrOutputParseFailed)
	}

	records := make([]api.PredictionRecord, 0, len(raw))
	for i, r := range raw {
		if r.UnitID == nil {
			return nil, fmt.Errorf("%w: element %d has no Unit_ID", ErrOutputParseFailed, i)
		}
		if r.RUL == nil {
			return nil, fmt.Errorf("%w: element %d has no RUL", ErrOutputParseFailed, i)
		}
		records = append(records, api.PredictionRecord{UnitID: *r.UnitID, RUL: *r.RUL})
	}

	return records, nil
}

// MonitorText returns monitoring job stdout unchanged.
func MonitorText(stdout []byte) string {
	return string(stdout)
}
