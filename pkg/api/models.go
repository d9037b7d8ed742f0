package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UnitID identifies a monitored asset. Models emit it either as a JSON number
// or a JSON string and it is rendered back in the same form.
type UnitID struct {
	Value   string
	Numeric bool
}

func (u UnitID) String() string {
	return u.Value
}

func (u UnitID) MarshalJSON() ([]byte, error) {
	if u.Numeric {
		return []byte(u.Value), nil
	}
	return json.Marshal(u.Value)
}

func (u *UnitID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UnitID{Value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("Unit_ID must be a number or string: %w", err)
	}
	*u = UnitID{Value: n.String(), Numeric: true}
	return nil
}

type PredictionRecord struct {
	UnitID UnitID  `json:"Unit_ID"`
	RUL    float64 `json:"RUL"`
}

type PredictResponse struct {
	RunId       uuid.UUID
	Predictions []PredictionRecord
}

type Run struct {
	Id               uuid.UUID
	Kind             string
	Status           string
	OriginalFilename string
	Bucket           string
	ObjectKey        string
	ExitCode         *int   `json:"ExitCode,omitempty"`
	ErrorKind        string `json:"ErrorKind,omitempty"`
	Stderr           string `json:"Stderr,omitempty"`
	RecordCount      int

	CreationTime   time.Time
	CompletionTime *time.Time `json:"CompletionTime,omitempty"`
}
