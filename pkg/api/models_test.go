package api_test

import (
	"encoding/json"
	"rul-backend/pkg/api"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitIDKeepsJSONForm(t *testing.T) {
	var records []api.PredictionRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"Unit_ID":1,"RUL":42},{"Unit_ID":"engine-7","RUL":3.5}]`), &records))

	assert.Equal(t, []api.PredictionRecord{
		{UnitID: api.UnitID{Value: "1", Numeric: true}, RUL: 42},
		{UnitID: api.UnitID{Value: "engine-7"}, RUL: 3.5},
	}, records)

	out, err := json.Marshal(records)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Unit_ID":1,"RUL":42},{"Unit_ID":"engine-7","RUL":3.5}]`, string(out))
}

func TestUnitIDRejectsOtherTypes(t *testing.T) {
	for _, input := range []string{`{"Unit_ID":true}`, `{"Unit_ID":{"a":1}}`, `{"Unit_ID":[1]}`} {
		var record api.PredictionRecord
		assert.Error(t, json.Unmarshal([]byte(input), &record), input)
	}
}
