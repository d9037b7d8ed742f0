package core

import (
	"rul-backend/pkg/api"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericUnit(v string) api.UnitID {
	return api.UnitID{Value: v, Numeric: true}
}

func TestParsePredictions(t *testing.T) {
	records, err := ParsePredictions([]byte(`[{"Unit_ID":1,"RUL":42}]`))
	require.NoError(t, err)
	assert.Equal(t, []api.PredictionRecord{{UnitID: numericUnit("1"), RUL: 42}}, records)
}

func TestParsePredictionsPreservesOrderAndDuplicates(t *testing.T) {
	stdout := `[{"Unit_ID":3,"RUL":10,"Time_in_Cycles":31},{"Unit_ID":1,"RUL":-4},{"Unit_ID":3,"RUL":10},{"Unit_ID":"A-2","RUL":7.25}]` + "\n"

	records, err := ParsePredictions([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, []api.PredictionRecord{
		{UnitID: numericUnit("3"), RUL: 10},
		{UnitID: numericUnit("1"), RUL: -4},
		{UnitID: numericUnit("3"), RUL: 10},
		{UnitID: api.UnitID{Value: "A-2"}, RUL: 7.25},
	}, records)
}

func TestParsePredictionsEmpty(t *testing.T) {
	records, err := ParsePredictions([]byte("[]"))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Len(t, records, 0)
}

func TestParsePredictionsMalformed(t *testing.T) {
	for _, stdout := range []string{
		"",
		"Error during execution: file not found",
		"null",
		`{"Unit_ID":1,"RUL":42}`,
		`[{"Unit_ID":1,"RUL":42}`,
		`[{"Unit_ID":1}]`,
		`[{"RUL":42}]`,
		`[{"Unit_ID":1,"RUL":"42"}]`,
		`[null]`,
		`[1,2,3]`,
	} {
		records, err := ParsePredictions([]byte(stdout))
		assert.ErrorIs(t, err, ErrOutputParseFailed, stdout)
		assert.Nil(t, records, stdout)
	}
}

func TestMonitorTextIsIdentity(t *testing.T) {
	for _, stdout := range []string{"", "No deviation detected in the critical sensors\n", "ALERT!!! <br>\nALERT!!!! <br>\n"} {
		assert.Equal(t, stdout, MonitorText([]byte(stdout)))
	}
}
