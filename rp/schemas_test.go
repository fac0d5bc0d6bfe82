package rp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusResponseResolutionOrder(t *testing.T) {
	// A body satisfying both shapes resolves as Success; the success shape
	// is always attempted first.
	body := `{
		"version": "0.12.1",
		"serial": 7,
		"now": "now",
		"lastUpdateStart": "start",
		"lastUpdateDone": "done",
		"lastUpdateDuration": 1.5,
		"error": "should be ignored"
	}`

	var status StatusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	require.NotNil(t, status.Success)
	assert.Nil(t, status.Err)
	assert.Equal(t, uint32(7), status.Success.Serial)
}

func TestStatusResponseRequiresAllSuccessFields(t *testing.T) {
	// Five of the six fields present: not the success shape, and without an
	// error field not the error shape either.
	body := `{
		"version": "0.12.1",
		"serial": 7,
		"now": "now",
		"lastUpdateStart": "start",
		"lastUpdateDone": "done"
	}`

	var status StatusResponse
	require.Error(t, json.Unmarshal([]byte(body), &status))
	assert.Nil(t, status.Success)
	assert.Nil(t, status.Err)
}

func TestStatusResponseMismatchedFieldType(t *testing.T) {
	body := `{
		"version": "0.12.1",
		"serial": "not a number",
		"now": "now",
		"lastUpdateStart": "start",
		"lastUpdateDone": "done",
		"lastUpdateDuration": 1.5
	}`

	var status StatusResponse
	require.Error(t, json.Unmarshal([]byte(body), &status))
}

func TestStatusResponseMarshalRoundTrip(t *testing.T) {
	success := StatusResponse{Success: &StatusSuccess{
		Version:            "0.12.1",
		Serial:             1299,
		Now:                "now",
		LastUpdateStart:    "start",
		LastUpdateDone:     "done",
		LastUpdateDuration: 46.18,
	}}
	raw, err := json.Marshal(success)
	require.NoError(t, err)

	var decoded StatusResponse
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, success.Success, decoded.Success)

	failure := StatusResponse{Err: &StatusError{Error: "boom"}}
	raw, err = json.Marshal(failure)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "boom"}`, string(raw))

	var empty StatusResponse
	_, err = json.Marshal(empty)
	require.Error(t, err)
}

func TestStatusResponseNonObjectBody(t *testing.T) {
	var status StatusResponse
	require.Error(t, json.Unmarshal([]byte(`[1, 2, 3]`), &status))
	require.Error(t, json.Unmarshal([]byte(`"ok"`), &status))
}
