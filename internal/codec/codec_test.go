package codec

import (
	"encoding/base64"
	"math"
	"mixpanel-tracker/internal/event"
	"mixpanel-tracker/internal/property"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() event.Record {
	return event.Record{
		Event: "Signup",
		Properties: property.New().
			Set("plan", property.String("pro")).
			Set("token", property.String("tok")).
			Set("time", property.Date(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))),
	}
}

func TestEncodeRecord(t *testing.T) {
	data, err := EncodeRecord(testRecord())
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"event":"Signup","properties":{"plan":"pro","token":"tok","time":"2025-01-02T03:04:05"}}`,
		string(raw),
	)
}

func TestEncodeRecord_Deterministic(t *testing.T) {
	first, err := EncodeRecord(testRecord())
	require.NoError(t, err)
	second, err := EncodeRecord(testRecord())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeBatch(t *testing.T) {
	data, err := EncodeBatch([]event.Record{testRecord(), testRecord()})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `[{"event":"Signup"`)
}

func TestEncodeBatch_EmptyIsArray(t *testing.T) {
	for _, records := range [][]event.Record{nil, {}} {
		data, err := EncodeBatch(records)
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(data)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	}
}

func TestEncodeRecord_InvalidFloat(t *testing.T) {
	record := event.Record{
		Event:      "Bad",
		Properties: property.New().Set("nan", property.Float(math.NaN())),
	}

	_, err := EncodeRecord(record)
	assert.ErrorIs(t, err, property.ErrUnsupportedType)
}

func TestPayload(t *testing.T) {
	payload := Payload("a+b/c=", false)
	assert.Equal(t, "data="+url.QueryEscape("a+b/c="), payload)

	payload = Payload("abc", true)
	assert.Equal(t, "data=abc&test=1", payload)
}

func TestDecodePayload_RoundTrip(t *testing.T) {
	data, err := EncodeRecord(testRecord())
	require.NoError(t, err)

	raw, err := DecodePayload(Payload(data, true))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event":"Signup"`)
}

func TestDecodePayload_MissingData(t *testing.T) {
	_, err := DecodePayload("test=1")
	assert.ErrorIs(t, err, ErrMissingData)
}
