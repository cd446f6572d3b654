package deadletter

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteSink(t *testing.T) *SQLiteSink {
	t.Helper()

	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "dead_letters.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	return sink
}

func TestSQLiteSink_StoreAndList(t *testing.T) {
	sink := newTestSQLiteSink(t)

	first := NewLetter(2, "rejected", []byte(`[{"event":"a","properties":{"token":"tok"}},{"event":"b","properties":{"token":"tok"}}]`))
	first.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	second := NewLetter(1, "connection refused", []byte(`[{"event":"c","properties":{"token":"tok"}}]`))
	second.CreatedAt = first.CreatedAt.Add(500 * time.Millisecond)

	require.NoError(t, sink.Store(t.Context(), second))
	require.NoError(t, sink.Store(t.Context(), first))

	letters, err := sink.List(t.Context())
	require.NoError(t, err)
	require.Len(t, letters, 2)

	assert.Equal(t, first.ID, letters[0].ID)
	assert.True(t, first.CreatedAt.Equal(letters[0].CreatedAt))
	assert.Equal(t, 2, letters[0].Records)
	assert.Equal(t, "rejected", letters[0].Reason)
	assert.JSONEq(t, string(first.Payload), string(letters[0].Payload))

	assert.Equal(t, second.ID, letters[1].ID)
	assert.Equal(t, "connection refused", letters[1].Reason)
}

func TestSQLiteSink_InvalidPayload(t *testing.T) {
	sink := newTestSQLiteSink(t)

	err := sink.Store(t.Context(), NewLetter(1, "rejected", []byte(`[{"event":`)))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	letters, err := sink.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, letters)
}

func TestSQLiteSink_DuplicateID(t *testing.T) {
	sink := newTestSQLiteSink(t)

	letter := NewLetter(0, "rejected", json.RawMessage(`[]`))
	require.NoError(t, sink.Store(t.Context(), letter))
	assert.Error(t, sink.Store(t.Context(), letter))
}

func TestNewLetter(t *testing.T) {
	before := time.Now().UTC()
	l := NewLetter(3, "reason", []byte(`[]`))

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, 3, l.Records)
	assert.Equal(t, time.UTC, l.CreatedAt.Location())
	assert.False(t, l.CreatedAt.Before(before))
	assert.NotEqual(t, l.ID, NewLetter(3, "reason", []byte(`[]`)).ID)
}
