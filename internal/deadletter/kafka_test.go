package deadletter

import (
	"context"
	"encoding/json"
	"errors"
	mock_deadletter "mixpanel-tracker/internal/deadletter/mock"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestKafkaSink_Store проверяет, что письмо уходит одним сообщением
// с ключом ID и JSON письма в значении.
func TestKafkaSink_Store(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := mock_deadletter.NewMockKafkaWriter(ctrl)

	letter := NewLetter(1, "rejected", []byte(`[{"event":"Signup","properties":{"token":"tok"}}]`))
	letter.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mockWriter.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			assert.Equal(t, letter.ID, string(msgs[0].Key))
			assert.True(t, letter.CreatedAt.Equal(msgs[0].Time))

			var got Letter
			require.NoError(t, json.Unmarshal(msgs[0].Value, &got))
			assert.Equal(t, letter.ID, got.ID)
			assert.Equal(t, 1, got.Records)
			assert.Equal(t, "rejected", got.Reason)
			assert.JSONEq(t, string(letter.Payload), string(got.Payload))
			return nil
		})

	ks := &KafkaSink{writer: mockWriter}
	assert.NoError(t, ks.Store(t.Context(), letter))
}

func TestKafkaSink_StoreWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := mock_deadletter.NewMockKafkaWriter(ctrl)
	writeErr := errors.New("broker unavailable")

	mockWriter.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		Return(writeErr)

	ks := &KafkaSink{writer: mockWriter}
	err := ks.Store(t.Context(), NewLetter(0, "rejected", []byte(`[]`)))
	assert.ErrorIs(t, err, writeErr)
}

// TestKafkaSink_InvalidPayload проверяет, что битый JSON не доходит до брокера.
func TestKafkaSink_InvalidPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := mock_deadletter.NewMockKafkaWriter(ctrl)

	ks := &KafkaSink{writer: mockWriter}
	err := ks.Store(t.Context(), NewLetter(1, "rejected", []byte(`{`)))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestKafkaSink_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := mock_deadletter.NewMockKafkaWriter(ctrl)
	mockWriter.EXPECT().Close().Return(nil)

	ks := &KafkaSink{writer: mockWriter}
	assert.NoError(t, ks.Close())
}

func TestNewKafkaSink_Validation(t *testing.T) {
	_, err := NewKafkaSink(KafkaConfig{Topic: "dead-letters"})
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewKafkaSink(KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.ErrorIs(t, err, ErrNoTopic)

	ks, err := NewKafkaSink(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "dead-letters"})
	require.NoError(t, err)

	w, ok := ks.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "dead-letters", w.Topic)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
}
