package deadletter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaSink публикует письма в топик, ключом сообщения служит ID письма.
type KafkaSink struct {
	writer KafkaWriter
}

func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, ErrNoTopic
	}

	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
	}, nil
}

func (s *KafkaSink) Store(ctx context.Context, letter Letter) error {
	if !json.Valid(letter.Payload) {
		zap.L().Error(ErrInvalidPayload.Error(), zap.String("id", letter.ID))
		return ErrInvalidPayload
	}

	b, err := json.Marshal(letter)
	if err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("marshal dead letter %s: %w", letter.ID, err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(letter.ID),
		Value: b,
		Time:  letter.CreatedAt,
	})
	if err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("publish dead letter %s: %w", letter.ID, err)
	}

	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
