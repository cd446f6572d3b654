package deadletter

import "errors"

var (
	ErrInvalidPayload = errors.New("dead letter payload is not valid json")
	ErrNoBrokers      = errors.New("kafka brokers not configured")
	ErrNoTopic        = errors.New("kafka topic not configured")
)
