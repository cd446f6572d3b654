package tracker

import "errors"

var (
	ErrEmptyToken       = errors.New("tracker token is empty")
	ErrInvalidBatchSize = errors.New("max batch size must be between 1 and 50")
	ErrInvalidPolicy    = errors.New("unknown failure policy")
	ErrDeadLetterSink   = errors.New("dead letter sink")
	ErrRejected         = errors.New("payload rejected by tracking service")
)
