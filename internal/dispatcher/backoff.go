package dispatcher

import (
	"errors"
	"time"
)

const (
	backoffMultiply     = 1.2
	startBackoffTimeout = 5 * time.Second
	startBackoffPause   = 200 * time.Millisecond
	backoffAttemptCount = 3
	maxAttemptCount     = 10
)

var (
	ErrBackoffTimeout  = errors.New("backoff timeout")
	ErrInvalidAttempts = errors.New("invalid attempt count")
)
