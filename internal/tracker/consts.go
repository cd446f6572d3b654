package tracker

import "time"

// SuccessSentinel — тело ответа, означающее, что сервис принял данные.
const SuccessSentinel = "1"

const (
	OperationTrack = "track"
	OperationFlush = "flush"
)

const (
	defaultRetryAttempts = 3
	defaultRetryPause    = 200 * time.Millisecond
)
