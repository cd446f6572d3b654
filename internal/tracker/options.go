package tracker

import (
	"fmt"
	"mixpanel-tracker/internal/batch"
	"mixpanel-tracker/internal/deadletter"
	"time"

	"go.uber.org/zap"
)

// FailurePolicy определяет, что происходит с батчем, который не удалось отправить.
type FailurePolicy string

const (
	// PolicyDiscard: батч теряется, результат возвращается вызывающему.
	PolicyDiscard FailurePolicy = "discard"
	// PolicyRetry: отправка повторяется с backoff.
	PolicyRetry FailurePolicy = "retry"
	// PolicyDeadLetter: батч сохраняется в DeadLetter.
	PolicyDeadLetter FailurePolicy = "dead_letter"
)

func (p FailurePolicy) Valid() bool {
	switch p {
	case PolicyDiscard, PolicyRetry, PolicyDeadLetter:
		return true
	}
	return false
}

type Options struct {
	// Test добавляет test=1 к каждому запросу.
	Test bool
	// UseGet отправляет одиночные события GET запросом. Flush всегда POST.
	UseGet bool
	// SetEventTime подставляет time, если вызывающий его не передал.
	SetEventTime bool
	// LiteralSerialization отключает Humanize для ключей свойств.
	LiteralSerialization bool
	// ProxyURL заменяет адрес сервиса по умолчанию.
	ProxyURL string

	// MaxBatchSize от 1 до 50, ноль означает 50.
	MaxBatchSize int
	// HTTPTimeout используется, если транспорт не передан явно.
	HTTPTimeout time.Duration

	FailurePolicy FailurePolicy
	RetryAttempts int
	RetryPause    time.Duration
	DeadLetter    deadletter.Sink
}

func DefaultOptions() *Options {
	return &Options{
		SetEventTime:  true,
		MaxBatchSize:  batch.MaxSize,
		FailurePolicy: PolicyDiscard,
		RetryAttempts: defaultRetryAttempts,
		RetryPause:    defaultRetryPause,
	}
}

// normalize подставляет значения по умолчанию для нулевых полей и проверяет остальные.
func (o *Options) normalize() error {
	if o.MaxBatchSize == 0 {
		o.MaxBatchSize = batch.MaxSize
	}
	if o.MaxBatchSize < 1 || o.MaxBatchSize > batch.MaxSize {
		zap.L().Error(ErrInvalidBatchSize.Error(), zap.Int("size", o.MaxBatchSize))
		return ErrInvalidBatchSize
	}

	if o.FailurePolicy == "" {
		o.FailurePolicy = PolicyDiscard
	}
	if !o.FailurePolicy.Valid() {
		zap.L().Error(ErrInvalidPolicy.Error(), zap.String("policy", string(o.FailurePolicy)))
		return ErrInvalidPolicy
	}
	if o.FailurePolicy == PolicyDeadLetter && o.DeadLetter == nil {
		err := fmt.Errorf("%w: not configured for %s policy", ErrDeadLetterSink, PolicyDeadLetter)
		zap.L().Error(err.Error())
		return err
	}

	if o.RetryAttempts == 0 {
		o.RetryAttempts = defaultRetryAttempts
	}
	if o.RetryPause == 0 {
		o.RetryPause = defaultRetryPause
	}

	return nil
}
