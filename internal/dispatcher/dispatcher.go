package dispatcher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Dispatcher struct {
	attempts     int
	startTimeout time.Duration
	startPause   time.Duration
}

// NewDispatcher создает и возвращает новый экземпляр Dispatcher
// с настройками повторов по умолчанию.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		attempts:     backoffAttemptCount,
		startTimeout: startBackoffTimeout,
		startPause:   startBackoffPause,
	}
}

// SetAttempts задает количество попыток (1..maxAttemptCount).
func (d *Dispatcher) SetAttempts(n int) error {
	if n < 1 || n > maxAttemptCount {
		return ErrInvalidAttempts
	}

	d.attempts = n
	return nil
}

// SetPause задает паузу перед второй попыткой; дальше она растет вместе с таймаутом.
func (d *Dispatcher) SetPause(pause time.Duration) {
	d.startPause = pause
}

// SetTimeout задает таймаут первой попытки.
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	d.startTimeout = timeout
}

// Write выполняет запись с использованием механизма повторных попыток (backoff).
// Принимает контекст для управления отменой и функцию записи writeFn.
func (d *Dispatcher) Write(ctx context.Context, writeFn WriteFn) error {
	return d.writeWithBackoff(ctx, writeFn)
}

// writeWithBackoff повторяет writeFn, пока она не завершится успешно.
// Таймаут попытки и пауза между попытками растут с коэффициентом backoffMultiply.
// При отмене контекста возвращается ошибка контекста.
// Когда попытки закончились, возвращается ErrBackoffTimeout вместе с последней ошибкой.
func (d *Dispatcher) writeWithBackoff(ctx context.Context, writeFn WriteFn) error {
	timeout := d.startTimeout
	pause := d.startPause

	var lastErr error

	for attempt := range d.attempts {
		if attempt > 0 {
			if err := sleep(ctx, pause); err != nil {
				return err
			}
			timeout = time.Duration(float64(timeout) * backoffMultiply)
			pause = time.Duration(float64(pause) * backoffMultiply)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = d.singleWrite(ctx, timeout, writeFn)
		if lastErr == nil {
			return nil
		}

		zap.L().Warn("write attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("attempts", d.attempts),
			zap.Error(lastErr),
		)
	}

	return fmt.Errorf("%w: %w", ErrBackoffTimeout, lastErr)
}

// singleWrite выполняет одну попытку записи с ограничением по времени.
// Создает дочерний контекст с таймаутом и вызывает переданную функцию writeFn.
func (d *Dispatcher) singleWrite(ctx context.Context, timeout time.Duration, writeFn WriteFn) error {
	ctxT, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return writeFn(ctxT)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
