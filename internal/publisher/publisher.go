package publisher

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Publisher передает события в WriteFn из пула воркеров.
// Используется, когда события приходят быстрее, чем их успевает
// принимать трекер: AddBatch блокируется на время сброса батча.
type Publisher[T any] struct {
	write           WriteFn[T]
	asyncMessagesCh chan AsyncMessage[T]
	workersFinished chan struct{}

	// mu защищает closed и закрытие asyncMessagesCh от гонки с SendAsync
	mu     sync.RWMutex
	closed bool
}

// NewPublisher создаёт новый Publisher.
// Инициализирует очередь, запускает указанное количество воркеров
// и горутину, отслеживающую их завершение.
func NewPublisher[T any](ctx context.Context, write WriteFn[T], workerCount int, bufferAsyncMessageSize int) *Publisher[T] {
	p := &Publisher[T]{
		write:           write,
		asyncMessagesCh: make(chan AsyncMessage[T], bufferAsyncMessageSize),
		workersFinished: make(chan struct{}),
	}

	workerCount = max(workerCount, 1)

	wg := &sync.WaitGroup{}
	wg.Add(workerCount)
	for range workerCount {
		go p.worker(ctx, wg)
	}

	go func() {
		wg.Wait()
		close(p.workersFinished)
	}()

	return p
}

// SendSync передает сообщение в текущей горутине.
// Возвращает ErrClosed, если Publisher закрыт.
func (p *Publisher[T]) SendSync(ctx context.Context, message T) (bool, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	if closed {
		return false, ErrClosed
	}

	ok, err := p.write(ctx, message)
	if err != nil {
		zap.L().Error(err.Error())
		return false, err
	}

	return ok, nil
}

// SendAsync ставит сообщение в очередь.
// Блокируется, только если очередь заполнена.
// Callback (если задан) будет вызван после попытки записи.
func (p *Publisher[T]) SendAsync(ctx context.Context, message T, callback Callback[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.asyncMessagesCh <- AsyncMessage[T]{
		Ctx:      ctx,
		Message:  message,
		Callback: callback,
	}:
	}

	return nil
}

// Close перестает принимать сообщения и ждет, пока воркеры
// обработают все, что уже стоит в очереди.
// Повторный вызов возвращает ErrClosed.
func (p *Publisher[T]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.closed = true
	close(p.asyncMessagesCh)
	p.mu.Unlock()

	<-p.workersFinished

	return nil
}

// worker — рабочая горутина, обрабатывающая асинхронные сообщения.
// Завершается при отмене контекста или после опустошения закрытой очереди.
func (p *Publisher[T]) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-p.asyncMessagesCh:
			if !ok {
				return
			}

			sent, err := p.write(m.Ctx, m.Message)
			if err != nil {
				zap.L().Error(err.Error())
			}

			if m.Callback != nil {
				m.Callback(m.Ctx, m.Message, sent, err)
			}
		}
	}
}
