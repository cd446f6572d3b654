package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Accumulator копит элементы и синхронно сбрасывает их,
// как только набирается maxSize.
//
// Пока элементов нет, буфер не выделен. Добавление и сброс
// выполняются под одним мьютексом, поэтому длина буфера
// никогда не превышает maxSize.
type Accumulator[T any] struct {
	maxSize int
	flushFn FlushFn[T]

	buffer []T
	mutex  sync.Mutex
	size   atomic.Int64
}

// NewAccumulator создает аккумулятор с размером батча maxSize (1..MaxSize).
func NewAccumulator[T any](maxSize int, flushFn FlushFn[T]) (*Accumulator[T], error) {
	if flushFn == nil {
		zap.L().Error(ErrNoFlushFn.Error())
		return nil, ErrNoFlushFn
	}
	if maxSize < 1 || maxSize > MaxSize {
		zap.L().Error(ErrInvalidSize.Error(), zap.Int("size", maxSize))
		return nil, ErrInvalidSize
	}

	return &Accumulator[T]{
		maxSize: maxSize,
		flushFn: flushFn,
	}, nil
}

// Push добавляет элемент. Если батч заполнен, сразу вызывает flushFn
// и возвращает его результат, иначе возвращает true.
func (a *Accumulator[T]) Push(ctx context.Context, item T) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.buffer == nil {
		a.buffer = make([]T, 0, a.maxSize)
	}
	a.buffer = append(a.buffer, item)
	a.size.Store(int64(len(a.buffer)))

	if len(a.buffer) < a.maxSize {
		return true, nil
	}

	return a.flushLocked(ctx)
}

// Flush отправляет текущий батч, даже пустой.
// Буфер очищается независимо от результата отправки.
func (a *Accumulator[T]) Flush(ctx context.Context) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.flushLocked(ctx)
}

// Len возвращает количество ожидающих элементов без блокировки.
func (a *Accumulator[T]) Len() int {
	return int(a.size.Load())
}

func (a *Accumulator[T]) MaxSize() int {
	return a.maxSize
}

func (a *Accumulator[T]) flushLocked(ctx context.Context) (bool, error) {
	return a.flushFn(ctx, a.takeBuffer())
}

// takeBuffer забирает буфер и возвращает аккумулятор в пустое состояние.
func (a *Accumulator[T]) takeBuffer() []T {
	items := a.buffer
	if items == nil {
		items = []T{}
	}

	a.buffer = nil
	a.size.Store(0)

	return items
}
