package publisher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublisher_SendSync(t *testing.T) {
	called := false

	writeFn := func(ctx context.Context, v int) (bool, error) {
		called = true
		assert.Equal(t, 1, v)
		return true, nil
	}

	p := NewPublisher[int](t.Context(), writeFn, 1, 1)

	ok, err := p.SendSync(t.Context(), 1)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, called)

	assert.NoError(t, p.Close())
}

func TestPublisher_SendSync_Error(t *testing.T) {
	expectedErr := errors.New("write failed")

	writeFn := func(ctx context.Context, v int) (bool, error) {
		return true, expectedErr
	}

	p := NewPublisher[int](t.Context(), writeFn, 1, 1)

	ok, err := p.SendSync(t.Context(), 1)
	assert.ErrorIs(t, err, expectedErr)
	assert.False(t, ok)

	assert.NoError(t, p.Close())
}

func TestPublisher_SendAsync(t *testing.T) {
	done := make(chan struct{})

	writeFn := func(ctx context.Context, v int) (bool, error) {
		return false, nil
	}

	p := NewPublisher[int](t.Context(), writeFn, 1, 1)

	err := p.SendAsync(t.Context(), 1, func(ctx context.Context, v int, ok bool, err error) {
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, v)
		close(done)
	})

	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "callback не был вызван")
	}

	assert.NoError(t, p.Close())
}

func TestPublisher_SendAsync_DoesNotWaitForWrite(t *testing.T) {
	writeStarted := make(chan struct{})
	writeFinished := make(chan struct{})

	writeFn := func(ctx context.Context, v int) (bool, error) {
		close(writeStarted)
		time.Sleep(100 * time.Millisecond)
		close(writeFinished)
		return true, nil
	}

	p := NewPublisher[int](t.Context(), writeFn, 1, 1)

	start := time.Now()
	err := p.SendAsync(t.Context(), 1, nil)
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.Less(t, elapsed, 50*time.Millisecond)

	<-writeStarted
	<-writeFinished

	assert.NoError(t, p.Close())
}

func TestPublisher_SendAsync_CallbackReceivesError(t *testing.T) {
	expectedErr := errors.New("write failed")
	done := make(chan struct{})

	writeFn := func(ctx context.Context, v int) (bool, error) {
		return false, expectedErr
	}

	p := NewPublisher[int](t.Context(), writeFn, 1, 1)

	err := p.SendAsync(t.Context(), 1, func(ctx context.Context, v int, ok bool, err error) {
		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 1, v)
		close(done)
	})

	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "callback не был вызван")
	}

	assert.NoError(t, p.Close())
}

// TestPublisher_CloseDrainsQueue проверяет, что Close дожидается
// обработки всех сообщений, уже поставленных в очередь.
func TestPublisher_CloseDrainsQueue(t *testing.T) {
	var written atomic.Int64

	writeFn := func(ctx context.Context, v int) (bool, error) {
		time.Sleep(time.Millisecond)
		written.Add(1)
		return true, nil
	}

	p := NewPublisher[int](t.Context(), writeFn, 4, 100)

	for i := range 100 {
		assert.NoError(t, p.SendAsync(t.Context(), i, nil))
	}

	assert.NoError(t, p.Close())
	assert.EqualValues(t, 100, written.Load())
}

func TestPublisher_Closed(t *testing.T) {
	writeFn := func(ctx context.Context, v int) (bool, error) {
		return true, nil
	}

	p := NewPublisher[int](t.Context(), writeFn, 2, 1)

	assert.NoError(t, p.Close())
	assert.ErrorIs(t, p.Close(), ErrClosed)
	assert.ErrorIs(t, p.SendAsync(t.Context(), 1, nil), ErrClosed)

	_, err := p.SendSync(t.Context(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPublisher_ConcurrentSendAndClose(t *testing.T) {
	var written atomic.Int64

	writeFn := func(ctx context.Context, v int) (bool, error) {
		written.Add(1)
		return true, nil
	}

	p := NewPublisher[int](t.Context(), writeFn, 2, 8)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int64
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				if err := p.SendAsync(t.Context(), i, nil); err == nil {
					accepted.Add(1)
				}
			}
		}()
	}

	time.Sleep(time.Millisecond)
	assert.NoError(t, p.Close())
	wg.Wait()

	assert.Equal(t, accepted.Load(), written.Load())
}
