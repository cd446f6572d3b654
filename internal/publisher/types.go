package publisher

import "context"

// WriteFn передает событие трекеру; ok сообщает результат отправки, если она случилась.
type WriteFn[T any] = func(ctx context.Context, message T) (bool, error)

type Callback[T any] = func(ctx context.Context, message T, ok bool, err error)
