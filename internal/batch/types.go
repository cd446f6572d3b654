package batch

import "context"

// FlushFn отправляет накопленные элементы.
// Возвращает true, если получатель принял батч.
type FlushFn[T any] = func(ctx context.Context, items []T) (bool, error)
