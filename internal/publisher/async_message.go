package publisher

import (
	"context"
)

type AsyncMessage[T any] struct {
	Ctx      context.Context
	Message  T
	Callback Callback[T]
}
