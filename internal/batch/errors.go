package batch

import "errors"

var (
	ErrInvalidSize = errors.New("invalid batch size")
	ErrNoFlushFn   = errors.New("flush function not found")
)
