package property

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported property type")
	ErrInvalidJSON     = errors.New("invalid properties json")
)
