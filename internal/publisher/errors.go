package publisher

import "errors"

var ErrClosed = errors.New("publisher closed")
