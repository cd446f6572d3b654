package codec

import "errors"

var ErrMissingData = errors.New("payload has no data parameter")
