package config

import "errors"

var (
	ErrDeadLetterKind   = errors.New("dead_letter.kind must be sqlite or kafka for dead_letter policy")
	ErrDeadLetterTarget = errors.New("dead letter target not configured")
)
