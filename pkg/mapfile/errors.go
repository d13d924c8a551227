package mapfile

import "errors"

var (
	ErrUnsupported = errors.New("unsupported map format")
	ErrTooMany     = errors.New("too many map objects")
)
