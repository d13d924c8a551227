package storage

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown archive format")
	ErrCorrupt       = errors.New("corrupt archive")
	ErrNameTooLong   = errors.New("file name too long for archive format")
	ErrTextTooLong   = errors.New("text too long for archive field")
	ErrUnsafePath    = errors.New("file name escapes output directory")
)
