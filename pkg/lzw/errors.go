package lzw

import "errors"

var (
	ErrCorruptStream = errors.New("corrupt LZW stream")
	ErrEmptyInput    = errors.New("cannot compress empty input")
	ErrTooLarge      = errors.New("input exceeds 65535 bytes")
)
