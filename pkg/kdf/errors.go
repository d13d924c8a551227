package kdf

import "errors"

var ErrInvalidRecordSize = errors.New("invalid record size")
