package dmo

import "errors"

var (
	ErrNoPlayers  = errors.New("demo has inputs but no players")
	ErrInputCount = errors.New("invalid demo input count")
)
