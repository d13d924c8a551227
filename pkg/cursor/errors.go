package cursor

import "errors"

var ErrOutOfBounds = errors.New("cursor out of bounds")
