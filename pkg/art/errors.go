package art

import "errors"

var (
	ErrTileCount  = errors.New("tile count does not match tile range")
	ErrPixelCount = errors.New("pixel data does not match tile size")
)
