// Package art reads and writes Build engine tile files (TILESxxx.ART).
package art

import (
	"fmt"

	"github.com/buildtools/pkg/cursor"
)

// Animation is the packed per-tile animation word (picanm).
//
//	bits  0-5  frame count
//	bits  6-7  animation type
//	bits  8-15 x offset (signed)
//	bits 16-23 y offset (signed)
//	bits 24-27 speed
//	bits 28-31 unused
type Animation struct {
	Frames  uint8
	Type    uint8
	OffsetX int8
	OffsetY int8
	Speed   uint8
	Unused  uint8
}

func unpackAnimation(v uint32) Animation {
	return Animation{
		Frames:  uint8(v & 0x3F),
		Type:    uint8(v>>6) & 0x03,
		OffsetX: int8(v >> 8),
		OffsetY: int8(v >> 16),
		Speed:   uint8(v>>24) & 0x0F,
		Unused:  uint8(v>>28) & 0x0F,
	}
}

func (a Animation) pack() uint32 {
	return uint32(a.Frames&0x3F) |
		uint32(a.Type&0x03)<<6 |
		uint32(uint8(a.OffsetX))<<8 |
		uint32(uint8(a.OffsetY))<<16 |
		uint32(a.Speed&0x0F)<<24 |
		uint32(a.Unused&0x0F)<<28
}

// Tile is a single picture. Pixels are palette indices stored column by
// column, Width*Height of them.
type Tile struct {
	Width     uint16
	Height    uint16
	Animation Animation
	Pixels    []byte
}

// At returns the palette index at column x, row y.
func (t *Tile) At(x, y int) byte {
	return t.Pixels[x*int(t.Height)+y]
}

// File is one ART file holding tiles Start through End.
type File struct {
	Version uint32
	Start   uint32
	End     uint32
	Tiles   []Tile
}

const headerSize = 16

// Unmarshal decodes an ART file. The stored tile count is ignored in favor
// of the tile range, as the engine does.
func Unmarshal(data []byte) (*File, error) {
	r := cursor.NewReader(data)

	var hdr struct {
		Version  uint32
		NumTiles uint32
		Start    uint32
		End      uint32
	}
	if err := r.Struct(&hdr); err != nil {
		return nil, fmt.Errorf("failed to read ART header: %w", err)
	}
	if hdr.End < hdr.Start {
		return nil, fmt.Errorf("%w: range %d-%d", ErrTileCount, hdr.Start, hdr.End)
	}
	n := int(hdr.End-hdr.Start) + 1
	if n > r.Len()/8 {
		return nil, fmt.Errorf("%w: %d tiles in %d bytes", ErrTileCount, n, r.Len())
	}

	widths := make([]uint16, n)
	heights := make([]uint16, n)
	anims := make([]uint32, n)
	if err := r.Struct(widths); err != nil {
		return nil, fmt.Errorf("failed to read tile widths: %w", err)
	}
	if err := r.Struct(heights); err != nil {
		return nil, fmt.Errorf("failed to read tile heights: %w", err)
	}
	if err := r.Struct(anims); err != nil {
		return nil, fmt.Errorf("failed to read tile animations: %w", err)
	}

	f := &File{
		Version: hdr.Version,
		Start:   hdr.Start,
		End:     hdr.End,
		Tiles:   make([]Tile, n),
	}
	for i := range f.Tiles {
		t := &f.Tiles[i]
		t.Width = widths[i]
		t.Height = heights[i]
		t.Animation = unpackAnimation(anims[i])

		pixels, err := r.Bytes(int(t.Width) * int(t.Height))
		if err != nil {
			return nil, fmt.Errorf("failed to read pixels of tile %d: %w", int(f.Start)+i, err)
		}
		t.Pixels = pixels
	}
	return f, nil
}

// Marshal encodes the file. Tiles must cover Start through End exactly.
func (f *File) Marshal() ([]byte, error) {
	if f.End < f.Start || int(f.End-f.Start)+1 != len(f.Tiles) {
		return nil, fmt.Errorf("%w: %d tiles for range %d-%d", ErrTileCount, len(f.Tiles), f.Start, f.End)
	}

	size := headerSize + len(f.Tiles)*8
	for i, t := range f.Tiles {
		if len(t.Pixels) != int(t.Width)*int(t.Height) {
			return nil, fmt.Errorf("%w: tile %d is %dx%d with %d pixels",
				ErrPixelCount, int(f.Start)+i, t.Width, t.Height, len(t.Pixels))
		}
		size += len(t.Pixels)
	}

	w := cursor.NewWriter(size)
	for _, v := range []uint32{f.Version, uint32(len(f.Tiles)), f.Start, f.End} {
		if err := w.Uint32(v); err != nil {
			return nil, err
		}
	}
	for _, t := range f.Tiles {
		if err := w.Uint16(t.Width); err != nil {
			return nil, err
		}
	}
	for _, t := range f.Tiles {
		if err := w.Uint16(t.Height); err != nil {
			return nil, err
		}
	}
	for _, t := range f.Tiles {
		if err := w.Uint32(t.Animation.pack()); err != nil {
			return nil, err
		}
	}
	for _, t := range f.Tiles {
		if _, err := w.Write(t.Pixels); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}
