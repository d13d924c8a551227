package art

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// PaletteSize is the size of the VGA palette at the start of PALETTE.DAT.
const PaletteSize = 256 * 3

// Palette holds 256 colors scaled to 8 bits per channel.
type Palette [256]RGBQuad

// ReadPalette reads the 6-bit VGA palette that starts PALETTE.DAT (and
// Blood's BLOOD.PAL). The shade and translucency tables that follow are
// ignored.
func ReadPalette(data []byte) (*Palette, error) {
	if len(data) < PaletteSize {
		return nil, fmt.Errorf("%w: palette needs %d bytes, got %d", ErrPixelCount, PaletteSize, len(data))
	}
	p := &Palette{}
	for i := range p {
		p[i] = RGBQuad{
			Red:   data[i*3] << 2,
			Green: data[i*3+1] << 2,
			Blue:  data[i*3+2] << 2,
		}
	}
	return p, nil
}

// BitmapFileHeader is the Windows BMP file header (14 bytes).
type BitmapFileHeader struct {
	Type       uint16 // "BM" = 0x4D42
	Size       uint32 // File size
	Reserved1  uint16
	Reserved2  uint16
	OffsetBits uint32 // Offset to pixel data
}

// BitmapInfoHeader is the Windows BMP info header (40 bytes).
type BitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// RGBQuad represents a color in the palette (4 bytes).
type RGBQuad struct {
	Blue     byte
	Green    byte
	Red      byte
	Reserved byte
}

// WriteBMP writes the tile as an 8-bit paletted BMP.
func (t *Tile) WriteBMP(w io.Writer, pal *Palette) error {
	if len(t.Pixels) != int(t.Width)*int(t.Height) {
		return fmt.Errorf("%w: %dx%d with %d pixels", ErrPixelCount, t.Width, t.Height, len(t.Pixels))
	}

	// rows are padded to 4 bytes
	stride := (int(t.Width) + 3) &^ 3
	imageSize := stride * int(t.Height)

	bmf := BitmapFileHeader{
		Type:       0x4D42,
		OffsetBits: uint32(14 + 40 + len(pal)*4),
	}
	bmf.Size = bmf.OffsetBits + uint32(imageSize)

	bmi := BitmapInfoHeader{
		Size:      40,
		Width:     int32(t.Width),
		Height:    int32(t.Height),
		Planes:    1,
		BitCount:  8,
		SizeImage: uint32(imageSize),
		ClrUsed:   uint32(len(pal)),
	}

	if err := binary.Write(w, binary.LittleEndian, &bmf); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, &bmi); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, pal); err != nil {
		return err
	}

	// BMP rows run bottom-up; tile pixels are stored column by column
	row := make([]byte, stride)
	for y := int(t.Height) - 1; y >= 0; y-- {
		for x := 0; x < int(t.Width); x++ {
			row[x] = t.At(x, y)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBMPFile writes the tile as a BMP file to disk.
func (t *Tile) WriteBMPFile(path string, pal *Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create BMP file: %w", err)
	}
	if err := t.WriteBMP(f, pal); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
