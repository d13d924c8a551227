package mapfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/buildtools/pkg/cursor"
)

var bloodSignature = []byte("BLM\x1a")

// Detect reports whether data looks like a map this package can decode.
// Blood maps are encrypted and rejected.
func Detect(data []byte) error {
	if bytes.HasPrefix(data, bloodSignature) {
		return fmt.Errorf("%w: Blood map", ErrUnsupported)
	}
	if len(data) < binary.Size(Header{}) {
		return fmt.Errorf("%w: %d bytes is too short", ErrUnsupported, len(data))
	}
	return nil
}

func readArray[T any](r *cursor.Reader, what string) ([]T, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s count: %w", what, err)
	}
	out := make([]T, n)
	if err := r.Struct(out); err != nil {
		return nil, fmt.Errorf("failed to read %d %s: %w", n, what, err)
	}
	return out, nil
}

func writeArray[T any](w *cursor.Writer, items []T, what string) error {
	if len(items) > math.MaxUint16 {
		return fmt.Errorf("%w: %d %s", ErrTooMany, len(items), what)
	}
	if err := w.Uint16(uint16(len(items))); err != nil {
		return err
	}
	return w.Struct(items)
}

// Unmarshal decodes a DNM map.
func Unmarshal(data []byte) (*Map, error) {
	if err := Detect(data); err != nil {
		return nil, err
	}

	r := cursor.NewReader(data)
	m := &Map{}
	if err := r.Struct(&m.Header); err != nil {
		return nil, fmt.Errorf("failed to read map header: %w", err)
	}

	var err error
	if m.Sectors, err = readArray[Sector](r, "sectors"); err != nil {
		return nil, err
	}
	if m.Walls, err = readArray[Wall](r, "walls"); err != nil {
		return nil, err
	}
	if m.Sprites, err = readArray[Sprite](r, "sprites"); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal encodes the map.
func (m *Map) Marshal() ([]byte, error) {
	size := binary.Size(m.Header) + 6 +
		len(m.Sectors)*binary.Size(Sector{}) +
		len(m.Walls)*binary.Size(Wall{}) +
		len(m.Sprites)*binary.Size(Sprite{})

	w := cursor.NewWriter(size)
	if err := w.Struct(&m.Header); err != nil {
		return nil, err
	}
	if err := writeArray(w, m.Sectors, "sectors"); err != nil {
		return nil, err
	}
	if err := writeArray(w, m.Walls, "walls"); err != nil {
		return nil, err
	}
	if err := writeArray(w, m.Sprites, "sprites"); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
