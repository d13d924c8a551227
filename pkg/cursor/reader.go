// Package cursor provides sequential little-endian access to in-memory asset buffers.
//
// A Reader or Writer is created for one parse or serialize call. Neither ever
// clamps, zero-fills or grows: any access past the end of the buffer fails with
// ErrOutOfBounds.
package cursor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Reader reads fixed-width values from a byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// next returns the next n bytes without copying and advances past them.
func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.pos {
		return nil, fmt.Errorf("%w: read of %d bytes at offset %d (size %d)", ErrOutOfBounds, n, r.pos, len(r.buf))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.next(n)
	return err
}

// FixedText reads an n-byte text field of single-byte (ISO-8859-1) characters.
//
// Every NUL byte in the field is dropped, not only the trailing padding, so
// "AB\x00CD" reads back as "ABCD". Fields that may hold binary data after the
// terminator should be read with Bytes instead.
func (r *Reader) FixedText(n int) (string, error) {
	b, err := r.next(n)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(n)
	for _, c := range b {
		if c == 0 {
			continue
		}
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return sb.String(), nil
}

// Struct decodes a fixed-size little-endian record into v, which must be a
// pointer or slice accepted by encoding/binary.
func (r *Reader) Struct(v any) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("cursor: %T has no fixed binary size", v)
	}
	b, err := r.next(size)
	if err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(b), binary.LittleEndian, v)
}
