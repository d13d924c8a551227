package cursor

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Writer writes fixed-width values into a preallocated buffer.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter returns a Writer that can hold exactly capacity bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, capacity)}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.pos }

// Available returns the remaining capacity.
func (w *Writer) Available() int { return len(w.buf) - w.pos }

func (w *Writer) reserve(n int) ([]byte, error) {
	if n < 0 || n > len(w.buf)-w.pos {
		return nil, fmt.Errorf("%w: write of %d bytes at offset %d (capacity %d)", ErrOutOfBounds, n, w.pos, len(w.buf))
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b, nil
}

// Write copies p into the buffer. It writes all of p or nothing.
func (w *Writer) Write(p []byte) (int, error) {
	b, err := w.reserve(len(p))
	if err != nil {
		return 0, err
	}
	return copy(b, p), nil
}

func (w *Writer) Uint8(v uint8) error {
	b, err := w.reserve(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (w *Writer) Int8(v int8) error { return w.Uint8(uint8(v)) }

func (w *Writer) Uint16(v uint16) error {
	b, err := w.reserve(2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, v)
	return nil
}

func (w *Writer) Int16(v int16) error { return w.Uint16(uint16(v)) }

func (w *Writer) Uint32(v uint32) error {
	b, err := w.reserve(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

func (w *Writer) Int32(v int32) error { return w.Uint32(uint32(v)) }

// FixedText writes s as an n-byte ISO-8859-1 field, truncated or padded with
// NUL. Characters outside ISO-8859-1 are written as '?'.
func (w *Writer) FixedText(s string, n int) error {
	b, err := w.reserve(n)
	if err != nil {
		return err
	}
	i := 0
	for _, c := range s {
		if i == n {
			break
		}
		e, ok := charmap.ISO8859_1.EncodeRune(c)
		if !ok {
			e = '?'
		}
		b[i] = e
		i++
	}
	// the buffer starts zeroed and is never rewritten, so the tail is already NUL
	return nil
}

// Struct encodes v, a fixed-size value accepted by encoding/binary, in
// little-endian order.
func (w *Writer) Struct(v any) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("cursor: %T has no fixed binary size", v)
	}
	b, err := w.reserve(size)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return err
	}
	copy(b, buf.Bytes())
	return nil
}
