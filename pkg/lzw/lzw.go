// Package lzw implements the adaptive-width LZW coder used by Build engine
// files (the kdfread/dfwrite family).
//
// A stream starts with a 4-byte header: the uncompressed length (u16 LE) and
// the final dictionary size (u16 LE). A dictionary size of zero marks a stored
// stream whose payload is the input verbatim. Otherwise the payload is a
// little-endian bitstream of codes whose width starts at 8 bits and grows with
// the dictionary. A code whose low bits exceed the highest assigned code's low
// bits is written one bit narrower; the decoder applies the same test.
package lzw

import "encoding/binary"

const (
	headerSize = 4
	literals   = 256
	maxLength  = 0xFFFF
)

// codeSpace tracks the current code width.
type codeSpace struct {
	width int
	limit int // 1 << width
}

func newCodeSpace() codeSpace {
	return codeSpace{width: 8, limit: 1 << 8}
}

// grow widens the space by one bit once count codes no longer fit.
func (s *codeSpace) grow(count int) {
	if count > s.limit {
		s.width++
		s.limit <<= 1
	}
}

// short reports whether code is packed one bit narrower than the current
// width, given last is the highest code assigned so far.
func (s *codeSpace) short(code, last int) bool {
	mask := s.limit>>1 - 1
	return code&mask > last&mask
}

// bits returns the number of bits code occupies in the stream.
func (s *codeSpace) bits(code, last int) int {
	if s.short(code, last) {
		return s.width - 1
	}
	return s.width
}

// bitWriter ORs codes into a zeroed buffer, least significant bit first.
type bitWriter struct {
	buf []byte
	pos int // in bits
}

func (w *bitWriter) write(code, bits int) {
	i := w.pos >> 3
	v := binary.LittleEndian.Uint32(w.buf[i:]) | uint32(code)<<(w.pos&7)
	binary.LittleEndian.PutUint32(w.buf[i:], v)
	w.pos += bits
}

// size returns the number of bytes touched so far.
func (w *bitWriter) size() int {
	return (w.pos + 7) >> 3
}
