package lzw

import (
	"encoding/binary"
	"fmt"
)

// bitReader reads codes written by bitWriter. Bytes past the end of buf read
// as zero; whether a code actually fits is checked by the caller.
type bitReader struct {
	buf []byte
	pos int // in bits
}

func (r *bitReader) read(space *codeSpace, last int) (int, error) {
	var window [4]byte
	if i := r.pos >> 3; i < len(r.buf) {
		copy(window[:], r.buf[i:])
	}
	v := binary.LittleEndian.Uint32(window[:]) >> (r.pos & 7)

	code := int(v) & (space.limit - 1)
	bits := space.width
	if space.short(code, last) {
		code &= space.limit>>1 - 1
		bits--
	}
	if r.pos+bits > len(r.buf)*8 {
		return 0, fmt.Errorf("%w: stream truncated at byte %d", ErrCorruptStream, r.pos>>3)
	}
	r.pos += bits
	return code, nil
}

// Uncompress decodes a stream produced by Compress or by the engine.
func Uncompress(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrCorruptStream, len(data))
	}
	n := int(binary.LittleEndian.Uint16(data[0:]))
	total := int(binary.LittleEndian.Uint16(data[2:]))

	if total == 0 {
		if len(data)-headerSize < n {
			return nil, fmt.Errorf("%w: stored stream holds %d of %d bytes", ErrCorruptStream, len(data)-headerSize, n)
		}
		out := make([]byte, n)
		copy(out, data[headerSize:])
		return out, nil
	}
	if total <= literals {
		return nil, fmt.Errorf("%w: dictionary size %d", ErrCorruptStream, total)
	}

	// prefix and suffix describe codes >= 256; the suffix of the newest code
	// is provisional until the next code supplies its first byte
	prefix := make([]int32, total)
	suffix := make([]byte, total)

	r := &bitReader{buf: data, pos: headerSize * 8}
	space := newCodeSpace()
	out := make([]byte, 0, n)
	var stack []byte

	for next := literals; next < total; next++ {
		at := r.pos >> 3
		code, err := r.read(&space, next-1)
		if err != nil {
			return nil, err
		}
		if code >= next {
			return nil, fmt.Errorf("%w: code %d beyond dictionary size %d at byte %d", ErrCorruptStream, code, next, at)
		}
		prefix[next] = int32(code)

		stack = stack[:0]
		c := code
		for c >= literals {
			stack = append(stack, suffix[c])
			c = int(prefix[c])
		}
		first := byte(c)

		if len(out)+1+len(stack) > n {
			return nil, fmt.Errorf("%w: output exceeds declared %d bytes at byte %d", ErrCorruptStream, n, at)
		}
		out = append(out, first)
		for j := len(stack) - 1; j >= 0; j-- {
			out = append(out, stack[j])
		}

		suffix[next-1] = first
		suffix[next] = first
		space.grow(next + 1)
	}

	if len(out) != n {
		return nil, fmt.Errorf("%w: decoded %d bytes, header declares %d", ErrCorruptStream, len(out), n)
	}
	// the engine appends one terminal code after the last dictionary code; it
	// carries no data but a stream without it has been cut short
	if _, err := r.read(&space, total-1); err != nil {
		return nil, err
	}
	return out, nil
}
