package lzw

import (
	"encoding/binary"
	"fmt"
)

// trie is the encoder's dictionary. Each code links to its first extension
// (child) and to the next extension of the same prefix (sibling); -1 ends a
// chain. Codes below 256 are the literal bytes.
type trie struct {
	suffix  []byte
	child   []int32
	sibling []int32
}

func newTrie(size int) *trie {
	t := &trie{
		suffix:  make([]byte, size),
		child:   make([]int32, size),
		sibling: make([]int32, size),
	}
	for i := 0; i < literals; i++ {
		t.suffix[i] = byte(i)
		t.child[i] = -1
		t.sibling[i] = int32((i + 1) & 0xFF)
	}
	return t
}

// extend looks up the code for prefix followed by b. When there is none, the
// not yet initialized code next is linked in its place and found is false.
func (t *trie) extend(prefix int, b byte, next int) (code int, found bool) {
	c := t.child[prefix]
	if c < 0 {
		t.child[prefix] = int32(next)
		return 0, false
	}
	for t.suffix[c] != b {
		s := t.sibling[c]
		if s < 0 {
			t.sibling[c] = int32(next)
			return 0, false
		}
		c = s
	}
	return int(c), true
}

func (t *trie) set(code int, b byte) {
	t.suffix[code] = b
	t.child[code] = -1
	t.sibling[code] = -1
}

// Compress encodes data into a single LZW stream. If the encoded form would
// not be smaller than data, a stored stream is returned instead.
func Compress(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if n > maxLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}

	// one code per input byte at most, plus the literals
	t := newTrie(literals + n + 1)
	// codes are only started below bit 8*n; the slack covers the 32-bit store
	// of the last one and the terminal code
	w := &bitWriter{buf: make([]byte, n+8), pos: headerSize * 8}
	space := newCodeSpace()
	next := literals

	i := 0
	for i < n && w.pos < n*8 {
		code := int(data[i])
		for {
			i++
			if i == n {
				break
			}
			c, found := t.extend(code, data[i], next)
			if !found {
				break
			}
			code = c
		}

		var b byte
		if i < n {
			b = data[i]
		}
		t.set(next, b)

		w.write(code, space.bits(code, next-1))
		next++
		space.grow(next)
	}

	last := int(data[n-1])
	w.write(last, space.bits(last, next-1))

	binary.LittleEndian.PutUint16(w.buf[0:], uint16(n))
	if size := w.size(); size < n && next <= maxLength {
		binary.LittleEndian.PutUint16(w.buf[2:], uint16(next))
		return w.buf[:size:size], nil
	}
	return store(data), nil
}

// store returns data wrapped in a stored stream.
func store(data []byte) []byte {
	out := make([]byte, headerSize+len(data))
	binary.LittleEndian.PutUint16(out[0:], uint16(len(data)))
	copy(out[headerSize:], data)
	return out
}
