// Package kdf reads and writes the delta-coded record streams that Build
// engine games store with kdfread/dfwrite (demo inputs, savegame tables).
//
// Records are fixed size. The first record of a stream is stored as is, every
// later one as the byte-wise difference (mod 256) from its predecessor. The
// resulting bytes are cut into chunks of at most Window bytes, never splitting
// a record, and each chunk is written as a u16 length followed by an LZW
// stream (see package lzw).
package kdf

import (
	"encoding/binary"
	"fmt"

	"github.com/buildtools/pkg/cursor"
	"github.com/buildtools/pkg/lzw"
)

// Window is the largest uncompressed chunk.
const Window = 16384

// unit returns the size and number of the units a stream is framed in.
// Records larger than a window are coded byte by byte.
func unit(recordSize, count int) (int, int) {
	if recordSize > Window {
		return 1, count * recordSize
	}
	return recordSize, count
}

// MaxEncodedSize returns an upper bound on the encoded size of count records.
func MaxEncodedSize(recordSize, count int) int {
	if recordSize <= 0 || count <= 0 {
		return 0
	}
	size, n := unit(recordSize, count)
	perChunk := Window / size
	chunks := (n + perChunk - 1) / perChunk
	// a chunk never grows by more than its length prefix and stored header
	return n*size + chunks*(2+4)
}

// Read decodes count records of recordSize bytes from r and returns them
// back to back. r is left after the last chunk of the stream.
func Read(r *cursor.Reader, recordSize, count int) ([]byte, error) {
	if recordSize <= 0 || count < 0 {
		return nil, fmt.Errorf("%w: %d x %d", ErrInvalidRecordSize, count, recordSize)
	}
	out := make([]byte, recordSize*count)
	size, n := unit(recordSize, count)

	var chunk []byte
	k := 0
	for i := 0; i < n; i++ {
		if k >= len(chunk) {
			var err error
			if chunk, err = readChunk(r, size); err != nil {
				return nil, err
			}
			k = 0
		}

		cur := out[i*size : (i+1)*size]
		if i == 0 {
			copy(cur, chunk[:size])
		} else {
			prev := out[(i-1)*size : i*size]
			for j := range cur {
				cur[j] = prev[j] + chunk[k+j]
			}
		}
		k += size
	}
	return out, nil
}

func readChunk(r *cursor.Reader, size int) ([]byte, error) {
	at := r.Pos()
	n, err := r.Uint16()
	if err != nil {
		return nil, fmt.Errorf("%w: chunk at byte %d: %w", lzw.ErrCorruptStream, at, err)
	}
	payload, err := r.Bytes(int(n))
	if err != nil {
		return nil, fmt.Errorf("%w: chunk at byte %d: %w", lzw.ErrCorruptStream, at, err)
	}
	raw, err := lzw.Uncompress(payload)
	if err != nil {
		return nil, fmt.Errorf("chunk at byte %d: %w", at, err)
	}
	if len(raw) == 0 || len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: chunk at byte %d holds %d bytes, not a multiple of %d",
			lzw.ErrCorruptStream, at, len(raw), size)
	}
	return raw, nil
}

// Encode encodes records, a whole number of recordSize-byte records, into a
// chunked stream. No records encode to no bytes.
func Encode(records []byte, recordSize int) ([]byte, error) {
	if recordSize <= 0 || len(records)%recordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes of %d-byte records", ErrInvalidRecordSize, len(records), recordSize)
	}
	size, n := unit(recordSize, len(records)/recordSize)

	var out []byte
	buf := make([]byte, 0, Window)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		c, err := lzw.Compress(buf)
		if err != nil {
			return err
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(len(c)))
		out = append(out, c...)
		buf = buf[:0]
		return nil
	}

	for i := 0; i < n; i++ {
		if len(buf)+size > Window {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		cur := records[i*size : (i+1)*size]
		if i == 0 {
			buf = append(buf, cur...)
			continue
		}
		prev := records[(i-1)*size : i*size]
		for j := range cur {
			buf = append(buf, cur[j]-prev[j])
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// Write encodes records and writes the stream to w.
func Write(w *cursor.Writer, records []byte, recordSize int) error {
	enc, err := Encode(records, recordSize)
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}
