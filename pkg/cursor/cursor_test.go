package cursor_test

import (
	"errors"
	"testing"

	"github.com/buildtools/pkg/cursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderSignedness(t *testing.T) {
	r := cursor.NewReader([]byte{0xFF})
	v, err := r.Int8()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), v)

	r = cursor.NewReader([]byte{0xFF})
	u, err := r.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), u)

	r = cursor.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	i16, err := r.Int16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1), i16)
	u16, err := r.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFF), u16)
	i32, err := cursor.NewReader([]byte{0xFE, 0xFF, 0xFF, 0xFF}).Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)
	assert.Equal(t, 4, r.Pos())
	assert.Equal(t, 4, r.Len())
}

func TestReaderLittleEndian(t *testing.T) {
	v, err := cursor.NewReader([]byte{0x01, 0x02}).Int16()
	require.NoError(t, err)
	assert.Equal(t, int16(513), v)

	u, err := cursor.NewReader([]byte{0x01, 0x02}).Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), u)

	u32, err := cursor.NewReader([]byte{0x01, 0x02, 0x03, 0x04}).Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), u32)
}

func TestReaderOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		read func(r *cursor.Reader) error
	}{
		{"uint8", func(r *cursor.Reader) error { _, err := r.Uint8(); return err }},
		{"int16", func(r *cursor.Reader) error { _, err := r.Int16(); return err }},
		{"uint32", func(r *cursor.Reader) error { _, err := r.Uint32(); return err }},
		{"bytes", func(r *cursor.Reader) error { _, err := r.Bytes(3); return err }},
		{"negative", func(r *cursor.Reader) error { _, err := r.Bytes(-1); return err }},
		{"text", func(r *cursor.Reader) error { _, err := r.FixedText(5); return err }},
		{"skip", func(r *cursor.Reader) error { return r.Skip(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := cursor.NewReader([]byte{0x00})
			_, err := r.Uint8()
			require.NoError(t, err)

			err = tt.read(r)
			assert.True(t, errors.Is(err, cursor.ErrOutOfBounds), "got %v", err)
			assert.Equal(t, 1, r.Pos(), "failed read must not advance")
		})
	}
}

func TestReaderBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	b, err := cursor.NewReader(src).Bytes(3)
	require.NoError(t, err)
	b[0] = 9
	assert.Equal(t, byte(1), src[0])
}

func TestFixedText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"padded", "ABC", 5, "ABC"},
		{"embedded nul is stripped", "AB\x00CD", 5, "ABCD"},
		{"truncated", "DUKE3D.GRP", 6, "DUKE3D"},
		{"latin1", "café", 8, "café"},
		{"empty", "", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := cursor.NewWriter(tt.width)
			require.NoError(t, w.FixedText(tt.in, tt.width))
			assert.Equal(t, tt.width, w.Len())

			got, err := cursor.NewReader(w.Bytes()).FixedText(tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixedTextUnencodable(t *testing.T) {
	w := cursor.NewWriter(3)
	require.NoError(t, w.FixedText("a€b", 3))
	assert.Equal(t, []byte("a?b"), w.Bytes())
}

func TestWriterRoundTrip(t *testing.T) {
	w := cursor.NewWriter(1 + 1 + 2 + 2 + 4 + 4 + 3)
	require.NoError(t, w.Int8(-1))
	require.NoError(t, w.Uint8(200))
	require.NoError(t, w.Int16(-300))
	require.NoError(t, w.Uint16(60000))
	require.NoError(t, w.Int32(-70000))
	require.NoError(t, w.Uint32(0xDEADBEEF))
	n, err := w.Write([]byte{7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, w.Available())

	r := cursor.NewReader(w.Bytes())
	i8, _ := r.Int8()
	u8, _ := r.Uint8()
	i16, _ := r.Int16()
	u16, _ := r.Uint16()
	i32, _ := r.Int32()
	u32, _ := r.Uint32()
	raw, err := r.Bytes(3)
	require.NoError(t, err)

	assert.Equal(t, int8(-1), i8)
	assert.Equal(t, uint8(200), u8)
	assert.Equal(t, int16(-300), i16)
	assert.Equal(t, uint16(60000), u16)
	assert.Equal(t, int32(-70000), i32)
	assert.Equal(t, uint32(0xDEADBEEF), u32)
	assert.Equal(t, []byte{7, 8, 9}, raw)
	assert.Equal(t, 0, r.Len())
}

func TestWriterOutOfBounds(t *testing.T) {
	w := cursor.NewWriter(3)
	require.NoError(t, w.Uint16(1))

	assert.ErrorIs(t, w.Uint16(2), cursor.ErrOutOfBounds)
	assert.ErrorIs(t, w.Uint32(2), cursor.ErrOutOfBounds)
	assert.ErrorIs(t, w.FixedText("xy", 2), cursor.ErrOutOfBounds)

	n, err := w.Write([]byte{1, 2})
	assert.ErrorIs(t, err, cursor.ErrOutOfBounds)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, w.Len(), "failed writes leave the writer untouched")

	require.NoError(t, w.Int8(5))
	assert.ErrorIs(t, w.Int8(6), cursor.ErrOutOfBounds)
}

type record struct {
	X     int32
	Y     int32
	Angle int16
	Flags uint8
	Pal   uint8
}

func TestStruct(t *testing.T) {
	in := record{X: -5, Y: 1 << 20, Angle: 1536, Flags: 3, Pal: 21}

	w := cursor.NewWriter(12)
	require.NoError(t, w.Struct(&in))
	assert.Equal(t, []byte{0xFB, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x10, 0x00, 0x00, 0x06, 0x03, 0x15}, w.Bytes())

	var out record
	require.NoError(t, cursor.NewReader(w.Bytes()).Struct(&out))
	assert.Equal(t, in, out)

	err := cursor.NewReader(w.Bytes()[:11]).Struct(&out)
	assert.ErrorIs(t, err, cursor.ErrOutOfBounds)

	assert.ErrorIs(t, cursor.NewWriter(11).Struct(&in), cursor.ErrOutOfBounds)
}
