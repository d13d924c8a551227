package art

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimationPacking(t *testing.T) {
	a := Animation{Frames: 5, Type: 2, OffsetX: -3, OffsetY: 4, Speed: 7}
	assert.Equal(t, uint32(0x0704FD85), a.pack())
	assert.Equal(t, a, unpackAnimation(0x0704FD85))

	all := unpackAnimation(0xFFFFFFFF)
	assert.Equal(t, Animation{Frames: 63, Type: 3, OffsetX: -1, OffsetY: -1, Speed: 15, Unused: 15}, all)
	assert.Equal(t, uint32(0xFFFFFFFF), all.pack())
}

func testFile() *File {
	return &File{
		Version: 1,
		Start:   256,
		End:     258,
		Tiles: []Tile{
			{Width: 2, Height: 3, Animation: Animation{Frames: 3, Type: 1, Speed: 4}, Pixels: []byte{1, 2, 3, 4, 5, 6}},
			{Width: 0, Height: 0, Pixels: []byte{}},
			{Width: 4, Height: 1, Animation: Animation{OffsetX: -8, OffsetY: 16}, Pixels: bytes.Repeat([]byte{0xEF}, 4)},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	f := testFile()
	data, err := f.Marshal()
	require.NoError(t, err)
	assert.Len(t, data, 16+3*8+10)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, f, got)
	assert.Equal(t, byte(4), got.Tiles[0].At(1, 0))
}

func TestUnmarshalIgnoresStoredCount(t *testing.T) {
	data, err := testFile().Marshal()
	require.NoError(t, err)
	data[4] = 99

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Len(t, got.Tiles, 3)
}

func TestErrors(t *testing.T) {
	f := testFile()
	f.End = 300
	_, err := f.Marshal()
	assert.ErrorIs(t, err, ErrTileCount)

	f = testFile()
	f.Tiles[0].Pixels = f.Tiles[0].Pixels[:5]
	_, err = f.Marshal()
	assert.ErrorIs(t, err, ErrPixelCount)

	data, err := testFile().Marshal()
	require.NoError(t, err)
	_, err = Unmarshal(data[:len(data)-1])
	assert.Error(t, err)

	data[12] = 0 // end below start
	data[13] = 0
	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrTileCount)
}
