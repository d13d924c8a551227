package mapfile_test

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtools/pkg/mapfile"
)

func TestRecordSizes(t *testing.T) {
	assert.Equal(t, 20, binary.Size(mapfile.Header{}))
	assert.Equal(t, 40, binary.Size(mapfile.Sector{}))
	assert.Equal(t, 32, binary.Size(mapfile.Wall{}))
	assert.Equal(t, 44, binary.Size(mapfile.Sprite{}))
}

func testMap() *mapfile.Map {
	return &mapfile.Map{
		Header: mapfile.Header{Version: 7, X: 32768, Y: -4096, Z: -8192, Angle: 1536, Sector: 0},
		Sectors: []mapfile.Sector{
			{WallPtr: 0, WallNum: 4, CeilingZ: -16384, FloorZ: 8192, CeilingShade: -10, FloorPicnum: 183, Lotag: 1},
		},
		Walls: []mapfile.Wall{
			{X: 0, Y: 0, Point2: 1, NextWall: -1, NextSector: -1, XRepeat: 8, YRepeat: 8},
			{X: 1024, Y: 0, Point2: 2, NextWall: -1, NextSector: -1},
			{X: 1024, Y: 1024, Point2: 3, NextWall: -1, NextSector: -1},
			{X: 0, Y: 1024, Point2: 0, NextWall: -1, NextSector: -1, Shade: -3},
		},
		Sprites: []mapfile.Sprite{
			{X: 512, Y: 512, Z: 8192, Picnum: 1405, XRepeat: 64, YRepeat: 64, XOffset: -2, Owner: -1, StatNum: 0},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	m := testMap()
	data, err := m.Marshal()
	require.NoError(t, err)
	assert.Len(t, data, 20+6+40+4*32+44)

	got, err := mapfile.Unmarshal(data)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAddSprite(t *testing.T) {
	m := testMap()
	m.Sprites = append(m.Sprites, m.Sprites[len(m.Sprites)-1])

	data, err := m.Marshal()
	require.NoError(t, err)
	got, err := mapfile.Unmarshal(data)
	require.NoError(t, err)
	assert.Len(t, got.Sprites, 2)
}

func TestEmptyMap(t *testing.T) {
	m := &mapfile.Map{Header: mapfile.Header{Version: 7}}
	data, err := m.Marshal()
	require.NoError(t, err)
	assert.Len(t, data, 26)

	got, err := mapfile.Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, got.Sectors)
	assert.Empty(t, got.Walls)
	assert.Empty(t, got.Sprites)
}

func TestDetect(t *testing.T) {
	assert.ErrorIs(t, mapfile.Detect([]byte("BLM\x1a\x07\x00\x00\x00......................")), mapfile.ErrUnsupported)
	assert.ErrorIs(t, mapfile.Detect([]byte{7, 0, 0}), mapfile.ErrUnsupported)

	_, err := mapfile.Unmarshal([]byte("BLM\x1a"))
	assert.ErrorIs(t, err, mapfile.ErrUnsupported)
}

func TestTruncated(t *testing.T) {
	data, err := testMap().Marshal()
	require.NoError(t, err)

	for _, n := range []int{21, 26 + 40, len(data) - 1} {
		_, err := mapfile.Unmarshal(data[:n])
		assert.Error(t, err, "length %d", n)
	}
}
