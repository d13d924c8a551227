package dmo_test

import (
	"encoding/binary"
	"testing"

	"github.com/buildtools/pkg/cursor"
	"github.com/buildtools/pkg/dmo"
	"github.com/buildtools/pkg/lzw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recording returns tics of plausible inputs for the given number of players.
func recording(tics, players int) []dmo.Input {
	in := make([]dmo.Input, 0, tics*players)
	for t := 0; t < tics; t++ {
		for p := 0; p < players; p++ {
			in = append(in, dmo.Input{
				AVel: int8((t + p) % 16),
				Horz: int8(-(t % 5)),
				FVel: int16(1280 - (t%40)*64),
				SVel: int16(p * -100),
				Bits: uint32(1<<(t%24)) | uint32(p),
			})
		}
	}
	return in
}

func newDemo(version dmo.Version, players, tics int) *dmo.Demo {
	d := &dmo.Demo{
		Version: version,
		Settings: dmo.Settings{
			Volume:       0,
			Level:        1,
			Skill:        2,
			Mode:         1,
			FriendlyFire: 1,
			Players:      uint16(players),
			Monsters:     1,
			BotAI:        0,
		},
		Dummy:   0x1234,
		Map:     "E1L1.MAP",
		AimMode: make([]int8, players),
		Inputs:  recording(tics, players),
	}
	for p := 0; p < players; p++ {
		d.Names[p] = []string{"Duke", "Lo Wang", "Leonard", "Caleb"}[p%4]
		d.AimMode[p] = int8(p % 2)
	}
	if version.HasGRPVersion() {
		copy(d.GRPVersion[:], "19.7\x00\x00\x00\x00grp\x00\x00\x00\x00\x00")
		d.WeaponChoice = make([][12]uint32, players)
		for p := range d.WeaponChoice {
			for w := range d.WeaponChoice[p] {
				d.WeaponChoice[p][w] = uint32(11 - w)
			}
		}
	}
	return d
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		version dmo.Version
		players int
		tics    int
	}{
		{"atomic single player", dmo.VersionDOS15Atomic, 1, 300},
		{"atomic one block", dmo.VersionDOS15Atomic, 1, dmo.SyncBufSize},
		{"atomic two blocks", dmo.VersionDOS15Atomic, 1, dmo.SyncBufSize + 1},
		{"coop", dmo.VersionDOS13, 4, 2000},
		{"xduke", dmo.VersionXDuke19_7, 2, 1500},
		{"hduke", dmo.VersionHDukeTDM, 3, 10},
		{"no inputs", dmo.VersionProDuke, 2, 0},
		{"odd player count", dmo.VersionNDuke1, 16, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDemo(tt.version, tt.players, tt.tics)
			data, err := d.Marshal()
			require.NoError(t, err)

			got, err := dmo.Unmarshal(data)
			require.NoError(t, err)
			if len(d.Inputs) == 0 {
				d.Inputs = nil
			}
			assert.Equal(t, d, got)
		})
	}
}

func TestHeaderLayout(t *testing.T) {
	d := newDemo(dmo.VersionDOS15Atomic, 1, 0)
	data, err := d.Marshal()
	require.NoError(t, err)
	require.Len(t, data, 4+1+25+16*32+4+128+1)

	r := cursor.NewReader(data)
	count, _ := r.Uint32()
	version, _ := r.Uint8()
	assert.Equal(t, uint32(0), count)
	assert.Equal(t, uint8(117), version)

	require.NoError(t, r.Skip(5))
	players, _ := r.Uint16()
	assert.Equal(t, uint16(1), players)

	require.NoError(t, r.Skip(2+16))
	name, err := r.FixedText(32)
	require.NoError(t, err)
	assert.Equal(t, "Duke", name)
}

func TestInputBlocks(t *testing.T) {
	// 2 players, 2521 tics: 5042 inputs in blocks of 2520, 2520 and 2 inputs
	d := newDemo(dmo.VersionDOS15Atomic, 2, 2521)
	data, err := d.Marshal()
	require.NoError(t, err)

	r := cursor.NewReader(data)
	require.NoError(t, r.Skip(4+1+25+16*32+4+128+2))

	var blocks []int
	for r.Len() > 0 {
		n, err := r.Uint16()
		require.NoError(t, err)
		payload, err := r.Bytes(int(n))
		require.NoError(t, err)
		raw, err := lzw.Uncompress(payload)
		require.NoError(t, err)
		require.Zero(t, len(raw)%20)
		blocks = append(blocks, len(raw)/dmo.InputSize)
	}
	// each block is its own stream of 20-byte tics, and a chunk holds at
	// most 819 tics
	assert.Equal(t, []int{1638, 882, 1638, 882, 2}, blocks)
}

func TestPlayerInputs(t *testing.T) {
	d := newDemo(dmo.VersionDOS15Atomic, 3, 5)
	p1 := d.PlayerInputs(1)
	require.Len(t, p1, 5)
	for tic, in := range p1 {
		assert.Equal(t, d.Inputs[tic*3+1], in)
		assert.Equal(t, int16(-100), in.SVel)
	}
	assert.Nil(t, d.PlayerInputs(3))
	assert.Nil(t, d.PlayerInputs(-1))
}

func TestMarshalErrors(t *testing.T) {
	d := newDemo(dmo.VersionDOS15Atomic, 2, 10)
	d.Players = 0
	_, err := d.Marshal()
	assert.ErrorIs(t, err, dmo.ErrNoPlayers)

	d = newDemo(dmo.VersionDOS15Atomic, 2, 10)
	d.Inputs = d.Inputs[:19]
	_, err = d.Marshal()
	assert.ErrorIs(t, err, dmo.ErrInputCount)
}

func TestUnmarshalErrors(t *testing.T) {
	data, err := newDemo(dmo.VersionXDuke19_7, 2, 500).Marshal()
	require.NoError(t, err)

	_, err = dmo.Unmarshal(data[:100])
	assert.ErrorIs(t, err, cursor.ErrOutOfBounds)

	_, err = dmo.Unmarshal(data[:len(data)-1])
	assert.ErrorIs(t, err, lzw.ErrCorruptStream)

	odd := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(odd, 999)
	_, err = dmo.Unmarshal(odd)
	assert.ErrorIs(t, err, dmo.ErrInputCount)

	huge := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(huge, 0xFFFFFFFE)
	_, err = dmo.Unmarshal(huge)
	assert.ErrorIs(t, err, dmo.ErrInputCount)

	solo, err := newDemo(dmo.VersionDOS15Atomic, 1, 0).Marshal()
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(solo, 10)
	solo[4+1+5] = 0 // players
	_, err = dmo.Unmarshal(solo)
	assert.ErrorIs(t, err, dmo.ErrNoPlayers)
}

func TestVersionHasGRPVersion(t *testing.T) {
	for _, v := range []dmo.Version{dmo.VersionXDuke19_7, dmo.VersionHDuke1, dmo.VersionHDuke, dmo.VersionHDukeForts} {
		assert.True(t, v.HasGRPVersion(), "version %d", v)
	}
	for _, v := range []dmo.Version{dmo.VersionDOS13, dmo.VersionDOS15Atomic, dmo.VersionXDuke19_6_15, dmo.VersionProDuke, dmo.VersionNDuke2} {
		assert.False(t, v.HasGRPVersion(), "version %d", v)
	}
}
