// Package dmo reads and writes Duke Nukem 3D demo recordings (.DMO).
package dmo

// Version is the byte version stamped into a demo by the game build that
// recorded it.
type Version uint8

const (
	VersionDOS13            Version = 1
	VersionDOS13Plutonium14 Version = 27
	VersionDOS14Plutonium   Version = 116
	VersionDOS13Engine15    Version = 28
	VersionDOS15Atomic      Version = 117
	VersionXDuke19_6_13     Version = 29
	VersionXDuke19_6_15     Version = 118
	VersionXDuke19_7        Version = 119
	VersionNDuke1           Version = 128
	VersionNDuke2           Version = 129
	VersionHDuke1           Version = 246
	VersionHDuke2           Version = 247
	VersionHDuke3           Version = 248
	VersionHDuke4           Version = 249
	VersionHDuke5           Version = 250
	VersionHDuke6           Version = 251
	VersionHDuke            Version = 252
	VersionHDukeTDM         Version = 253
	VersionHDukeForts       Version = 254
	VersionProDuke          Version = 150
)

// HasGRPVersion reports whether demos of this version carry the GRP version
// block and per-player weapon choices (xDuke 19.7 and the hDuke family).
func (v Version) HasGRPVersion() bool {
	return v == VersionXDuke19_7 || (v >= VersionHDuke1 && v <= VersionHDukeForts)
}

const (
	// SyncBufSize is the most inputs stored in one compressed block.
	SyncBufSize = 2520
	// InputSize is the encoded size of one Input.
	InputSize = 10

	nameCount   = 16
	nameSize    = 32
	mapNameSize = 128
	weaponSlots = 12
)

// Input is one player's input for one game tic.
type Input struct {
	AVel int8   // angular velocity
	Horz int8   // horizon (look up/down)
	FVel int16  // forward velocity
	SVel int16  // strafe velocity
	Bits uint32 // action bits
}

// Settings is the fixed block of game settings after the version header.
type Settings struct {
	Volume           uint8
	Level            uint8
	Skill            uint8
	Mode             uint8
	FriendlyFire     uint8
	Players          uint16
	Monsters         uint16
	RespawnMonsters  uint32
	RespawnItems     uint32
	RespawnInventory uint32
	BotAI            uint32
}

// Demo is a decoded demo recording.
type Demo struct {
	Version    Version
	GRPVersion [16]byte // only stored when Version.HasGRPVersion
	Settings
	Names        [nameCount]string
	Dummy        int32
	Map          string
	AimMode      []int8                // one per player
	WeaponChoice [][weaponSlots]uint32 // one per player, only when Version.HasGRPVersion

	// Inputs holds one Input per player per tic, players interleaved.
	Inputs []Input
}

// PlayerInputs returns the inputs of player p in tic order.
func (d *Demo) PlayerInputs(p int) []Input {
	players := int(d.Players)
	if p < 0 || p >= players {
		return nil
	}
	out := make([]Input, 0, len(d.Inputs)/players)
	for i := p; i < len(d.Inputs); i += players {
		out = append(out, d.Inputs[i])
	}
	return out
}

// headerSize returns the encoded size of everything before the inputs.
func (d *Demo) headerSize() int {
	size := 4 + 1 + 25 + nameCount*nameSize + 4 + mapNameSize + int(d.Players)
	if d.Version.HasGRPVersion() {
		size += len(d.GRPVersion) + int(d.Players)*weaponSlots*4
	}
	return size
}

// blockSize returns the number of inputs per compressed block, which is
// always a whole number of tics.
func blockSize(players int) int {
	return SyncBufSize - SyncBufSize%players
}
