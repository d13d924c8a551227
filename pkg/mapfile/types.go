// Package mapfile reads and writes Build engine level maps in the
// unencrypted DNM layout (version 7, as used by Duke Nukem 3D).
package mapfile

// Header is the fixed map preamble holding the player start.
type Header struct {
	Version int32
	X       int32
	Y       int32
	Z       int32
	Angle   int16
	Sector  int16
}

// Sector is a 40-byte sector record.
type Sector struct {
	WallPtr         int16
	WallNum         int16
	CeilingZ        int32
	FloorZ          int32
	CeilingStat     int16
	FloorStat       int16
	CeilingPicnum   int16
	CeilingHeinum   int16
	CeilingShade    int8
	CeilingPal      uint8
	CeilingXPanning uint8
	CeilingYPanning uint8
	FloorPicnum     int16
	FloorHeinum     int16
	FloorShade      int8
	FloorPal        uint8
	FloorXPanning   uint8
	FloorYPanning   uint8
	Visibility      uint8
	Filler          uint8
	Lotag           int16
	Hitag           int16
	Extra           int16
}

// Wall is a 32-byte wall record.
type Wall struct {
	X          int32
	Y          int32
	Point2     int16
	NextWall   int16
	NextSector int16
	Cstat      int16
	Picnum     int16
	OverPicnum int16
	Shade      int8
	Pal        uint8
	XRepeat    uint8
	YRepeat    uint8
	XPanning   uint8
	YPanning   uint8
	Lotag      int16
	Hitag      int16
	Extra      int16
}

// Sprite is a 44-byte sprite record.
type Sprite struct {
	X        int32
	Y        int32
	Z        int32
	Cstat    int16
	Picnum   int16
	Shade    int8
	Pal      uint8
	ClipDist uint8
	Filler   uint8
	XRepeat  uint8
	YRepeat  uint8
	XOffset  int8
	YOffset  int8
	SectNum  int16
	StatNum  int16
	Angle    int16
	Owner    int16
	XVel     int16
	YVel     int16
	ZVel     int16
	Lotag    int16
	Hitag    int16
	Extra    int16
}

// Map is a decoded level.
type Map struct {
	Header
	Sectors []Sector
	Walls   []Wall
	Sprites []Sprite
}
