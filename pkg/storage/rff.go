package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/buildtools/pkg/cursor"
)

const (
	rffHeaderSize = 32
	rffEntrySize  = 48

	// 0x200 shipped with the shareware CD and has a plain directory; 0x300
	// and 0x301 encrypt it.
	rffVersionPlain     = 0x200
	rffVersionEncrypted = 0x301

	rffFlagEncrypted = 0x10
	rffCryptLimit    = 256

	rffNameSize = 8
	rffExtSize  = 3
)

type rffHeader struct {
	Signature [4]byte
	Version   uint16
	_         [2]byte
	Offset    uint32
	Count     uint32
	_         [16]byte
}

type rffMeta struct {
	Cache      [16]byte
	PackedSize uint32
	Time       uint32
	Flags      uint8
	ID         uint32
}

// RFF is Blood's resource file. The directory sits after the file contents
// and is XOR-encrypted from version 0x300 on; files flagged as encrypted have
// their first 256 bytes XORed as well.
type RFF struct {
	Version uint16
	entries entries[rffMeta]
}

func (a *RFF) Format() Format { return FormatRFF }
func (a *RFF) Files() []File  { return a.entries.files() }

// AddFile appends a file flagged for content encryption and stamped with the
// current local time, the way the game's own tools write them.
func (a *RFF) AddFile(name string, data []byte) {
	a.entries = append(a.entries, entry[rffMeta]{
		File: File{Name: name, Data: data},
		Meta: rffMeta{Flags: rffFlagEncrypted, Time: dosTime(time.Now())},
	})
}

func (a *RFF) Replace(name string, data []byte) bool {
	return a.entries.replace(name, data)
}

// dosTime is seconds since the epoch in local wall-clock time.
func dosTime(t time.Time) uint32 {
	_, offset := t.Zone()
	return uint32(t.Unix() + int64(offset))
}

// rffCrypt XORs b in place with seed + i/2. A zero limit covers all of b.
func rffCrypt(b []byte, seed byte, limit int) {
	n := len(b)
	if limit > 0 && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		b[i] ^= seed + byte(i>>1)
	}
}

func (a *RFF) encryptsDirectory() bool { return a.Version >= 0x300 }

func openRFF(data []byte) (Archive, error) {
	r := cursor.NewReader(data)
	var hdr rffHeader
	if err := r.Struct(&hdr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	a := &RFF{Version: hdr.Version}

	end := int64(hdr.Offset) + int64(hdr.Count)*rffEntrySize
	if end > int64(len(data)) {
		return nil, fmt.Errorf("%w: directory of %d entries at %d exceeds %d bytes", ErrCorrupt, hdr.Count, hdr.Offset, len(data))
	}
	dir := append([]byte(nil), data[hdr.Offset:end]...)
	if a.encryptsDirectory() {
		rffCrypt(dir, byte(hdr.Offset), 0)
	}

	a.entries = make(entries[rffMeta], hdr.Count)
	dr := cursor.NewReader(dir)
	for i := range a.entries {
		e := &a.entries[i]
		offset, size, err := readRFFEntry(dr, e)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorrupt, i, err)
		}
		if int64(offset)+int64(size) > int64(len(data)) {
			return nil, fmt.Errorf("%w: %s at %d+%d exceeds %d bytes", ErrCorrupt, e.Name, offset, size, len(data))
		}
		e.Data = append([]byte(nil), data[offset:offset+size]...)
		if e.Meta.Flags&rffFlagEncrypted != 0 {
			rffCrypt(e.Data, 0, rffCryptLimit)
		}
	}
	return a, nil
}

func readRFFEntry(r *cursor.Reader, e *entry[rffMeta]) (offset, size uint32, err error) {
	cache, err := r.Bytes(len(e.Meta.Cache))
	if err != nil {
		return 0, 0, err
	}
	copy(e.Meta.Cache[:], cache)
	if offset, err = r.Uint32(); err != nil {
		return 0, 0, err
	}
	if size, err = r.Uint32(); err != nil {
		return 0, 0, err
	}
	if e.Meta.PackedSize, err = r.Uint32(); err != nil {
		return 0, 0, err
	}
	if e.Meta.Time, err = r.Uint32(); err != nil {
		return 0, 0, err
	}
	if e.Meta.Flags, err = r.Uint8(); err != nil {
		return 0, 0, err
	}
	ext, err := r.FixedText(rffExtSize)
	if err != nil {
		return 0, 0, err
	}
	name, err := r.FixedText(rffNameSize)
	if err != nil {
		return 0, 0, err
	}
	if e.Meta.ID, err = r.Uint32(); err != nil {
		return 0, 0, err
	}
	e.Name = name
	if ext != "" {
		e.Name += "." + ext
	}
	return offset, size, nil
}

// splitRFFName splits "NAME.EXT" into the two fixed directory fields.
func splitRFFName(name string) (string, string, error) {
	base, ext := name, ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		base, ext = name[:i], name[i+1:]
	}
	if utf8.RuneCountInString(base) > rffNameSize || utf8.RuneCountInString(ext) > rffExtSize {
		return "", "", fmt.Errorf("%w: %q does not fit 8.3", ErrNameTooLong, name)
	}
	return base, ext, nil
}

func (a *RFF) Marshal() ([]byte, error) {
	dirOffset := rffHeaderSize + a.entries.size()
	w := cursor.NewWriter(dirOffset + len(a.entries)*rffEntrySize)

	hdr := rffHeader{
		Version: a.Version,
		Offset:  uint32(dirOffset),
		Count:   uint32(len(a.entries)),
	}
	copy(hdr.Signature[:], rffSignature)
	if err := w.Struct(&hdr); err != nil {
		return nil, err
	}

	offsets := make([]uint32, len(a.entries))
	for i, e := range a.entries {
		offsets[i] = uint32(w.Len())
		data := e.Data
		if e.Meta.Flags&rffFlagEncrypted != 0 {
			data = append([]byte(nil), e.Data...)
			rffCrypt(data, 0, rffCryptLimit)
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}

	dw := cursor.NewWriter(len(a.entries) * rffEntrySize)
	for i, e := range a.entries {
		base, ext, err := splitRFFName(e.Name)
		if err != nil {
			return nil, err
		}
		if _, err := dw.Write(e.Meta.Cache[:]); err != nil {
			return nil, err
		}
		for _, v := range []uint32{offsets[i], uint32(len(e.Data)), e.Meta.PackedSize, e.Meta.Time} {
			if err := dw.Uint32(v); err != nil {
				return nil, err
			}
		}
		if err := dw.Uint8(e.Meta.Flags); err != nil {
			return nil, err
		}
		if err := dw.FixedText(ext, rffExtSize); err != nil {
			return nil, err
		}
		if err := dw.FixedText(base, rffNameSize); err != nil {
			return nil, err
		}
		if err := dw.Uint32(e.Meta.ID); err != nil {
			return nil, err
		}
	}

	dir := dw.Bytes()
	if a.encryptsDirectory() {
		rffCrypt(dir, byte(dirOffset), 0)
	}
	if _, err := w.Write(dir); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
