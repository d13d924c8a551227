package storage

import (
	"fmt"
	"unicode/utf8"

	"github.com/buildtools/pkg/cursor"
)

const (
	grpNameSize  = 12
	grpEntrySize = grpNameSize + 4
)

// GRP is Ken Silverman's group file: a signature, a directory of 12-byte
// names with sizes, then the file contents back to back.
type GRP struct {
	entries entries[struct{}]
}

func (g *GRP) Format() Format { return FormatGRP }
func (g *GRP) Files() []File  { return g.entries.files() }

func (g *GRP) AddFile(name string, data []byte) {
	g.entries = append(g.entries, entry[struct{}]{File: File{Name: name, Data: data}})
}

func (g *GRP) Replace(name string, data []byte) bool {
	return g.entries.replace(name, data)
}

func openGRP(data []byte) (Archive, error) {
	r := cursor.NewReader(data)
	if err := r.Skip(len(grpSignature)); err != nil {
		return nil, err
	}
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if int64(count)*grpEntrySize > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d entries in %d bytes", ErrCorrupt, count, r.Len())
	}

	g := &GRP{entries: make(entries[struct{}], count)}
	sizes := make([]uint32, count)
	for i := range g.entries {
		if g.entries[i].Name, err = r.FixedText(grpNameSize); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if sizes[i], err = r.Uint32(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	for i := range g.entries {
		if int64(sizes[i]) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrCorrupt, g.entries[i].Name, sizes[i], r.Len())
		}
		if g.entries[i].Data, err = r.Bytes(int(sizes[i])); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return g, nil
}

func (g *GRP) Marshal() ([]byte, error) {
	w := cursor.NewWriter(len(grpSignature) + 4 + len(g.entries)*grpEntrySize + g.entries.size())
	if _, err := w.Write(grpSignature); err != nil {
		return nil, err
	}
	if err := w.Uint32(uint32(len(g.entries))); err != nil {
		return nil, err
	}
	for _, e := range g.entries {
		if utf8.RuneCountInString(e.Name) > grpNameSize {
			return nil, fmt.Errorf("%w: %q is longer than %d", ErrNameTooLong, e.Name, grpNameSize)
		}
		if err := w.FixedText(e.Name, grpNameSize); err != nil {
			return nil, err
		}
		if err := w.Uint32(uint32(len(e.Data))); err != nil {
			return nil, err
		}
	}
	for _, e := range g.entries {
		if _, err := w.Write(e.Data); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}
