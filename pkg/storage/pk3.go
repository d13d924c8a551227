package storage

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

type pk3Meta struct {
	Modified time.Time
}

// PK3 is a zip archive as read by EDuke32 and other source ports.
// Directory entries are dropped; files are always written deflated.
type PK3 struct {
	entries entries[pk3Meta]
}

func (p *PK3) Format() Format { return FormatPK3 }
func (p *PK3) Files() []File  { return p.entries.files() }

func (p *PK3) AddFile(name string, data []byte) {
	p.entries = append(p.entries, entry[pk3Meta]{
		File: File{Name: name, Data: data},
		Meta: pk3Meta{Modified: time.Now()},
	})
}

// Replace also refreshes the modification time of the entry.
func (p *PK3) Replace(name string, data []byte) bool {
	for i := range p.entries {
		if strings.EqualFold(p.entries[i].Name, name) {
			p.entries[i].Data = data
			p.entries[i].Meta.Modified = time.Now()
			return true
		}
	}
	return false
}

func openPK3(data []byte) (Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	p := &PK3{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		b, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, f.Name, err)
		}
		p.entries = append(p.entries, entry[pk3Meta]{
			File: File{Name: f.Name, Data: b},
			Meta: pk3Meta{Modified: f.Modified},
		})
	}
	return p, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *PK3) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range p.entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: e.Meta.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return nil, fmt.Errorf("failed to compress %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish zip: %w", err)
	}
	return buf.Bytes(), nil
}
