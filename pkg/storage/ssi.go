package storage

import (
	"fmt"
	"unicode/utf8"

	"github.com/buildtools/pkg/cursor"
)

const (
	ssiVersion1 = 1
	ssiVersion2 = 2

	ssiTitleSize       = 32
	ssiRunFileSize     = 12
	ssiDescriptionSize = 70
	ssiNameSize        = 12
	ssiFillSize        = 34 + 1 + 69
	ssiEntrySize       = 1 + ssiNameSize + 4 + ssiFillSize
)

// SSI is the Sunstorm Interactive add-on package. Version 2 adds the name of
// the executable to run.
type SSI struct {
	Version     uint32
	Title       string
	RunFile     string
	Description [3]string
	entries     entries[[ssiFillSize]byte]
}

func (s *SSI) Format() Format { return FormatSSI }
func (s *SSI) Files() []File  { return s.entries.files() }

func (s *SSI) AddFile(name string, data []byte) {
	s.entries = append(s.entries, entry[[ssiFillSize]byte]{File: File{Name: name, Data: data}})
}

func (s *SSI) Replace(name string, data []byte) bool {
	return s.entries.replace(name, data)
}

// readCounted reads a length byte followed by a size-byte text field and
// keeps the first length characters.
func readCounted(r *cursor.Reader, size int) (string, error) {
	n, err := r.Uint8()
	if err != nil {
		return "", err
	}
	s, err := r.FixedText(size)
	if err != nil {
		return "", err
	}
	if rs := []rune(s); len(rs) > int(n) {
		s = string(rs[:n])
	}
	return s, nil
}

func writeCounted(w *cursor.Writer, s string, size int) error {
	n := utf8.RuneCountInString(s)
	if n > size {
		return fmt.Errorf("%w: %q is longer than %d", ErrTextTooLong, s, size)
	}
	if err := w.Uint8(uint8(n)); err != nil {
		return err
	}
	return w.FixedText(s, size)
}

func openSSI(data []byte) (Archive, error) {
	s, err := readSSI(cursor.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return s, nil
}

func readSSI(r *cursor.Reader) (*SSI, error) {
	s := &SSI{}
	var err error
	if s.Version, err = r.Uint32(); err != nil {
		return nil, err
	}
	count, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if s.Title, err = readCounted(r, ssiTitleSize); err != nil {
		return nil, err
	}
	if s.Version == ssiVersion2 {
		if s.RunFile, err = readCounted(r, ssiRunFileSize); err != nil {
			return nil, err
		}
	}
	for i := range s.Description {
		if s.Description[i], err = readCounted(r, ssiDescriptionSize); err != nil {
			return nil, err
		}
	}

	if int64(count)*ssiEntrySize > int64(r.Len()) {
		return nil, fmt.Errorf("%d entries in %d bytes", count, r.Len())
	}
	s.entries = make(entries[[ssiFillSize]byte], count)
	sizes := make([]uint32, count)
	for i := range s.entries {
		e := &s.entries[i]
		if e.Name, err = readCounted(r, ssiNameSize); err != nil {
			return nil, err
		}
		if sizes[i], err = r.Uint32(); err != nil {
			return nil, err
		}
		fill, err := r.Bytes(ssiFillSize)
		if err != nil {
			return nil, err
		}
		copy(e.Meta[:], fill)
	}
	for i := range s.entries {
		if int64(sizes[i]) > int64(r.Len()) {
			return nil, fmt.Errorf("%s needs %d bytes, %d left", s.entries[i].Name, sizes[i], r.Len())
		}
		if s.entries[i].Data, err = r.Bytes(int(sizes[i])); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *SSI) headerSize() int {
	n := 4 + 4 + 1 + ssiTitleSize + len(s.Description)*(1+ssiDescriptionSize)
	if s.Version == ssiVersion2 {
		n += 1 + ssiRunFileSize
	}
	return n
}

func (s *SSI) Marshal() ([]byte, error) {
	if s.Version != ssiVersion1 && s.Version != ssiVersion2 {
		return nil, fmt.Errorf("%w: SSI version %d", ErrUnknownFormat, s.Version)
	}

	w := cursor.NewWriter(s.headerSize() + len(s.entries)*ssiEntrySize + s.entries.size())
	if err := w.Uint32(s.Version); err != nil {
		return nil, err
	}
	if err := w.Uint32(uint32(len(s.entries))); err != nil {
		return nil, err
	}
	if err := writeCounted(w, s.Title, ssiTitleSize); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}
	if s.Version == ssiVersion2 {
		if err := writeCounted(w, s.RunFile, ssiRunFileSize); err != nil {
			return nil, fmt.Errorf("failed to write run file: %w", err)
		}
	}
	for i, d := range s.Description {
		if err := writeCounted(w, d, ssiDescriptionSize); err != nil {
			return nil, fmt.Errorf("failed to write description line %d: %w", i+1, err)
		}
	}

	for _, e := range s.entries {
		if utf8.RuneCountInString(e.Name) > ssiNameSize {
			return nil, fmt.Errorf("%w: %q is longer than %d", ErrNameTooLong, e.Name, ssiNameSize)
		}
		if err := writeCounted(w, e.Name, ssiNameSize); err != nil {
			return nil, err
		}
		if err := w.Uint32(uint32(len(e.Data))); err != nil {
			return nil, err
		}
		if _, err := w.Write(e.Meta[:]); err != nil {
			return nil, err
		}
	}
	for _, e := range s.entries {
		if _, err := w.Write(e.Data); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}
