package dmo

import (
	"fmt"

	"github.com/buildtools/pkg/cursor"
	"github.com/buildtools/pkg/kdf"
)

// Unmarshal decodes a demo file.
func Unmarshal(data []byte) (*Demo, error) {
	r := cursor.NewReader(data)

	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("failed to read input count: %w", err)
	}
	v, err := r.Uint8()
	if err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}

	d := &Demo{Version: Version(v)}
	if d.Version.HasGRPVersion() {
		if err := r.Struct(&d.GRPVersion); err != nil {
			return nil, fmt.Errorf("failed to read GRP version: %w", err)
		}
	}
	if err := r.Struct(&d.Settings); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	for i := range d.Names {
		if d.Names[i], err = r.FixedText(nameSize); err != nil {
			return nil, fmt.Errorf("failed to read player name %d: %w", i, err)
		}
	}
	if d.Dummy, err = r.Int32(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if d.Map, err = r.FixedText(mapNameSize); err != nil {
		return nil, fmt.Errorf("failed to read map name: %w", err)
	}

	players := int(d.Players)
	d.AimMode = make([]int8, players)
	if d.Version.HasGRPVersion() {
		d.WeaponChoice = make([][weaponSlots]uint32, players)
	}
	for p := 0; p < players; p++ {
		if d.AimMode[p], err = r.Int8(); err != nil {
			return nil, fmt.Errorf("failed to read aim mode of player %d: %w", p, err)
		}
		if d.WeaponChoice != nil {
			if err := r.Struct(&d.WeaponChoice[p]); err != nil {
				return nil, fmt.Errorf("failed to read weapon choice of player %d: %w", p, err)
			}
		}
	}

	if err := d.readInputs(r, int(count)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Demo) readInputs(r *cursor.Reader, count int) error {
	if count == 0 {
		return nil
	}
	players := int(d.Players)
	if players == 0 {
		return ErrNoPlayers
	}
	if count%players != 0 {
		return fmt.Errorf("%w: %d inputs for %d players", ErrInputCount, count, players)
	}
	// a chunk of at least 6 bytes never holds more than a window of inputs
	if int64(count)*InputSize > int64(r.Len())*kdf.Window {
		return fmt.Errorf("%w: %d inputs in %d bytes", ErrInputCount, count, r.Len())
	}

	d.Inputs = make([]Input, count)
	block := blockSize(players)
	for i := 0; i < count; {
		n := min(count-i, block)
		records, err := kdf.Read(r, InputSize*players, n/players)
		if err != nil {
			return fmt.Errorf("failed to read inputs %d-%d: %w", i, i+n-1, err)
		}
		if err := cursor.NewReader(records).Struct(d.Inputs[i : i+n]); err != nil {
			return fmt.Errorf("failed to decode inputs %d-%d: %w", i, i+n-1, err)
		}
		i += n
	}
	return nil
}

// Marshal encodes the demo.
func (d *Demo) Marshal() ([]byte, error) {
	players := int(d.Players)
	count := len(d.Inputs)
	if count > 0 && players == 0 {
		return nil, ErrNoPlayers
	}
	if players > 0 && count%players != 0 {
		return nil, fmt.Errorf("%w: %d inputs for %d players", ErrInputCount, count, players)
	}

	size := d.headerSize()
	if count > 0 {
		block := blockSize(players)
		for i := 0; i < count; i += block {
			n := min(count-i, block)
			size += kdf.MaxEncodedSize(InputSize*players, n/players)
		}
	}
	w := cursor.NewWriter(size)

	if err := w.Uint32(uint32(count)); err != nil {
		return nil, err
	}
	if err := w.Uint8(uint8(d.Version)); err != nil {
		return nil, err
	}
	if d.Version.HasGRPVersion() {
		if _, err := w.Write(d.GRPVersion[:]); err != nil {
			return nil, err
		}
	}
	if err := w.Struct(&d.Settings); err != nil {
		return nil, fmt.Errorf("failed to write settings: %w", err)
	}
	for i, name := range d.Names {
		if err := w.FixedText(name, nameSize); err != nil {
			return nil, fmt.Errorf("failed to write player name %d: %w", i, err)
		}
	}
	if err := w.Int32(d.Dummy); err != nil {
		return nil, err
	}
	if err := w.FixedText(d.Map, mapNameSize); err != nil {
		return nil, fmt.Errorf("failed to write map name: %w", err)
	}
	for p := 0; p < players; p++ {
		var aim int8
		if p < len(d.AimMode) {
			aim = d.AimMode[p]
		}
		if err := w.Int8(aim); err != nil {
			return nil, err
		}
		if d.Version.HasGRPVersion() {
			var choice [weaponSlots]uint32
			if p < len(d.WeaponChoice) {
				choice = d.WeaponChoice[p]
			}
			if err := w.Struct(&choice); err != nil {
				return nil, fmt.Errorf("failed to write weapon choice of player %d: %w", p, err)
			}
		}
	}

	if err := d.writeInputs(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (d *Demo) writeInputs(w *cursor.Writer) error {
	players := int(d.Players)
	block := blockSize(max(players, 1))
	for i := 0; i < len(d.Inputs); {
		n := min(len(d.Inputs)-i, block)
		raw := cursor.NewWriter(n * InputSize)
		if err := raw.Struct(d.Inputs[i : i+n]); err != nil {
			return fmt.Errorf("failed to encode inputs %d-%d: %w", i, i+n-1, err)
		}
		if err := kdf.Write(w, raw.Bytes(), InputSize*players); err != nil {
			return fmt.Errorf("failed to write inputs %d-%d: %w", i, i+n-1, err)
		}
		i += n
	}
	return nil
}
