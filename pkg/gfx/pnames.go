package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Patch name table errors.
var ErrBadPNames = errors.New("gfx: malformed patch name table")

// PNames is the global table of patch lump names, indexed by the
// patch id stored in texture placement records.
type PNames struct {
	names []string
}

// ParsePNames interprets a PNAMES lump: a u32 count followed by that
// many 8-byte padded names.
func ParsePNames(data []byte) (*PNames, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes, too short for count", ErrBadPNames, len(data))
	}

	count := binary.LittleEndian.Uint32(data)
	if count&0x80000000 != 0 {
		return nil, fmt.Errorf("%w: implausible name count %d", ErrBadPNames, count)
	}
	if uint32(len(data)-4)/8 < count {
		return nil, fmt.Errorf("%w: %d bytes for %d names", ErrBadPNames, len(data), count)
	}

	p := &PNames{names: make([]string, count)}
	for i := range p.names {
		p.names[i] = trimName(data[4+i*8 : 4+i*8+8])
	}
	return p, nil
}

// Len returns the number of names in the table.
func (p *PNames) Len() int {
	return len(p.names)
}

// Name returns the patch name for id, reporting whether id is in range.
func (p *PNames) Name(id int) (string, bool) {
	if id < 0 || id >= len(p.names) {
		return "", false
	}
	return p.names[id], true
}

// Names returns a copy of the full table in id order.
func (p *PNames) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}
