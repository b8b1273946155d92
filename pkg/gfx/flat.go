package gfx

import (
	"errors"
	"fmt"
)

// Flat format errors.
var ErrBadFlat = errors.New("gfx: malformed flat")

// FlatSide is the fixed edge length of a flat, in pixels.
const FlatSide = 64

const flatSize = FlatSide * FlatSide

// Flat is a 64×64 grid of palette indices, square pixels. The grid is
// stored column-major on disk; At presents it row-major. Non-owning
// view over the lump bytes.
type Flat struct {
	data []byte
}

// ParseFlat interprets a flat lump. The buffer must be exactly 4096 bytes.
func ParseFlat(data []byte) (*Flat, error) {
	if len(data) != flatSize {
		return nil, fmt.Errorf("%w: %d bytes, expected %d", ErrBadFlat, len(data), flatSize)
	}
	return &Flat{data: data}, nil
}

// Size returns the flat dimensions.
func (f *Flat) Size() (w, h int) {
	return FlatSide, FlatSide
}

// At returns the palette index at (row y, column x).
func (f *Flat) At(y, x int) uint8 {
	return f.data[x*FlatSide+y]
}

// Pixels returns a fresh row-major copy of the grid.
func (f *Flat) Pixels() []byte {
	out := make([]byte, flatSize)
	for y := 0; y < FlatSide; y++ {
		for x := 0; x < FlatSide; x++ {
			out[y*FlatSide+x] = f.data[x*FlatSide+y]
		}
	}
	return out
}
