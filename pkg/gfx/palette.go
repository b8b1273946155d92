package gfx

import (
	"errors"
	"fmt"
	"image/color"
)

// Palette and colormap lump errors.
var (
	ErrBadPalette  = errors.New("gfx: malformed palette")
	ErrBadColormap = errors.New("gfx: malformed colormap")
)

const (
	paletteBankSize  = 768
	colormapBankSize = 256
)

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette holds 256 colors.
type Palette [256]RGB

// Playpal holds the contiguous palette banks of a PLAYPAL lump
// (14 banks in the reference asset set).
type Playpal struct {
	banks []Palette
}

// ParsePlaypal interprets a PLAYPAL lump. The buffer must be a non-zero
// multiple of 768 bytes.
func ParsePlaypal(data []byte) (*Playpal, error) {
	if len(data) == 0 || len(data)%paletteBankSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes, expected a multiple of %d", ErrBadPalette, len(data), paletteBankSize)
	}

	p := &Playpal{banks: make([]Palette, len(data)/paletteBankSize)}
	for b := range p.banks {
		base := b * paletteBankSize
		for i := 0; i < 256; i++ {
			p.banks[b][i] = RGB{
				R: data[base+i*3],
				G: data[base+i*3+1],
				B: data[base+i*3+2],
			}
		}
	}
	return p, nil
}

// Banks returns the number of palette banks.
func (p *Playpal) Banks() int {
	return len(p.banks)
}

// Bank returns palette bank i.
func (p *Playpal) Bank(i int) (*Palette, error) {
	if i < 0 || i >= len(p.banks) {
		return nil, fmt.Errorf("%w: bank %d of %d", ErrBadPalette, i, len(p.banks))
	}
	return &p.banks[i], nil
}

// Remap returns a palette permuted through a 256-byte colormap table:
// entry i takes the color of entry table[i]. Applying the light remap to
// the color table leaves pixel indices untouched.
func (p *Palette) Remap(table []byte) (*Palette, error) {
	if len(table) != colormapBankSize {
		return nil, fmt.Errorf("%w: table of %d bytes", ErrBadColormap, len(table))
	}
	var out Palette
	for i := range out {
		out[i] = p[table[i]]
	}
	return &out, nil
}

// Colors converts the palette for use with the image package. All
// entries are fully opaque.
func (p *Palette) Colors() color.Palette {
	out := make(color.Palette, 256)
	for i, c := range p {
		out[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	return out
}

// Colormap holds the contiguous light-level tables of a COLORMAP lump
// (34 banks in the reference asset set).
type Colormap struct {
	tables [][]byte
}

// ParseColormap interprets a COLORMAP lump. The buffer must be a
// non-zero multiple of 256 bytes.
func ParseColormap(data []byte) (*Colormap, error) {
	if len(data) == 0 || len(data)%colormapBankSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes, expected a multiple of %d", ErrBadColormap, len(data), colormapBankSize)
	}

	c := &Colormap{tables: make([][]byte, len(data)/colormapBankSize)}
	for b := range c.tables {
		c.tables[b] = data[b*colormapBankSize : (b+1)*colormapBankSize]
	}
	return c, nil
}

// Banks returns the number of colormap tables.
func (c *Colormap) Banks() int {
	return len(c.tables)
}

// Bank returns the 256-byte remap table of bank i.
func (c *Colormap) Bank(i int) ([]byte, error) {
	if i < 0 || i >= len(c.tables) {
		return nil, fmt.Errorf("%w: bank %d of %d", ErrBadColormap, i, len(c.tables))
	}
	return c.tables[i], nil
}
