package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Picture format errors.
var ErrBadSprite = errors.New("gfx: malformed sprite")

const (
	spriteHeaderSize = 8
	postTerminator   = 0xFF
)

// Sprite is a masked raster in the picture format: a column directory
// addressing run-length post data, with a hotspot recorded in the
// header. Non-owning view over the lump bytes.
type Sprite struct {
	width, height int
	left, top     int
	dir           []uint32
	data          []byte
}

// Span is one vertical run of opaque pixels within a column. Pixels is
// a view into the sprite buffer.
type Span struct {
	Top    int
	Pixels []byte
}

// ParseSprite interprets a picture lump. The buffer must hold the
// header and the full column directory, and every directory offset must
// stay inside the buffer; post data is validated lazily during column
// iteration.
func ParseSprite(data []byte) (*Sprite, error) {
	if len(data) < spriteHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, too short for header", ErrBadSprite, len(data))
	}

	width := int(binary.LittleEndian.Uint16(data[0:]))
	height := int(binary.LittleEndian.Uint16(data[2:]))
	left := int(int16(binary.LittleEndian.Uint16(data[4:])))
	top := int(int16(binary.LittleEndian.Uint16(data[6:])))

	dirEnd := spriteHeaderSize + 4*width
	if len(data) < dirEnd {
		return nil, fmt.Errorf("%w: truncated column directory (%d bytes for %d columns)",
			ErrBadSprite, len(data), width)
	}

	s := &Sprite{
		width:  width,
		height: height,
		left:   left,
		top:    top,
		dir:    make([]uint32, width),
		data:   data,
	}

	// Offsets are absolute from the start of the lump.
	for x := 0; x < s.width; x++ {
		off := binary.LittleEndian.Uint32(data[spriteHeaderSize+4*x:])
		if off < uint32(dirEnd) || off >= uint32(len(data)) {
			return nil, fmt.Errorf("%w: column %d offset %d out of range", ErrBadSprite, x, off)
		}
		s.dir[x] = off
	}

	return s, nil
}

// Size returns the sprite dimensions.
func (s *Sprite) Size() (w, h int) {
	return s.width, s.height
}

// Origin returns the hotspot offset from the sprite's top-left corner.
func (s *Sprite) Origin() (left, top int) {
	return s.left, s.top
}

// Column returns a scanner over the posts of column x. Each call starts
// a fresh scan. Returns nil when x is out of range.
func (s *Sprite) Column(x int) *Posts {
	if x < 0 || x >= s.width {
		return nil
	}
	return &Posts{data: s.data, off: int(s.dir[x])}
}

// Posts scans the post sequence of one sprite column, in the manner of
// bufio.Scanner: Next advances to the following span, Span returns it,
// and Err reports whether the scan stopped on malformed data rather
// than the column terminator.
type Posts struct {
	data []byte
	off  int
	span Span
	err  error
	done bool
}

// Next advances to the next span. It returns false at the column
// terminator or on malformed post data.
func (p *Posts) Next() bool {
	if p.done || p.err != nil {
		return false
	}

	if p.off >= len(p.data) {
		p.err = fmt.Errorf("%w: unterminated column at offset %d", ErrBadSprite, p.off)
		return false
	}

	top := p.data[p.off]
	if top == postTerminator {
		p.done = true
		return false
	}

	// top, count, leading pad, pixels, trailing pad
	if p.off+3 > len(p.data) {
		p.err = fmt.Errorf("%w: truncated post header at offset %d", ErrBadSprite, p.off)
		return false
	}
	count := int(p.data[p.off+1])
	start := p.off + 3
	if start+count+1 > len(p.data) {
		p.err = fmt.Errorf("%w: post at offset %d runs past buffer end", ErrBadSprite, p.off)
		return false
	}

	p.span = Span{Top: int(top), Pixels: p.data[start : start+count]}
	p.off = start + count + 1
	return true
}

// Span returns the span read by the last successful Next.
func (p *Posts) Span() Span {
	return p.span
}

// Err returns the first malformed-data error encountered, if any.
func (p *Posts) Err() error {
	return p.err
}
