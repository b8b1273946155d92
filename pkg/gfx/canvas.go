package gfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Canvas encoding errors.
var ErrUnencodableRun = errors.New("gfx: run not encodable as post")

// The post top byte tops out one below the column terminator.
const maxPostTop = postTerminator - 1

// Canvas is a mutable pixel+mask composite buffer. Both planes are
// stored column-major (index x*height + y), matching the picture
// format's column orientation.
type Canvas struct {
	width, height int
	pixels        []byte
	mask          []bool
}

// NewCanvas allocates a canvas with zero-filled pixel and mask planes.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pixels: make([]byte, width*height),
		mask:   make([]bool, width*height),
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h int) {
	return c.width, c.height
}

// DrawPatch stamps a sprite with its hotspot at (posX, posY). Pixels
// falling outside the canvas are clipped silently; the only error is a
// malformed source sprite discovered mid-iteration.
func (c *Canvas) DrawPatch(posX, posY int, s *Sprite) error {
	ox, oy := s.Origin()
	dx := posX - ox
	dy := posY - oy

	w, _ := s.Size()
	for x := 0; x < w; x++ {
		cx := x + dx
		if cx < 0 || cx >= c.width {
			continue
		}
		posts := s.Column(x)
		for posts.Next() {
			span := posts.Span()
			for i, pix := range span.Pixels {
				cy := span.Top + i + dy
				if cy < 0 || cy >= c.height {
					continue
				}
				idx := cx*c.height + cy
				c.pixels[idx] = pix
				c.mask[idx] = true
			}
		}
		if err := posts.Err(); err != nil {
			return fmt.Errorf("column %d: %w", x, err)
		}
	}

	return nil
}

// MakeSprite re-encodes the canvas into the picture wire format: one
// post per maximal mask run, a terminator per column, the column
// directory with offsets kept absolute from the lump start, and a
// header whose origin is reset to (0,0). The canvas represents an
// already-positioned composite, so no hotspot survives a round trip.
func (c *Canvas) MakeSprite() ([]byte, error) {
	if c.width > 0xFFFF || c.height > 0xFFFF {
		return nil, fmt.Errorf("%w: canvas %d×%d exceeds header field range", ErrUnencodableRun, c.width, c.height)
	}

	dirSize := spriteHeaderSize + 4*c.width
	dir := make([]uint32, c.width)
	var posts bytes.Buffer

	for x := 0; x < c.width; x++ {
		dir[x] = uint32(dirSize + posts.Len())

		col := c.mask[x*c.height : (x+1)*c.height]
		for _, r := range runs(col) {
			top, length := r[0], r[1]-r[0]
			if length > 0xFF {
				return nil, fmt.Errorf("%w: column %d run of %d pixels", ErrUnencodableRun, x, length)
			}
			if top > maxPostTop {
				return nil, fmt.Errorf("%w: column %d run at row %d", ErrUnencodableRun, x, top)
			}
			posts.WriteByte(byte(top))
			posts.WriteByte(byte(length))
			// Reference encoders fill the leading pad with the length byte.
			posts.WriteByte(byte(length))
			posts.Write(c.pixels[x*c.height+r[0] : x*c.height+r[1]])
			posts.WriteByte(0)
		}
		posts.WriteByte(postTerminator)
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(c.width))
	binary.Write(&buf, binary.LittleEndian, uint16(c.height))
	binary.Write(&buf, binary.LittleEndian, int16(0))
	binary.Write(&buf, binary.LittleEndian, int16(0))
	binary.Write(&buf, binary.LittleEndian, dir)
	buf.Write(posts.Bytes())
	return buf.Bytes(), nil
}

// Planes returns copies of the pixel and mask planes in their native
// column-major order.
func (c *Canvas) Planes() (pixels []byte, mask []bool) {
	pixels = make([]byte, len(c.pixels))
	copy(pixels, c.pixels)
	mask = make([]bool, len(c.mask))
	copy(mask, c.mask)
	return pixels, mask
}

// PlanesTransposed returns copies of the two planes in row-major order
// for consumption by row-major rasterizers.
func (c *Canvas) PlanesTransposed() (pixels []byte, mask []bool) {
	pixels = make([]byte, len(c.pixels))
	mask = make([]bool, len(c.mask))
	for x := 0; x < c.width; x++ {
		for y := 0; y < c.height; y++ {
			pixels[y*c.width+x] = c.pixels[x*c.height+y]
			mask[y*c.width+x] = c.mask[x*c.height+y]
		}
	}
	return pixels, mask
}

// runs returns the maximal [start, end) intervals of set entries.
func runs(mask []bool) [][2]int {
	var out [][2]int
	start := -1
	for i, m := range mask {
		switch {
		case m && start < 0:
			start = i
		case !m && start >= 0:
			out = append(out, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, [2]int{start, len(mask)})
	}
	return out
}
