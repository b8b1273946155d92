// Package render rasterizes decoded graphics into pixel grids at a
// requested scale, correcting for the non-square pixels of the source
// assets with exact rational arithmetic.
package render

import (
	"math/big"

	"github.com/Faultbox/wadgfx/pkg/gfx"
)

// Grid is a row-major grid of palette indices (or, for masks, 0/1
// coverage values).
type Grid struct {
	Width  int
	Height int
	Pix    []byte
}

// NewGrid allocates a zero-filled grid.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Pix: make([]byte, width*height)}
}

// At returns the value at (row y, column x).
func (g Grid) At(y, x int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores v at (row y, column x).
func (g Grid) Set(y, x int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Fill sets every cell to v.
func (g Grid) Fill(v uint8) {
	for i := range g.Pix {
		g.Pix[i] = v
	}
}

// SpriteAspect returns the vertical correction for sprite graphics:
// the 320×200 design resolution shown on a 4:3 display makes each
// stored pixel 6/5 taller than it is wide.
func SpriteAspect() *big.Rat {
	return big.NewRat(6, 5)
}

// VerticalFactor composes the integer display scale with a pixel
// aspect correction into the single rational multiplier used for
// rasterizing, so the two corrections round only once.
func VerticalFactor(scale int, aspect *big.Rat) *big.Rat {
	return new(big.Rat).Mul(big.NewRat(int64(scale), 1), aspect)
}

// Scale resamples a grid by nearest neighbor: sx columns per source
// column, and rows stretched by the exact rational sy. Every output
// coordinate maps back to its source by rational division and
// truncation; floating point is never involved, so compounded factors
// cannot drift.
func Scale(src Grid, sx int, sy *big.Rat) Grid {
	out := NewGrid(src.Width*sx, mulTrunc(src.Height, sy))
	for y := 0; y < out.Height; y++ {
		srcY := divTrunc(y, sy)
		for x := 0; x < out.Width; x++ {
			out.Set(y, x, src.At(srcY, x/sx))
		}
	}
	return out
}

// Column addresses one output column of a row-major grid. Values pass
// through the column's pixel mapper on the way in.
type Column struct {
	pix    []byte
	stride int
	rows   int
	mapper func(uint8) uint8
}

// Rows returns the column height.
func (c Column) Rows() int {
	return c.rows
}

// Set stores v at output row y, mapped.
func (c Column) Set(y int, v uint8) {
	if c.mapper != nil {
		v = c.mapper(v)
	}
	c.pix[y*c.stride] = v
}

// Source is a column-renderable graphic. Flats and sprites both
// satisfy it, letting one driver rasterize either kind.
type Source interface {
	Size() (w, h int)
	PixelAspect() *big.Rat
	DrawColumn(x int, col Column, vscale *big.Rat) error
}

// Paint rasterizes a source at an integer scale, applying its pixel
// aspect correction vertically. The mapper transforms each written
// pixel (colormap lookup, mask flattening); nil writes pixels as-is.
// Cells no column writes to keep the grid's zero fill.
func Paint(src Source, scale int, mapper func(uint8) uint8) (Grid, error) {
	w, h := src.Size()
	aspect := src.PixelAspect()
	vscale := VerticalFactor(scale, aspect)

	out := NewGrid(w*scale, mulTrunc(h*scale, aspect))
	for x := 0; x < out.Width; x++ {
		col := Column{
			pix:    out.Pix[x:],
			stride: out.Width,
			rows:   out.Height,
			mapper: mapper,
		}
		if err := src.DrawColumn(x/scale, col, vscale); err != nil {
			return Grid{}, err
		}
	}
	return out, nil
}

// FlatSource renders a flat. Flat pixels are square.
type FlatSource struct {
	Flat *gfx.Flat
}

// Size returns the flat dimensions.
func (f FlatSource) Size() (w, h int) {
	return f.Flat.Size()
}

// PixelAspect returns 1/1.
func (f FlatSource) PixelAspect() *big.Rat {
	return big.NewRat(1, 1)
}

// DrawColumn writes every output row, inverse-mapping each to its
// source row.
func (f FlatSource) DrawColumn(x int, col Column, vscale *big.Rat) error {
	for y := 0; y < col.Rows(); y++ {
		col.Set(y, f.Flat.At(divTrunc(y, vscale), x))
	}
	return nil
}

// SpriteSource renders a sprite (or a composited texture re-encoded as
// one). Only rows covered by a post are written; everything else stays
// transparent. Anamorphic output keeps the stored 1:1 pixels instead
// of applying the 6/5 correction.
type SpriteSource struct {
	Sprite     *gfx.Sprite
	Anamorphic bool
}

// Size returns the sprite dimensions.
func (s SpriteSource) Size() (w, h int) {
	return s.Sprite.Size()
}

// PixelAspect returns 6/5, or 1/1 for anamorphic output.
func (s SpriteSource) PixelAspect() *big.Rat {
	if s.Anamorphic {
		return big.NewRat(1, 1)
	}
	return SpriteAspect()
}

// DrawColumn walks the posts of source column x. Each post covers the
// output rows [ceil(top·vscale), ceil((top+len)·vscale)); every such
// row inverse-maps into the post's pixel slice.
func (s SpriteSource) DrawColumn(x int, col Column, vscale *big.Rat) error {
	posts := s.Sprite.Column(x)
	for posts.Next() {
		span := posts.Span()

		y0 := mulCeil(span.Top, vscale)
		y1 := mulCeil(span.Top+len(span.Pixels), vscale)
		if y0 < 0 {
			y0 = 0
		}
		if y1 > col.Rows() {
			y1 = col.Rows()
		}

		for y := y0; y < y1; y++ {
			col.Set(y, span.Pixels[divTrunc(y, vscale)-span.Top])
		}
	}
	return posts.Err()
}

// divTrunc returns trunc(n / r) for non-negative n and positive r.
func divTrunc(n int, r *big.Rat) int {
	v := new(big.Int).Mul(big.NewInt(int64(n)), r.Denom())
	return int(v.Quo(v, r.Num()).Int64())
}

// mulTrunc returns trunc(n × r).
func mulTrunc(n int, r *big.Rat) int {
	v := new(big.Int).Mul(big.NewInt(int64(n)), r.Num())
	return int(v.Quo(v, r.Denom()).Int64())
}

// mulCeil returns ceil(n × r) for non-negative n and positive r.
func mulCeil(n int, r *big.Rat) int {
	num := new(big.Int).Mul(big.NewInt(int64(n)), r.Num())
	q, m := new(big.Int).QuoRem(num, r.Denom(), new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return int(q.Int64())
}
