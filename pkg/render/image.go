package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/wadgfx/pkg/gfx"
)

// Paletted wraps a grid of palette indices as an indexed image.
func Paletted(g Grid, pal *gfx.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, g.Width, g.Height), pal.Colors())
	copy(img.Pix, g.Pix)
	return img
}

// RGBA combines a pixel grid and a coverage mask into a full-color
// image with transparent holes wherever the mask is clear. The two
// grids must have the same dimensions.
func RGBA(pix, mask Grid, pal *gfx.Palette) (*image.NRGBA, error) {
	if pix.Width != mask.Width || pix.Height != mask.Height {
		return nil, fmt.Errorf("render: pixel grid %d×%d does not match mask %d×%d",
			pix.Width, pix.Height, mask.Width, mask.Height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, pix.Width, pix.Height))
	for i, v := range pix.Pix {
		if mask.Pix[i] == 0 {
			continue
		}
		c := pal[v]
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 0xFF
	}
	return img, nil
}

// MaskImage renders a coverage mask as a bilevel image: black for
// transparent, white for covered.
func MaskImage(mask Grid) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, mask.Width, mask.Height), color.Palette{
		color.NRGBA{A: 0xFF},
		color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	})
	for i, v := range mask.Pix {
		if v != 0 {
			img.Pix[i] = 1
		}
	}
	return img
}
