// Package preview prints rendered graphics inline in the terminal.
// It prefers the graphics protocols rasterm knows about (Kitty,
// iTerm2, Sixel) and falls back to truecolor half-block cells.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"os"

	"github.com/BourgeoisBear/rasterm"
	gcolor "github.com/gookit/color"
	"github.com/nfnt/resize"
)

// Show prints an image to stdout, downscaled to at most maxWidth
// pixels across. Nearest neighbor keeps the pixel-art edges crisp.
func Show(img image.Image, maxWidth uint) error {
	if maxWidth > 0 && uint(img.Bounds().Dx()) > maxWidth {
		img = resize.Thumbnail(maxWidth, maxWidth, img, resize.NearestNeighbor)
	}

	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(os.Stdout, img); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(os.Stdout, img); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		if err := (rasterm.Settings{}).SixelWriteImage(os.Stdout, toPaletted(img)); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}

	printCells(img)
	return nil
}

// toPaletted quantizes for the sixel encoder. Images that are already
// indexed pass through untouched.
func toPaletted(img image.Image) *image.Paletted {
	if p, ok := img.(*image.Paletted); ok {
		return p
	}
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, img.Bounds().Min)
	return p
}

// printCells renders the image as background-colored character cells,
// two columns per pixel so the cells come out roughly square.
func printCells(img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				fmt.Print("\x1b[0m  ")
				continue
			}
			gcolor.RGB(c.R, c.G, c.B, true).Print("  ")
		}
		fmt.Print("\x1b[0m\n")
	}
}
