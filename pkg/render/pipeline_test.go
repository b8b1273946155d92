package render

import (
	"errors"
	"image"
	"testing"

	"github.com/Faultbox/wadgfx/pkg/gfx"
)

func testPalette() *gfx.Palette {
	var pal gfx.Palette
	for i := range pal {
		pal[i] = gfx.RGB{R: uint8(i), G: uint8(i), B: uint8(i)}
	}
	return &pal
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"full", FormatFull},
		{"f", FormatFull},
		{"indexed", FormatIndexed},
		{"i", FormatIndexed},
		{"mask", FormatMask},
		{"m", FormatMask},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}

	if _, err := ParseFormat("rgba"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestRenderFlat(t *testing.T) {
	data := make([]byte, 64*64)
	img, err := RenderFlat(data, FlatOptions{Palette: testPalette(), Scale: 2})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("expected 128×128, got %d×%d", b.Dx(), b.Dy())
	}
	if _, ok := img.(*image.Paletted); !ok {
		t.Errorf("expected an indexed image, got %T", img)
	}
}

func TestRenderFlat_BadLump(t *testing.T) {
	if _, err := RenderFlat(make([]byte, 100), FlatOptions{Palette: testPalette(), Scale: 1}); !errors.Is(err, gfx.ErrBadFlat) {
		t.Errorf("expected ErrBadFlat, got %v", err)
	}
}

func spriteLump() []byte {
	return buildSprite(2, 4, 0, 0, [][]post{
		{{top: 1, pixels: []byte{5, 6}}},
		{},
	})
}

func TestRenderSprite_Full(t *testing.T) {
	img, err := RenderSprite(spriteLump(), SpriteOptions{
		Palette:    testPalette(),
		Scale:      1,
		Format:     FormatFull,
		Anamorphic: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	rgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected NRGBA, got %T", img)
	}
	if rgba.Bounds().Dx() != 2 || rgba.Bounds().Dy() != 4 {
		t.Fatalf("expected 2×4, got %v", rgba.Bounds())
	}
	if rgba.NRGBAAt(0, 0).A != 0 {
		t.Error("uncovered pixel should be transparent")
	}
	if c := rgba.NRGBAAt(0, 1); c.A != 0xFF || c.R != 5 {
		t.Errorf("expected opaque palette color 5, got %+v", c)
	}
}

func TestRenderSprite_IndexedBackground(t *testing.T) {
	img, err := RenderSprite(spriteLump(), SpriteOptions{
		Palette:    testPalette(),
		Scale:      1,
		Format:     FormatIndexed,
		Background: 47,
		Anamorphic: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	idx := img.(*image.Paletted)
	if idx.Pix[0] != 47 {
		t.Errorf("uncovered pixel should carry the background index, got %d", idx.Pix[0])
	}
	if idx.Pix[2] != 5 {
		t.Errorf("covered pixel should keep its palette index, got %d", idx.Pix[2])
	}
}

func TestRenderSprite_AspectHeight(t *testing.T) {
	img, err := RenderSprite(spriteLump(), SpriteOptions{
		Palette: testPalette(),
		Scale:   2,
		Format:  FormatMask,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// 4 rows × scale 2 × 6/5 aspect: trunc(8·6/5) = 9.
	if img.Bounds().Dy() != 9 {
		t.Errorf("expected 9 rows, got %d", img.Bounds().Dy())
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("expected 4 columns, got %d", img.Bounds().Dx())
	}
}

func TestRenderSprite_CustomCanvas(t *testing.T) {
	// Stamp the sprite's hotspot at (4,4) on an 8×8 canvas.
	img, err := RenderSprite(spriteLump(), SpriteOptions{
		Palette:      testPalette(),
		Scale:        1,
		Format:       FormatIndexed,
		Background:   0,
		Anamorphic:   true,
		CanvasWidth:  8,
		CanvasHeight: 8,
		PosX:         4,
		PosY:         4,
		HasPos:       true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	idx := img.(*image.Paletted)
	if idx.Bounds().Dx() != 8 || idx.Bounds().Dy() != 8 {
		t.Fatalf("expected 8×8, got %v", idx.Bounds())
	}
	// Sprite origin is (0,0), so column 0 row 1 maps to (4,5).
	if got := idx.Pix[5*8+4]; got != 5 {
		t.Errorf("expected palette index 5 at (4,5), got %d", got)
	}
}

func TestRenderSprite_ColormapApplied(t *testing.T) {
	table := make([]byte, 256)
	table[5] = 200
	table[6] = 201

	img, err := RenderSprite(spriteLump(), SpriteOptions{
		Palette:    testPalette(),
		Colormap:   table,
		Scale:      1,
		Format:     FormatIndexed,
		Background: 9,
		Anamorphic: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	idx := img.(*image.Paletted)
	if idx.Pix[2] != 200 {
		t.Errorf("drawn pixel should be colormapped, got %d", idx.Pix[2])
	}
	if idx.Pix[0] != 9 {
		t.Errorf("background index must bypass the colormap, got %d", idx.Pix[0])
	}
}
