package gfx

import (
	"errors"
	"image/color"
	"testing"
)

func buildPlaypal(banks int) []byte {
	data := make([]byte, banks*paletteBankSize)
	for b := 0; b < banks; b++ {
		for i := 0; i < 256; i++ {
			data[b*paletteBankSize+i*3] = byte(b)
			data[b*paletteBankSize+i*3+1] = byte(i)
			data[b*paletteBankSize+i*3+2] = byte(255 - i)
		}
	}
	return data
}

func TestParsePlaypal(t *testing.T) {
	p, err := ParsePlaypal(buildPlaypal(14))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if p.Banks() != 14 {
		t.Fatalf("expected 14 banks, got %d", p.Banks())
	}

	bank, err := p.Bank(3)
	if err != nil {
		t.Fatalf("bank 3: %v", err)
	}
	if bank[10] != (RGB{R: 3, G: 10, B: 245}) {
		t.Errorf("bank 3 entry 10: got %+v", bank[10])
	}
}

func TestParsePlaypal_BadSize(t *testing.T) {
	for _, size := range []int{0, 767, 769} {
		if _, err := ParsePlaypal(make([]byte, size)); !errors.Is(err, ErrBadPalette) {
			t.Errorf("size %d: expected ErrBadPalette, got %v", size, err)
		}
	}
}

func TestPlaypal_BankOutOfRange(t *testing.T) {
	p, _ := ParsePlaypal(buildPlaypal(2))
	if _, err := p.Bank(2); !errors.Is(err, ErrBadPalette) {
		t.Errorf("expected ErrBadPalette, got %v", err)
	}
	if _, err := p.Bank(-1); !errors.Is(err, ErrBadPalette) {
		t.Errorf("expected ErrBadPalette, got %v", err)
	}
}

func TestPalette_Remap(t *testing.T) {
	p, _ := ParsePlaypal(buildPlaypal(1))
	bank, _ := p.Bank(0)

	table := make([]byte, 256)
	for i := range table {
		table[i] = byte(255 - i)
	}

	remapped, err := bank.Remap(table)
	if err != nil {
		t.Fatalf("remap: %v", err)
	}
	if remapped[0] != bank[255] {
		t.Error("entry 0 should take the color of entry 255")
	}
}

func TestPalette_RemapBadTable(t *testing.T) {
	p, _ := ParsePlaypal(buildPlaypal(1))
	bank, _ := p.Bank(0)
	if _, err := bank.Remap(make([]byte, 255)); !errors.Is(err, ErrBadColormap) {
		t.Errorf("expected ErrBadColormap, got %v", err)
	}
}

func TestPalette_Colors(t *testing.T) {
	p, _ := ParsePlaypal(buildPlaypal(1))
	bank, _ := p.Bank(0)

	colors := bank.Colors()
	if len(colors) != 256 {
		t.Fatalf("expected 256 colors, got %d", len(colors))
	}
	want := color.NRGBA{R: 0, G: 42, B: 213, A: 0xFF}
	if colors[42] != want {
		t.Errorf("entry 42: got %+v, expected %+v", colors[42], want)
	}
}

func TestParseColormap(t *testing.T) {
	data := make([]byte, 34*colormapBankSize)
	data[2*colormapBankSize+7] = 99

	c, err := ParseColormap(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Banks() != 34 {
		t.Fatalf("expected 34 banks, got %d", c.Banks())
	}

	table, err := c.Bank(2)
	if err != nil {
		t.Fatalf("bank 2: %v", err)
	}
	if table[7] != 99 {
		t.Errorf("bank 2 entry 7: got %d, expected 99", table[7])
	}
}

func TestParseColormap_BadSize(t *testing.T) {
	for _, size := range []int{0, 255, 257} {
		if _, err := ParseColormap(make([]byte, size)); !errors.Is(err, ErrBadColormap) {
			t.Errorf("size %d: expected ErrBadColormap, got %v", size, err)
		}
	}
}

func TestColormap_BankOutOfRange(t *testing.T) {
	c, _ := ParseColormap(make([]byte, colormapBankSize))
	if _, err := c.Bank(1); !errors.Is(err, ErrBadColormap) {
		t.Errorf("expected ErrBadColormap, got %v", err)
	}
}
