package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Texture directory errors.
var (
	ErrBadTexture       = errors.New("gfx: malformed texture directory")
	ErrUnsupportedField = errors.New("gfx: unsupported texture field")
)

const (
	textureRecordSize = 22
	placementSize     = 10
)

// Placement positions one patch within a composite texture. OriginX and
// OriginY are signed and may place the patch partly or wholly outside
// the texture bounds. Patch indexes the PNAMES table.
type Placement struct {
	OriginX int
	OriginY int
	Patch   int
}

// Texture is one composite texture definition.
type Texture struct {
	Name    string
	Width   int
	Height  int
	Patches []Placement
}

// TextureDir holds the decoded definitions of a TEXTURE1/TEXTURE2 lump.
type TextureDir struct {
	Textures []Texture
}

// ParseTextureDir interprets a texture directory lump: a u32 count,
// that many u32 record offsets, and the records themselves. The two
// fixed placement fields (step direction 1, colormap 0) are validated
// here; any other value marks the lump unsupported.
func ParseTextureDir(data []byte) (*TextureDir, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes, too short for count", ErrBadTexture, len(data))
	}

	count := binary.LittleEndian.Uint32(data)
	if count&0x80000000 != 0 {
		return nil, fmt.Errorf("%w: implausible texture count %d", ErrBadTexture, count)
	}
	if uint32(len(data)-4)/4 < count {
		return nil, fmt.Errorf("%w: %d bytes for %d offsets", ErrBadTexture, len(data), count)
	}

	dir := &TextureDir{Textures: make([]Texture, 0, count)}
	for i := 0; i < int(count); i++ {
		off := binary.LittleEndian.Uint32(data[4+i*4:])
		tex, err := parseTexture(data, off)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		dir.Textures = append(dir.Textures, tex)
	}
	return dir, nil
}

func parseTexture(data []byte, off uint32) (Texture, error) {
	if off > uint32(len(data)) || len(data)-int(off) < textureRecordSize {
		return Texture{}, fmt.Errorf("%w: record at offset %d out of range", ErrBadTexture, off)
	}
	rec := data[off:]

	// name[8], 4 reserved, width, height, 4 reserved, patch count
	tex := Texture{
		Name:   trimName(rec[:8]),
		Width:  int(binary.LittleEndian.Uint16(rec[12:])),
		Height: int(binary.LittleEndian.Uint16(rec[14:])),
	}
	patchCount := int(binary.LittleEndian.Uint16(rec[20:]))

	if len(rec)-textureRecordSize < patchCount*placementSize {
		return Texture{}, fmt.Errorf("%w: %s truncated after %d of %d patches",
			ErrBadTexture, tex.Name, (len(rec)-textureRecordSize)/placementSize, patchCount)
	}

	tex.Patches = make([]Placement, 0, patchCount)
	for j := 0; j < patchCount; j++ {
		p := rec[textureRecordSize+j*placementSize:]
		stepDir := binary.LittleEndian.Uint16(p[6:])
		colormap := binary.LittleEndian.Uint16(p[8:])
		if stepDir != 1 {
			return Texture{}, fmt.Errorf("%w: %s patch %d step direction %d", ErrUnsupportedField, tex.Name, j, stepDir)
		}
		if colormap != 0 {
			return Texture{}, fmt.Errorf("%w: %s patch %d colormap %d", ErrUnsupportedField, tex.Name, j, colormap)
		}
		tex.Patches = append(tex.Patches, Placement{
			OriginX: int(int16(binary.LittleEndian.Uint16(p[0:]))),
			OriginY: int(int16(binary.LittleEndian.Uint16(p[2:]))),
			Patch:   int(binary.LittleEndian.Uint16(p[4:])),
		})
	}
	return tex, nil
}

// Find returns the texture with the given name, if present.
func (d *TextureDir) Find(name string) (*Texture, bool) {
	name = trimName([]byte(name))
	for i := range d.Textures {
		if d.Textures[i].Name == name {
			return &d.Textures[i], true
		}
	}
	return nil, false
}

// RenderTexture composites a texture onto a fresh canvas and returns
// the result in the picture wire format, decodable like any other
// sprite. Patches are stamped in declared order at their placement
// origin offset by the patch sprite's own hotspot, so the patch's
// top-left lands at the declared origin. A patch that cannot be
// resolved fails the whole render; no partial texture is produced.
func RenderTexture(t *Texture, r PatchResolver) ([]byte, error) {
	canvas := NewCanvas(t.Width, t.Height)
	for i, pl := range t.Patches {
		sprite, err := r.Resolve(pl.Patch)
		if err != nil {
			return nil, fmt.Errorf("texture %s patch %d: %w", t.Name, i, err)
		}
		left, top := sprite.Origin()
		if err := canvas.DrawPatch(pl.OriginX+left, pl.OriginY+top, sprite); err != nil {
			return nil, fmt.Errorf("texture %s patch %d: %w", t.Name, i, err)
		}
	}
	return canvas.MakeSprite()
}
