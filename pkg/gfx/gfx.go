// Package gfx provides decoders and encoders for DOOM graphics lumps:
// flats, pictures (sprites and texture patches), composite texture
// directories, and the palette and colormap tables they index.
package gfx

import "strings"

// trimName converts a padded 8-byte lump identifier to its canonical
// upper-case form. Names are NUL- or space-padded on disk.
func trimName(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.ToUpper(strings.TrimRight(s, " "))
}
