package gfx

import (
	"errors"
	"fmt"
)

// Patch resolution errors.
var ErrUnresolvedPatch = errors.New("gfx: unresolved patch")

// PatchResolver resolves a patch id to its decoded sprite. The texture
// assembler is written against this capability, not a concrete
// strategy.
type PatchResolver interface {
	Resolve(id int) (*Sprite, error)
}

// LumpSource is the byte-range lookup the resolvers draw from. Both
// wad.Archive and the asset manager satisfy it.
type LumpSource interface {
	Read(name string) ([]byte, error)
}

// LazyResolver reads and decodes a patch from its source on every
// Resolve call.
type LazyResolver struct {
	names *PNames
	src   LumpSource
}

// NewLazyResolver returns a resolver that defers all container access
// to render time.
func NewLazyResolver(names *PNames, src LumpSource) *LazyResolver {
	return &LazyResolver{names: names, src: src}
}

// Resolve looks up and decodes the named patch.
func (r *LazyResolver) Resolve(id int) (*Sprite, error) {
	name, ok := r.names.Name(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d outside name table", ErrUnresolvedPatch, id)
	}
	data, err := r.src.Read(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnresolvedPatch, name, err)
	}
	sprite, err := ParseSprite(data)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", name, err)
	}
	return sprite, nil
}

// EagerResolver resolves and caches every named patch up front and
// serves Resolve calls from memory. Names absent from the source are
// recorded and reported only when a texture actually references them.
type EagerResolver struct {
	entries []eagerEntry
}

type eagerEntry struct {
	name   string
	sprite *Sprite
	err    error
}

// NewEagerResolver decodes all patches named in the table. Missing or
// malformed entries do not fail construction; they surface on Resolve.
func NewEagerResolver(names *PNames, src LumpSource) *EagerResolver {
	r := &EagerResolver{entries: make([]eagerEntry, names.Len())}
	for id := range r.entries {
		name, _ := names.Name(id)
		r.entries[id].name = name

		data, err := src.Read(name)
		if err != nil {
			r.entries[id].err = fmt.Errorf("%w: %s: %v", ErrUnresolvedPatch, name, err)
			continue
		}
		sprite, err := ParseSprite(data)
		if err != nil {
			r.entries[id].err = fmt.Errorf("patch %s: %w", name, err)
			continue
		}
		r.entries[id].sprite = sprite
	}
	return r
}

// Resolve serves the cached decode result for id.
func (r *EagerResolver) Resolve(id int) (*Sprite, error) {
	if id < 0 || id >= len(r.entries) {
		return nil, fmt.Errorf("%w: id %d outside name table", ErrUnresolvedPatch, id)
	}
	e := r.entries[id]
	if e.err != nil {
		return nil, e.err
	}
	return e.sprite, nil
}
