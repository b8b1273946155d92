package gfx

import (
	"errors"
	"fmt"
	"testing"
)

// countingSource is an in-memory lump source that records reads.
type countingSource struct {
	lumps map[string][]byte
	reads map[string]int
}

func newCountingSource(lumps map[string][]byte) *countingSource {
	return &countingSource{lumps: lumps, reads: make(map[string]int)}
}

func (s *countingSource) Read(name string) ([]byte, error) {
	s.reads[name]++
	data, ok := s.lumps[name]
	if !ok {
		return nil, fmt.Errorf("lump not found: %s", name)
	}
	return data, nil
}

func resolverFixtures(t *testing.T) (*PNames, *countingSource) {
	t.Helper()
	names, err := ParsePNames(buildPNames(
		[]byte("TROOA1\x00\x00"),
		[]byte("MISSING\x00"),
		[]byte("BROKEN\x00\x00"),
	))
	if err != nil {
		t.Fatalf("parse pnames: %v", err)
	}

	src := newCountingSource(map[string][]byte{
		"TROOA1": buildFixtureSprite(),
		"BROKEN": {1, 0}, // too short for a picture header
	})
	return names, src
}

func TestLazyResolver(t *testing.T) {
	names, src := resolverFixtures(t)
	r := NewLazyResolver(names, src)

	s, err := r.Resolve(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w, h := s.Size(); w != 41 || h != 57 {
		t.Errorf("expected 41×57, got %d×%d", w, h)
	}

	// Lazy resolution hits the source on every call.
	r.Resolve(0)
	if src.reads["TROOA1"] != 2 {
		t.Errorf("expected 2 reads, got %d", src.reads["TROOA1"])
	}
}

func TestLazyResolver_Missing(t *testing.T) {
	names, src := resolverFixtures(t)
	r := NewLazyResolver(names, src)

	if _, err := r.Resolve(1); !errors.Is(err, ErrUnresolvedPatch) {
		t.Errorf("expected ErrUnresolvedPatch, got %v", err)
	}
	if _, err := r.Resolve(99); !errors.Is(err, ErrUnresolvedPatch) {
		t.Errorf("id outside table: expected ErrUnresolvedPatch, got %v", err)
	}
}

func TestLazyResolver_Malformed(t *testing.T) {
	names, src := resolverFixtures(t)
	r := NewLazyResolver(names, src)

	if _, err := r.Resolve(2); !errors.Is(err, ErrBadSprite) {
		t.Errorf("expected ErrBadSprite, got %v", err)
	}
}

func TestEagerResolver(t *testing.T) {
	names, src := resolverFixtures(t)
	r := NewEagerResolver(names, src)

	// All names were read up front; resolving again stays in memory.
	if src.reads["TROOA1"] != 1 {
		t.Fatalf("expected 1 upfront read, got %d", src.reads["TROOA1"])
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(0); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if src.reads["TROOA1"] != 1 {
		t.Errorf("expected no further reads, got %d", src.reads["TROOA1"])
	}
}

func TestEagerResolver_MissSurfacesOnResolve(t *testing.T) {
	names, src := resolverFixtures(t)
	r := NewEagerResolver(names, src)

	if _, err := r.Resolve(1); !errors.Is(err, ErrUnresolvedPatch) {
		t.Errorf("expected ErrUnresolvedPatch, got %v", err)
	}
	if _, err := r.Resolve(2); !errors.Is(err, ErrBadSprite) {
		t.Errorf("expected ErrBadSprite, got %v", err)
	}
	if _, err := r.Resolve(77); !errors.Is(err, ErrUnresolvedPatch) {
		t.Errorf("id outside table: expected ErrUnresolvedPatch, got %v", err)
	}
}
