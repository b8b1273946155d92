// Package wad provides reading functionality for DOOM WAD archives.
package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	headerSize   = 12
	dirEntrySize = 16
)

// WAD format errors.
var (
	ErrBadArchive   = errors.New("wad: malformed archive")
	ErrLumpNotFound = errors.New("wad: lump not found")
)

// Kind identifies the archive flavor.
type Kind uint8

const (
	// IWAD is a base archive carrying a complete asset set.
	IWAD Kind = iota
	// PWAD is a patch archive whose lumps override a base archive.
	PWAD
)

// String returns the archive magic for the kind.
func (k Kind) String() string {
	if k == PWAD {
		return "PWAD"
	}
	return "IWAD"
}

// Entry describes one lump in the archive directory.
type Entry struct {
	Name   string
	Offset int32
	Size   int32
}

// Archive represents an opened WAD archive.
type Archive struct {
	r      io.ReaderAt
	closer io.Closer
	kind   Kind
	header header
	dir    []Entry
	byName map[string]int
}

type header struct {
	Magic     [4]byte
	Count     int32
	DirOffset int32
}

// Open opens a WAD archive for reading.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	archive, err := load(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	archive.closer = file
	return archive, nil
}

// Parse reads a WAD archive held in memory.
func Parse(data []byte) (*Archive, error) {
	return load(bytes.NewReader(data))
}

func load(r io.ReaderAt) (*Archive, error) {
	archive := &Archive{
		r:      r,
		byName: make(map[string]int),
	}

	if err := archive.readHeader(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if err := archive.readDirectory(); err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	return archive, nil
}

// Close closes the archive. Archives parsed from memory need no cleanup.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	sr := io.NewSectionReader(a.r, 0, headerSize)
	if err := binary.Read(sr, binary.LittleEndian, &a.header); err != nil {
		return fmt.Errorf("%w: short header", ErrBadArchive)
	}

	switch string(a.header.Magic[:]) {
	case "IWAD":
		a.kind = IWAD
	case "PWAD":
		a.kind = PWAD
	default:
		return fmt.Errorf("%w: bad magic %q", ErrBadArchive, a.header.Magic)
	}

	if a.header.Count < 0 || a.header.DirOffset < 0 {
		return fmt.Errorf("%w: negative directory fields", ErrBadArchive)
	}

	return nil
}

func (a *Archive) readDirectory() error {
	count := a.header.Count
	a.dir = make([]Entry, 0, count)

	sr := io.NewSectionReader(a.r, int64(a.header.DirOffset), int64(count)*dirEntrySize)
	for i := int32(0); i < count; i++ {
		var rec struct {
			Offset int32
			Size   int32
			Name   [8]byte
		}
		if err := binary.Read(sr, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("%w: directory truncated at entry %d", ErrBadArchive, i)
		}
		if rec.Offset < 0 || rec.Size < 0 {
			return fmt.Errorf("%w: entry %d has negative extent", ErrBadArchive, i)
		}
		a.dir = append(a.dir, Entry{
			Name:   NormalizeName(string(rec.Name[:])),
			Offset: rec.Offset,
			Size:   rec.Size,
		})
	}

	// Later duplicates shadow earlier ones, matching reference tools.
	for i, e := range a.dir {
		a.byName[e.Name] = i
	}

	return nil
}

// Kind reports whether the archive is an IWAD or a PWAD.
func (a *Archive) Kind() Kind {
	return a.kind
}

// Count returns the number of directory entries.
func (a *Archive) Count() int {
	return len(a.dir)
}

// List returns all directory entries in archive order.
func (a *Archive) List() []Entry {
	result := make([]Entry, len(a.dir))
	copy(result, a.dir)
	return result
}

// Contains checks if a lump exists.
func (a *Archive) Contains(name string) bool {
	_, ok := a.byName[NormalizeName(name)]
	return ok
}

// Read reads a lump by name.
func (a *Archive) Read(name string) ([]byte, error) {
	i, ok := a.byName[NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLumpNotFound, name)
	}
	return a.ReadIndex(i)
}

// ReadIndex reads a lump by directory position.
func (a *Archive) ReadIndex(i int) ([]byte, error) {
	if i < 0 || i >= len(a.dir) {
		return nil, fmt.Errorf("%w: index %d", ErrLumpNotFound, i)
	}
	e := a.dir[i]
	if e.Size == 0 {
		return nil, nil
	}

	data := make([]byte, e.Size)
	if _, err := a.r.ReadAt(data, int64(e.Offset)); err != nil {
		return nil, fmt.Errorf("%w: lump %s extends past archive end", ErrBadArchive, e.Name)
	}
	return data, nil
}

// NormalizeName maps a lump name to its canonical directory form:
// upper-case, truncated at the first NUL.
func NormalizeName(name string) string {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return strings.ToUpper(name)
}
