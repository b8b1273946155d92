package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type lumpSpec struct {
	name string
	data []byte
}

// buildArchive creates a synthetic WAD image for testing.
func buildArchive(magic string, lumps []lumpSpec) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	binary.Write(&buf, binary.LittleEndian, int32(len(lumps)))

	offset := headerSize
	var dir bytes.Buffer
	for _, l := range lumps {
		binary.Write(&dir, binary.LittleEndian, int32(offset))
		binary.Write(&dir, binary.LittleEndian, int32(len(l.data)))
		var name [8]byte
		copy(name[:], l.name)
		dir.Write(name[:])
		offset += len(l.data)
	}

	binary.Write(&buf, binary.LittleEndian, int32(offset))
	for _, l := range lumps {
		buf.Write(l.data)
	}
	buf.Write(dir.Bytes())
	return buf.Bytes()
}

func TestParse_Directory(t *testing.T) {
	data := buildArchive("IWAD", []lumpSpec{
		{"PLAYPAL", bytes.Repeat([]byte{1}, 768)},
		{"F_START", nil},
		{"FLOOR4_8", bytes.Repeat([]byte{2}, 4096)},
		{"F_END", nil},
	})

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("failed to parse synthetic archive: %v", err)
	}
	defer a.Close()

	if a.Kind() != IWAD {
		t.Errorf("expected IWAD, got %s", a.Kind())
	}
	if a.Count() != 4 {
		t.Errorf("expected 4 entries, got %d", a.Count())
	}

	list := a.List()
	want := []string{"PLAYPAL", "F_START", "FLOOR4_8", "F_END"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("entry %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
}

func TestParse_BadMagic(t *testing.T) {
	data := buildArchive("ZWAD", nil)
	_, err := Parse(data)
	if !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
}

func TestParse_ShortHeader(t *testing.T) {
	_, err := Parse([]byte("IWAD\x00"))
	if !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
}

func TestParse_TruncatedDirectory(t *testing.T) {
	data := buildArchive("PWAD", []lumpSpec{
		{"DEMO1", []byte{1, 2, 3}},
	})
	// Cut into the directory region.
	_, err := Parse(data[:len(data)-4])
	if !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
}

func TestRead_Lump(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	data := buildArchive("PWAD", []lumpSpec{
		{"TROOA1", payload},
	})

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := a.Read("TROOA1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %v, expected %v", got, payload)
	}
}

func TestRead_CaseInsensitive(t *testing.T) {
	data := buildArchive("IWAD", []lumpSpec{
		{"FLOOR4_8", []byte{7}},
	})

	a, _ := Parse(data)
	if !a.Contains("floor4_8") {
		t.Error("lower-case lookup should resolve")
	}
	if _, err := a.Read("Floor4_8"); err != nil {
		t.Errorf("mixed-case read failed: %v", err)
	}
}

func TestRead_NotFound(t *testing.T) {
	a, _ := Parse(buildArchive("IWAD", nil))
	_, err := a.Read("MISSING")
	if !errors.Is(err, ErrLumpNotFound) {
		t.Errorf("expected ErrLumpNotFound, got %v", err)
	}
}

func TestRead_Shadowing(t *testing.T) {
	// Two lumps share a name; the later directory entry wins.
	data := buildArchive("IWAD", []lumpSpec{
		{"DEMO1", []byte{1}},
		{"DEMO1", []byte{2}},
	})

	a, _ := Parse(data)
	got, err := a.Read("DEMO1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected shadowing lump {2}, got %v", got)
	}
}

func TestRead_EmptyLump(t *testing.T) {
	a, _ := Parse(buildArchive("IWAD", []lumpSpec{
		{"F_START", nil},
	}))

	got, err := a.Read("F_START")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty lump, got %d bytes", len(got))
	}
}

func TestRead_LumpPastEnd(t *testing.T) {
	data := buildArchive("IWAD", []lumpSpec{
		{"BIGLUMP", bytes.Repeat([]byte{9}, 64)},
	})
	// Point the entry past the end of the archive.
	binary.LittleEndian.PutUint32(data[len(data)-16:], uint32(len(data)))

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := a.Read("BIGLUMP"); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
}

func TestReadIndex_OutOfRange(t *testing.T) {
	a, _ := Parse(buildArchive("IWAD", nil))
	if _, err := a.ReadIndex(0); !errors.Is(err, ErrLumpNotFound) {
		t.Errorf("expected ErrLumpNotFound, got %v", err)
	}
}

func TestOpen_File(t *testing.T) {
	data := buildArchive("IWAD", []lumpSpec{
		{"PNAMES", []byte{1, 0, 0, 0}},
	})
	path := filepath.Join(t.TempDir(), "test.wad")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing temp archive: %v", err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if !a.Contains("PNAMES") {
		t.Error("expected PNAMES in opened archive")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"floor4_8", "FLOOR4_8"},
		{"TROOA1\x00\x00", "TROOA1"},
		{"w94_1", "W94_1"},
		{"PNAMES", "PNAMES"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.out {
			t.Errorf("NormalizeName(%q) = %q, expected %q", tt.in, got, tt.out)
		}
	}
}
