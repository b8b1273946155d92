package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_RejectsBadScale(t *testing.T) {
	for _, arg := range []string{"0", "-3"} {
		err := newApp().Run([]string{"wadgfx", "--scale", arg, "pnames"})
		if err == nil {
			t.Errorf("scale %s: expected an error before any command runs", arg)
			continue
		}
		if !strings.Contains(err.Error(), "scale") {
			t.Errorf("scale %s: error should name the flag, got %v", arg, err)
		}
	}
}

func TestRun_ConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "wadgfx.yaml")

	if err := newApp().Run([]string{"wadgfx", "--scale", "4", "config", "save", "--path", path}); err != nil {
		t.Fatalf("config save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if !strings.Contains(string(data), "scale: 4") {
		t.Errorf("saved config should carry the overlaid scale, got:\n%s", data)
	}
}
