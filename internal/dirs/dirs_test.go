package dirs

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestXDGOverrides(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables only apply on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "cfg"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	cfg, err := ConfigDir()
	if err != nil || cfg != filepath.Join(base, "cfg", "subextract") {
		t.Fatalf("ConfigDir = %q, %v", cfg, err)
	}
	st, err := StateDir()
	if err != nil || st != filepath.Join(base, "state", "subextract") {
		t.Fatalf("StateDir = %q, %v", st, err)
	}
	if err := EnsureAll(); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
}

func TestEnsureRejectsEmpty(t *testing.T) {
	if err := Ensure(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
