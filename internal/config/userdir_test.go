package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUserConfigDirUsesXDGOnLinux(t *testing.T) {
	if os.Getenv("GOOS") == "windows" {
		t.Skip("linux-only expectation")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := UserConfigDir()
	if err != nil {
		t.Fatalf("UserConfigDir: %v", err)
	}
	want := filepath.Join(dir, "cleaner")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("expected %q to exist as a directory", got)
	}
}
