package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New("/some/root")
	if cfg.Defaults.Segment != "all" {
		t.Errorf("expected default segment %q, got %q", "all", cfg.Defaults.Segment)
	}
	if cfg.Defaults.PageSize != 100 {
		t.Errorf("expected default page size 100, got %d", cfg.Defaults.PageSize)
	}
	if len(cfg.Exclude) == 0 {
		t.Errorf("expected default exclusions to be non-empty")
	}
}

func TestLoadMissingDocument(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Project.Root != dir {
		t.Errorf("expected root %q, got %q", dir, cfg.Project.Root)
	}
}

func TestLoadParsesDocument(t *testing.T) {
	dir := t.TempDir()
	doc := "defaults {\n  segment \"code\"\n  page_size 25\n}\ninclude \"**/*.go\"\nexclude \"**/.git/**\"\n"
	path := filepath.Join(dir, ".filecleaner.kdl")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Segment != "code" {
		t.Errorf("expected segment %q, got %q", "code", cfg.Defaults.Segment)
	}
	if cfg.Defaults.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", cfg.Defaults.PageSize)
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "**/*.go" {
		t.Errorf("unexpected include list: %v", cfg.Include)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "**/.git/**" {
		t.Errorf("unexpected exclude list: %v", cfg.Exclude)
	}
}
