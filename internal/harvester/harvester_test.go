package harvester

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/standardbeagle/filecleaner/internal/resulttable"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustWrite := func(rel, content string) {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	mustWrite("a.go", "package a\n")
	mustWrite("b.txt", "hello\n")
	mustWrite("vendor/skip.go", "package vendor\n")
	mustWrite("nested/c.go", "package nested\n")
	return root
}

func TestHarvestAppliesFilterAndIgnore(t *testing.T) {
	root := writeTree(t)
	ignore := NewIgnoreSet()
	ignore.AddPattern("vendor")

	table := resulttable.New()
	opts := Options{Paths: root, Filter: "*.go", Depth: -1, Ignore: ignore, Workers: 2}

	if err := Harvest(context.Background(), opts, table, nil); err != nil {
		t.Fatalf("Harvest: %v", err)
	}

	rows := table.Rows()
	var names []string
	for _, r := range rows {
		names = append(names, filepath.Base(r.Path))
	}
	sort.Strings(names)

	want := []string{"a.go", "c.go"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestHarvestHashEnablesDuplicateDetection(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, rel)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	write("a.txt", "same content\n")
	write("b.txt", "same content\n")
	write("c.txt", "different\n")

	table := resulttable.New()
	opts := Options{Paths: root, Depth: 0, Workers: 2, Hash: true}
	if err := Harvest(context.Background(), opts, table, nil); err != nil {
		t.Fatalf("Harvest: %v", err)
	}

	rows := table.Rows()
	for _, r := range rows {
		if r.Hash == 0 {
			t.Errorf("row %q has zero hash with Hash option set", r.Path)
		}
	}

	groups := resulttable.DuplicateGroups(rows)
	if len(groups) != 1 {
		t.Fatalf("got %d duplicate groups, want 1", len(groups))
	}
	if len(groups[0]) != 2 {
		t.Errorf("duplicate group has %d members, want 2", len(groups[0]))
	}
}

func TestHarvestDepthLimit(t *testing.T) {
	root := writeTree(t)
	table := resulttable.New()
	opts := Options{Paths: root, Filter: "*.go", Depth: 0, Workers: 1}

	if err := Harvest(context.Background(), opts, table, nil); err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	rows := table.Rows()
	for _, r := range rows {
		if filepath.Base(r.Path) != "a.go" {
			t.Errorf("depth-0 harvest should only see top-level files, got %q", r.Path)
		}
	}
}
