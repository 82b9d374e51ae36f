package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/filecleaner/internal/resulttable"
	"github.com/standardbeagle/filecleaner/internal/syntax"
)

func writeTempGoFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestExtractFileSegmentCode(t *testing.T) {
	path := writeTempGoFile(t, "// TODO here\nint x = TODO;\n")
	profile, err := syntax.ProfileForExtension(".go")
	if err != nil {
		t.Fatalf("ProfileForExtension: %v", err)
	}

	opts := Options{Patterns: []Pattern{NewLiteralPattern("TODO")}, Segment: SegmentCode}
	rows, err := ExtractFile(context.Background(), path, profile, opts, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(rows), rows)
	}
	if rows[0].Line != 2 {
		t.Errorf("match on line %d, want 2", rows[0].Line)
	}
}

func TestExtractFileNoTrailingNewline(t *testing.T) {
	path := writeTempGoFile(t, "// TODO one\nTODO two")
	profile, _ := syntax.ProfileForExtension(".go")

	opts := Options{Patterns: []Pattern{NewLiteralPattern("TODO")}, Segment: SegmentAll}
	rows, err := ExtractFile(context.Background(), path, profile, opts, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 matches (including the unterminated final line), got %d: %+v", len(rows), rows)
	}
	if rows[1].Line != 2 {
		t.Errorf("final match on line %d, want 2", rows[1].Line)
	}
}

func TestCountLinesIncludesFinalUnterminatedLine(t *testing.T) {
	path := writeTempGoFile(t, "one\ntwo\nthree")
	n, err := CountLines(path)
	if err != nil {
		t.Fatalf("CountLines: %v", err)
	}
	if n != 3 {
		t.Errorf("CountLines = %d, want 3", n)
	}
}

func TestMatchAllAcrossLines(t *testing.T) {
	path := writeTempGoFile(t, "alpha\nalpha beta\nbeta\n")
	profile, _ := syntax.ProfileForExtension(".go")

	opts := Options{
		Patterns: []Pattern{NewLiteralPattern("alpha"), NewLiteralPattern("beta")},
		Segment:  SegmentAll,
		MatchAll: true,
	}
	rows, err := ExtractFile(context.Background(), path, profile, opts, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	reduced := resulttable.MatchAllReduce(rows, len(opts.Patterns))
	if len(reduced) != 2 {
		t.Fatalf("expected 2 rows (both patterns matched on line 2), got %d: %+v", len(reduced), reduced)
	}
	for _, r := range reduced {
		if r.Line != 2 {
			t.Errorf("unexpected surviving row %+v", r)
		}
	}
}
