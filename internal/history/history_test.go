package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCreateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.toml")
	if err := Create(path); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Create(path); err != nil {
		t.Fatalf("second Create: %v", err)
	}
}

func TestAppendAndReloadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.toml")

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	doc.Append(Entry{Timestamp: older, Command: "count -s ./src", ExitCode: 0})
	doc.Append(Entry{Timestamp: newer, Command: "list -s ./src", ExitCode: 1})

	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(reloaded.History))
	}

	newestFirst := reloaded.NewestFirst()
	if !newestFirst[0].Timestamp.Equal(newer) {
		t.Errorf("newest entry = %v, want %v", newestFirst[0].Timestamp, newer)
	}
}

func TestRunTemplateLookupAndTouch(t *testing.T) {
	doc := &Document{}
	doc.Add(RunTemplate{Name: "daily", Command: "count -s ./src -R"})

	if doc.Find("missing") != nil {
		t.Errorf("expected no template named missing")
	}
	when := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	doc.TouchLastRun("daily", when)

	tpl := doc.Find("daily")
	if tpl == nil || !tpl.LastRun.Equal(when) {
		t.Errorf("expected daily.LastRun = %v, got %+v", when, tpl)
	}
}
