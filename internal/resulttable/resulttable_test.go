package resulttable

import "testing"

func TestMatchAllReduceKeepsOnlyFullCoverage(t *testing.T) {
	rows := []MatchRow{
		{File: "a.go", Line: 1, PatternIndex: 0, LineText: "alpha"},
		{File: "a.go", Line: 2, PatternIndex: 0, LineText: "alpha beta"},
		{File: "a.go", Line: 2, PatternIndex: 1, LineText: "alpha beta"},
		{File: "a.go", Line: 3, PatternIndex: 1, LineText: "beta"},
	}
	got := MatchAllReduce(rows, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d: %+v", len(got), got)
	}
	for _, r := range got {
		if r.Line != 2 {
			t.Errorf("unexpected surviving row %+v", r)
		}
	}
}

func TestDuplicateGroupsIgnoresZeroHashAndSingletons(t *testing.T) {
	rows := []Row{
		{Path: "a", Hash: 0},
		{Path: "b", Hash: 111},
		{Path: "c", Hash: 111},
		{Path: "d", Hash: 222},
	}
	groups := DuplicateGroups(rows)
	if len(groups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %d: %+v", len(groups), groups)
	}
	if len(groups[0]) != 2 || groups[0][0].Path != "b" || groups[0][1].Path != "c" {
		t.Errorf("unexpected group contents: %+v", groups[0])
	}
}

func TestAppendRowsPreservesOrder(t *testing.T) {
	tbl := New()
	tbl.AppendRows([]Row{{Path: "a"}, {Path: "b"}})
	tbl.AppendRows([]Row{{Path: "c"}})
	got := tbl.Rows()
	want := []string{"a", "b", "c"}
	for i, r := range got {
		if r.Path != want[i] {
			t.Errorf("rows[%d] = %q, want %q", i, r.Path, want[i])
		}
	}
}
