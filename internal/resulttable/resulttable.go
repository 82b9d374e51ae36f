// Package resulttable implements the shared, mutex-guarded columnar
// store the harvester workers append their candidate rows into; it also
// holds extractor match rows for callers that add them with
// AppendMatches. Appending a worker's local rows is the only
// synchronization point in the worker-pool model of §5.
package resulttable

import "sync"

// Row is one candidate file emitted by the harvester (§4.6). Hash is
// zero unless the harvester was asked to compute content hashes (for
// duplicate-file detection); it is not part of the spec's base column
// set.
type Row struct {
	Path      string
	Size      int64
	Extension string
	Hash      uint64
}

// MatchRow is one matching line emitted by the pattern/regex extractor
// (§4.7).
type MatchRow struct {
	File         string
	Line         int
	Column       int
	PatternIndex int
	LineText     string
	ContextText  string
}

// Table is an append-only, thread-safe store. Its zero value is ready
// to use.
type Table struct {
	mu      sync.Mutex
	rows    []Row
	matches []MatchRow
}

// New returns an empty Table.
func New() *Table { return &Table{} }

// AppendRows adds a worker's local candidate rows under the table's
// mutex, preserving their relative order.
func (t *Table) AppendRows(rows []Row) {
	if len(rows) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rows...)
}

// AppendMatches adds a worker's local match rows under the table's
// mutex, preserving their relative order.
func (t *Table) AppendMatches(rows []MatchRow) {
	if len(rows) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.matches = append(t.matches, rows...)
}

// Rows returns a copy of every candidate row appended so far.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Matches returns a copy of every match row appended so far.
func (t *Table) Matches() []MatchRow {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]MatchRow, len(t.matches))
	copy(out, t.matches)
	return out
}

// Len reports the number of candidate rows currently held.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// MatchLen reports the number of match rows currently held.
func (t *Table) MatchLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.matches)
}

// DuplicateGroups groups rows by a non-zero Hash and returns only the
// groups with more than one member, in first-seen order — the result a
// "find duplicate files" report needs.
func DuplicateGroups(rows []Row) [][]Row {
	order := make([]uint64, 0)
	groups := make(map[uint64][]Row)
	for _, r := range rows {
		if r.Hash == 0 {
			continue
		}
		if _, ok := groups[r.Hash]; !ok {
			order = append(order, r.Hash)
		}
		groups[r.Hash] = append(groups[r.Hash], r)
	}
	var out [][]Row
	for _, h := range order {
		if len(groups[h]) > 1 {
			out = append(out, groups[h])
		}
	}
	return out
}

// MatchAllReduce groups rows by (File, Line) and keeps only groups whose
// distinct PatternIndex count equals patternCount, per §4.7's
// match-all reduction. The relative order of surviving rows is
// preserved.
func MatchAllReduce(rows []MatchRow, patternCount int) []MatchRow {
	type key struct {
		file string
		line int
	}
	seen := make(map[key]map[int]bool)
	for _, r := range rows {
		k := key{r.File, r.Line}
		if seen[k] == nil {
			seen[k] = make(map[int]bool)
		}
		seen[k][r.PatternIndex] = true
	}
	out := make([]MatchRow, 0, len(rows))
	for _, r := range rows {
		k := key{r.File, r.Line}
		if len(seen[k]) >= patternCount {
			out = append(out, r)
		}
	}
	return out
}
