package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/filecleaner/internal/resulttable"
)

// sortRows orders rows in place by key: "size", "ext", or the default
// "path". Unknown keys fall back to "path".
func sortRows(rows []resulttable.Row, key string) {
	switch key {
	case "size":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Size < rows[j].Size })
	case "ext":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Extension < rows[j].Extension })
	default:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	}
}

// paginate returns the page-th slice of pageSize rows (0-indexed).
// pageSize <= 0 disables pagination.
func paginate(rows []resulttable.Row, page, pageSize int) []resulttable.Row {
	if pageSize <= 0 {
		return rows
	}
	if page < 0 {
		page = 0
	}
	start := page * pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// statsSummary renders a per-extension file-count and byte-size
// breakdown for --stats.
func statsSummary(rows []resulttable.Row) string {
	counts := make(map[string]int)
	sizes := make(map[string]int64)
	var totalSize int64
	for _, r := range rows {
		ext := r.Extension
		if ext == "" {
			ext = "(none)"
		}
		counts[ext]++
		sizes[ext] += r.Size
		totalSize += r.Size
	}
	exts := make([]string, 0, len(counts))
	for ext := range counts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	var b strings.Builder
	fmt.Fprintf(&b, "%d files, %d bytes total\n", len(rows), totalSize)
	for _, ext := range exts {
		fmt.Fprintf(&b, "  %-10s %6d files %10d bytes\n", ext, counts[ext], sizes[ext])
	}
	return b.String()
}

// renderTable renders rows as a simple column-aligned table for
// --table.
func renderTable(rows []resulttable.Row) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-60s %10d  %s\n", r.Path, r.Size, r.Extension)
	}
	return b.String()
}
