// Package extractor implements the pattern/regex line extractor (§4.7):
// for each candidate file, stream it through the line window, classify
// bytes with the syntactic state machine, and emit matching lines.
package extractor

import (
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"sync/atomic"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
	"github.com/standardbeagle/filecleaner/internal/linewindow"
	"github.com/standardbeagle/filecleaner/internal/resulttable"
	"github.com/standardbeagle/filecleaner/internal/syntax"
)

// windowRegionSize is the per-region size handed to linewindow.New; large
// enough that ordinary source lines never force a mid-line region grow.
const windowRegionSize = 64 * 1024

// Segment restricts which syntactic region a match must fall entirely
// within.
type Segment int

const (
	SegmentAll Segment = iota
	SegmentCode
	SegmentComment
	SegmentString
)

// Pattern is one literal or compiled-regex search term.
type Pattern struct {
	Literal string
	Regex   *regexp.Regexp
}

// NewLiteralPattern returns a literal substring pattern.
func NewLiteralPattern(s string) Pattern { return Pattern{Literal: s} }

// NewRegexPattern compiles expr and wraps it as a Pattern.
func NewRegexPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fcerrors.NewRegexError(expr, err)
	}
	return Pattern{Regex: re}, nil
}

func (p Pattern) findAll(line string) [][2]int {
	if p.Regex != nil {
		var out [][2]int
		for _, m := range p.Regex.FindAllStringIndex(line, -1) {
			out = append(out, [2]int{m[0], m[1]})
		}
		return out
	}
	if p.Literal == "" {
		return nil
	}
	var out [][2]int
	for start := 0; ; {
		idx := strings.Index(line[start:], p.Literal)
		if idx < 0 {
			break
		}
		out = append(out, [2]int{start + idx, start + idx + len(p.Literal)})
		start += idx + len(p.Literal)
	}
	return out
}

// Options configures one extraction pass over a set of files.
type Options struct {
	Patterns       []Pattern
	Segment        Segment
	MaxResults     int
	MatchAll       bool
	ContextBefore  int
	ContextAfter   int
}

// ExtractFile streams path through the harvester→line-window(C)→
// state-machine(D)→extractor(H) pipeline of §2/§4.7: a linewindow.Window
// double-buffers the file's bytes, syntax.Machine classifies each line,
// and matching lines are appended to out in increasing (line, column)
// order. The segment classification uses profile, which the caller
// resolves from the file's extension via syntax.ProfileForExtension.
func ExtractFile(ctx context.Context, path string, profile syntax.Profile, opts Options, cancelled *atomic.Bool) ([]resulttable.MatchRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fcerrors.NewIoError("open", path, err)
	}
	defer f.Close()

	m := syntax.New(profile)
	w := linewindow.New(windowRegionSize)

	var lines []string
	lineNo := 0
	var rows []resulttable.MatchRow

	for {
		line, ok := w.GetLine()
		if !ok {
			if w.EOF() {
				break
			}
			w.Rotate()
			n, rerr := f.Read(w.Buffer())
			if n > 0 {
				w.Update(n)
			}
			if rerr == io.EOF {
				w.SetEOF()
			} else if rerr != nil {
				return attachContext(rows, lines, opts), fcerrors.NewIoError("read", path, rerr)
			}
			continue
		}

		if cancelled != nil && cancelled.Load() {
			break
		}
		select {
		case <-ctx.Done():
			return attachContext(rows, lines, opts), ctx.Err()
		default:
		}

		lineNo++
		text := strings.TrimRight(line, "\r\n")
		lines = append(lines, text)

		spans, _ := m.Classify([]byte(text))

		maxed := false
		for pi, pat := range opts.Patterns {
			for _, rng := range pat.findAll(text) {
				if !inAllowedSegment(spans, rng[0], rng[1], opts.Segment) {
					continue
				}
				rows = append(rows, resulttable.MatchRow{
					File:         path,
					Line:         lineNo,
					Column:       rng[0],
					PatternIndex: pi,
					LineText:     text,
				})
				if opts.MaxResults > 0 && len(rows) >= opts.MaxResults {
					maxed = true
					break
				}
			}
			if maxed {
				break
			}
		}
		if maxed {
			break
		}
	}
	return attachContext(rows, lines, opts), nil
}

// CountLines streams path through the same line window as ExtractFile
// and returns the number of lines it yields (including a final
// unterminated line), matching the original CRowCount::Count's
// getline-based tally.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fcerrors.NewIoError("open", path, err)
	}
	defer f.Close()

	w := linewindow.New(windowRegionSize)
	count := 0
	for {
		_, ok := w.GetLine()
		if !ok {
			if w.EOF() {
				break
			}
			w.Rotate()
			n, rerr := f.Read(w.Buffer())
			if n > 0 {
				w.Update(n)
			}
			if rerr == io.EOF {
				w.SetEOF()
			} else if rerr != nil {
				return count, fcerrors.NewIoError("read", path, rerr)
			}
			continue
		}
		count++
	}
	return count, nil
}

func inAllowedSegment(spans []syntax.Span, start, end int, seg Segment) bool {
	if seg == SegmentAll {
		return true
	}
	for _, s := range spans {
		if s.Start <= start && end <= s.End {
			return kindMatchesSegment(s.Kind, seg)
		}
	}
	return false
}

func kindMatchesSegment(k syntax.Kind, seg Segment) bool {
	switch seg {
	case SegmentComment:
		return k == syntax.LineComment || k == syntax.BlockComment
	case SegmentString:
		return k == syntax.String || k == syntax.RawString
	default:
		return k == syntax.Code
	}
}

func attachContext(rows []resulttable.MatchRow, lines []string, opts Options) []resulttable.MatchRow {
	if opts.ContextBefore == 0 && opts.ContextAfter == 0 {
		return rows
	}
	out := make([]resulttable.MatchRow, len(rows))
	for i, r := range rows {
		lo := r.Line - 1 - opts.ContextBefore
		hi := r.Line - 1 + opts.ContextAfter
		if lo < 0 {
			lo = 0
		}
		if hi >= len(lines) {
			hi = len(lines) - 1
		}
		r.ContextText = strings.Join(lines[lo:hi+1], "\n")
		out[i] = r
	}
	return out
}
