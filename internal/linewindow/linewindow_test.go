package linewindow

import "testing"

func feed(w *Window, chunk string) {
	n := copy(w.Buffer(), chunk)
	w.Update(n)
}

func TestGetLineWholeLines(t *testing.T) {
	w := New(64)
	feed(w, "line1")
	if _, ok := w.GetLine(); ok {
		t.Fatalf("expected no line yet (no terminator)")
	}
	feed(w, "\nline2\n")

	line1, ok := w.GetLine()
	if !ok || line1 != "line1\n" {
		t.Fatalf("expected %q, got %q ok=%v", "line1\n", line1, ok)
	}
	line2, ok := w.GetLine()
	if !ok || line2 != "line2\n" {
		t.Fatalf("expected %q, got %q ok=%v", "line2\n", line2, ok)
	}
	if _, ok := w.GetLine(); ok {
		t.Fatalf("expected no further line")
	}
}

func TestEOFYieldsFinalUnterminatedLine(t *testing.T) {
	w := New(64)
	feed(w, "trailing, no newline")
	w.SetEOF()

	line, ok := w.GetLine()
	if !ok || line != "trailing, no newline" {
		t.Fatalf("expected final partial line, got %q ok=%v", line, ok)
	}
	if !w.EOF() {
		t.Errorf("expected EOF() true after consuming final line")
	}
}

func TestRotateAcrossRegionBoundary(t *testing.T) {
	w := New(8)
	// Fill past the first region without a terminator, forcing rotate to
	// matter once we do find one.
	feed(w, "01234567") // exactly one region, no newline
	if _, ok := w.GetLine(); ok {
		t.Fatalf("expected no line yet")
	}
	w.Rotate() // cursor is 0, still < regionSize: no-op
	feed(w, "89\n")

	line, ok := w.GetLine()
	if !ok || line != "0123456789\n" {
		t.Fatalf("expected contiguous line across region boundary, got %q ok=%v", line, ok)
	}
}

func TestConcatenationEqualsOriginalStream(t *testing.T) {
	w := New(16)
	stream := "alpha\nbeta\ngamma\n"
	feed(w, stream)
	w.SetEOF()

	var rebuilt string
	for {
		line, ok := w.GetLine()
		if !ok {
			break
		}
		rebuilt += line
	}
	if rebuilt != stream {
		t.Errorf("rebuilt stream = %q, want %q", rebuilt, stream)
	}
}
