// Package linewindow implements the double-buffer sliding line reader
// described by the original gd::parse line window: two contiguous regions
// of size S, back to back in one allocation, so that any line terminator
// discovered at or near the region boundary can always be returned as a
// single contiguous view. Rotate() copies the live tail back to the start
// of the primary region once the read cursor crosses into the lookahead
// region, so the hot path never copies per line.
package linewindow

// Window is a double-buffer line reader. Any view returned by GetLine
// remains valid only until the next call to a mutating method (Update,
// GetLine, Rotate).
type Window struct {
	buf         []byte
	regionSize  int
	cursor      int // read position, absolute into buf
	lastValid   int // one past the last byte written, absolute into buf
	producerEOF bool
}

// New returns a window with two regions of size regionSize each.
func New(regionSize int) *Window {
	if regionSize < 1 {
		regionSize = 1
	}
	return &Window{
		buf:        make([]byte, regionSize*2),
		regionSize: regionSize,
	}
}

// Buffer returns a writable tail slice the producer (the reader) should
// fill, followed by a call to Update reporting how much was written.
func (w *Window) Buffer() []byte {
	return w.buf[w.lastValid:]
}

// Available returns the number of bytes the producer may currently write
// via the slice returned by Buffer.
func (w *Window) Available() int {
	return len(w.buf) - w.lastValid
}

// Update reports that the producer just wrote n bytes into the tail of
// Buffer(); advances the live-data boundary.
func (w *Window) Update(n int) {
	w.lastValid += n
}

// SetEOF records that the producer has no more bytes to offer.
func (w *Window) SetEOF() {
	w.producerEOF = true
}

// EOF reports whether the producer has signaled EOF and no bytes remain
// to be read.
func (w *Window) EOF() bool {
	return w.producerEOF && w.cursor >= w.lastValid
}

// GetLine attempts to yield the next line, including its terminator. It
// returns false when no whole line is present yet and the producer must
// supply more bytes (via Buffer/Update) before retrying.
func (w *Window) GetLine() (string, bool) {
	for i := w.cursor; i < w.lastValid; i++ {
		if w.buf[i] == '\n' {
			line := string(w.buf[w.cursor : i+1])
			w.cursor = i + 1
			return line, true
		}
	}
	// No terminator found. If the producer is done, the remaining tail
	// (if any) is the final, unterminated line.
	if w.producerEOF && w.cursor < w.lastValid {
		line := string(w.buf[w.cursor:w.lastValid])
		w.cursor = w.lastValid
		return line, true
	}
	return "", false
}

// Rotate copies the live tail (the bytes between cursor and lastValid)
// back to the start of the buffer once the cursor has crossed into the
// lookahead region, freeing the full two-region span for the producer
// again. Growing the backing buffer (rather than only rotating) happens
// here too, when a single line would not fit: either the buffer is full
// with no terminator while the cursor is still in the primary region, or
// the rotated tail alone fills a whole region.
func (w *Window) Rotate() {
	if w.cursor < w.regionSize {
		if w.lastValid == len(w.buf) {
			// No room left for the producer and nothing to rotate away.
			w.regionSize *= 2
			grown := make([]byte, w.regionSize*2)
			copy(grown, w.buf[:w.lastValid])
			w.buf = grown
		}
		return
	}
	tail := w.lastValid - w.cursor
	copy(w.buf[:tail], w.buf[w.cursor:w.lastValid])
	w.cursor = 0
	w.lastValid = tail

	if tail >= w.regionSize {
		// The live tail alone fills (or exceeds) one region: grow so the
		// producer still has a full region of lookahead space.
		w.regionSize *= 2
		grown := make([]byte, w.regionSize*2)
		copy(grown, w.buf[:w.lastValid])
		w.buf = grown
	}
}
