// Package stringpool implements the contiguous, length-prefixed string
// store described by the original gd::strings32 container: a single byte
// buffer holding many short strings back to back, each preceded by a
// 4-byte little-endian length and padded to a 4-byte boundary, supporting
// O(1) append and controlled in-place replace/erase.
package stringpool

import (
	"encoding/binary"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
)

const headerSize = 4 // length prefix, bytes

// align4 rounds n up to the next multiple of 4.
func align4(n int) int {
	return (n + 3) &^ 3
}

// blockSize returns the total aligned size (header + payload + pad) an
// entry of payload length n occupies.
func blockSize(n int) int {
	return align4(headerSize + n)
}

// Pool is a contiguous, length-prefixed, 4-byte-aligned string container.
// Not safe for concurrent use; callers scope ownership to one goroutine or
// wrap access with a mutex, per the original container's contract.
type Pool struct {
	buf      []byte
	usedSize int
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// UsedSize returns the number of live bytes in the pool; always a
// multiple of 4.
func (p *Pool) UsedSize() int { return p.usedSize }

// Capacity returns the pool's current backing capacity in bytes.
func (p *Pool) Capacity() int { return len(p.buf) }

func (p *Pool) grow(minExtra int) {
	needed := p.usedSize + minExtra
	if needed <= len(p.buf) {
		return
	}
	newCap := needed + needed/2
	if newCap < 64 {
		newCap = 64
	}
	newCap = align4(newCap)
	grown := make([]byte, newCap)
	copy(grown, p.buf[:p.usedSize])
	p.buf = grown
}

// Append writes view as a new entry and returns its byte offset.
func (p *Pool) Append(view string) int {
	block := blockSize(len(view))
	p.grow(block)

	offset := p.usedSize
	binary.LittleEndian.PutUint32(p.buf[offset:], uint32(len(view)))
	copy(p.buf[offset+headerSize:], view)
	// zero the pad bytes explicitly; grow() may reuse stale capacity.
	for i := offset + headerSize + len(view); i < offset+block; i++ {
		p.buf[i] = 0
	}
	p.usedSize += block
	return offset
}

// At returns a borrowed view of the string stored at offset. offset must
// be 4-byte-aligned and less than UsedSize(); violating that is a
// programmer error, matching the source container's debug-assert contract.
func (p *Pool) At(offset int) (string, error) {
	if offset < 0 || offset >= p.usedSize || offset%4 != 0 {
		return "", fcerrors.NewOverflowError("stringpool offset", p.usedSize, offset)
	}
	length := int(binary.LittleEndian.Uint32(p.buf[offset:]))
	start := offset + headerSize
	return string(p.buf[start : start+length]), nil
}

// Advance computes the offset of the entry immediately following the one
// at offset, using that entry's own length header.
func (p *Pool) Advance(offset int) int {
	length := int(binary.LittleEndian.Uint32(p.buf[offset:]))
	return offset + blockSize(length)
}

// Replace overwrites the entry at offset with newView, shifting the tail
// left or right as needed, and returns the (possibly unchanged) offset of
// the replaced entry.
func (p *Pool) Replace(offset int, newView string) (int, error) {
	if offset < 0 || offset >= p.usedSize || offset%4 != 0 {
		return 0, fcerrors.NewOverflowError("stringpool offset", p.usedSize, offset)
	}
	oldLen := int(binary.LittleEndian.Uint32(p.buf[offset:]))
	oldBlock := blockSize(oldLen)
	newBlock := blockSize(len(newView))
	delta := newBlock - oldBlock

	tailStart := offset + oldBlock
	tailLen := p.usedSize - tailStart

	if delta > 0 {
		p.grow(delta)
	}

	if delta != 0 && tailLen > 0 {
		copy(p.buf[tailStart+delta:tailStart+delta+tailLen], p.buf[tailStart:tailStart+tailLen])
	}

	binary.LittleEndian.PutUint32(p.buf[offset:], uint32(len(newView)))
	copy(p.buf[offset+headerSize:], newView)
	for i := offset + headerSize + len(newView); i < offset+newBlock; i++ {
		p.buf[i] = 0
	}

	p.usedSize += delta
	return offset, nil
}

// Erase removes the entry at offset, shifting the tail left by its block
// size.
func (p *Pool) Erase(offset int) error {
	if offset < 0 || offset >= p.usedSize || offset%4 != 0 {
		return fcerrors.NewOverflowError("stringpool offset", p.usedSize, offset)
	}
	length := int(binary.LittleEndian.Uint32(p.buf[offset:]))
	block := blockSize(length)
	tailStart := offset + block
	tailLen := p.usedSize - tailStart
	copy(p.buf[offset:offset+tailLen], p.buf[tailStart:tailStart+tailLen])
	p.usedSize -= block
	return nil
}

// Find does a linear scan comparing length first, then bytes, and returns
// the offset of the first match, or -1.
func (p *Pool) Find(view string) int {
	for it := p.Begin(); it.Valid(); it.Next() {
		if it.String() == view {
			return it.Offset()
		}
	}
	return -1
}

// Join concatenates every stored string with sep between them.
func (p *Pool) Join(sep string) string {
	return p.JoinFunc(sep, func(s string) (string, bool) { return s, true })
}

// JoinFunc concatenates stored strings with sep between them; cb may
// rewrite or skip (return ok=false) each entry.
func (p *Pool) JoinFunc(sep string, cb func(s string) (string, bool)) string {
	var out []byte
	first := true
	for it := p.Begin(); it.Valid(); it.Next() {
		s, ok := cb(it.String())
		if !ok {
			continue
		}
		if !first {
			out = append(out, sep...)
		}
		first = false
		out = append(out, s...)
	}
	return string(out)
}

// Iterator walks the pool forward from a given offset.
type Iterator struct {
	pool   *Pool
	offset int
}

// Begin returns an iterator positioned at the first entry.
func (p *Pool) Begin() Iterator {
	return Iterator{pool: p, offset: 0}
}

// Valid reports whether the iterator currently references a live entry.
func (it Iterator) Valid() bool {
	return it.offset < it.pool.usedSize
}

// String returns the current entry's value.
func (it Iterator) String() string {
	s, _ := it.pool.At(it.offset)
	return s
}

// Offset returns the current entry's byte offset.
func (it Iterator) Offset() int { return it.offset }

// Next advances the iterator to the following entry. Two iterators are
// equal only when their offsets and owning pool match.
func (it *Iterator) Next() {
	it.offset = it.pool.Advance(it.offset)
}
