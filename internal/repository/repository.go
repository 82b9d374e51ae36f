// Package repository implements the single-file, length-prefixed blob
// store described by the original gd::io repository stream: a fixed
// 32-byte header, a reserved directory of fixed-size entries, and a
// trailing content region. Offsets inside entries are relative to the
// start of the content region, not the file start.
package repository

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
)

// MagicNumber is both the sanity check and the version-0 file identifier.
// This is the literal value stated by the format specification; it is
// intentionally the byte-reverse of the historical C++ computation, which
// this format supersedes.
const MagicNumber uint64 = 0x2d2e2d2e2d2e2d2e

const (
	headerSize   = 32
	nameSize     = 260
	entrySize    = nameSize + 8 + 8 + 8 + 8 + 4 // name + offset + size + created + accessed + flags
	streamBuffer = 1 << 20                      // 1 MiB, per the compaction streaming contract
)

// Entry flags.
const (
	FlagValid           uint32 = 1 << 0
	FlagDeleted         uint32 = 1 << 1
	FlagMarkedForRemove uint32 = 1 << 2
)

// Entry mirrors one fixed-size directory record.
type Entry struct {
	Name     string
	Offset   uint64 // relative to the content region start
	Size     uint64
	Created  float64 // unix seconds
	Accessed float64
	Flags    uint32
}

func (e Entry) Valid() bool   { return e.Flags&FlagValid != 0 && e.Flags&FlagDeleted == 0 }
func (e Entry) Deleted() bool { return e.Flags&FlagDeleted != 0 }

// Repository is a single-writer, multi-reader file store. Concurrent
// Read/ReadToFile/List calls are safe against each other; any mutation
// (Add, Remove, Flush, Compact, Expand) requires the caller to hold
// exclusive access — this type performs no internal locking.
type Repository struct {
	file          *os.File
	path          string
	version       uint32
	maxEntryCount uint32
	entries       []Entry
}

func contentRegionStart(maxEntryCount uint32) int64 {
	return int64(headerSize) + int64(maxEntryCount)*int64(entrySize)
}

// Create writes a fresh header and a zeroed directory, overwriting any
// existing file at path.
func Create(path string, maxEntryCount uint32) (*Repository, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fcerrors.NewIoError("create", path, err)
	}
	r := &Repository{file: f, path: path, version: 0, maxEntryCount: maxEntryCount}
	if err := r.writeHeaderAndDirectory(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Open opens an existing repository read/write, validating the magic and
// version and loading the directory into memory.
func Open(path string) (*Repository, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fcerrors.NewIoError("open", path, err)
	}
	r := &Repository{file: f, path: path}
	if err := r.readHeaderAndDirectory(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) writeHeaderAndDirectory() error {
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(header[0:8], MagicNumber)
	binary.LittleEndian.PutUint32(header[8:12], r.version)
	binary.LittleEndian.PutUint32(header[12:16], r.maxEntryCount)
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(r.entries)))

	if _, err := r.file.WriteAt(header, 0); err != nil {
		return fcerrors.NewIoError("write", r.path, err)
	}

	dir := make([]byte, int(r.maxEntryCount)*entrySize)
	for i, e := range r.entries {
		encodeEntry(dir[i*entrySize:(i+1)*entrySize], e)
	}
	if _, err := r.file.WriteAt(dir, headerSize); err != nil {
		return fcerrors.NewIoError("write", r.path, err)
	}
	return nil
}

func (r *Repository) readHeaderAndDirectory() error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, header); err != nil {
		return fcerrors.NewBadFormatError(r.path, "truncated header")
	}
	magic := binary.LittleEndian.Uint64(header[0:8])
	if magic != MagicNumber {
		return fcerrors.NewBadFormatError(r.path, "bad magic")
	}
	r.version = binary.LittleEndian.Uint32(header[8:12])
	r.maxEntryCount = binary.LittleEndian.Uint32(header[12:16])
	used := binary.LittleEndian.Uint32(header[16:20])

	dir := make([]byte, int(r.maxEntryCount)*entrySize)
	if _, err := io.ReadFull(r.file, dir); err != nil {
		return fcerrors.NewBadFormatError(r.path, "truncated directory")
	}

	r.entries = make([]Entry, 0, used)
	for i := 0; i < int(r.maxEntryCount); i++ {
		raw := dir[i*entrySize : (i+1)*entrySize]
		e := decodeEntry(raw)
		if e.Flags == 0 && e.Name == "" {
			continue
		}
		r.entries = append(r.entries, e)
		if uint32(len(r.entries)) >= used {
			break
		}
	}
	return nil
}

func encodeEntry(dst []byte, e Entry) {
	copy(dst[0:nameSize], e.Name)
	for i := len(e.Name); i < nameSize; i++ {
		dst[i] = 0
	}
	off := nameSize
	binary.LittleEndian.PutUint64(dst[off:off+8], e.Offset)
	off += 8
	binary.LittleEndian.PutUint64(dst[off:off+8], e.Size)
	off += 8
	binary.LittleEndian.PutUint64(dst[off:off+8], math.Float64bits(e.Created))
	off += 8
	binary.LittleEndian.PutUint64(dst[off:off+8], math.Float64bits(e.Accessed))
	off += 8
	binary.LittleEndian.PutUint32(dst[off:off+4], e.Flags)
}

func decodeEntry(src []byte) Entry {
	nameEnd := 0
	for nameEnd < nameSize && src[nameEnd] != 0 {
		nameEnd++
	}
	name := string(src[0:nameEnd])
	off := nameSize
	offset := binary.LittleEndian.Uint64(src[off : off+8])
	off += 8
	size := binary.LittleEndian.Uint64(src[off : off+8])
	off += 8
	created := math.Float64frombits(binary.LittleEndian.Uint64(src[off : off+8]))
	off += 8
	accessed := math.Float64frombits(binary.LittleEndian.Uint64(src[off : off+8]))
	off += 8
	flags := binary.LittleEndian.Uint32(src[off : off+4])
	return Entry{Name: name, Offset: offset, Size: size, Created: created, Accessed: accessed, Flags: flags}
}

// Add appends bytes as a new entry named name. name must be shorter than
// 260 bytes.
func (r *Repository) Add(name string, data []byte) error {
	if len(name) >= nameSize {
		return fcerrors.NewOverflowError("repository entry name", nameSize-1, len(name))
	}
	if uint32(len(r.entries)) >= r.maxEntryCount {
		return fcerrors.NewOverflowError("repository directory", int(r.maxEntryCount), len(r.entries)+1)
	}

	insertOffset := uint64(0)
	for _, e := range r.entries {
		if e.Valid() {
			end := e.Offset + e.Size
			if end > insertOffset {
				insertOffset = end
			}
		}
	}

	absolute := contentRegionStart(r.maxEntryCount) + int64(insertOffset)
	if _, err := r.file.WriteAt(data, absolute); err != nil {
		return fcerrors.NewIoError("write", r.path, err)
	}

	now := float64(time.Now().Unix())
	r.entries = append(r.entries, Entry{
		Name:     name,
		Offset:   insertOffset,
		Size:     uint64(len(data)),
		Created:  now,
		Accessed: now,
		Flags:    FlagValid,
	})
	return nil
}

// AddFile reads path fully into memory and adds it under its base name.
func (r *Repository) AddFile(path string) error {
	return r.AddFileAs(path, filepath.Base(path))
}

// AddFileAs reads path fully into memory and adds it under name.
func (r *Repository) AddFileAs(path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fcerrors.NewIoError("read", path, err)
	}
	return r.Add(name, data)
}

func (r *Repository) findValid(name string) (int, *Entry) {
	for i := range r.entries {
		if r.entries[i].Name == name && r.entries[i].Valid() {
			return i, &r.entries[i]
		}
	}
	return -1, nil
}

// Find returns the directory index of the valid entry named name, or -1.
func (r *Repository) Find(name string) int {
	i, _ := r.findValid(name)
	return i
}

// Exists reports whether a valid entry named name is present.
func (r *Repository) Exists(name string) bool {
	return r.Find(name) >= 0
}

// Read returns the bytes stored under name.
func (r *Repository) Read(name string) ([]byte, error) {
	_, e := r.findValid(name)
	if e == nil {
		return nil, fcerrors.NewNotFoundError("repository entry", name)
	}
	absolute := contentRegionStart(r.maxEntryCount) + int64(e.Offset)
	buf := make([]byte, e.Size)
	if _, err := r.file.ReadAt(buf, absolute); err != nil {
		return nil, fcerrors.NewIoError("read", r.path, err)
	}
	return buf, nil
}

// ReadToFile reads the entry named name and writes it to dest.
func (r *Repository) ReadToFile(name, dest string) error {
	data, err := r.Read(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fcerrors.NewIoError("write", dest, err)
	}
	return nil
}

// Remove marks the entry named name as deleted; the on-disk bytes are not
// touched until Compact runs.
func (r *Repository) Remove(name string) error {
	i, e := r.findValid(name)
	if e == nil {
		return fcerrors.NewNotFoundError("repository entry", name)
	}
	r.entries[i].Flags |= FlagDeleted
	return nil
}

// RemoveIndex marks the entry at index as deleted.
func (r *Repository) RemoveIndex(index int) error {
	if index < 0 || index >= len(r.entries) {
		return fcerrors.NewNotFoundError("repository entry index", "")
	}
	r.entries[index].Flags |= FlagDeleted
	return nil
}

// List returns the names of every valid (non-deleted) entry, in
// insertion order.
func (r *Repository) List() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Valid() {
			out = append(out, e.Name)
		}
	}
	return out
}

// Size returns the number of valid entries.
func (r *Repository) Size() int {
	return len(r.List())
}

// Flush rewrites the header and directory to disk.
func (r *Repository) Flush() error {
	if err := r.writeHeaderAndDirectory(); err != nil {
		return err
	}
	return r.file.Sync()
}

// Close flushes and closes the underlying file.
func (r *Repository) Close() error {
	_ = r.Flush()
	return r.file.Close()
}

// Compact performs remove_entry_from_file: it streams the content of
// every non-deleted entry into a sibling temp file, recomputing offsets,
// then atomically renames the temp file over the original. This is the
// repository's only crash-tolerant operation; every other mutation is
// non-atomic and requires an explicit Flush.
//
// Canonical semantics (§9 Open Question): Compact always operates on
// every entry currently marked deleted, regardless of whether the caller
// additionally names indexes — naming indexes is only meaningful as a
// precondition check (the named entries must already be deleted), not as
// an alternate selection mechanism, since a single on-disk file cannot
// hold two different "the deleted set" truths at once.
func (r *Repository) Compact(indexes ...int) error {
	for _, idx := range indexes {
		if idx < 0 || idx >= len(r.entries) || !r.entries[idx].Deleted() {
			return fcerrors.NewBadFormatError(r.path, "compact: named index is not marked deleted")
		}
	}

	tmpPath := r.path + ".compact.tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fcerrors.NewIoError("create", tmpPath, err)
	}

	kept := make([]Entry, 0, len(r.entries))
	var writeOffset uint64
	buf := make([]byte, streamBuffer)

	contentStart := contentRegionStart(r.maxEntryCount)
	tmpContentStart := contentStart

	for _, e := range r.entries {
		if !e.Valid() {
			continue
		}
		srcAbs := contentStart + int64(e.Offset)
		dstAbs := tmpContentStart + int64(writeOffset)
		remaining := int64(e.Size)
		for remaining > 0 {
			chunk := int64(len(buf))
			if remaining < chunk {
				chunk = remaining
			}
			if _, err := r.file.ReadAt(buf[:chunk], srcAbs); err != nil {
				tmp.Close()
				os.Remove(tmpPath)
				return fcerrors.NewIoError("read", r.path, err)
			}
			if _, err := tmp.WriteAt(buf[:chunk], dstAbs); err != nil {
				tmp.Close()
				os.Remove(tmpPath)
				return fcerrors.NewIoError("write", tmpPath, err)
			}
			srcAbs += chunk
			dstAbs += chunk
			remaining -= chunk
		}
		e.Offset = writeOffset
		kept = append(kept, e)
		writeOffset += e.Size
	}

	compacted := &Repository{file: tmp, path: tmpPath, version: r.version, maxEntryCount: r.maxEntryCount, entries: kept}
	if err := compacted.writeHeaderAndDirectory(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fcerrors.NewIoError("close", tmpPath, err)
	}

	if err := r.file.Close(); err != nil {
		return fcerrors.NewIoError("close", r.path, err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fcerrors.NewIoError("rename", r.path, err)
	}

	reopened, err := Open(r.path)
	if err != nil {
		return err
	}
	*r = *reopened
	return nil
}

// Expand grows the directory's capacity to newMax, shifting the content
// region forward. Entry offsets are relative to the content region, so
// they stay unchanged and only the header and directory are rewritten.
// slack is reserved additional directory room beyond newMax
// that the caller anticipated needing soon, avoiding a second Expand.
func (r *Repository) Expand(newMax uint32, slack uint32) error {
	target := newMax + slack
	if target <= r.maxEntryCount {
		return nil
	}

	oldContentStart := contentRegionStart(r.maxEntryCount)
	newContentStart := contentRegionStart(target)
	delta := newContentStart - oldContentStart

	info, err := r.file.Stat()
	if err != nil {
		return fcerrors.NewIoError("stat", r.path, err)
	}
	oldContentLen := info.Size() - oldContentStart
	if oldContentLen < 0 {
		oldContentLen = 0
	}

	buf := make([]byte, streamBuffer)
	// Copy backward so source and destination ranges (which overlap when
	// delta < len) never clobber unread source bytes.
	var pos int64
	for pos < oldContentLen {
		chunk := int64(len(buf))
		if oldContentLen-pos < chunk {
			chunk = oldContentLen - pos
		}
		srcOff := oldContentLen - pos - chunk
		if _, err := r.file.ReadAt(buf[:chunk], oldContentStart+srcOff); err != nil {
			return fcerrors.NewIoError("read", r.path, err)
		}
		if _, err := r.file.WriteAt(buf[:chunk], newContentStart+srcOff); err != nil {
			return fcerrors.NewIoError("write", r.path, err)
		}
		pos += chunk
	}

	r.maxEntryCount = target
	_ = delta
	return r.writeHeaderAndDirectory()
}
