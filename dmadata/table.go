// Package dmadata decodes the DMA file table embedded in Nintendo 64 game
// ROMs.
//
// Games that stream their assets from cartridge keep a table of fixed-size
// entries near the start of the image. Each entry describes one region: the
// address range it occupies in the mapped (decompressed) address space and
// the offset range where it is stored in the raw image. A zero physical end
// offset marks the region as stored uncompressed; this is a sentinel defined
// by the ROM format itself, a genuinely empty compressed region reads the
// same way.
//
// Where the table lives and how many entries it has differs per release.
// A [Profile] captures these per-release parameters, see [Lookup] for the
// builtin ones.
package dmadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
)

// Decode errors, reported wrapped in an [EntryError].
var (
	ErrInvalidIndex = errors.New("index outside table")
	ErrBounds       = errors.New("buffer too short for entry")
	ErrRange        = errors.New("range end before start")
)

// EntryError records a failure to decode a single table entry.
type EntryError struct {
	Index uint32
	Err   error
}

func (e *EntryError) Error() string { return fmt.Sprintf("entry %d: %v", e.Index, e.Err) }
func (e *EntryError) Unwrap() error { return e.Err }

// entrySize is the size of the four address words every table variant
// carries. Larger strides carry extra words, see [Entry.Ext].
const entrySize = 16

// An Entry is one decoded row of a DMA file table.
type Entry struct {
	Index uint32
	Name  string // from the profile's name list, empty if unnamed

	VirtStart uint32 // VRAM, start of region in the mapped address space
	VirtEnd   uint32 // VRAM, end of region
	PhysStart uint32 // VROM, start of stored data in the raw image
	PhysEnd   uint32 // VROM, end of stored data, zero if uncompressed

	// Ext holds the extra big-endian words of table variants with a
	// stride beyond 16 bytes, e.g. actor overlay tables. Nil for plain
	// file tables.
	Ext []uint32
}

// Compressed reports whether the entry's data is stored compressed in the
// raw image.
func (e Entry) Compressed() bool { return e.PhysEnd != 0 }

// Size returns the entry's stored size in the raw image: the physical range
// for compressed entries, the virtual range otherwise.
func (e Entry) Size() uint32 {
	if e.Compressed() {
		return e.PhysEnd - e.PhysStart
	}
	return e.VirtEnd - e.VirtStart
}

// Decode decodes the table entry at index from buf. It is pure: identical
// inputs yield identical results and buf is never written. Failures are
// returned as [EntryError] wrapping [ErrInvalidIndex], [ErrBounds] or
// [ErrRange], and are never fatal to decoding the remaining entries.
func Decode(buf []byte, p Profile, index uint32) (Entry, error) {
	e := Entry{Index: index, Name: p.name(index)}
	if index >= p.EntryCount {
		return e, &EntryError{index, ErrInvalidIndex}
	}
	if p.EntryStride < entrySize {
		return e, &EntryError{index, fmt.Errorf("stride %d below entry size %d", p.EntryStride, entrySize)}
	}
	off := int64(p.TableOffset) + int64(index)*int64(p.EntryStride)
	end := off + int64(p.EntryStride)
	if end > int64(len(buf)) {
		return e, &EntryError{index, ErrBounds}
	}
	raw := buf[off:end]

	e.VirtStart = binary.BigEndian.Uint32(raw[0:])
	e.VirtEnd = binary.BigEndian.Uint32(raw[4:])
	e.PhysStart = binary.BigEndian.Uint32(raw[8:])
	e.PhysEnd = binary.BigEndian.Uint32(raw[12:])
	if n := (int(p.EntryStride) - entrySize) / 4; n > 0 {
		e.Ext = make([]uint32, n)
		for i := range e.Ext {
			e.Ext[i] = binary.BigEndian.Uint32(raw[entrySize+4*i:])
		}
	}

	if e.VirtEnd < e.VirtStart || (e.Compressed() && e.PhysEnd < e.PhysStart) {
		return Entry{Index: index, Name: e.Name}, &EntryError{index, ErrRange}
	}
	return e, nil
}

// All returns an iterator over every entry of the table in ascending index
// order. It always yields exactly p.EntryCount pairs: a malformed entry
// yields its error and iteration continues, so callers choose between
// aborting on the first error and collecting partial results. The sequence
// is restartable and safe for concurrent use over the same buf.
func All(buf []byte, p Profile) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for i := uint32(0); i < p.EntryCount; i++ {
			if !yield(Decode(buf, p, i)) {
				return
			}
		}
	}
}
