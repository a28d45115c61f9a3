package dmadata_test

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/n64kit/z64fs/dmadata"
)

// mkTable returns a buffer holding the given big-endian words starting at
// base, preceded by zero padding.
func mkTable(base uint32, words ...uint32) []byte {
	buf := make([]byte, int(base)+4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(buf[int(base)+4*i:], w)
	}
	return buf
}

func TestDecode(t *testing.T) {
	p := dmadata.Profile{TableOffset: 0x1000, EntryCount: 2, EntryStride: 16}
	buf := mkTable(0x1000,
		0x1000, 0x2000, 0x10_0000, 0, // stored uncompressed
		0x2000, 0x3000, 0x10_1000, 0x10_1800, // stored compressed
	)

	e, err := dmadata.Decode(buf, p, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := dmadata.Entry{Index: 0, VirtStart: 0x1000, VirtEnd: 0x2000, PhysStart: 0x10_0000}
	if !reflect.DeepEqual(e, want) {
		t.Errorf("got %+v, want %+v", e, want)
	}
	if e.Compressed() {
		t.Error("zero physical end decoded as compressed")
	}
	if e.Size() != 0x1000 {
		t.Errorf("size = %#x, want 0x1000", e.Size())
	}

	e, err = dmadata.Decode(buf, p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !e.Compressed() {
		t.Error("nonzero physical end decoded as uncompressed")
	}
	if e.Size() != 0x800 {
		t.Errorf("size = %#x, want 0x800", e.Size())
	}
}

func TestDecodeIdempotent(t *testing.T) {
	p := dmadata.Profile{TableOffset: 0, EntryCount: 1, EntryStride: 16}
	buf := mkTable(0, 0x1000, 0x2000, 0x3000, 0x3800)

	a, err1 := dmadata.Decode(buf, p, 0)
	b, err2 := dmadata.Decode(buf, p, 0)
	if err1 != nil || err2 != nil {
		t.Fatal(err1, err2)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two decodes differ: %+v != %+v", a, b)
	}
}

func TestDecodeErrors(t *testing.T) {
	p := dmadata.Profile{TableOffset: 0x10, EntryCount: 2, EntryStride: 16}
	buf := mkTable(0x10,
		0x1000, 0x2000, 0, 0,
		0x2000, 0x3000, 0, 0,
	)

	for _, tt := range []struct {
		name  string
		buf   []byte
		index uint32
		want  error
	}{
		{"index == count", buf, 2, dmadata.ErrInvalidIndex},
		{"index beyond count", buf, 100, dmadata.ErrInvalidIndex},
		{"one byte short", buf[:len(buf)-1], 1, dmadata.ErrBounds},
		{"empty buffer", nil, 0, dmadata.ErrBounds},
		{"virtual end before start", mkTable(0x10,
			0x2000, 0x1000, 0, 0,
			0, 0, 0, 0), 0, dmadata.ErrRange},
		{"physical end before start", mkTable(0x10,
			0x1000, 0x2000, 0x3000, 0x2000,
			0, 0, 0, 0), 0, dmadata.ErrRange},
	} {
		_, err := dmadata.Decode(tt.buf, p, tt.index)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		var entryErr *dmadata.EntryError
		if !errors.As(err, &entryErr) {
			t.Errorf("%s: error does not carry the entry index", tt.name)
		} else if entryErr.Index != tt.index {
			t.Errorf("%s: error index = %d, want %d", tt.name, entryErr.Index, tt.index)
		}
	}
}

func TestDecodeEmptyCompressedAmbiguity(t *testing.T) {
	// A compressed region of zero length reads exactly like the
	// uncompressed sentinel. The format defines it that way, so the
	// decoder must report it as uncompressed.
	p := dmadata.Profile{TableOffset: 0, EntryCount: 1, EntryStride: 16}
	buf := mkTable(0, 0x1000, 0x1000, 0, 0)

	e, err := dmadata.Decode(buf, p, 0)
	if err != nil {
		t.Fatal(err)
	}
	if e.Compressed() {
		t.Error("zero physical end must decode as uncompressed")
	}
	if e.Size() != 0 {
		t.Errorf("size = %d, want 0", e.Size())
	}
}

func TestDecodeExt(t *testing.T) {
	// Actor overlay tables use a 32 byte stride; the words beyond the
	// address block land in Ext.
	p := dmadata.Profile{TableOffset: 0, EntryCount: 1, EntryStride: 32}
	buf := mkTable(0,
		0x1000, 0x2000, 0x3000, 0x3800,
		0x8080_0000, 0x8080_1000, 0xdead_beef, 7,
	)

	e, err := dmadata.Decode(buf, p, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0x8080_0000, 0x8080_1000, 0xdead_beef, 7}
	if !reflect.DeepEqual(e.Ext, want) {
		t.Errorf("ext = %#v, want %#v", e.Ext, want)
	}
}

func TestAll(t *testing.T) {
	p := dmadata.Profile{TableOffset: 0, EntryCount: 3, EntryStride: 16}
	buf := mkTable(0,
		0x0000, 0x1000, 0, 0,
		0x2000, 0x1000, 0, 0, // malformed, must not stop the walk
		0x2000, 0x3000, 0, 0,
	)

	for range 2 { // restartable
		var got []uint32
		var errs int
		for e, err := range dmadata.All(buf, p) {
			got = append(got, e.Index)
			if err != nil {
				errs++
				if !errors.Is(err, dmadata.ErrRange) {
					t.Errorf("entry %d: got %v, want %v", e.Index, err, dmadata.ErrRange)
				}
			}
		}
		if !reflect.DeepEqual(got, []uint32{0, 1, 2}) {
			t.Errorf("indices = %v, want [0 1 2]", got)
		}
		if errs != 1 {
			t.Errorf("got %d errors, want 1", errs)
		}
	}
}

func TestAllEarlyBreak(t *testing.T) {
	p := dmadata.Profile{TableOffset: 0, EntryCount: 8, EntryStride: 16}
	buf := make([]byte, 8*16)

	var n int
	for range dmadata.All(buf, p) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("yielded %d entries after break, want 3", n)
	}
}

func TestDecodeNames(t *testing.T) {
	p := dmadata.Profile{TableOffset: 0, EntryCount: 3, EntryStride: 16}
	p, err := p.WithNames([]string{"makerom", "", "boot"})
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 3*16)

	want := []string{"makerom", "", "boot"}
	for e, err := range dmadata.All(buf, p) {
		if err != nil {
			t.Fatal(err)
		}
		if e.Name != want[e.Index] {
			t.Errorf("entry %d: name %q, want %q", e.Index, e.Name, want[e.Index])
		}
	}
}
