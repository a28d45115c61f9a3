// Package rom loads N64 ROM images into memory.
//
// Dumps circulate in three byte orders, distinguished by the first word of
// the PI configuration: big-endian (.z64, the cartridge-native order),
// 16-bit byte-swapped (.v64) and little-endian (.n64). Load normalizes all
// of them to big-endian, which is the order every table offset in this
// module refers to. Gzipped dumps are decompressed transparently.
package rom

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// HeaderSize is the size of the ROM header preceding the IPL3 boot code.
const HeaderSize = 0x40

// The first word of the PI configuration in each dump byte order.
const (
	magicBig     = 0x80371240 // z64
	magicSwapped = 0x37804012 // v64
	magicLittle  = 0x40123780 // n64
)

var ErrFormat = errors.New("rom: unrecognized image format")

// An Image is a whole ROM held in memory in big-endian byte order.
type Image struct {
	data []byte
}

// LoadFile reads the image at path. I/O failures are reported as
// *fs.PathError, distinct from format errors.
func LoadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load reads a whole image from r and normalizes its byte order.
func Load(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(2); err == nil && head[0] == 0x1f && head[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return load(zr)
	}
	return load(br)
}

func load(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFormat, len(data))
	}
	switch binary.BigEndian.Uint32(data) {
	case magicBig:
	case magicSwapped:
		swapHalfwords(data)
	case magicLittle:
		swapWords(data)
	default:
		return nil, fmt.Errorf("%w: first word %#08x", ErrFormat, binary.BigEndian.Uint32(data))
	}
	return &Image{data}, nil
}

// Bytes returns the image contents in big-endian order. The slice is shared,
// not copied; treat it as read-only.
func (img *Image) Bytes() []byte { return img.data }

// Size returns the image size in bytes.
func (img *Image) Size() int { return len(img.data) }

func swapHalfwords(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}

func swapWords(b []byte) {
	for i := 0; i+3 < len(b); i += 4 {
		b[i], b[i+3] = b[i+3], b[i]
		b[i+1], b[i+2] = b[i+2], b[i+1]
	}
}
