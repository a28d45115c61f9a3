// Package yaz0 implements the Yaz0 decompressor.
//
// Yaz0 is the LZ format used by first-party N64 titles for compressed ROM
// regions. A stream starts with a 16 byte header ("Yaz0" magic, big-endian
// decompressed size, 8 reserved bytes) followed by groups of eight coded
// blocks, each group preceded by a control byte read MSB first. A set bit
// copies one literal byte; a clear bit copies length bytes from distance
// bytes back in the output, where overlapping copies are allowed.
package yaz0

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const headerSize = 16

var (
	ErrMagic     = errors.New("yaz0: bad magic")
	ErrTruncated = errors.New("yaz0: truncated stream")
)

// IsCompressed reports whether b starts with the Yaz0 magic.
func IsCompressed(b []byte) bool {
	return len(b) >= 4 && string(b[:4]) == "Yaz0"
}

// Size returns the decompressed size recorded in the stream header.
func Size(b []byte) (uint32, error) {
	if len(b) < headerSize {
		return 0, ErrTruncated
	}
	if !IsCompressed(b) {
		return 0, ErrMagic
	}
	return binary.BigEndian.Uint32(b[4:8]), nil
}

// Decode decompresses a whole Yaz0 stream.
func Decode(src []byte) ([]byte, error) {
	size, err := Size(src)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, 0, size)
	pos := headerSize

	var ctl byte
	var bitsLeft int
	for uint32(len(dst)) < size {
		if bitsLeft == 0 {
			if pos >= len(src) {
				return nil, ErrTruncated
			}
			ctl = src[pos]
			pos++
			bitsLeft = 8
		}
		if ctl&0x80 != 0 {
			if pos >= len(src) {
				return nil, ErrTruncated
			}
			dst = append(dst, src[pos])
			pos++
		} else {
			if pos+1 >= len(src) {
				return nil, ErrTruncated
			}
			b1, b2 := src[pos], src[pos+1]
			pos += 2
			dist := (int(b1&0x0f)<<8 | int(b2)) + 1
			n := int(b1 >> 4)
			if n == 0 {
				// Extended length encoding for runs >= 0x12.
				if pos >= len(src) {
					return nil, ErrTruncated
				}
				n = int(src[pos]) + 0x12
				pos++
			} else {
				n += 2
			}
			from := len(dst) - dist
			if from < 0 {
				return nil, fmt.Errorf("yaz0: reference %d bytes before start of output", -from)
			}
			// Byte-wise on purpose: runs may overlap their own
			// output.
			for i := 0; i < n && uint32(len(dst)) < size; i++ {
				dst = append(dst, dst[from+i])
			}
		}
		ctl <<= 1
		bitsLeft--
	}
	return dst, nil
}
