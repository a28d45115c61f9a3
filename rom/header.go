package rom

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/japanese"
)

// A Header holds the decoded ROM header fields.
//
// https://n64brew.dev/wiki/ROM_Header
type Header struct {
	PIConfig        uint32 // PI BSD DOM1 configuration flags
	ClockRate       uint32
	BootAddress     uint32
	LibultraVersion uint32
	CheckCode       uint64
	Title           string // decoded from Shift-JIS, trailing padding removed
	CategoryCode    byte   // 'N' = Game Pak
	UniqueCode      string
	DestinationCode byte
	Version         byte
}

// Header decodes the image's ROM header.
func (img *Image) Header() Header {
	b := img.data[:HeaderSize]
	return Header{
		PIConfig:        binary.BigEndian.Uint32(b[0x00:]),
		ClockRate:       binary.BigEndian.Uint32(b[0x04:]),
		BootAddress:     binary.BigEndian.Uint32(b[0x08:]),
		LibultraVersion: binary.BigEndian.Uint32(b[0x0c:]),
		CheckCode:       binary.BigEndian.Uint64(b[0x10:]),
		Title:           decodeTitle(b[0x20:0x34]),
		CategoryCode:    b[0x3b],
		UniqueCode:      string(b[0x3c:0x3e]),
		DestinationCode: b[0x3e],
		Version:         b[0x3f],
	}
}

// decodeTitle decodes the 20 byte game title. Japanese releases use
// Shift-JIS here; for the ASCII subset the decode is the identity.
func decodeTitle(raw []byte) string {
	title, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		title = raw
	}
	return strings.TrimRight(string(title), " \x00")
}
