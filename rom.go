package ndspacker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// NDS cartridge header layout, little-endian throughout.
// Source: GBATEK, "DS Cartridge Header".
//
//	0x00-0x0B  game title (ASCII, zero padded)
//	0x0C-0x0F  game code
//	0x10-0x11  maker code
//	0x20  ARM9 rom offset    0x24  ARM9 entrypoint
//	0x28  ARM9 load address  0x2C  ARM9 size
//	0x30  ARM7 rom offset    0x34  ARM7 entrypoint
//	0x38  ARM7 load address  0x3C  ARM7 size
//	0xC0-0x15B  nintendo logo
//	0x15C-0x15D logo CRC16
const (
	offGameTitle = 0x00
	offGameCode  = 0x0C
	offMakerCode = 0x10
	offARM9Off   = 0x20
	offARM9Entry = 0x24
	offARM9Load  = 0x28
	offARM9Size  = 0x2C
	offARM7Off   = 0x30
	offARM7Entry = 0x34
	offARM7Load  = 0x38
	offARM7Size  = 0x3C
	offLogo      = 0xC0
	logoSize     = 0x9C
	offLogoCRC   = offLogo + logoSize

	headerSize = 0x160

	// LogoCRC is the CRC16 of the official logo bitmap. The firmware rejects
	// anything else.
	LogoCRC = 0xCF56
)

var ErrTruncated = errors.New("truncated ROM image")

// ReadARM7 lifts the ARM7 entrypoint and code blob out of a raw ROM image.
func ReadARM7(raw []byte) (uint32, []byte, error) {
	if len(raw) < headerSize {
		return 0, nil, fmt.Errorf("%w: %d bytes is not even a header", ErrTruncated, len(raw))
	}
	entry := binary.LittleEndian.Uint32(raw[offARM7Entry:])
	off := binary.LittleEndian.Uint32(raw[offARM7Off:])
	size := binary.LittleEndian.Uint32(raw[offARM7Size:])

	end := uint64(off) + uint64(size)
	if end > uint64(len(raw)) {
		return 0, nil, fmt.Errorf("%w: ARM7 blob claims [0x%x:0x%x] of a 0x%x byte image",
			ErrTruncated, off, end, len(raw))
	}
	return entry, raw[off:end], nil
}

// Logo returns a donor ROM's logo bitmap for splicing into a packed ROM.
func Logo(raw []byte) ([]byte, error) {
	if len(raw) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is not even a header", ErrTruncated, len(raw))
	}
	return raw[offLogo : offLogo+logoSize], nil
}

// Region describes where one CPU's code lives in the ROM and in RAM.
type Region struct {
	RomOffset uint32
	Entry     uint32
	LoadAddr  uint32
	Size      uint32
}

// Header is the decoded, user-facing part of a cartridge header.
type Header struct {
	GameTitle string
	GameCode  string
	MakerCode string
	ARM9      Region
	ARM7      Region
}

// ParseHeader decodes the header fields this tool knows about.
func ParseHeader(raw []byte) (*Header, error) {
	if len(raw) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is not even a header", ErrTruncated, len(raw))
	}
	le := binary.LittleEndian
	return &Header{
		GameTitle: strings.TrimRight(string(raw[offGameTitle:offGameTitle+12]), "\x00"),
		GameCode:  string(raw[offGameCode : offGameCode+4]),
		MakerCode: string(raw[offMakerCode : offMakerCode+2]),
		ARM9: Region{
			RomOffset: le.Uint32(raw[offARM9Off:]),
			Entry:     le.Uint32(raw[offARM9Entry:]),
			LoadAddr:  le.Uint32(raw[offARM9Load:]),
			Size:      le.Uint32(raw[offARM9Size:]),
		},
		ARM7: Region{
			RomOffset: le.Uint32(raw[offARM7Off:]),
			Entry:     le.Uint32(raw[offARM7Entry:]),
			LoadAddr:  le.Uint32(raw[offARM7Load:]),
			Size:      le.Uint32(raw[offARM7Size:]),
		},
	}, nil
}
