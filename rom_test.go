package ndspacker

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadARM7(t *testing.T) {
	raw := make([]byte, 0x10000)
	binary.LittleEndian.PutUint32(raw[0x30:], 0x4000)     // rom offset
	binary.LittleEndian.PutUint32(raw[0x34:], 0x02380000) // entrypoint
	binary.LittleEndian.PutUint32(raw[0x3C:], 0x100)      // size
	for i := 0; i < 0x100; i++ {
		raw[0x4000+i] = byte(i)
	}

	entry, blob, err := ReadARM7(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x02380000), entry)
	assert.Equal(t, raw[0x4000:0x4100], blob)
}

func TestReadARM7Truncated(t *testing.T) {
	for _, tt := range []struct {
		name string
		raw  func() []byte
	}{
		{
			name: "shorter than a header",
			raw:  func() []byte { return make([]byte, 0x40) },
		},
		{
			name: "blob past the end",
			raw: func() []byte {
				raw := make([]byte, 0x1000)
				binary.LittleEndian.PutUint32(raw[0x30:], 0x800)
				binary.LittleEndian.PutUint32(raw[0x3C:], 0x1000)
				return raw
			},
		},
		{
			name: "offset plus size overflows 32 bits",
			raw: func() []byte {
				raw := make([]byte, 0x1000)
				binary.LittleEndian.PutUint32(raw[0x30:], 0xFFFFFFFF)
				binary.LittleEndian.PutUint32(raw[0x3C:], 0xFFFFFFFF)
				return raw
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadARM7(tt.raw())
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}

func TestReadARM7Empty(t *testing.T) {
	raw := make([]byte, 0x1000)
	entry, blob, err := ReadARM7(raw)
	require.NoError(t, err)
	assert.Zero(t, entry)
	assert.Empty(t, blob)
}

func TestParseHeader(t *testing.T) {
	raw := make([]byte, 0x10000)
	copy(raw[0x00:], "NDSPACKER")
	copy(raw[0x0C:], "ENAE")
	copy(raw[0x10:], "01")
	binary.LittleEndian.PutUint32(raw[0x20:], 0x4000)
	binary.LittleEndian.PutUint32(raw[0x24:], 0x02000450)
	binary.LittleEndian.PutUint32(raw[0x28:], 0x02000000)
	binary.LittleEndian.PutUint32(raw[0x2C:], 0x8000)
	binary.LittleEndian.PutUint32(raw[0x30:], 0xC000)
	binary.LittleEndian.PutUint32(raw[0x34:], 0x02380000)
	binary.LittleEndian.PutUint32(raw[0x38:], 0x02380000)
	binary.LittleEndian.PutUint32(raw[0x3C:], 0x100)

	h, err := ParseHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, "NDSPACKER", h.GameTitle)
	assert.Equal(t, "ENAE", h.GameCode)
	assert.Equal(t, "01", h.MakerCode)
	assert.Equal(t, Region{RomOffset: 0x4000, Entry: 0x02000450, LoadAddr: 0x02000000, Size: 0x8000}, h.ARM9)
	assert.Equal(t, Region{RomOffset: 0xC000, Entry: 0x02380000, LoadAddr: 0x02380000, Size: 0x100}, h.ARM7)

	_, err = ParseHeader(raw[:0x100])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestLogo(t *testing.T) {
	raw := make([]byte, 0x1000)
	for i := 0; i < logoSize; i++ {
		raw[offLogo+i] = byte(i ^ 0x5A)
	}

	logo, err := Logo(raw)
	require.NoError(t, err)
	assert.Len(t, logo, logoSize)
	assert.Equal(t, raw[0xC0:0xC0+0x9C], logo)

	_, err = Logo(raw[:0x80])
	assert.ErrorIs(t, err, ErrTruncated)
}
