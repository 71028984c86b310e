package ndspacker

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Image is one CPU's flat code blob plus the address execution starts at.
type Image struct {
	Entry uint32
	Data  []byte
}

// arm9LoadAddr pins the ARM9 RAM base. ndstool infers r9 from -e9, which is
// wrong for binaries linked above the RAM base, so it is always overridden.
const arm9LoadAddr = 0x2000000

// DefaultARM7 is the image used when no ARM7 binary is supplied: a single
// branch-to-self at the usual ARM7 entrypoint.
func DefaultARM7() Image {
	return Image{Entry: 0x2380000, Data: []byte{0xfe, 0xff, 0xff, 0xea}}
}

// Pack writes both blobs to scoped temp files and has ndstool assemble the
// ROM at out. The temp files are gone by the time it returns.
func Pack(s Settings, out string, arm9, arm7 Image) error {
	dir, err := os.MkdirTemp("", "ndspacker")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	saved9 := filepath.Join(dir, "arm9.tmp.bin")
	saved7 := filepath.Join(dir, "arm7.tmp.bin")
	if err := os.WriteFile(saved9, arm9.Data, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(saved7, arm7.Data, 0o644); err != nil {
		return err
	}

	_, err = runEcho("ndstool", ndstoolArgs(s, out, saved9, arm9.Entry, saved7, arm7.Entry)...)
	return err
}

func ndstoolArgs(s Settings, out, arm9Path string, arm9Entry uint32, arm7Path string, arm7Entry uint32) []string {
	return []string{
		"-c", out,
		"-9", arm9Path,
		"-7", arm7Path,
		// passing -e9 also sets r9 for some reason, so overwrite it
		"-e9", hexArg(arm9Entry), "-r9", hexArg(arm9LoadAddr),
		"-e7", hexArg(arm7Entry),
		"-g", s.GameCode, s.MakerCode, s.GameTitle, "1",
	}
}

func hexArg(v uint32) string {
	return "0x" + strconv.FormatUint(uint64(v), 16)
}

// PatchLogo splices a donor logo into an assembled ROM and fixes up the logo
// CRC field to the value the firmware insists on.
func PatchLogo(rom string, logo []byte) error {
	if len(logo) != logoSize {
		return fmt.Errorf("logo must be 0x%x bytes, got %d", logoSize, len(logo))
	}
	f, err := os.OpenFile(rom, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteAt(logo, offLogo); err != nil {
		return err
	}
	var crc [2]byte
	binary.LittleEndian.PutUint16(crc[:], LogoCRC)
	_, err = f.WriteAt(crc[:], offLogoCRC)
	return err
}
