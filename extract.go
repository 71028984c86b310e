package ndspacker

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExtractBinary converts an ELF's loadable content into a flat binary blob
// via objcopy. The intermediate file lives in a scoped temp directory that is
// removed before returning, error or not.
func ExtractBinary(tc Toolchain, path string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "ndspacker")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "out.bin")
	if _, err := runEcho(tc.Objcopy(), "-O", "binary", path, out); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("reading objcopy output: %w", err)
	}
	return data, nil
}
