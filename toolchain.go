package ndspacker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Toolchain identifies which ARM cross-toolchain provides the readelf and
// objcopy binaries used to pick apart input ELFs.
type Toolchain int

const (
	GNU  Toolchain = iota // arm-none-eabi-*
	LLVM                  // llvm-*
)

var toolPrefixes = map[Toolchain]string{
	GNU:  "arm-none-eabi-",
	LLVM: "llvm-",
}

var ErrNoToolchain = errors.New("can't find a valid readelf tool")

// FindToolchain probes the PATH for a usable cross-toolchain, preferring the
// GNU one. Resolve it once at startup and pass it to whatever needs to shell
// out.
func FindToolchain() (Toolchain, error) {
	for _, tc := range []Toolchain{GNU, LLVM} {
		if _, err := exec.LookPath(toolPrefixes[tc] + "readelf"); err == nil {
			return tc, nil
		}
	}
	return 0, ErrNoToolchain
}

func (tc Toolchain) String() string  { return strings.TrimSuffix(toolPrefixes[tc], "-") }
func (tc Toolchain) Readelf() string { return toolPrefixes[tc] + "readelf" }
func (tc Toolchain) Objcopy() string { return toolPrefixes[tc] + "objcopy" }

// runEcho runs an external tool, echoing the full command line first, and
// returns its stdout. The child's stderr is wired straight through to ours.
func runEcho(name string, args ...string) ([]byte, error) {
	fmt.Printf("running command: %s %s\n", name, strings.Join(args, " "))
	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out.Bytes(), nil
}
