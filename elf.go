package ndspacker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Binject/debug/elf"
)

// ELFHeaders holds the output of readelf -h as a flat map: keys are
// lowercased with spaces collapsed to underscores, values are trimmed of the
// column alignment readelf adds.
type ELFHeaders map[string]string

// ReadELFHeaders runs readelf -h on path and parses the dump.
func ReadELFHeaders(tc Toolchain, path string) (ELFHeaders, error) {
	out, err := runEcho(tc.Readelf(), "-h", path)
	if err != nil {
		return nil, err
	}
	return parseHeaderDump(string(out)), nil
}

// parseHeaderDump parses readelf -h output. The first line is always
// "ELF Header:"; every field line after it is "Key:   value".
func parseHeaderDump(dump string) ELFHeaders {
	headers := make(ELFHeaders)
	lines := strings.Split(dump, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}

// Machine returns the machine field, e.g. "ARM".
func (h ELFHeaders) Machine() (string, error) {
	m, ok := h["machine"]
	if !ok {
		return "", fmt.Errorf("readelf output has no machine field")
	}
	return m, nil
}

// EntryPoint parses the entry point field. readelf prints it as hex with a 0x
// prefix and whatever zero padding it feels like.
func (h ELFHeaders) EntryPoint() (uint32, error) {
	v, ok := h["entry_point_address"]
	if !ok {
		return 0, fmt.Errorf("readelf output has no entry point field")
	}
	ep, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad entry point %q: %w", v, err)
	}
	return uint32(ep), nil
}

// ReadImage pulls the entrypoint and flat binary out of an ELF via the
// cross-toolchain. When requireARM is set the machine type is verified first
// and nothing is extracted from an image that fails the check. The parsed
// headers come back alongside the image so callers can dump them.
func ReadImage(tc Toolchain, path string, requireARM bool) (Image, ELFHeaders, error) {
	headers, err := ReadELFHeaders(tc, path)
	if err != nil {
		return Image{}, nil, err
	}
	if requireARM {
		machine, err := headers.Machine()
		if err != nil {
			return Image{}, headers, err
		}
		if machine != "ARM" {
			return Image{}, headers, fmt.Errorf("this is %s, not ARM", machine)
		}
	}
	entry, err := headers.EntryPoint()
	if err != nil {
		return Image{}, headers, err
	}
	data, err := ExtractBinary(tc, path)
	if err != nil {
		return Image{}, headers, err
	}
	return Image{Entry: entry, Data: data}, headers, nil
}

// ELFInfo is the subset of an ELF's headers printed by the elf subcommand.
type ELFInfo struct {
	Class   string
	Machine string
	Entry   uint64
	Loads   []Segment
}

// Segment is one PT_LOAD program header.
type Segment struct {
	Vaddr  uint64
	Filesz uint64
	Memsz  uint64
}

// InspectELF reads an ELF's headers natively, no cross-toolchain required.
// Diagnostic only; the packing pipeline goes through readelf so that it sees
// exactly what the linker produced.
func InspectELF(path string) (*ELFInfo, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := &ELFInfo{
		Class:   f.Class.String(),
		Machine: f.Machine.String(),
		Entry:   f.Entry,
	}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		info.Loads = append(info.Loads, Segment{Vaddr: p.Vaddr, Filesz: p.Filesz, Memsz: p.Memsz})
	}
	return info, nil
}
