package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v3"

	"github.com/nds-tools/ndspacker"
)

const outPath = "./rom.nds"

func main() {
	app := &cli.Command{
		Name:      "ndspacker",
		Usage:     "pack ARM9/ARM7 binaries into an NDS ROM container",
		ArgsUsage: "<path to ARM9> [<path to ARM7>]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "dump the parsed ELF headers",
			},
		},
		Action: pack,
		Commands: []*cli.Command{
			elfCmd(),
			romCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pack(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		_ = cli.ShowAppHelp(cmd)
		return fmt.Errorf("usage: %s <path to ARM9> <path to ARM7>", cmd.Name)
	}
	arm9Path := cmd.Args().Get(0)
	arm7Path := cmd.Args().Get(1)

	for _, p := range []string{arm9Path, arm7Path} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("no such file: %s", p)
		}
	}

	settings, err := ndspacker.LoadSettings(".")
	if err != nil {
		return err
	}
	tc, err := ndspacker.FindToolchain()
	if err != nil {
		return err
	}

	// ARM9 binaries are always ELF, straight out of gcc/rustc.
	fmt.Println("reading ARM9 binary...")
	arm9, err := readELFImage(cmd, tc, arm9Path, true)
	if err != nil {
		return err
	}
	fmt.Printf("ok! entrypoint is 0x%x\n", arm9.Entry)
	fmt.Printf("ARM9 image size: %d bytes\n", len(arm9.Data))

	// ARM7 binaries are either ELF if original, or lifted from a donor ROM.
	var (
		arm7      ndspacker.Image
		donorLogo []byte
	)
	switch {
	case arm7Path == "":
		arm7 = ndspacker.DefaultARM7()
	case strings.EqualFold(filepath.Ext(arm7Path), ".nds"):
		fmt.Println("stealing ARM7 rom image...")
		raw, err := os.ReadFile(arm7Path)
		if err != nil {
			return err
		}
		entry, data, err := ndspacker.ReadARM7(raw)
		if err != nil {
			return err
		}
		arm7 = ndspacker.Image{Entry: entry, Data: data}
		if settings.StealLogo {
			if donorLogo, err = ndspacker.Logo(raw); err != nil {
				return err
			}
		}
	default:
		fmt.Println("reading ARM7 binary...")
		if arm7, err = readELFImage(cmd, tc, arm7Path, false); err != nil {
			return err
		}
	}
	fmt.Printf("ok! entrypoint is 0x%x\n", arm7.Entry)
	fmt.Printf("ARM7 image size: %d bytes\n", len(arm7.Data))

	if err := ndspacker.Pack(settings, outPath, arm9, arm7); err != nil {
		return err
	}
	if donorLogo != nil {
		fmt.Println("writing fixed logo...")
		if err := ndspacker.PatchLogo(outPath, donorLogo); err != nil {
			return err
		}
	}
	return nil
}

// readELFImage wraps ndspacker.ReadImage with the verbose header dump. Only
// ARM9 images get the machine-type check; ARM7 ELFs are taken on faith.
func readELFImage(cmd *cli.Command, tc ndspacker.Toolchain, path string, checkMachine bool) (ndspacker.Image, error) {
	img, headers, err := ndspacker.ReadImage(tc, path, checkMachine)
	if cmd.Bool("verbose") && headers != nil {
		spew.Dump(headers)
	}
	return img, err
}

func elfCmd() *cli.Command {
	return &cli.Command{
		Name:      "elf",
		Usage:     "print an ELF's machine, entrypoint and load segments",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: ndspacker elf <file>")
			}
			info, err := ndspacker.InspectELF(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			fmt.Printf("machine:     %s (%s)\n", info.Machine, info.Class)
			fmt.Printf("entry point: 0x%x\n", info.Entry)
			for _, seg := range info.Loads {
				fmt.Printf("load: vaddr 0x%08x filesz 0x%x memsz 0x%x\n", seg.Vaddr, seg.Filesz, seg.Memsz)
			}
			return nil
		},
	}
}

func romCmd() *cli.Command {
	return &cli.Command{
		Name:      "rom",
		Usage:     "decode and print an NDS ROM's header",
		ArgsUsage: "<file.nds>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: ndspacker rom <file.nds>")
			}
			raw, err := os.ReadFile(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			h, err := ndspacker.ParseHeader(raw)
			if err != nil {
				return err
			}
			fmt.Printf("game title: %s\n", h.GameTitle)
			fmt.Printf("game code:  %s\n", h.GameCode)
			fmt.Printf("maker code: %s\n", h.MakerCode)
			printRegion("ARM9", h.ARM9)
			printRegion("ARM7", h.ARM7)
			return nil
		},
	}
}

func printRegion(name string, r ndspacker.Region) {
	fmt.Printf("%s: rom offset 0x%x, entry 0x%08x, load 0x%08x, size %d bytes\n",
		name, r.RomOffset, r.Entry, r.LoadAddr, r.Size)
}
