// Command nescpu is the cobra-based front end for the 6502/2A03 core: it
// can run a ROM to a cycle budget, emit a nestest-style execution trace,
// or perform a linear disassembly walk over a ROM's PRG-ROM.
// Grounded on the corpus's cobra-based CLIs (oisee-z80-optimizer,
// bradford-hamilton/chippy) rather than stdlib flag, since every
// multi-subcommand tool in the example pack reaches for cobra.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/go6502/nescore/bus"
	"github.com/go6502/nescore/cpu"
	"github.com/go6502/nescore/disassemble"
	"github.com/go6502/nescore/rom"
)

var cycleBudget, traceBudget uint64

func main() {
	root := &cobra.Command{
		Use:   "nescpu",
		Short: "Run, trace, or disassemble NES 2A03 ROM images",
	}

	runCmd := &cobra.Command{
		Use:   "run <rom-file>",
		Short: "Execute a ROM for a bounded number of cycles",
		Args:  cobra.ExactArgs(1),
		RunE:  runROM,
	}
	runCmd.Flags().Uint64Var(&cycleBudget, "cycles", 1_000_000, "cycle budget before stopping")

	traceCmd := &cobra.Command{
		Use:   "trace <rom-file>",
		Short: "Execute a ROM, printing a nestest-style trace line per instruction",
		Args:  cobra.ExactArgs(1),
		RunE:  traceROM,
	}
	traceCmd.Flags().Uint64Var(&traceBudget, "cycles", 10_000, "cycle budget before stopping")

	disasmCmd := &cobra.Command{
		Use:   "disasm <rom-file>",
		Short: "Linearly disassemble a ROM's PRG-ROM starting at the reset vector",
		Args:  cobra.ExactArgs(1),
		RunE:  disasmROM,
	}

	root.AddCommand(runCmd, traceCmd, disasmCmd)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadROM(path string) (*bus.Bus, *rom.ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	image, err := rom.Load(data)
	if err != nil {
		return nil, nil, err
	}
	if !image.Supported() {
		return nil, nil, rom.ErrUnsupportedMapper{MapperID: image.MapperID}
	}
	b := bus.New()
	b.LoadROM(image)
	return b, image, nil
}

func runROM(cmd *cobra.Command, args []string) error {
	b, _, err := loadROM(args[0])
	if err != nil {
		return err
	}
	c := cpu.NewChip(b, nil, nil)
	c.PowerOn()
	for c.TotalCycles < cycleBudget {
		if _, err := c.Step(); err != nil {
			fmt.Printf("halted after %d cycles: %v\n", c.TotalCycles, err)
			return nil
		}
	}
	fmt.Printf("ran %d cycles, PC=$%04X\n", c.TotalCycles, c.Reg.PC)
	return nil
}

func traceROM(cmd *cobra.Command, args []string) error {
	b, _, err := loadROM(args[0])
	if err != nil {
		return err
	}
	c := cpu.NewChip(b, nil, nil)
	c.PowerOn()
	for c.TotalCycles < traceBudget {
		line := c.TraceLine()
		if _, err := c.Step(); err != nil {
			fmt.Println(line)
			fmt.Printf("halted: %v\n", err)
			return nil
		}
		fmt.Println(line)
	}
	return nil
}

func disasmROM(cmd *cobra.Command, args []string) error {
	_, image, err := loadROM(args[0])
	if err != nil {
		return err
	}
	b := bus.New()
	b.LoadROM(image)
	pc := b.Read16(0xFFFC)
	for i := 0; i < 4096 && pc < 0xFFFF; i++ {
		text, n := disassemble.Step(pc, b)
		fmt.Println(text)
		pc += uint16(n)
	}
	return nil
}
