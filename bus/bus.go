// Package bus implements the 2A03's memory-mapped address space: CPU reads
// and writes at a 16-bit address are routed to internal RAM, the PPU
// register stub, the APU/I-O register file, the CPU test-mode register
// stub, or the cartridge ROM via its mapper. Grounded on the teacher's
// memory.Bank-chain ownership model (atari2600/cart.go wires RAM+ROM
// behind a single Bank), adapted to the NES's memory map instead of the
// 2600's.
package bus

import (
	"github.com/go6502/nescore/apu"
	"github.com/go6502/nescore/memory"
	"github.com/go6502/nescore/ppu"
	"github.com/go6502/nescore/rom"
)

// Memory map region boundaries, per spec.md §3: RAM, PPU registers, the
// 24-byte APU/I-O register file, the CPU test-mode registers, then the
// cartridge.
const (
	ramStart   = 0x0000
	ramEnd     = 0x1FFF
	ppuStart   = 0x2000
	ppuEnd     = 0x3FFF
	ioStart    = 0x4000
	ioEnd      = 0x4017
	testStart  = 0x4018
	testEnd    = 0x401F
	cartStart  = 0x4020
)

// testModeStub stands in for the $4018-$401F CPU test-mode registers.
// Real hardware uses these for factory self-test; spec.md §4.3 requires
// them to return an implementation-defined value and never fault, the
// same contract as ppu.Stub, so it gets its own tiny device rather than
// being folded into apu.Registers' 24-byte ($4000-$4017) bank.
type testModeStub struct {
	last uint8
}

func (t *testModeStub) Read(addr uint16) uint8     { return t.last }
func (t *testModeStub) Write(addr uint16, val uint8) { t.last = val }
func (t *testModeStub) PowerOn()                   { t.last = 0 }

// Bus owns every device in the NES address space and dispatches CPU reads
// and writes to the right one. It satisfies the cpu.Memory interface
// (Read/Write) the cpu package expects, but is not itself a
// memory.Bank: it's the thing that owns Banks.
type Bus struct {
	ram      *memory.RAM
	ppu      *ppu.Stub
	apu      *apu.Registers
	testRegs *testModeStub
	rom      *rom.ROM
}

// New builds a Bus with freshly powered-on RAM, PPU stub, APU register
// file, and test-mode register stub. The cartridge is attached separately
// with LoadROM since a Bus can exist (for CPU-only unit tests) before any
// ROM is loaded.
func New() *Bus {
	b := &Bus{
		ram:      memory.NewRAM(),
		ppu:      &ppu.Stub{},
		apu:      &apu.Registers{},
		testRegs: &testModeStub{},
	}
	b.PowerOn()
	return b
}

// LoadROM attaches a cartridge. It must be called before any read/write
// in the $4020-$FFFF range.
func (b *Bus) LoadROM(r *rom.ROM) {
	b.rom = r
}

// PowerOn resets every owned device to its post-power-on state.
func (b *Bus) PowerOn() {
	b.ram.PowerOn()
	b.ppu.PowerOn()
	b.apu.PowerOn()
	b.testRegs.PowerOn()
}

// Read dispatches a CPU read to the owning device.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= ramEnd:
		return b.ram.Read(addr)
	case addr <= ppuEnd:
		return b.ppu.Read((addr - ppuStart) % 8)
	case addr <= ioEnd:
		return b.apu.Read(addr - ioStart)
	case addr <= testEnd:
		return b.testRegs.Read(addr - testStart)
	default:
		if b.rom == nil {
			return 0
		}
		return b.rom.ReadPRG(addr)
	}
}

// Write dispatches a CPU write to the owning device. Writes into the
// cartridge region are accepted and discarded when the ROM is pure
// PRG-ROM (no mapper registers are modeled beyond NROM, which has none).
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= ramEnd:
		b.ram.Write(addr, val)
	case addr <= ppuEnd:
		b.ppu.Write((addr-ppuStart)%8, val)
	case addr <= ioEnd:
		b.apu.Write(addr-ioStart, val)
	case addr <= testEnd:
		b.testRegs.Write(addr-testStart, val)
	default:
		// NROM has no mapper registers; cartridge-space writes are no-ops.
	}
}

// Read16 reads a little-endian word at addr, addr+1.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return hi<<8 | lo
}
