// Package cpu implements the MOS 6502 core as used by the Ricoh 2A03
// (no decimal-mode ADC/SBC). It follows the single-shot fetch/decode/
// execute model: Step runs one full instruction and reports the cycles
// it consumed; Clock wraps that into a per-cycle countdown for callers
// that want to tick the bus one cycle at a time, per spec.md §4.6.2.
//
// Grounded on the teacher's cpu/cpu.go (Chip struct shape, PowerOn/Reset
// naming, irq.Sender-driven interrupt sampling, typed error values) with
// the teacher's per-opTick micro-state-machine generalised back down to
// the simpler model the original Rust source and spec.md both describe.
package cpu

import (
	"fmt"

	"github.com/go6502/nescore/irq"
)

// Memory is the subset of bus.Bus the CPU needs: a flat 16-bit address
// space with byte read/write. Defined here (rather than importing bus)
// so the cpu package has no dependency on bus, matching the teacher's
// memory.Bank boundary.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Registers is the 6502 register file: accumulator, index registers,
// program counter, stack pointer, and status flags.
type Registers struct {
	A  uint8
	X  uint8
	Y  uint8
	PC uint16
	SP uint8
	P  uint8
}

// InvalidCPUState reports an internal invariant violation — decoding
// succeeded but execution reached a state the core doesn't model.
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// HaltedError is returned by Step once the CPU has executed a HLT/JAM
// byte (InsInvalid after decode) and halted; the bus state is frozen
// and every subsequent Step call returns the same error.
type HaltedError struct {
	Opcode uint8
}

func (e HaltedError) Error() string {
	return fmt.Sprintf("cpu halted on opcode $%02X", e.Opcode)
}

// Chip is one 6502/2A03 core: its register file, the bus it addresses,
// and the two interrupt lines it samples at instruction boundaries.
type Chip struct {
	Reg Registers

	bus Memory
	irq irq.Sender
	nmi irq.Sender

	cyclesRemaining int
	TotalCycles     uint64

	Halted  bool
	haltErr error
	prevNMI bool
}

// NewChip builds a Chip wired to bus, with optional IRQ and NMI sources.
// Either may be nil, meaning that line is never raised.
func NewChip(bus Memory, irqSrc, nmiSrc irq.Sender) *Chip {
	return &Chip{bus: bus, irq: irqSrc, nmi: nmiSrc}
}

// PowerOn brings the chip up from cold: registers to their documented
// power-on state and PC loaded from the reset vector. For this core,
// power-on and reset converge on the same register state (matching the
// original implementation's reset(), which is the only initialization
// path it defines).
func (c *Chip) PowerOn() {
	c.Reset()
}

// Reset loads PC from the reset vector at $FFFC/$FFFD, zeroes A/X/Y, sets
// SP to $FD, and sets P to exactly FlagBreak with every other bit clear.
// This matches the original source's reset() precisely (`self.p = 0x00 |
// B as u8`) rather than the conventional "$34 on reset" some references
// describe; see DESIGN.md for the Open Question this resolves.
func (c *Chip) Reset() {
	c.Reg.A = 0
	c.Reg.X = 0
	c.Reg.Y = 0
	c.Reg.SP = 0xFD
	c.Reg.P = FlagBreak
	c.Reg.PC = c.read16(VectorReset)
	c.cyclesRemaining = 0
	c.TotalCycles = 0
	c.Halted = false
	c.haltErr = nil
	c.prevNMI = false
}

func (c *Chip) read(addr uint16) uint8     { return c.bus.Read(addr) }
func (c *Chip) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

func (c *Chip) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

// read16ZP reads a little-endian word from a zero-page pointer, wrapping
// the high-byte fetch within the zero page instead of crossing into
// page 1 — the behavior (ind,x) and (ind),y addressing depend on.
func (c *Chip) read16ZP(zp uint8) uint16 {
	lo := uint16(c.read(uint16(zp)))
	hi := uint16(c.read(uint16(zp + 1)))
	return hi<<8 | lo
}

// read16Bug reproduces the JMP (ind) page-boundary bug: when the pointer
// low byte is $FF, the high byte is fetched from the start of the same
// page rather than the next page.
func (c *Chip) read16Bug(ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.read(hiAddr))
	return hi<<8 | lo
}

func (c *Chip) push(v uint8) {
	c.write(stackBase+uint16(c.Reg.SP), v)
	c.Reg.SP--
}

func (c *Chip) pop() uint8 {
	c.Reg.SP++
	return c.read(stackBase + uint16(c.Reg.SP))
}

func (c *Chip) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *Chip) pop16() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

func (c *Chip) setZN(v uint8) {
	setFlag(&c.Reg.P, FlagZero, zeroCheck(v))
	setFlag(&c.Reg.P, FlagNegative, negativeCheck(v))
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// operand resolves the address an instruction operates on (for
// ModeImmediate, the address of the operand byte itself; for
// ModeImplied/ModeAccumulator, 0), advancing PC past any operand
// bytes. crossed reports whether AbsoluteX/AbsoluteY/IndirectY indexing
// crossed a page boundary, which costs an extra cycle on several
// instructions.
func (c *Chip) operand(mode Mode) (addr uint16, crossed bool) {
	switch mode {
	case ModeImplied, ModeAccumulator:
		return 0, false
	case ModeImmediate:
		addr = c.Reg.PC
		c.Reg.PC++
	case ModeZeroPage:
		addr = uint16(c.read(c.Reg.PC))
		c.Reg.PC++
	case ModeZeroPageX:
		base := c.read(c.Reg.PC)
		c.Reg.PC++
		addr = uint16(base + c.Reg.X)
	case ModeZeroPageY:
		base := c.read(c.Reg.PC)
		c.Reg.PC++
		addr = uint16(base + c.Reg.Y)
	case ModeAbsolute:
		addr = c.read16(c.Reg.PC)
		c.Reg.PC += 2
	case ModeAbsoluteX:
		base := c.read16(c.Reg.PC)
		c.Reg.PC += 2
		addr = base + uint16(c.Reg.X)
		crossed = pageCrossed(base, addr)
	case ModeAbsoluteY:
		base := c.read16(c.Reg.PC)
		c.Reg.PC += 2
		addr = base + uint16(c.Reg.Y)
		crossed = pageCrossed(base, addr)
	case ModeIndirect:
		ptr := c.read16(c.Reg.PC)
		c.Reg.PC += 2
		addr = c.read16Bug(ptr)
	case ModeIndirectX:
		zp := c.read(c.Reg.PC)
		c.Reg.PC++
		addr = c.read16ZP(zp + c.Reg.X)
	case ModeIndirectY:
		zp := c.read(c.Reg.PC)
		c.Reg.PC++
		base := c.read16ZP(zp)
		addr = base + uint16(c.Reg.Y)
		crossed = pageCrossed(base, addr)
	case ModeRelative:
		off := int8(c.read(c.Reg.PC))
		c.Reg.PC++
		addr = uint16(int32(c.Reg.PC) + int32(off))
	}
	return addr, crossed
}

// Step runs one full instruction: it samples pending interrupts, decodes
// the byte at PC, executes it, and returns the number of cycles the
// instruction consumed (including the extra cycle for a taken branch or
// a page crossing, where applicable). Once halted, Step keeps returning
// the original HaltedError without touching the bus again.
func (c *Chip) Step() (int, error) {
	if c.Halted {
		return 0, c.haltErr
	}

	if c.serviceInterrupts() {
		c.TotalCycles += interruptCycles
		return interruptCycles, nil
	}

	opByte := c.read(c.Reg.PC)
	entry, err := Decode(opByte)
	if err != nil {
		c.Halted = true
		c.haltErr = HaltedError{Opcode: opByte}
		return 0, c.haltErr
	}
	c.Reg.PC++

	addr, crossed := c.operand(entry.mode)
	extra := c.execute(entry.ins, entry.mode, addr)
	cycles := entry.cycles + extra
	if crossed && entry.pageCrossExtra {
		cycles++
	}
	c.TotalCycles += uint64(cycles)
	return cycles, nil
}

const interruptCycles = 7

// serviceInterrupts samples NMI (edge-triggered: fires once per rising
// edge) and IRQ (level-triggered, masked by the I flag) ahead of the
// next instruction fetch. It returns true if an interrupt was serviced,
// in which case the caller should not also fetch an opcode this Step.
func (c *Chip) serviceInterrupts() bool {
	nmiNow := c.nmi != nil && c.nmi.Raised()
	if nmiNow && !c.prevNMI {
		c.prevNMI = nmiNow
		c.runInterrupt(VectorNMI, false)
		return true
	}
	c.prevNMI = nmiNow

	if c.irq != nil && c.irq.Raised() && c.Reg.P&FlagIRQ == 0 {
		c.runInterrupt(VectorIRQ, false)
		return true
	}
	return false
}

// runInterrupt pushes PC and P and loads PC from vector. brk selects
// whether this is a software BRK (B set in the pushed copy of P) or a
// hardware NMI/IRQ line (B clear) — the conventional rule,
// chosen over the original source's double-toggle; see DESIGN.md.
func (c *Chip) runInterrupt(vector uint16, brk bool) {
	c.push16(c.Reg.PC)
	p := c.Reg.P | FlagUnused
	if brk {
		p |= FlagBreak
	} else {
		p &^= FlagBreak
	}
	c.push(p)
	setFlag(&c.Reg.P, FlagIRQ, true)
	c.Reg.PC = c.read16(vector)
}

// Clock ticks the chip by one bus cycle. When no instruction is mid-
// flight it fetches, decodes, and fully executes the next one, then
// counts down the cycles it reported across subsequent Clock calls —
// the caller sees the bus advance one cycle at a time even though
// execution itself happens atomically, per spec.md §4.6.2.
func (c *Chip) Clock() error {
	if c.cyclesRemaining == 0 {
		cycles, err := c.Step()
		if err != nil {
			return err
		}
		c.cyclesRemaining = cycles - 1
		return nil
	}
	c.cyclesRemaining--
	return nil
}
