// Package disassemble implements a linear 6502/2A03 disassembler built on
// top of cpu's decode table. Grounded on the teacher's
// disassemble/disassemble.go Step function: it does not follow control
// flow, so data bytes placed after a JMP are disassembled as instructions,
// and a byte inside another instruction's operand is shown only as part of
// that operand.
package disassemble

import (
	"fmt"

	"github.com/go6502/nescore/cpu"
)

// Memory is the subset of bus.Bus a disassembler needs to read bytes.
type Memory interface {
	Read(addr uint16) uint8
}

// Step disassembles the instruction at pc and returns its text and the
// number of bytes to advance pc by to reach the next instruction. It reads
// the opcode byte at pc plus the operand bytes its addressing mode needs
// (up to two past pc); an illegal opcode byte still advances by one byte
// so a linear walk can continue past it.
func Step(pc uint16, m Memory) (string, int) {
	opByte := m.Read(pc)
	entry, err := cpu.Decode(opByte)
	if err != nil {
		return fmt.Sprintf("$%04X: .byte $%02X (illegal)", pc, opByte), 1
	}

	bytes := make([]uint8, entry.Bytes())
	for i := range bytes {
		bytes[i] = m.Read(pc + uint16(i))
	}

	return fmt.Sprintf("$%04X: %s", pc, cpu.FormatInstruction(entry, bytes, pc)), entry.Bytes()
}
