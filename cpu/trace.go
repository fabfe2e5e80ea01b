package cpu

import "fmt"

// TraceLine renders the instruction about to execute in the nestest.log
// style described by spec.md §6: PC, raw opcode bytes, mnemonic and
// operand text, then the register file and total cycle count. It is a
// pure peek — it reads the bus for disassembly but does not advance PC,
// mutate registers, or consume a Step. Grounded on the column layout the
// teacher's cpu_test.go TestROMs parses back out of nestest.log.
func (c *Chip) TraceLine() string {
	pc := c.Reg.PC
	opByte := c.read(pc)
	entry, err := Decode(opByte)
	if err != nil {
		return fmt.Sprintf("%04X  %02X        ??? (illegal)", pc, opByte)
	}

	bytes := make([]uint8, entry.bytes)
	for i := range bytes {
		bytes[i] = c.read(pc + uint16(i))
	}

	var byteCols string
	for _, b := range bytes {
		byteCols += fmt.Sprintf("%02X ", b)
	}

	operandText := formatOperand(entry.mode, bytes, pc)

	return fmt.Sprintf("%04X  %-9s%s %-27s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		pc, byteCols, entry.ins.String(), operandText,
		c.Reg.A, c.Reg.X, c.Reg.Y, c.Reg.P, c.Reg.SP, c.TotalCycles)
}

// FormatInstruction renders "MNEMONIC operand" for a decoded opcode entry
// given its raw bytes (bytes[0] is the opcode byte itself) and the
// address it was read from, needed to resolve relative branch targets.
// Used by the disassemble package; TraceLine calls formatOperand directly.
func FormatInstruction(entry opcode, bytes []uint8, pc uint16) string {
	operand := formatOperand(entry.mode, bytes, pc)
	if operand == "" {
		return entry.ins.String()
	}
	return entry.ins.String() + " " + operand
}

// formatOperand renders the textual operand the way a disassembler would,
// given the raw instruction bytes (bytes[0] is the opcode itself) and the
// address of the opcode, needed to resolve relative branch targets.
func formatOperand(mode Mode, bytes []uint8, pc uint16) string {
	switch mode {
	case ModeImplied:
		return ""
	case ModeAccumulator:
		return "A"
	case ModeImmediate:
		return fmt.Sprintf("#$%02X", bytes[1])
	case ModeZeroPage:
		return fmt.Sprintf("$%02X", bytes[1])
	case ModeZeroPageX:
		return fmt.Sprintf("$%02X,X", bytes[1])
	case ModeZeroPageY:
		return fmt.Sprintf("$%02X,Y", bytes[1])
	case ModeAbsolute:
		return fmt.Sprintf("$%02X%02X", bytes[2], bytes[1])
	case ModeAbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", bytes[2], bytes[1])
	case ModeAbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", bytes[2], bytes[1])
	case ModeIndirect:
		return fmt.Sprintf("($%02X%02X)", bytes[2], bytes[1])
	case ModeIndirectX:
		return fmt.Sprintf("($%02X,X)", bytes[1])
	case ModeIndirectY:
		return fmt.Sprintf("($%02X),Y", bytes[1])
	case ModeRelative:
		off := int8(bytes[1])
		target := uint16(int32(pc) + int32(len(bytes)) + int32(off))
		return fmt.Sprintf("$%04X", target)
	}
	return ""
}
