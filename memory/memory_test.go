package memory_test

import (
	"testing"

	"github.com/go6502/nescore/memory"
)

func TestNew8BitRAMBankRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := memory.New8BitRAMBank(100); err == nil {
		t.Fatal("expected error for non-power-of-two size")
	}
}

func TestNew8BitRAMBankReadWrite(t *testing.T) {
	b, err := memory.New8BitRAMBank(256)
	if err != nil {
		t.Fatal(err)
	}
	b.Write(0x10, 0x42)
	if got := b.Read(0x10); got != 0x42 {
		t.Fatalf("Read(0x10) = $%02X, want $42", got)
	}
	if got := b.Read(0x110); got != 0x42 {
		t.Fatalf("Read(0x110) = $%02X, want $42 (masked into 256-byte bank)", got)
	}
}

func TestRAMMirrorsEvery0x800(t *testing.T) {
	r := memory.NewRAM()
	r.Write(0x0001, 0x7F)
	if got := r.Read(0x0801); got != 0x7F {
		t.Fatalf("Read(0x0801) = $%02X, want $7F (2 KiB mirror)", got)
	}
}

func TestRAMPowerOnZeroes(t *testing.T) {
	r := memory.NewRAM()
	r.Write(0, 0xFF)
	r.PowerOn()
	if got := r.Read(0); got != 0 {
		t.Fatalf("Read(0) after PowerOn = $%02X, want 0", got)
	}
}
