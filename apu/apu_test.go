package apu_test

import (
	"testing"

	"github.com/go6502/nescore/apu"
)

func TestPulseDutyDecoding(t *testing.T) {
	r := &apu.Registers{}
	r.Write(0, 0xBF) // 10 111111: duty=2, halt=1, const=1, vol=0xF
	d := r.Pulse1()
	if d.Duty != 2 {
		t.Fatalf("Duty = %d, want 2", d.Duty)
	}
	if !d.LengthHalt || !d.ConstantVol {
		t.Fatalf("LengthHalt/ConstantVol not decoded: %+v", d)
	}
	if d.VolumeOrEnv != 0x0F {
		t.Fatalf("VolumeOrEnv = $%X, want $F", d.VolumeOrEnv)
	}
}

func TestStatusRegDecoding(t *testing.T) {
	r := &apu.Registers{}
	r.Write(0x15, 0x1F)
	s := r.StatusReg()
	if !s.Pulse1Enable || !s.Pulse2Enable || !s.TriangleEnable || !s.NoiseEnable || !s.DMCEnable {
		t.Fatalf("all five channel enables should be set: %+v", s)
	}
}

func TestPowerOnZeroesRegisters(t *testing.T) {
	r := &apu.Registers{}
	r.Write(0, 0xFF)
	r.PowerOn()
	if got := r.Read(0); got != 0 {
		t.Fatalf("Read(0) after PowerOn = $%02X, want 0", got)
	}
}

// Registers only covers $4000-$4017 (24 bytes); an address past that
// must not panic even if a caller mistakenly passes one directly,
// since bus.Bus now routes $4018-$401F to its own test-mode stub and
// never forwards those addresses here itself.
func TestReadWriteOutOfRangeAddressDoesNotPanic(t *testing.T) {
	r := &apu.Registers{}
	r.Write(0x18, 0x55)
	if got := r.Read(0x18); got != 0x55 {
		t.Fatalf("Read(0x18) = $%02X, want $55", got)
	}
}
