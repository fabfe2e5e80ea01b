// Package ppu provides a minimal stand-in for the 2C02 PPU register
// window at $2000-$3FFF. Real PPU timing, rendering, and VRAM access are
// out of scope for this core; Stub exists only so the Bus has a well-
// defined, panic-free device to route that address range to, per the
// mapping spelled out in spec.md's memory map.
package ppu

// Stub implements the bus device interface for $2000-$3FFF. It accepts
// writes to any of the eight mirrored PPU registers, latching only the
// last byte written, and returns that byte on every read whatever the
// register. It never raises an interrupt and never panics.
type Stub struct {
	last uint8
}

// Read implements the bus device interface. addr is local to the PPU
// register window (already masked to 0-7 by the caller) and is not
// used; Stub always returns the last value written, or 0 before any
// write, which is a reasonable implementation-defined value for a device
// whose real semantics are out of scope.
func (s *Stub) Read(addr uint16) uint8 {
	return s.last
}

// Write implements the bus device interface.
func (s *Stub) Write(addr uint16, val uint8) {
	s.last = val
}

// PowerOn implements the bus device interface.
func (s *Stub) PowerOn() {
	s.last = 0
}
