// Package irq defines the basic interfaces for working with a 2A03
// interrupt line. A receiver of interrupts (IRQ/NMI) implements this
// interface so other components which generate them (the APU frame
// counter, the PPU vblank edge) can raise state without cross coupling
// component logic into the CPU.
// NOTE: real silicon distinguishes level (IRQ) from edge (NMI) triggered
//
//	lines but the interface here doesn't care; the CPU samples Raised()
//	at instruction boundaries and that's sufficient for this core.
package irq

// Sender defines the interface for an interrupt source.
type Sender interface {
	// Raised indicates whether the interrupt is currently held high.
	Raised() bool
}
