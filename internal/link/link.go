// Package link drives the byte-level (Gen 1/2) or 32-bit word (Gen 3)
// exchange between the adapter and the original cartridge (C1). The wire
// protocol of the USB adapter itself is an external collaborator — this
// package only models the primitive the Mediator consumes.
package link

// Voltage selects the link port signalling level the adapter drives.
// Game Boy Color / Game Boy Advance link cables are 5V; the GBA's own
// multiboot/link hardware can also run at 3.3V depending on the peer.
type Voltage uint8

const (
	Voltage5V Voltage = iota
	Voltage3V3
)

// NoData is returned by Exchange/Exchange32 when the adapter read times
// out. A timeout is never surfaced as an error — it is indistinguishable
// from the cartridge's own "nothing to say yet" idle byte, and the
// Mediator's keep-alive polling loop is built to tolerate it (§4.1).
const NoData = 0x00

// Adapter is the byte/word exchange primitive the Mediator drives. The
// channel is half-duplex at the protocol level but symmetric: every call
// produces exactly one read back. Implementations are single-threaded
// from the caller's perspective — the Mediator never calls concurrently.
type Adapter interface {
	// Exchange writes out and returns the byte read back, for Gen 1/2.
	Exchange(out uint8) uint8
	// Exchange32 writes out and returns the word read back, for Gen 3.
	Exchange32(out uint32) uint32
	// SetVoltage selects the link port signalling level.
	SetVoltage(v Voltage)
	// Close releases the underlying USB/serial claim.
	Close() error
}
