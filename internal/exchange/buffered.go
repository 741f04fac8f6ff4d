package exchange

import "github.com/gblink/tradecore/internal/link"

// Buffered feeds a previously received peer section to the cartridge one
// position at a time, bypassing per-byte peer I/O (§4.6 "Buffered mode").
// The caller has already assembled peerSection from a single FLL message
// (or a bundled default party for a ghost trade).
type Buffered struct {
	Adapter link.Adapter
}

// Run drives length positions, writing peerSection[i] to the cartridge
// and returning the cartridge's own bytes (discarded by most callers,
// but needed for the preamble's "first byte" handoff on subsequent
// sections).
func (b Buffered) Run(peerSection []byte, first uint8) (cartridgeBytes []byte) {
	length := len(peerSection)
	cartridgeBytes = make([]byte, length)
	if length == 0 {
		return cartridgeBytes
	}
	cartridgeBytes[0] = first
	for i := 0; i < length; i++ {
		next := b.Adapter.Exchange(peerSection[i])
		if i+1 < length {
			cartridgeBytes[i+1] = next
		}
	}
	return cartridgeBytes
}

// GhostDefaultParty returns a copy of tmpl sized to length, zero-padded
// or truncated, as ghost data for a buffered cycle with no real peer data
// yet (GLOSSARY "Ghost trade"). Nothing in this module calls it:
// trade.Mediator's buffered branch feeds a zero-filled section when it
// has no cached peer section, and performs no in-game cancellation.
func GhostDefaultParty(tmpl []byte, length int) []byte {
	out := make([]byte, length)
	n := copy(out, tmpl)
	_ = n
	return out
}
