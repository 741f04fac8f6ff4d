// Package exchange implements the Section Exchanger (C6): the per-section
// preamble handshake with the cartridge, and the two section-transfer
// strategies — synchronous interleaved byte mediation and buffered local
// feed from a cached peer section.
//
// Grounded on the teacher's serial.Controller.Tick falling-edge polling
// idiom (poll until a state transition is observed) and on
// accessories.Printer's position-indexed receive loop for the per-byte
// state carried across exchange steps.
package exchange

import "github.com/gblink/tradecore/internal/link"

// Starter bytes for the section preamble (§4.6).
const (
	StarterSection = 0xFD
	StarterMail    = 0x20
)

// RunPreamble drives the cartridge through the starter handshake: send
// starter until it echoes starter, then keep sending starter until the
// response changes — that byte is the first payload byte.
func RunPreamble(adapter link.Adapter, starter uint8) uint8 {
	for adapter.Exchange(starter) != starter {
	}
	for {
		b := adapter.Exchange(starter)
		if b != starter {
			return b
		}
	}
}
