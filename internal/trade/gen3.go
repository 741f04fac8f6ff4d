package trade

import "github.com/gblink/tradecore/internal/link"

// Gen3 control-flag bits and menu byte values (§4.8.3). Separate from
// exchange.Gen3BlockTransfer's section-transfer constants, since the
// trade-menu framing reuses the flag bits for a different purpose
// (selection/accept/success rather than data/ask).
const (
	gen3FlagDone           uint32 = 0x20 << 24
	gen3FlagNotDone        uint32 = 0x40 << 24
	gen3FlagInPartyTrading uint32 = 0x80 << 24

	Gen3SelectionBase = 0x80
	Gen3SelectionEnd  = 0x85
	Gen3Cancel        = 0x8F

	Gen3AcceptRound1  = 0xA2
	Gen3DeclineRound1 = 0xA1
	Gen3AcceptRound2  = 0xB2
	Gen3DeclineRound2 = 0xB1

	Gen3SuccessFail = 0x9F
)

// gen3SuccessSequence is the seven-round success byte sequence
// (§4.8.3: "success sequence is seven rounds of 0x90..0x95,0x9C").
var gen3SuccessSequence = []uint8{0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x9C}

// Gen3Menu drives the Gen 3 32-bit framed trade-menu selection/accept
// sequence up to (but not including) the section transfer, which is
// handled by exchange.Gen3BlockTransfer.
type Gen3Menu struct {
	Adapter link.Adapter
}

// awaitStableWord polls with filler until n consecutive reads satisfy
// valid, mirroring AwaitStableByte for the 32-bit transport (§4.8.3:
// "confirmed only after 10 consecutive identical reads").
func (g Gen3Menu) awaitStableWord(filler uint32, n int, valid func(uint32) bool) uint32 {
	var last uint32
	count := 0
	for {
		w := g.Adapter.Exchange32(filler)
		if !valid(w) {
			count = 0
			continue
		}
		if w == last {
			count++
		} else {
			last = w
			count = 1
		}
		if count >= n {
			return w
		}
	}
}

// Selection waits for a stable selection word in [0x80, 0x85] or the
// cancel value 0x8F, tagged in_party_trading|done.
func (g Gen3Menu) Selection() uint32 {
	return g.awaitStableWord(gen3FlagInPartyTrading|gen3FlagDone, 10, func(w uint32) bool {
		v := w & 0xFF
		return (v >= Gen3SelectionBase && v <= Gen3SelectionEnd) || v == Gen3Cancel
	})
}

// AcceptDeclineRound waits for a stable accept/decline word for one of
// the two rounds ([0xA2,0xA1] then [0xB2,0xB1]).
func (g Gen3Menu) AcceptDeclineRound(accept, decline uint8) uint32 {
	return g.awaitStableWord(gen3FlagInPartyTrading|gen3FlagDone, 10, func(w uint32) bool {
		v := uint8(w & 0xFF)
		return v == accept || v == decline
	})
}

// Success runs the seven-round success confirmation, returning 0x9F if
// the cartridge signals failure at any round.
func (g Gen3Menu) Success() uint8 {
	for _, want := range gen3SuccessSequence {
		got := g.awaitStableWord(gen3FlagInPartyTrading|gen3FlagDone, 10, func(w uint32) bool {
			v := uint8(w & 0xFF)
			return v == want || v == Gen3SuccessFail
		})
		if uint8(got&0xFF) == Gen3SuccessFail {
			return Gen3SuccessFail
		}
	}
	return gen3SuccessSequence[len(gen3SuccessSequence)-1]
}
