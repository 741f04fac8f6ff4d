package trade

import "github.com/gblink/tradecore/internal/link"

// runSentinelHandshake sends each byte in send while expecting the
// cartridge to echo the matching accept set (§4.8's state table: "send
// [...]; accept [...]"), advancing to the next accept byte only once the
// current one is observed. This is the shared shape behind
// entering_room and sitting for Gen 1/2.
func runSentinelHandshake(adapter link.Adapter, send []uint8, accept []uint8) {
	for i, out := range send {
		want := out
		if i < len(accept) {
			want = accept[i]
		}
		for adapter.Exchange(out) != want {
		}
	}
}

// EnterRoom drives the Cable Club entry handshake (§4.8 "entering_room").
func EnterRoom(adapter link.Adapter, s Sentinels) {
	runSentinelHandshake(adapter, s.EnterSend, s.EnterAccept)
}

// SitAtTable drives the sit-at-table handshake (§4.8 "sitting").
func SitAtTable(adapter link.Adapter, s Sentinels) {
	runSentinelHandshake(adapter, s.SitSend, s.SitAccept)
}

// EndTrade drains sentinels until the cartridge acknowledges exit: send
// EndTradeByte until it echoes EndTradeByte, then keep sending it until
// the cartridge returns 0x00 (§4.8 "end_trade").
func EndTrade(adapter link.Adapter, s Sentinels) {
	for adapter.Exchange(s.EndTradeByte) != s.EndTradeByte {
	}
	for adapter.Exchange(s.EndTradeByte) != 0x00 {
	}
}

// AwaitStableByte polls the cartridge with filler until n consecutive
// reads return the same value satisfying valid, ignoring 0xFE/0x00
// (§4.8.1 step 1: "poll... until 10 consecutive reads return the same
// valid selection byte").
func AwaitStableByte(adapter link.Adapter, filler uint8, n int, valid func(uint8) bool) uint8 {
	var last uint8
	count := 0
	for {
		b := adapter.Exchange(filler)
		if b == 0xFE || b == 0x00 || !valid(b) {
			count = 0
			continue
		}
		if b == last {
			count++
		} else {
			last = b
			count = 1
		}
		if count >= n {
			return b
		}
	}
}
