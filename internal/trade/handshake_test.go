package trade

import (
	"testing"

	"github.com/gblink/tradecore/internal/link"
)

func TestStateStringNamesEveryMacroState(t *testing.T) {
	cases := map[State]string{
		StateEnteringRoom: "entering_room",
		StateSitting:      "sitting",
		StateStarting:     "starting_sequence",
		StateMenu:         "menu",
		StateEndTrade:     "end_trade",
		State(99):         "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestEnterRoomDrivesGen1SentinelsToCompletion(t *testing.T) {
	adapter := link.NewFakeAdapter(Gen1Sentinels.EnterAccept...)
	EnterRoom(adapter, Gen1Sentinels)
	if len(adapter.Written) != len(Gen1Sentinels.EnterSend) {
		t.Fatalf("wrote %d bytes, want %d", len(adapter.Written), len(Gen1Sentinels.EnterSend))
	}
	for i, want := range Gen1Sentinels.EnterSend {
		if adapter.Written[i] != want {
			t.Fatalf("Written[%d] = %#x, want %#x", i, adapter.Written[i], want)
		}
	}
}

func TestSitAtTableDrivesGen2SentinelsToCompletion(t *testing.T) {
	adapter := link.NewFakeAdapter(Gen2Sentinels.SitAccept...)
	SitAtTable(adapter, Gen2Sentinels)
	if len(adapter.Written) != len(Gen2Sentinels.SitSend) {
		t.Fatalf("wrote %d bytes, want %d", len(adapter.Written), len(Gen2Sentinels.SitSend))
	}
}

func TestEndTradeDrainsUntilZero(t *testing.T) {
	adapter := link.NewFakeAdapter(Gen1Sentinels.EndTradeByte, Gen1Sentinels.EndTradeByte, 0x00)
	EndTrade(adapter, Gen1Sentinels)
	if len(adapter.Written) != 3 {
		t.Fatalf("wrote %d bytes, want 3", len(adapter.Written))
	}
}

func TestAwaitStableByteIgnoresFillerAndRequiresTenConsecutive(t *testing.T) {
	responses := make([]uint8, 0, 20)
	for i := 0; i < 9; i++ {
		responses = append(responses, 0x62)
	}
	responses = append(responses, 0xFE) // a single noisy read resets the run
	for i := 0; i < 10; i++ {
		responses = append(responses, 0x62)
	}
	adapter := link.NewFakeAdapter(responses...)
	got := AwaitStableByte(adapter, 0x00, 10, func(b uint8) bool { return b == 0x62 || b == 0x61 })
	if got != 0x62 {
		t.Fatalf("AwaitStableByte = %#x, want 0x62", got)
	}
	if len(adapter.Written) != len(responses) {
		t.Fatalf("consumed %d responses, want all %d", len(adapter.Written), len(responses))
	}
}
