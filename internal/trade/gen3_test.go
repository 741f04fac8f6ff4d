package trade

import (
	"testing"

	"github.com/gblink/tradecore/internal/link"
)

func repeatWord(w uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = w
	}
	return out
}

func TestGen3MenuSelectionRequiresTenStableReads(t *testing.T) {
	adapter := link.NewFakeAdapter()
	adapter.Responses32 = repeatWord(uint32(Gen3SelectionBase)|gen3FlagInPartyTrading, 10)
	menu := Gen3Menu{Adapter: adapter}
	got := menu.Selection()
	if got&0xFF != uint32(Gen3SelectionBase) {
		t.Fatalf("Selection() low byte = %#x, want %#x", got&0xFF, Gen3SelectionBase)
	}
}

func TestGen3MenuSelectionAcceptsCancel(t *testing.T) {
	adapter := link.NewFakeAdapter()
	adapter.Responses32 = repeatWord(uint32(Gen3Cancel)|gen3FlagInPartyTrading, 10)
	menu := Gen3Menu{Adapter: adapter}
	if got := menu.Selection() & 0xFF; got != uint32(Gen3Cancel) {
		t.Fatalf("Selection() = %#x, want cancel %#x", got, Gen3Cancel)
	}
}

func TestGen3MenuSuccessStopsAtFailure(t *testing.T) {
	adapter := link.NewFakeAdapter()
	// First round reports the expected 0x90, second round immediately fails.
	adapter.Responses32 = append(repeatWord(0x90, 10), repeatWord(Gen3SuccessFail, 10)...)
	menu := Gen3Menu{Adapter: adapter}
	if got := menu.Success(); got != Gen3SuccessFail {
		t.Fatalf("Success() = %#x, want failure sentinel %#x", got, Gen3SuccessFail)
	}
}

func TestGen3MenuSuccessRunsFullSequenceOnAllPass(t *testing.T) {
	adapter := link.NewFakeAdapter()
	var responses []uint32
	for _, want := range gen3SuccessSequence {
		responses = append(responses, repeatWord(uint32(want), 10)...)
	}
	adapter.Responses32 = responses
	menu := Gen3Menu{Adapter: adapter}
	want := gen3SuccessSequence[len(gen3SuccessSequence)-1]
	if got := menu.Success(); got != want {
		t.Fatalf("Success() = %#x, want final round byte %#x", got, want)
	}
}
