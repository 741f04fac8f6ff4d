package trade

import (
	"context"

	"github.com/gblink/tradecore/internal/negotiate"
)

// RunModeNegotiation runs the one-shot Buffered-vs-Synchronous agreement
// (C7) for this Mediator's tag family, returning the agreed Mode. It runs
// once at the start of a link session (§4.7).
func (m *Mediator) RunModeNegotiation(ctx context.Context, ownMode negotiate.Mode, prompt negotiate.PromptFunc) negotiate.Mode {
	n := &negotiate.Negotiator{
		Peer:    m.Peer,
		BufTag:  m.Tags.Buf,
		NegTag:  m.Tags.Neg,
		OwnMode: ownMode,
		Prompt:  prompt,
		Log:     m.Log,
	}
	return n.Negotiate(ctx)
}
