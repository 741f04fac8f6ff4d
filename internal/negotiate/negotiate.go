// Package negotiate implements the Mode Negotiator (C7): a one-shot
// Buffered-vs-Synchronous agreement between peers over counter-tagged
// BUF/NEG messages, with a random-tiebreak round and a user callback for
// the losing side.
package negotiate

import (
	"context"
	"math/rand"

	"github.com/gblink/tradecore/internal/relay"
	"github.com/gblink/tradecore/pkg/log"
)

// Mode is the trade section-exchange strategy agreed on for the session.
type Mode uint8

const (
	ModeSynchronous Mode = 0x12
	ModeBuffered    Mode = 0x85
)

const maxTiebreakRounds = 10

// PromptFunc asks the user whether to accept the peer's proposed mode,
// presented with the peer's mode for display. Returning true accepts it.
type PromptFunc func(peerMode Mode) bool

// Negotiator runs the BUF/NEG handshake for one generation tag family
// (e.g. "BUF2"/"NEG2").
type Negotiator struct {
	Peer     *relay.Client
	BufTag   string
	NegTag   string
	OwnMode  Mode
	Prompt   PromptFunc
	Log      log.Logger
	RandomU8 func() uint8 // overridable for tests; defaults to math/rand
}

func (n *Negotiator) randomU8() uint8 {
	if n.RandomU8 != nil {
		return n.RandomU8()
	}
	return uint8(rand.Intn(256))
}

func (n *Negotiator) logger() log.Logger {
	if n.Log != nil {
		return n.Log
	}
	return log.NewNullLogger()
}

// Negotiate pre-populates the BUF outbox with our mode, waits for the
// peer's BUF value, and — if the modes disagree — runs the random
// tiebreak over NEG until they converge or the round cap is hit, at
// which point Synchronous is the default (§4.7, Error taxonomy (f)).
func (n *Negotiator) Negotiate(ctx context.Context) Mode {
	_ = n.Peer.Send(n.BufTag, []byte{byte(n.OwnMode)})

	peerMode, err := n.awaitPeerBuf(ctx)
	if err != nil {
		n.logger().Infof("negotiate: peer BUF never arrived, defaulting to synchronous: %v", err)
		n.OwnMode = ModeSynchronous
		return n.OwnMode
	}
	if peerMode == n.OwnMode {
		return n.OwnMode
	}

	for round := 0; round < maxTiebreakRounds; round++ {
		mine := n.randomU8()
		_ = n.Peer.SendWithCounter(n.NegTag, []byte{mine})

		theirs, ok := n.awaitPeerNeg(ctx)
		if !ok {
			continue
		}
		if theirs == mine {
			continue // tie, re-draw
		}

		if mine > theirs {
			// we win; our mode stands
			return n.OwnMode
		}

		// we lost: the peer's mode wins unless our prompt callback
		// refuses it.
		if n.Prompt == nil || n.Prompt(peerMode) {
			n.OwnMode = peerMode
		}
		_ = n.Peer.Send(n.BufTag, []byte{byte(n.OwnMode)})
		return n.OwnMode
	}

	n.logger().Infof("negotiate: failed to converge after %d rounds, defaulting to synchronous", maxTiebreakRounds)
	n.OwnMode = ModeSynchronous
	return n.OwnMode
}

func (n *Negotiator) awaitPeerBuf(ctx context.Context) (Mode, error) {
	raw, err := n.Peer.PollValue(ctx, n.BufTag)
	if err != nil || len(raw) < 1 {
		return 0, err
	}
	return Mode(raw[0]), nil
}

func (n *Negotiator) awaitPeerNeg(ctx context.Context) (uint8, bool) {
	raw, err := n.Peer.PollCounter(ctx, n.NegTag)
	if err != nil || len(raw) < 1 {
		return 0, false
	}
	return raw[0], true
}
