package negotiate

import (
	"context"
	"testing"
	"time"

	"github.com/gblink/tradecore/internal/relay"
)

type loopbackConn struct {
	out    chan []byte
	in     chan []byte
	closed chan struct{}
}

func newLoopbackPair() (*loopbackConn, *loopbackConn) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	a := &loopbackConn{out: ab, in: ba, closed: make(chan struct{})}
	b := &loopbackConn{out: ba, in: ab, closed: make(chan struct{})}
	return a, b
}

func (c *loopbackConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.in:
		return 2, msg, nil
	case <-c.closed:
		return 0, nil, errClosed{}
	}
}

func (c *loopbackConn) WriteMessage(_ int, data []byte) error {
	buf := append([]byte(nil), data...)
	select {
	case c.out <- buf:
		return nil
	case <-c.closed:
		return errClosed{}
	}
}

func (c *loopbackConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

type errClosed struct{}

func (errClosed) Error() string { return "negotiate: loopback closed" }

func TestNegotiateAgreesImmediatelyWhenModesMatch(t *testing.T) {
	connA, connB := newLoopbackPair()
	a := relay.New(connA, nil)
	b := relay.New(connB, nil)
	defer a.Close()
	defer b.Close()

	negA := &Negotiator{Peer: a, BufTag: "BUF2", NegTag: "NEG2", OwnMode: ModeSynchronous}
	negB := &Negotiator{Peer: b, BufTag: "BUF2", NegTag: "NEG2", OwnMode: ModeSynchronous}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resultCh := make(chan Mode, 2)
	go func() { resultCh <- negA.Negotiate(ctx) }()
	go func() { resultCh <- negB.Negotiate(ctx) }()

	for i := 0; i < 2; i++ {
		if got := <-resultCh; got != ModeSynchronous {
			t.Fatalf("Negotiate = %v, want ModeSynchronous", got)
		}
	}
}

func TestNegotiateTiebreakHigherRollWins(t *testing.T) {
	connA, connB := newLoopbackPair()
	a := relay.New(connA, nil)
	b := relay.New(connB, nil)
	defer a.Close()
	defer b.Close()

	negA := &Negotiator{
		Peer: a, BufTag: "BUF2", NegTag: "NEG2", OwnMode: ModeBuffered,
		RandomU8: func() uint8 { return 200 },
	}
	negB := &Negotiator{
		Peer: b, BufTag: "BUF2", NegTag: "NEG2", OwnMode: ModeSynchronous,
		RandomU8: func() uint8 { return 50 },
		Prompt:   func(Mode) bool { return true },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resultA := make(chan Mode, 1)
	resultB := make(chan Mode, 1)
	go func() { resultA <- negA.Negotiate(ctx) }()
	go func() { resultB <- negB.Negotiate(ctx) }()

	gotA := <-resultA
	gotB := <-resultB
	if gotA != ModeBuffered {
		t.Fatalf("winner A = %v, want ModeBuffered", gotA)
	}
	if gotB != ModeBuffered {
		t.Fatalf("loser B should adopt winner's mode, got %v", gotB)
	}
}
