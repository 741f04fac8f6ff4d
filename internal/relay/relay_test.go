package relay

import (
	"testing"
)

// loopbackConn pipes WriteMessage calls from one side into the other
// side's ReadMessage queue, letting two Clients talk to each other
// in-process without a real websocket server.
type loopbackConn struct {
	out    chan []byte
	in     chan []byte
	closed chan struct{}
}

func newLoopbackPair() (*loopbackConn, *loopbackConn) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	closedA := make(chan struct{})
	closedB := make(chan struct{})
	a := &loopbackConn{out: ab, in: ba, closed: closedA}
	b := &loopbackConn{out: ba, in: ab, closed: closedB}
	return a, b
}

func (c *loopbackConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.in:
		return 2, msg, nil
	case <-c.closed:
		return 0, nil, errClosed
	}
}

func (c *loopbackConn) WriteMessage(_ int, data []byte) error {
	buf := append([]byte(nil), data...)
	select {
	case c.out <- buf:
		return nil
	case <-c.closed:
		return errClosed
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

type simpleError string

func (e simpleError) Error() string { return string(e) }

const errClosed = simpleError("relay: loopback closed")

func TestSendAndReceiveRoundTrip(t *testing.T) {
	connA, connB := newLoopbackPair()
	a := New(connA, nil)
	b := New(connB, nil)
	defer a.Close()
	defer b.Close()

	if err := a.Send("VEC2", []byte{1, 2, 3}); err != nil {
		t.Fatalf("send: %v", err)
	}

	waitForTag(t, b, "VEC2")

	got := b.Peek("VEC2")
	if string(got) != "\x01\x02\x03" {
		t.Fatalf("got %v", got)
	}
}

func TestCounterWindowAcceptsFirstMessageAsSeed(t *testing.T) {
	connA, connB := newLoopbackPair()
	a := New(connA, nil)
	b := New(connB, nil)
	defer a.Close()
	defer b.Close()

	if err := a.SendWithCounter("CHC2", []byte{0x42}); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitForTag(t, b, "CHC2")

	body, ok := b.GetWithCounter("CHC2")
	if !ok {
		t.Fatalf("expected first counter-tagged message to be accepted as seed")
	}
	if string(body) != "\x42" {
		t.Fatalf("body = %v", body)
	}
}

func TestCounterWindowRejectsStaleMessage(t *testing.T) {
	if counterWindowAccepts(13, 12) {
		t.Fatalf("counter 12 behind expected 13 should be rejected")
	}
	if !counterWindowAccepts(13, 14) {
		t.Fatalf("counter 14 ahead of expected 13 should be accepted")
	}
}

func waitForTag(t *testing.T, c *Client, tag string) {
	t.Helper()
	for i := 0; i < 100000 && c.Peek(tag) == nil; i++ {
	}
	if c.Peek(tag) == nil {
		t.Fatalf("timed out waiting for tag %s", tag)
	}
}
