// Package relay implements the typed binary message queue over a duplex
// connection to the relay server (C2): SEND "S"|tag[4]|len[u16be]|payload,
// PULL "G"|tag[4]. It demultiplexes inbound frames by tag into a
// single-slot inbox (latest wins) and auto-replies to G requests with the
// current outbox value for that tag, mirroring the teacher's
// pkg/display/web.Client read/write pump pair, generalized from a
// many-client broadcast hub down to one duplex peer connection.
package relay

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gblink/tradecore/pkg/log"
)

const (
	frameSend = 'S'
	framePull = 'G'

	// TagLen is the fixed width of a peer-message tag (§3.1).
	TagLen = 4
)

// Conn is the minimal websocket surface Client needs, so tests can swap in
// a fake without dialing a real socket.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is the relay-facing peer endpoint: one duplex connection, demuxed
// by 4-character tag into last-value-per-tag inboxes/outboxes, plus the
// counter-tagged channel layered on top for sequenced operations (§4.2).
type Client struct {
	conn Conn
	log  log.Logger

	mu          sync.Mutex
	inbox       map[string][]byte
	outbox      map[string][]byte
	outCounter  map[string]uint8
	inCounter   map[string]uint8
	haveCounter map[string]bool

	closed chan struct{}
}

// Dial wraps an already-established websocket connection into a Client.
// Establishing the connection itself (address, room name, auth) is left
// to the caller, matching the teacher's separation of the hub's HTTP
// upgrade step from the per-client pump goroutines.
func Dial(conn *websocket.Conn, logger log.Logger) *Client {
	return New(conn, logger)
}

// New wraps any Conn (real or fake) into a Client and starts its read pump.
func New(conn Conn, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	c := &Client{
		conn:        conn,
		log:         logger,
		inbox:       make(map[string][]byte),
		outbox:      make(map[string][]byte),
		outCounter:  make(map[string]uint8),
		inCounter:   make(map[string]uint8),
		haveCounter: make(map[string]bool),
		closed:      make(chan struct{}),
	}
	go c.readPump()
	return c
}

// Close terminates the underlying connection and the read pump.
func (c *Client) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return c.conn.Close()
}

func validateTag(tag string) {
	if len(tag) != TagLen {
		panic(fmt.Sprintf("relay: tag %q must be %d characters", tag, TagLen))
	}
}

// Send frames payload under tag and writes it to the wire, and remembers it
// as the outbox value so a later G from the peer is answered immediately.
func (c *Client) Send(tag string, payload []byte) error {
	validateTag(tag)
	c.mu.Lock()
	c.outbox[tag] = append([]byte(nil), payload...)
	c.mu.Unlock()
	return c.writeFrame(tag, payload)
}

func (c *Client) writeFrame(tag string, payload []byte) error {
	frame := make([]byte, 0, 1+TagLen+2+len(payload))
	frame = append(frame, frameSend)
	frame = append(frame, []byte(tag)...)
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(payload)))
	frame = append(frame, lenBuf...)
	frame = append(frame, payload...)
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Pull requests the peer's latest value for tag and returns whatever is
// currently cached in the inbox (possibly nil if nothing has arrived yet).
// It does not block — callers poll.
func (c *Client) Pull(tag string) ([]byte, error) {
	validateTag(tag)
	if err := c.conn.WriteMessage(websocket.BinaryMessage, append([]byte{framePull}, []byte(tag)...)); err != nil {
		return nil, err
	}
	return c.Peek(tag), nil
}

// Peek returns the last cached inbox value for tag without sending a pull
// request, or nil if nothing has been received yet.
func (c *Client) Peek(tag string) []byte {
	validateTag(tag)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inbox[tag]
}

// counterWindowAccepts reports whether incoming counter c advances past
// expected within the 128-step window (§3.2 invariant 3).
func counterWindowAccepts(expected, c uint8) bool {
	return uint8(c-expected) <= 128
}

// SendWithCounter attaches and increments this Client's per-tag outbound
// counter, then sends (counter|body) under tag (§4.2).
func (c *Client) SendWithCounter(tag string, body []byte) error {
	c.mu.Lock()
	counter := c.outCounter[tag]
	c.outCounter[tag] = counter + 1
	c.mu.Unlock()

	payload := append([]byte{counter}, body...)
	return c.Send(tag, payload)
}

// GetWithCounter returns the inbox payload for tag (without its leading
// counter byte) only if its counter advances the expected inbound counter.
// The very first observed counter for a tag seeds "expected" rather than
// assuming the session starts at zero (Design Notes §9).
func (c *Client) GetWithCounter(tag string) (body []byte, ok bool) {
	validateTag(tag)
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, present := c.inbox[tag]
	if !present || len(raw) < 1 {
		return nil, false
	}
	counter := raw[0]

	if !c.haveCounter[tag] {
		c.haveCounter[tag] = true
		c.inCounter[tag] = counter
		// consumed — clear so a second call doesn't replay the same frame
		delete(c.inbox, tag)
		return append([]byte(nil), raw[1:]...), true
	}

	expected := c.inCounter[tag]
	if counter == expected {
		// self-reflection / stale repeat of the last accepted frame
		return nil, false
	}
	if !counterWindowAccepts(expected, counter) {
		c.log.Debugf("relay: dropping stale frame tag=%s counter=%d expected=%d", tag, counter, expected)
		return nil, false
	}

	c.inCounter[tag] = counter
	delete(c.inbox, tag)
	return append([]byte(nil), raw[1:]...), true
}

func (c *Client) readPump() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleFrame(msg)
	}
}

func (c *Client) handleFrame(msg []byte) {
	if len(msg) < 1 {
		return
	}
	switch msg[0] {
	case frameSend:
		if len(msg) < 1+TagLen+2 {
			return
		}
		tag := string(msg[1 : 1+TagLen])
		n := binary.BigEndian.Uint16(msg[1+TagLen : 1+TagLen+2])
		start := 1 + TagLen + 2
		if start+int(n) > len(msg) {
			return
		}
		payload := msg[start : start+int(n)]

		c.mu.Lock()
		c.inbox[tag] = append([]byte(nil), payload...)
		c.mu.Unlock()
	case framePull:
		if len(msg) < 1+TagLen {
			return
		}
		tag := string(msg[1 : 1+TagLen])
		c.mu.Lock()
		reply, ok := c.outbox[tag]
		c.mu.Unlock()
		if ok {
			if err := c.writeFrame(tag, reply); err != nil {
				c.log.Errorf("relay: auto-reply to G %s failed: %v", tag, err)
			}
		}
	}
}
