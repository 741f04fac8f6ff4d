//go:build linux

package relay

import (
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sys/unix"
)

// SampleRoundTrip reads the kernel's smoothed RTT estimate for the
// underlying TCP socket, for logging relay latency without adding a
// synthetic ping/pong exchange of our own. Returns an error on non-TCP
// transports (the fake Conn used in tests, or a websocket over some other
// net.Conn).
func (c *Client) SampleRoundTrip() (time.Duration, error) {
	ws, ok := c.conn.(*websocket.Conn)
	if !ok {
		return 0, fmt.Errorf("relay: underlying connection does not expose TCP_INFO")
	}
	tcpConn, ok := ws.UnderlyingConn().(*net.TCPConn)
	if !ok {
		return 0, fmt.Errorf("relay: underlying connection is not TCP")
	}
	raw, err := tcpConn.SyscallConn()
	if err != nil {
		return 0, err
	}
	var info *unix.TCPInfo
	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		info, ctrlErr = unix.IoctlGetTCPInfo(int(fd))
	})
	if err != nil {
		return 0, err
	}
	if ctrlErr != nil {
		return 0, ctrlErr
	}
	return time.Duration(info.Rtt) * time.Microsecond, nil
}
