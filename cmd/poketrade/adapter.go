package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/url"
	"os"

	"github.com/gorilla/websocket"

	"github.com/gblink/tradecore/internal/link"
)

// serialAdapter is the thinnest possible link.Adapter over an
// already-configured serial device node: the USB adapter's own
// wire/firmware protocol is an external collaborator out of scope for
// this package (§1 "Out of scope"), so this assumes the OS device file
// already presents a raw byte-exchange surface.
type serialAdapter struct {
	f *os.File
}

func openAdapter(port string) (link.Adapter, error) {
	if port == "" {
		return link.NewFakeAdapter(), nil
	}
	f, err := os.OpenFile(port, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", port, err)
	}
	return &serialAdapter{f: f}, nil
}

func (a *serialAdapter) Exchange(out uint8) uint8 {
	if _, err := a.f.Write([]byte{out}); err != nil {
		return link.NoData
	}
	buf := make([]byte, 1)
	if _, err := a.f.Read(buf); err != nil {
		return link.NoData
	}
	return buf[0]
}

func (a *serialAdapter) Exchange32(out uint32) uint32 {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, out)
	if _, err := a.f.Write(buf); err != nil {
		return link.NoData
	}
	if _, err := a.f.Read(buf); err != nil {
		return link.NoData
	}
	return binary.LittleEndian.Uint32(buf)
}

func (a *serialAdapter) SetVoltage(link.Voltage) {
	// voltage selection is a property of the USB adapter's own control
	// protocol, out of scope here (§1).
}

func (a *serialAdapter) Close() error {
	return a.f.Close()
}

func dialRelay(ctx context.Context, address, room string) (*websocket.Conn, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("room", room)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
