package trade

import (
	"context"
	"testing"
	"time"

	"github.com/gblink/tradecore/internal/link"
	"github.com/gblink/tradecore/internal/party"
	"github.com/gblink/tradecore/internal/relay"
)

func sectionWithOneRecord(moves, pp [4]uint8) ([]byte, func(slot int) []byte) {
	const recordSize = 44
	section := make([]byte, party.HeaderSize+recordSize)
	h := party.Header{Count: 1}
	h.Species[0] = 1
	party.WriteHeader(section, h)

	rec := party.Record{Species: 1, Moves: moves, PP: pp}
	party.WriteRecord(section[party.HeaderSize:party.HeaderSize+recordSize], rec, false)

	return section, func(slot int) []byte {
		off := party.HeaderSize + slot*recordSize
		return section[off : off+recordSize]
	}
}

func TestExchangeMvsSendsOurMovesWhenPeerNeedsData(t *testing.T) {
	connA, connB := newTradeLoopbackPair()
	peerA := relay.New(connA, nil)
	peerB := relay.New(connB, nil)
	defer peerA.Close()
	defer peerB.Close()

	adapter := link.NewFakeAdapter()
	mediator := NewMediator(adapter, peerA, nil, 1, nil)
	mediator.peerNeedData = true

	section, ourRecordAt := sectionWithOneRecord([4]uint8{0x39, 0x3A, 0, 0}, [4]uint8{10, 10, 0, 0})
	h := party.ParseHeader(section)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan []byte, 1)
	go func() {
		body, err := peerB.PollCounter(ctx, tagsFor('1').Mvs)
		if err != nil {
			close(done)
			return
		}
		done <- body
	}()

	if err := mediator.exchangeMvs(ctx, h, ourRecordAt); err != nil {
		t.Fatalf("exchangeMvs: %v", err)
	}
	if mediator.peerNeedData {
		t.Fatalf("peerNeedData should be cleared after sending")
	}

	body, ok := <-done
	if !ok || len(body) < 8 {
		t.Fatalf("peer did not receive MVS payload: %v", body)
	}
	want := []byte{0x39, 0x3A, 0, 0, 10, 10, 0, 0}
	for i, b := range want {
		if body[i] != b {
			t.Fatalf("MVS payload[%d] = %#x, want %#x", i, body[i], b)
		}
	}
}

func TestExchangeMvsReceivesPeerMovesWhenOwnNeedsData(t *testing.T) {
	connA, connB := newTradeLoopbackPair()
	peerA := relay.New(connA, nil)
	peerB := relay.New(connB, nil)
	defer peerA.Close()
	defer peerB.Close()

	adapter := link.NewFakeAdapter()
	mediator := NewMediator(adapter, peerA, nil, 1, nil)
	mediator.ownNeedData = true

	section, ourRecordAt := sectionWithOneRecord([4]uint8{1, 2, 3, 4}, [4]uint8{5, 5, 5, 5})
	h := party.ParseHeader(section)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		_ = peerB.SendWithCounter(tagsFor('1').Mvs, []byte{0x39, 0x3A, 0, 0, 10, 10, 0, 0})
	}()

	if err := mediator.exchangeMvs(ctx, h, ourRecordAt); err != nil {
		t.Fatalf("exchangeMvs: %v", err)
	}
	if mediator.ownNeedData {
		t.Fatalf("ownNeedData should be cleared after receiving")
	}

	rec := party.ParseRecord(ourRecordAt(0), false)
	if rec.Moves != ([4]uint8{0x39, 0x3A, 0, 0}) {
		t.Fatalf("moves not updated from MVS payload: %+v", rec.Moves)
	}
	if rec.PP != ([4]uint8{10, 10, 0, 0}) {
		t.Fatalf("PP not updated from MVS payload: %+v", rec.PP)
	}
}

func TestResetBlankFlagsStaysFalseWhilePendingMvs(t *testing.T) {
	adapter := link.NewFakeAdapter()
	peer := relay.New(&tradeLoopbackConn{out: make(chan []byte, 1), in: make(chan []byte, 1), closed: make(chan struct{})}, nil)
	defer peer.Close()

	mediator := NewMediator(adapter, peer, nil, 1, nil)

	mediator.ownNeedData = true
	mediator.resetBlankFlags()
	if mediator.ownBlankTrade || mediator.peerBlankTrade {
		t.Fatalf("blank flags should stay false while an MVS exchange is pending")
	}

	mediator.ownNeedData = false
	mediator.peerNeedData = false
	mediator.resetBlankFlags()
	if !mediator.ownBlankTrade || !mediator.peerBlankTrade {
		t.Fatalf("blank flags should reset true once nothing is pending")
	}
}
