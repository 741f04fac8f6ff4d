package exchange

import (
	"encoding/binary"

	"github.com/gblink/tradecore/internal/link"
	"github.com/gblink/tradecore/internal/relay"
)

// sngSlot is one (position, value, extra) tuple inside an SNG frame
// (GLOSSARY "SNG slot").
type sngSlot struct {
	Pos   uint16
	Val   uint8
	Extra uint8
}

// sngFormat distinguishes the old 2-slot wire layout from the new 8-slot
// 32-byte layout; auto-detected from the first well-formed peer frame
// (§4.6).
type sngFormat int

const (
	sngFormatUnknown sngFormat = iota
	sngFormatOld
	sngFormatNew
)

const (
	oldSlotsPerFrame = 2
	newSlotsPerFrame = 8
	newFrameBytes    = 32
)

func encodeSNG(format sngFormat, slots []sngSlot) []byte {
	if format == sngFormatNew {
		buf := make([]byte, newFrameBytes)
		for i := 0; i < newSlotsPerFrame && i < len(slots); i++ {
			off := i * 4
			binary.BigEndian.PutUint16(buf[off:off+2], slots[i].Pos)
			buf[off+2] = slots[i].Val
			buf[off+3] = slots[i].Extra
		}
		return buf
	}
	buf := make([]byte, 1+oldSlotsPerFrame*3)
	if len(slots) > 0 {
		buf[0] = slots[0].Extra
	}
	for i := 0; i < oldSlotsPerFrame && i < len(slots); i++ {
		off := 1 + i*3
		binary.BigEndian.PutUint16(buf[off:off+2], slots[i].Pos)
		buf[off+2] = slots[i].Val
	}
	return buf
}

func decodeSNG(payload []byte) (sngFormat, []sngSlot) {
	if len(payload) == newFrameBytes {
		slots := make([]sngSlot, 0, newSlotsPerFrame)
		for i := 0; i < newSlotsPerFrame; i++ {
			off := i * 4
			slots = append(slots, sngSlot{
				Pos:   binary.BigEndian.Uint16(payload[off : off+2]),
				Val:   payload[off+2],
				Extra: payload[off+3],
			})
		}
		return sngFormatNew, slots
	}
	if len(payload) == 1+oldSlotsPerFrame*3 {
		slots := make([]sngSlot, 0, oldSlotsPerFrame)
		extra := payload[0]
		for i := 0; i < oldSlotsPerFrame; i++ {
			off := 1 + i*3
			slots = append(slots, sngSlot{
				Pos:   binary.BigEndian.Uint16(payload[off : off+2]),
				Val:   payload[off+2],
				Extra: extra,
			})
		}
		return sngFormatOld, slots
	}
	return sngFormatUnknown, nil
}

// keepAliveValue marks an SNG position as "no data yet" rather than a real
// payload byte (§4.6: "A position i with value 0xFE received from the peer
// is treated as keep-alive").
const keepAliveValue = 0xFE

// Synchronous drives one section's interleaved byte-for-byte mediation
// between the cartridge and peer (§4.6 "Synchronous (interleaved) mode").
// sectionIndex is carried in the SNG "extra" slot so the peer can tell
// which section a frame belongs to during the rendezvous phase.
type Synchronous struct {
	Adapter      link.Adapter
	Peer         *relay.Client
	Tag          string // e.g. "SNG2"
	Length       int
	SectionIndex uint8

	format sngFormat
	// peerKnown[i] is true once the peer's byte at position i has been
	// observed and is safe to feed to the cartridge.
	peerKnown []bool
	peerBytes []byte
}

// NewSynchronous prepares a Synchronous exchange for a section of the
// given length.
func NewSynchronous(adapter link.Adapter, peer *relay.Client, tag string, length int, sectionIndex uint8) *Synchronous {
	return &Synchronous{
		Adapter:      adapter,
		Peer:         peer,
		Tag:          tag,
		Length:       length,
		SectionIndex: sectionIndex,
		peerKnown:    make([]bool, length),
		peerBytes:    make([]byte, length),
	}
}

// pollPeer reads one SNG frame (if any is queued) and records its slots
// into peerKnown/peerBytes. 0xFE values are treated as keep-alive and
// never recorded as real data (§4.6).
func (s *Synchronous) pollPeer() {
	raw := s.Peer.Peek(s.Tag)
	if raw == nil {
		return
	}
	format, slots := decodeSNG(raw)
	if format == sngFormatUnknown {
		return
	}
	if s.format == sngFormatUnknown {
		s.format = format
	}
	for _, slot := range slots {
		if int(slot.Pos) >= s.Length {
			continue // completion marker, not section data
		}
		if slot.Val == keepAliveValue {
			continue
		}
		s.peerKnown[slot.Pos] = true
		s.peerBytes[slot.Pos] = slot.Val
	}
}

// gen2PoisonPositions are the Gen 2 section-1 byte offsets (441, 72, 171)
// that hold a literal 0xFD in certain cartridge states; relaying that
// value unchanged over SNG collides with the starter byte used by the
// preamble handshake on the peer's side, so it's rewritten to 0xFF before
// it ever leaves the wire — a cargo-culted but still-required safety net
// (§7(d), Design Notes open question 3). sanitizeOutgoingByte checks only
// the position, not the section index or generation, so these offsets are
// rewritten in every section a Synchronous exchange carries.
var gen2PoisonPositions = map[int]bool{441: true, 72: true, 171: true}

// sendOwn packs and sends our view of position pos (and a trailing window
// of the positions just before it, for redundancy) to the peer. Outgoing 0xFE bytes are
// replaced with 0xFF in the SNG payload only — never on the cartridge
// wire (§4.6); so is 0xFD at one of the known Gen 2 poison positions
// (§7(d)).
func (s *Synchronous) sendOwn(pos int, ownBytes []byte) {
	format := s.format
	if format == sngFormatUnknown {
		format = sngFormatNew
	}
	slotsPerFrame := oldSlotsPerFrame
	if format == sngFormatNew {
		slotsPerFrame = newSlotsPerFrame
	}

	slots := make([]sngSlot, 0, slotsPerFrame)
	for i := pos; i >= 0 && i < len(ownBytes) && len(slots) < slotsPerFrame; i-- {
		slots = append(slots, sngSlot{Pos: uint16(i), Val: sanitizeOutgoingByte(i, ownBytes[i]), Extra: s.SectionIndex})
	}
	_ = s.Peer.Send(s.Tag, encodeSNG(format, slots))
}

// sanitizeOutgoingByte rewrites the two values that collide with SNG's
// own framing bytes before they leave the wire: keep-alive's 0xFE, and
// 0xFD at a known Gen 2 poison position (§4.6, §7(d)). The cartridge
// itself still sees the original, unrewritten byte.
func sanitizeOutgoingByte(pos int, v byte) byte {
	if v == 0xFE {
		return 0xFF
	}
	if v == 0xFD && gen2PoisonPositions[pos] {
		return 0xFF
	}
	return v
}

// Run exchanges the whole section: own[i] is what the cartridge produced
// before position i was mediated; the function returns the peer's bytes
// for the section, once all positions are known, and drives the
// cartridge through the full section using peer bytes (§4.6).
func (s *Synchronous) Run(first uint8) []byte {
	own := make([]byte, s.Length)
	if s.Length > 0 {
		own[0] = first
	}

	for i := 0; i < s.Length; i++ {
		s.sendOwn(i, own)
		for !s.peerKnown[i] {
			s.pollPeer()
			s.sendOwn(i, own)
		}
		next := s.Adapter.Exchange(s.peerBytes[i])
		if i+1 < s.Length {
			own[i+1] = next
		}
	}
	return s.peerBytes
}
