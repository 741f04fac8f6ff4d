package trade

import (
	"context"
	"encoding/binary"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gblink/tradecore/internal/data"
	"github.com/gblink/tradecore/internal/exchange"
	"github.com/gblink/tradecore/internal/link"
	"github.com/gblink/tradecore/internal/negotiate"
	"github.com/gblink/tradecore/internal/party"
	"github.com/gblink/tradecore/internal/relay"
	"github.com/gblink/tradecore/internal/validate"
	"github.com/gblink/tradecore/pkg/log"
)

// gen3RecordBytes is the 100-byte on-wire size of one Gen 3 Pokémon
// record within the assembled 896-byte party section (§4.5), distinct
// from data.Generation.PokemonRecordSize's larger trade-payload size
// (which also carries mail/version/ribbon bytes the block transfer
// doesn't model per-slot).
const gen3RecordBytes = 100

const vecFloodInterval = 200 * time.Millisecond

// Mediator is the per-generation trade state machine (C8). One Mediator
// instance lives for the session; peer counters carried by Peer persist
// across trade cycles.
type Mediator struct {
	Adapter   link.Adapter
	Peer      *relay.Client
	Tables    *data.Tables
	Sentinels Sentinels
	Tags      Tags
	Log       log.Logger

	// Generation is 1, 2, or 3. Gen 3 uses the 32-bit Gen3Menu/
	// Gen3BlockTransfer path instead of Sentinels, since its wire
	// protocol is flag-word framed rather than single-byte (§4.8.3).
	Generation int

	state State

	// blankTrade flags (§4.8.2): set to true by RunStartingSequence, and
	// at the end of each menu cycle by resetBlankFlags, which sets them to
	// true only when no MVS exchange is pending and to false otherwise.
	ownBlankTrade  bool
	peerBlankTrade bool

	// ownNeedData is set once our prior cycle decided our received
	// Pokémon was a special mon (§4.8.1 step 8): on the next re-entry we
	// must receive the peer's MVS. peerNeedData is the mirror, learned
	// from polling the peer's ASK: on the next re-entry we must send ours.
	ownNeedData  bool
	peerNeedData bool
}

// NewMediator builds a Mediator for gen (1, 2, or 3), selecting its
// sentinel/tag tables. Gen 3 carries no Sentinels (its menu flow runs on
// Gen3Menu instead) but still gets a Tags table, keyed by the '3' suffix
// (§6.3).
func NewMediator(adapter link.Adapter, peer *relay.Client, tables *data.Tables, gen int, logger log.Logger) *Mediator {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	var sentinels Sentinels
	suffix := byte('2')
	switch gen {
	case 1:
		sentinels = Gen1Sentinels
		suffix = '1'
	case 3:
		suffix = '3'
	default:
		sentinels = Gen2Sentinels
	}
	return &Mediator{
		Adapter:        adapter,
		Peer:           peer,
		Tables:         tables,
		Sentinels:      sentinels,
		Tags:           tagsFor(suffix),
		Log:            logger,
		Generation:     gen,
		state:          StateEnteringRoom,
		ownBlankTrade:  true,
		peerBlankTrade: true,
	}
}

func (m *Mediator) logger() log.Logger {
	if m.Log != nil {
		return m.Log
	}
	return log.NewNullLogger()
}

// runVecFlood emits a version-announce message every 200ms while trade
// setup is in progress (§5 "VEC flood"), stopping when ctx is canceled.
func (m *Mediator) runVecFlood(ctx context.Context) error {
	ticker := time.NewTicker(vecFloodInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = m.Peer.Send(m.Tags.Vec, []byte("v1.0.0")[:6])
		}
	}
}

// RunStartingSequence drives entering_room and sitting, with a
// background VEC flood for the duration, then returns once the
// cartridge is sitting at the table ready for section exchange
// (§4.8, §5).
func (m *Mediator) RunStartingSequence(ctx context.Context) error {
	floodCtx, stopFlood := context.WithCancel(ctx)
	defer stopFlood()

	g, gctx := errgroup.WithContext(floodCtx)
	g.Go(func() error { return m.runVecFlood(gctx) })

	if m.Generation == 3 {
		menu := Gen3Menu{Adapter: m.Adapter}
		// Gen 3's entering_room/sitting analogue: the cartridge holds the
		// in_party_trading|done flag high with no selection made yet,
		// until the player actually opens the trade menu (§4.8.3).
		menu.awaitStableWord(gen3FlagInPartyTrading|gen3FlagDone, 10, func(w uint32) bool {
			return w&gen3FlagInPartyTrading != 0
		})
	} else {
		EnterRoom(m.Adapter, m.Sentinels)
		m.state = StateSitting
		SitAtTable(m.Adapter, m.Sentinels)
	}
	m.state = StateStarting

	stopFlood()
	_ = g.Wait() // runVecFlood always returns nil on cancellation

	m.ownBlankTrade = true
	m.peerBlankTrade = true
	m.state = StateMenu
	return nil
}

// exchangeSection drives the Section Exchanger (C6) for one party section:
// the shared starter preamble, then either a synchronous interleaved
// mediation with the peer or a buffered feed from an already-known peer
// section, depending on the negotiated mode (§4.6). cached is nil on a
// session's first exchange (no peer section known yet) and the
// previously exchanged section on a buffered re-entry; with cached nil
// the buffered branch feeds a zero-filled section to the cartridge.
func (m *Mediator) exchangeSection(mode negotiate.Mode, length int, cached []byte) []byte {
	first := exchange.RunPreamble(m.Adapter, exchange.StarterSection)
	if mode == negotiate.ModeBuffered {
		peer := cached
		if peer == nil {
			peer = make([]byte, length)
		}
		b := exchange.Buffered{Adapter: m.Adapter}
		b.Run(peer, first)
		return peer
	}
	s := exchange.NewSynchronous(m.Adapter, m.Peer, m.Tags.Sng, length, 0)
	return s.Run(first)
}

// recordAccessor builds the ourRecordAt closure RunMenuCycle needs:
// records sit back-to-back immediately after the header (§3.1).
func recordAccessor(section []byte, recordSize int) func(slot int) []byte {
	return func(slot int) []byte {
		off := party.HeaderSize + slot*recordSize
		if slot < 0 || off+recordSize > len(section) {
			return nil
		}
		return section[off : off+recordSize]
	}
}

// RunTradeCycle drives the party section through one full §4.8.1 menu
// cycle (the starting sequence must already have run), validating the
// exchanged section and feeding it to RunMenuCycle. If that cycle leaves
// a special-mon MVS exchange pending (§4.8.1 step 8), it runs the
// §4.8.2 "subsequent sequence" immediately after: a buffered re-entry
// (skipping peer sync, since the section is already known) that lets
// exchangeMvs complete before the trade room is finally drained.
func (m *Mediator) RunTradeCycle(ctx context.Context, mode negotiate.Mode, tables *data.Tables) (*party.Header, error) {
	lengths := tables.Gen.SectionLengths()
	length := lengths[0]
	if len(lengths) > 1 {
		length = lengths[1]
	}
	recordSize := tables.Gen.PokemonRecordSize()

	raw := m.exchangeSection(mode, length, nil)
	section := validate.Validate(raw, tables.ChecksMap, tables, true)

	h, err := m.RunMenuCycle(ctx, section, recordAccessor(section, recordSize))
	if err != nil || h == nil {
		return h, err
	}

	if !m.ownBlankTrade || !m.peerBlankTrade {
		raw = m.exchangeSection(negotiate.ModeBuffered, length, section)
		section = validate.Validate(raw, tables.ChecksMap, tables, true)
		h, err = m.RunMenuCycle(ctx, section, recordAccessor(section, recordSize))
		if err != nil {
			return h, err
		}
	}

	m.state = StateEndTrade
	EndTrade(m.Adapter, m.Sentinels)
	return h, nil
}

// RunMenuCycleGen3 is Gen 3's counterpart to RunMenuCycle: selection and
// accept/decline run over Gen3Menu's 32-bit words instead of Sentinels,
// and the traded section moves over exchange.Gen3BlockTransfer instead
// of party.Header/Record byte layouts (§4.8.3). Once the cartridge-side
// transfer completes, it locates the traded slot's 100-byte record
// within the assembled section, decrypts it and checks its checksum
// (§4.5, §7(c)), and returns the decoded record alongside the raw
// section so the caller can merge it into party state rather than
// discard it.
func (m *Mediator) RunMenuCycleGen3(ctx context.Context) ([448]uint16, *party.Gen3Record, error) {
	menu := Gen3Menu{Adapter: m.Adapter}

	var section [448]uint16

	selection := menu.Selection()
	if uint8(selection&0xFF) == Gen3Cancel {
		m.resetBlankFlags()
		return section, nil, nil
	}
	ownSlot := int(uint8(selection&0xFF) - Gen3SelectionBase)
	_ = m.Peer.SendWithCounter(m.Tags.Chc, []byte{uint8(selection & 0xFF)})
	if _, err := m.Peer.PollCounter(ctx, m.Tags.Chc); err != nil {
		return section, nil, err
	}

	round1 := menu.AcceptDeclineRound(Gen3AcceptRound1, Gen3DeclineRound1)
	_ = m.Peer.SendWithCounter(m.Tags.Acp, []byte{uint8(round1 & 0xFF)})
	peerAcp1, err := m.Peer.PollCounter(ctx, m.Tags.Acp)
	if err != nil || len(peerAcp1) < 1 {
		return section, nil, err
	}
	if uint8(round1&0xFF) != Gen3AcceptRound1 || peerAcp1[0] != Gen3AcceptRound1 {
		m.resetBlankFlags()
		return section, nil, nil
	}

	round2 := menu.AcceptDeclineRound(Gen3AcceptRound2, Gen3DeclineRound2)
	_ = m.Peer.SendWithCounter(m.Tags.Acp2, []byte{uint8(round2 & 0xFF)})
	peerAcp2, err := m.Peer.PollCounter(ctx, m.Tags.Acp2)
	if err != nil || len(peerAcp2) < 1 {
		return section, nil, err
	}
	if uint8(round2&0xFF) != Gen3AcceptRound2 || peerAcp2[0] != Gen3AcceptRound2 {
		m.resetBlankFlags()
		return section, nil, nil
	}

	transfer := &exchange.Gen3BlockTransfer{Adapter: m.Adapter}
	for !transfer.Step() {
	}
	section = transfer.Section()

	record := m.decodeGen3TradedRecord(section, ownSlot)

	result := menu.Success()
	_ = m.Peer.SendWithCounter(m.Tags.Suc[0], []byte{result})
	if _, err := m.Peer.PollCounter(ctx, m.Tags.Suc[0]); err != nil {
		return section, record, err
	}

	m.resetBlankFlags()
	return section, record, nil
}

// decodeGen3TradedRecord converts the assembled u16 section back to bytes,
// parses the slot-th 100-byte record, decrypts its substructure block and
// checks its checksum, logging a warning rather than failing the trade on
// mismatch — a corrupted incoming record shouldn't abort an otherwise
// successful link exchange (§4.4 "Failure policy" generalized to Gen 3).
func (m *Mediator) decodeGen3TradedRecord(section [448]uint16, slot int) *party.Gen3Record {
	raw := make([]byte, len(section)*2)
	for i, w := range section {
		binary.LittleEndian.PutUint16(raw[i*2:i*2+2], w)
	}

	off := slot * gen3RecordBytes
	if slot < 0 || off+gen3RecordBytes > len(raw) {
		return nil
	}
	record := party.ParseGen3Record(raw[off : off+gen3RecordBytes])
	record.Decrypt()
	if !record.ChecksumValid() {
		m.logger().Errorf("poketrade: gen3 traded record at slot %d failed checksum validation", slot)
	}
	return &record
}

// RunMenuCycle drives one trade-menu cycle (§4.8.1): own selection,
// broadcast, peer selection, forward to cartridge, accept/decline,
// success, post-trade mutation, need-data exchange. It returns the
// resulting Header reflecting our own party after the mutation (callers
// own the section buffer the Header was parsed from).
func (m *Mediator) RunMenuCycle(ctx context.Context, section []byte, ourRecordAt func(slot int) []byte) (*party.Header, error) {
	h := party.ParseHeader(section)

	if err := m.exchangeMvs(ctx, h, ourRecordAt); err != nil {
		return &h, err
	}

	ownSelection := AwaitStableByte(m.Adapter, 0x00, 10, func(b uint8) bool {
		return b >= m.Sentinels.SelectionBase && b < m.Sentinels.SelectionBase+6 || b == m.Sentinels.Cancel
	})
	if ownSelection == m.Sentinels.Cancel {
		m.resetBlankFlags()
		return &h, nil
	}
	ownSlot := int(ownSelection - m.Sentinels.SelectionBase)

	ownRecord := ourRecordAt(ownSlot)
	_ = m.Peer.SendWithCounter(m.Tags.Chc, append([]byte{ownSelection}, ownRecord...))

	peerBody, err := m.Peer.PollCounter(ctx, m.Tags.Chc)
	if err != nil {
		return nil, err
	}
	if len(peerBody) < 1 {
		return &h, nil
	}
	peerSelection := peerBody[0]
	peerRecord := validate.ValidateSinglePokemon(peerBody[1:], m.Tables, true)

	for m.Adapter.Exchange(0x00) != 0x00 {
	}
	for m.Adapter.Exchange(peerSelection) != 0xFE {
	}

	ownDecision := AwaitStableByte(m.Adapter, 0x00, 10, func(b uint8) bool {
		return b == m.Sentinels.Accept || b == m.Sentinels.Decline
	})
	_ = m.Peer.SendWithCounter(m.Tags.Acp, []byte{ownDecision})
	peerAcp, err := m.Peer.PollCounter(ctx, m.Tags.Acp)
	if err != nil || len(peerAcp) < 1 {
		return &h, err
	}
	m.Adapter.Exchange(peerAcp[0])

	if ownDecision != m.Sentinels.Accept || peerAcp[0] != m.Sentinels.Accept {
		m.resetBlankFlags()
		return &h, nil
	}

	successByte := AwaitStableByte(m.Adapter, 0x00, 10, func(b uint8) bool {
		return b >= m.Sentinels.SuccessLow && b <= m.Sentinels.SuccessHigh
	})
	_ = m.Peer.SendWithCounter(m.Tags.Suc[0], []byte{successByte})
	if _, err := m.Peer.PollCounter(ctx, m.Tags.Suc[0]); err != nil {
		return &h, err
	}
	m.Adapter.Exchange(successByte)

	stable := 0
	for stable < 5 {
		b := m.Adapter.Exchange(0x00)
		if b == 0x00 {
			stable++
		} else {
			stable = 0
		}
	}

	tradedSpecies := party.Evolve(peerRecord[0], 0, toPartyEvolutions(m.Tables.Evolutions))
	party.SwapWithLast(&h, ownSlot, tradedSpecies)
	party.WriteHeader(section, h)

	special := party.IsSpecialMon(tradedSpecies, toPartyEvolutions(m.Tables.Evolutions), toPartyLearnsets(m.Tables.LearnsetEvos))
	needData := byte(0x43)
	if special {
		needData = 0x72
	}
	_ = m.Peer.SendWithCounter(m.Tags.Ask, []byte{needData})
	m.ownNeedData = special

	peerAsk, err := m.Peer.PollCounter(ctx, m.Tags.Ask)
	if err == nil && len(peerAsk) >= 1 {
		m.peerNeedData = peerAsk[0] == 0x72
	}

	m.resetBlankFlags()
	return &h, nil
}

// exchangeMvs runs the deferred move/PP-refresh exchange left pending by
// a prior cycle's need-data exchange (§4.8.1 step 8, §4.8.2 "subsequent
// sequence"): send our last slot's current moves/PP if the peer asked
// for them, then receive the peer's if we asked for ours. Both flags are
// cleared once handled so a later cycle with nothing pending is a no-op.
func (m *Mediator) exchangeMvs(ctx context.Context, h party.Header, ourRecordAt func(slot int) []byte) error {
	last := int(h.Count) - 1
	if last < 0 {
		m.peerNeedData = false
		m.ownNeedData = false
		return nil
	}

	if m.peerNeedData {
		rec := ourRecordAt(last)
		r := party.ParseRecord(rec, m.Generation == 2)
		payload := append(append([]byte{}, r.Moves[:]...), r.PP[:]...)
		_ = m.Peer.SendWithCounter(m.Tags.Mvs, payload)
		m.peerNeedData = false
	}

	if m.ownNeedData {
		body, err := m.Peer.PollCounter(ctx, m.Tags.Mvs)
		if err != nil {
			return err
		}
		if len(body) >= 8 {
			rec := ourRecordAt(last)
			r := party.ParseRecord(rec, m.Generation == 2)
			copy(r.Moves[:], body[0:4])
			copy(r.PP[:], body[4:8])
			party.WriteRecord(rec, r, m.Generation == 2)
		}
		m.ownNeedData = false
	}

	return nil
}

// resetBlankFlags clears the blank-trade flags (§4.8.2): a "blank" trade
// is one with no pending special-mon MVS exchange on either side. When
// one is pending, both flags stay false so the next re-entry runs the
// "subsequent sequence" (buffered section exchange, MVS first) instead of
// a fresh full starting sequence.
func (m *Mediator) resetBlankFlags() {
	special := m.ownNeedData || m.peerNeedData
	m.ownBlankTrade = !special
	m.peerBlankTrade = !special
}

func toPartyEvolutions(evos []data.Evolution) []party.Evolution {
	out := make([]party.Evolution, len(evos))
	for i, e := range evos {
		out[i] = party.Evolution{Species: e.Species, Item: e.Item, EvolvesTo: e.EvolvesTo}
	}
	return out
}

func toPartyLearnsets(learnsets []data.LearnsetEvo) []party.LearnsetEvo {
	out := make([]party.LearnsetEvo, len(learnsets))
	for i, l := range learnsets {
		out[i] = party.LearnsetEvo{Species: l.Species, Move: l.Move}
	}
	return out
}
