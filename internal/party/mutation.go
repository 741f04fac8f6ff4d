package party

// SwapWithLast reproduces the peer's post-trade party state locally
// (Design Notes §9 "Cyclic / aliased state"): slots [i+1..last] shift
// down into [i..last-1], and the last slot is overwritten with our
// traded Pokémon's species and full record — no additional section
// exchange is needed to know the peer's resulting layout.
func SwapWithLast(h *Header, slot int, tradedSpecies uint8) {
	count := int(h.Count)
	if slot < 0 || slot >= count {
		return
	}
	for i := slot; i < count-1; i++ {
		h.Species[i] = h.Species[i+1]
	}
	h.Species[count-1] = tradedSpecies
}

// SwapRecordWithLast performs the matching record-slice shift for the
// Pokémon-record array backing the party, in place.
func SwapRecordWithLast(records [][]byte, slot int, count int, traded []byte) {
	if slot < 0 || slot >= count || slot >= len(records) {
		return
	}
	for i := slot; i < count-1 && i+1 < len(records); i++ {
		copy(records[i], records[i+1])
	}
	if count-1 < len(records) {
		copy(records[count-1], traded)
	}
}
