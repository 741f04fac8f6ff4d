package validate

import "github.com/gblink/tradecore/internal/data"

// Validate walks section against checkMap position by position, applying
// the per-position CheckKind and returning a new, possibly-corrected
// slice (§4.4). checkMap and section must be the same length; a checkMap
// shorter than section leaves the remaining tail untouched (degraded
// tables — §4.4 "Failure policy").
func Validate(section []byte, checkMap []byte, tables *data.Tables, sanity bool) []byte {
	out := make([]byte, len(section))
	copy(out, section)

	ctx := newContext(tables, sanity)
	for pos, b := range section {
		if pos >= len(checkMap) {
			continue
		}
		kind := CheckKind(checkMap[pos])
		out[pos] = apply(kind, ctx, out, pos, b)
	}
	return out
}

// ValidateSinglePokemon runs the shorter single-record check map used when
// only one party slot — not a whole section — crosses the wire (e.g. the
// peer's trade choice in trade.Mediator.RunMenuCycle).
func ValidateSinglePokemon(record []byte, tables *data.Tables, sanity bool) []byte {
	return Validate(record, tables.SinglePokemonChecksMap, tables, sanity)
}

// ValidateMoves runs the moves-only check map, used when a move set is
// exchanged independently of its owning Pokémon record.
func ValidateMoves(moves []byte, tables *data.Tables, sanity bool) []byte {
	return Validate(moves, tables.MovesChecksMap, tables, sanity)
}
