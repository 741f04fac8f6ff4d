package party

import (
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	jpTextLen  = 6
	intlTextLen = 11
	jpPad      = 0x50
)

// JapaneseToInternational inserts 0x50 padding at the fixed positions
// International carts expect, widening a 6-byte Japanese name field to
// the 11-byte International width (§4.5 "Japanese handling").
func JapaneseToInternational(jp []byte) []byte {
	out := make([]byte, intlTextLen)
	copy(out, jp[:jpTextLen])
	for i := jpTextLen; i < intlTextLen; i++ {
		out[i] = jpPad
	}
	return out
}

// InternationalToJapanese removes the padding added by
// JapaneseToInternational, truncating back to the 6-byte Japanese width.
func InternationalToJapanese(intl []byte) []byte {
	out := make([]byte, jpTextLen)
	n := jpTextLen
	if len(intl) < n {
		n = len(intl)
	}
	copy(out, intl[:n])
	return out
}

// DisplayNameShiftJIS renders an already-decoded Japanese name (converted
// from the bundled Game Boy charset to UTF-8 kana by data.TextConversion)
// into Shift-JIS bytes, for logging/relay UIs that expect the legacy
// console encoding rather than UTF-8. This is a pure presentation-layer
// step: the wire-level byte translation between cartridges is still
// TranslateMailBody's bespoke lookup table, since the Game Boy charset
// itself is not Shift-JIS.
func DisplayNameShiftJIS(kana string) (string, error) {
	out, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), kana)
	return out, err
}

// TranslateMailBody runs byte-for-byte substitution through a bundled
// conversion table, returning a new slice (§4.5: mail bodies are
// additionally byte-translated via lookup tables).
func TranslateMailBody(body []byte, table []byte) []byte {
	out := make([]byte, len(body))
	for i, b := range body {
		if int(b) < len(table) {
			out[i] = table[b]
		} else {
			out[i] = b
		}
	}
	return out
}
