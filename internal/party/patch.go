// Package party implements the Party Codec (C5): parsing and serializing
// party sections, 0xFE-escape patching, Gen 3 PID decryption/substructure
// unshuffling/checksum, egg/mail attachments, and Japanese↔International
// conversion.
//
// Grounded on the teacher's cartridge.Header fixed-layout parser for the
// record shapes, and on accessories.Printer's position-walking style for
// the patch encode/restore primitives.
package party

const (
	patchPageSize  = 0xFC
	patchPageBreak = 0xFF
	patchEscape    = 0xFE
)

// EncodePatches replaces every 0xFE in block with 0xFF and returns both the
// patched block and the patch set describing where to undo it: a list of
// 1-based offsets paged by 0xFC and terminated by 0xFF (§3.2 invariant 2,
// §4.5 "Patch encoding").
func EncodePatches(block []byte) (patched []byte, patchSet []byte) {
	patched = make([]byte, len(block))
	copy(patched, block)

	patchSet = make([]byte, 0)
	pageStart := 0
	for i, b := range block {
		if b != patchEscape {
			continue
		}
		patched[i] = 0xFF

		offset := i - pageStart + 1
		for offset > patchPageSize {
			patchSet = append(patchSet, patchPageBreak)
			pageStart += patchPageSize
			offset = i - pageStart + 1
		}
		patchSet = append(patchSet, byte(offset))
	}
	patchSet = append(patchSet, patchPageBreak)
	return patched, patchSet
}

// RestorePatches reverses EncodePatches: every offset named by patchSet
// (paged by 0xFC, terminated by 0xFF) is rewritten from 0xFF back to 0xFE
// in block. block is mutated in place and also returned.
func RestorePatches(block []byte, patchSet []byte) []byte {
	pageStart := 0
	pos := 0
	for _, off := range patchSet {
		if off == patchPageBreak {
			pageStart += patchPageSize
			continue
		}
		pos = pageStart + int(off) - 1
		if pos >= 0 && pos < len(block) {
			block[pos] = patchEscape
		}
	}
	return block
}
