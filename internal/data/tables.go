package data

import (
	"fmt"
	"path/filepath"

	"github.com/gblink/tradecore/pkg/utils"
)

// Evolution is one trade-evolution trigger: Species evolves into
// EvolvesTo on trade, optionally gated by holding Item (0 means
// unconditional).
type Evolution struct {
	Species   uint8
	Item      uint8
	EvolvesTo uint8
}

// Tables is the full set of immutable static data for one generation
// (C3). A Tables value is built once at startup and shared by every
// Mediator/Validator/Codec call thereafter — never mutated.
type Tables struct {
	Gen Generation

	Stats    [][6]uint8
	ExpGroup []uint8
	ExpCurve ExpTable

	Evolutions   []Evolution
	LearnsetEvos []LearnsetEvo
	Names        []string

	// Gen 1/2 byte-indexed membership bitmaps.
	BadSpecies Bitmap256
	BadMoves   Bitmap256
	BadItems   Bitmap256
	BadText    Bitmap256

	MovesPP []uint8

	PatchSet0            Bitmap256
	PatchSet1             Bitmap256
	MailPatchSet          Bitmap256
	JapaneseMailPatchSet  Bitmap256
	HasJapaneseMailTables bool

	// ChecksMap is the concatenation of per-section check-function
	// indices (one CheckKind byte per section position) used by the
	// full-party validator; SinglePokemonChecksMap and MovesChecksMap
	// back the shorter single-Pokémon / moves-only variants (§4.4).
	ChecksMap              []byte
	SinglePokemonChecksMap []byte
	MovesChecksMap         []byte

	NoMailSection     []byte
	BaseRandomSection []byte
	BaseParty         []byte
	BasePoolParty     []byte
	EggNick           []byte

	TextConv               TextConversion
	MailConversionEnToJP   []byte
	MailConversionJPToEn   []byte
	MailChecksJapanese     []byte

	// Gen 3 only.
	InvalidPokemon    Bitmap
	InvalidHeldItems  Bitmap
	Abilities         [][2]uint8
}

// Load parses the on-disk tables for generation g rooted at dataRoot
// (§6.1). For Gen 1/2 only the Japanese mail tables and base.bin are
// optional: when they are missing, Japanese mail features are off and
// BaseParty is nil. Every other table, including the bad-id bitmaps,
// patch sets and check maps, is required, and a missing one makes Load
// return an error; Load never leaves the sanity-check tables empty. For
// Gen 3 every table Load reads is required.
func Load(dataRoot string, g Generation) (*Tables, error) {
	switch g {
	case Gen1, Gen2:
		return loadGSC(dataRoot, g)
	case Gen3:
		return loadRSE(dataRoot)
	default:
		return nil, fmt.Errorf("data: unknown generation %v", g)
	}
}

func dataPath(root string, gen Generation, name string) string {
	return filepath.Join(root, gen.dataSubdir(), name)
}

func tryLoadFile(root string, gen Generation, name string) ([]byte, bool) {
	b, err := utils.LoadFile(dataPath(root, gen, name))
	if err != nil {
		return nil, false
	}
	return b, true
}

func mustLoadFile(root string, gen Generation, name string) ([]byte, error) {
	b, err := utils.LoadFile(dataPath(root, gen, name))
	if err != nil {
		return nil, fmt.Errorf("data: loading required table %s: %w", name, err)
	}
	return b, nil
}
