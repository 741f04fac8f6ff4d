package data

import (
	"bufio"
	"strings"
)

// loadGSC loads the shared rby/gsc on-disk layout (§6.1). Gen 1 and Gen 2
// carts use the same table shapes; only the party-section lengths and a
// handful of codec details (mail, Japanese padding) differ downstream.
func loadGSC(root string, gen Generation) (*Tables, error) {
	t := &Tables{Gen: gen}

	statsRaw, err := mustLoadFile(root, gen, "stats.bin")
	if err != nil {
		return nil, err
	}
	t.Stats = parseStats(statsRaw)

	t.ExpGroup, err = mustLoadFile(root, gen, "pokemon_exp_groups.bin")
	if err != nil {
		return nil, err
	}

	expRaw, err := mustLoadFile(root, gen, "pokemon_exp.txt")
	if err != nil {
		return nil, err
	}
	t.ExpCurve, err = parseExpTable(expRaw)
	if err != nil {
		return nil, err
	}

	evoRaw, err := mustLoadFile(root, gen, "evolution_ids.bin")
	if err != nil {
		return nil, err
	}
	t.Evolutions = parseEvolutionTriples(evoRaw)

	namesRaw, err := mustLoadFile(root, gen, "pokemon_names.txt")
	if err != nil {
		return nil, err
	}
	t.Names = parseNameList(namesRaw)

	badItems, err := mustLoadFile(root, gen, "bad_ids_items.bin")
	if err != nil {
		return nil, err
	}
	t.BadItems = NewBitmap256FromList(badItems)

	badMoves, err := mustLoadFile(root, gen, "bad_ids_moves.bin")
	if err != nil {
		return nil, err
	}
	t.BadMoves = NewBitmap256FromList(badMoves)

	badSpecies, err := mustLoadFile(root, gen, "bad_ids_pokemon.bin")
	if err != nil {
		return nil, err
	}
	t.BadSpecies = NewBitmap256FromList(badSpecies)

	badText, err := mustLoadFile(root, gen, "bad_ids_text.bin")
	if err != nil {
		return nil, err
	}
	t.BadText = NewBitmap256FromList(badText)

	t.MovesPP, err = mustLoadFile(root, gen, "moves_pp_list.bin")
	if err != nil {
		return nil, err
	}

	ps0, err := mustLoadFile(root, gen, "pokemon_patch_set_0.bin")
	if err != nil {
		return nil, err
	}
	t.PatchSet0 = NewBitmap256FromList(ps0)

	ps1, err := mustLoadFile(root, gen, "pokemon_patch_set_1.bin")
	if err != nil {
		return nil, err
	}
	t.PatchSet1 = NewBitmap256FromList(ps1)

	mailPS, err := mustLoadFile(root, gen, "mail_patch_set.bin")
	if err != nil {
		return nil, err
	}
	t.MailPatchSet = NewBitmap256FromList(mailPS)

	t.ChecksMap, err = mustLoadFile(root, gen, "checks_map.bin")
	if err != nil {
		return nil, err
	}
	t.SinglePokemonChecksMap, err = mustLoadFile(root, gen, "single_pokemon_checks_map.bin")
	if err != nil {
		return nil, err
	}
	t.MovesChecksMap, err = mustLoadFile(root, gen, "moves_checks_map.bin")
	if err != nil {
		return nil, err
	}

	t.NoMailSection, err = mustLoadFile(root, gen, "no_mail_section.bin")
	if err != nil {
		return nil, err
	}
	t.BaseRandomSection, err = mustLoadFile(root, gen, "base_random_section.bin")
	if err != nil {
		return nil, err
	}
	t.EggNick, err = mustLoadFile(root, gen, "egg_nick.bin")
	if err != nil {
		return nil, err
	}

	textConvRaw, err := mustLoadFile(root, gen, "text_conv.txt")
	if err != nil {
		return nil, err
	}
	t.TextConv = parseTextConv(textConvRaw)

	learnsetRaw, err := mustLoadFile(root, gen, "learnset_evos.bin")
	if err != nil {
		return nil, err
	}
	t.LearnsetEvos = parseLearnsetEvos(learnsetRaw)

	// optional tables: degrade gracefully when absent (§4.3)
	if raw, ok := tryLoadFile(root, gen, "mail_conversion_table_en_to_jp.bin"); ok {
		t.MailConversionEnToJP = raw
	}
	if raw, ok := tryLoadFile(root, gen, "mail_conversion_table_jp_to_en.bin"); ok {
		t.MailConversionJPToEn = raw
	}
	if raw, ok := tryLoadFile(root, gen, "mail_checks_jp.bin"); ok {
		t.MailChecksJapanese = raw
	}
	if raw, ok := tryLoadFile(root, gen, "japanese_mail_patch_set.bin"); ok {
		t.JapaneseMailPatchSet = NewBitmap256FromList(raw)
		t.HasJapaneseMailTables = true
	}
	if raw, ok := tryLoadFile(root, gen, "base.bin"); ok {
		t.BaseParty = raw
	}

	return t, nil
}

func parseStats(raw []byte) [][6]uint8 {
	n := len(raw) / 6
	out := make([][6]uint8, n)
	for i := 0; i < n; i++ {
		copy(out[i][:], raw[i*6:i*6+6])
	}
	return out
}

func parseEvolutionTriples(raw []byte) []Evolution {
	var out []Evolution
	for i := 0; i+3 <= len(raw); i += 3 {
		if raw[i] == 0xFF {
			break
		}
		out = append(out, Evolution{Species: raw[i], Item: raw[i+1], EvolvesTo: raw[i+2]})
	}
	return out
}

// LearnsetEvo is a species that learns a new move specifically on trade
// (the other half of "special mon", alongside trade evolution — §4.8.1
// step 8).
type LearnsetEvo struct {
	Species uint8
	Move    uint8
}

func parseLearnsetEvos(raw []byte) []LearnsetEvo {
	var out []LearnsetEvo
	for i := 0; i+2 <= len(raw); i += 2 {
		if raw[i] == 0xFF {
			break
		}
		out = append(out, LearnsetEvo{Species: raw[i], Move: raw[i+1]})
	}
	return out
}

func parseNameList(raw []byte) []string {
	var names []string
	names = append(names, "") // index 0 unused; species are 1-based
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	for sc.Scan() {
		names = append(names, strings.TrimSpace(sc.Text()))
	}
	return names
}

// IsSpecialMon reports whether species evolves on trade or learns a move
// on trade, per §4.8.1 step 8 / the Special mon glossary entry.
func (t *Tables) IsSpecialMon(species uint8) bool {
	for _, e := range t.Evolutions {
		if e.Species == species {
			return true
		}
	}
	for _, l := range t.LearnsetEvos {
		if l.Species == species {
			return true
		}
	}
	return false
}
