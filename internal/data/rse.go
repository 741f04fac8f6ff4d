package data

// loadRSE loads the rse/ (Ruby/Sapphire/Emerald) on-disk layout (§6.1). It
// has no patch-set or checks-map tables — Gen 3's validation gates live in
// the party codec's decrypt/checksum path instead of a byte-position
// check-function table (§4.5).
func loadRSE(root string) (*Tables, error) {
	gen := Gen3
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

	invalidPokemon, err := mustLoadFile(root, gen, "invalid_pokemon.bin")
	if err != nil {
		return nil, err
	}
	t.InvalidPokemon = NewBitmapFromPacked(invalidPokemon)

	invalidItems, err := mustLoadFile(root, gen, "invalid_held_items.bin")
	if err != nil {
		return nil, err
	}
	t.InvalidHeldItems = NewBitmapFromPacked(invalidItems)

	abilitiesRaw, err := mustLoadFile(root, gen, "abilities.bin")
	if err != nil {
		return nil, err
	}
	t.Abilities = parseAbilities(abilitiesRaw)

	t.MovesPP, err = mustLoadFile(root, gen, "moves_pp_list.bin")
	if err != nil {
		return nil, err
	}

	namesRaw, err := mustLoadFile(root, gen, "pokemon_names.txt")
	if err != nil {
		return nil, err
	}
	t.Names = parseNameList(namesRaw)

	t.EggNick, err = mustLoadFile(root, gen, "egg_nick.bin")
	if err != nil {
		return nil, err
	}

	textConvRaw, err := mustLoadFile(root, gen, "text_conv.txt")
	if err != nil {
		return nil, err
	}
	t.TextConv = parseTextConv(textConvRaw)

	t.BaseParty, err = mustLoadFile(root, gen, "base.bin")
	if err != nil {
		return nil, err
	}
	t.BasePoolParty, err = mustLoadFile(root, gen, "base_pool.bin")
	if err != nil {
		return nil, err
	}

	return t, nil
}

func parseAbilities(raw []byte) [][2]uint8 {
	n := len(raw) / 2
	out := make([][2]uint8, n)
	for i := 0; i < n; i++ {
		out[i][0] = raw[i*2]
		out[i][1] = raw[i*2+1]
	}
	return out
}
