package party

// ConvertToEgg overwrites r's species and vitals for the Gen 2 pool-trade
// egg conversion (§4.5 "Egg conversion"): species becomes eggSpecies,
// level resets to 1, current HP is zeroed. eggNick is the bundled
// egg_nick.bin table (data.Tables.EggNick) holding the "EGG" nickname in
// Game Boy text encoding; it is copied into an 11-byte field padded with
// 0x50 (the terminator byte used by the text-conversion tables).
func ConvertToEgg(r *Record, eggSpecies uint8, eggNick []byte) (nickname [11]byte) {
	r.Species = eggSpecies
	r.CurrentHP = 0
	r.Level = 1

	n := len(eggNick)
	if n > len(nickname) {
		n = len(nickname)
	}
	copy(nickname[:n], eggNick[:n])
	for i := n; i < len(nickname); i++ {
		nickname[i] = 0x50
	}
	return nickname
}
