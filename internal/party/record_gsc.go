package party

import "encoding/binary"

// Record is a Gen 1/2 party Pokémon record (§3.1): species, held item,
// four moves with PP counters, level, 24-bit EXP, stats, IVs, stat-EXP,
// status, current HP. Field widths follow the 44-byte (Gen 1) / 48-byte
// (Gen 2) on-wire layout; Gen 2 adds a held-item byte after the species
// and a happiness byte (skipped, not modeled) before the level.
type Record struct {
	Species    uint8
	HeldItem   uint8 // Gen 2 only; zero on Gen 1
	Moves      [4]uint8
	PP         [4]uint8
	TrainerID  uint16
	Experience uint32 // 24-bit on the wire
	StatEXP    [5]uint16
	IV         uint16
	Level      uint8
	Status     uint8
	CurrentHP  uint16
	MaxHP      uint16
	Stats      [4]uint16 // Atk, Def, Spd, Spc (Gen1) / SpAtk+SpDef split handled by caller
}

// ParseRecord reads one Gen 1/2 record. gen2 selects the 48-byte layout
// (held item present) over the 44-byte Gen 1 layout.
func ParseRecord(b []byte, gen2 bool) Record {
	var r Record
	i := 0
	r.Species = b[i]
	i++
	if gen2 {
		r.HeldItem = b[i]
		i++
	}
	copy(r.Moves[:], b[i:i+4])
	i += 4
	r.TrainerID = binary.BigEndian.Uint16(b[i : i+2])
	i += 2
	r.Experience = uint32(b[i])<<16 | uint32(b[i+1])<<8 | uint32(b[i+2])
	i += 3
	for s := 0; s < 5; s++ {
		r.StatEXP[s] = binary.BigEndian.Uint16(b[i : i+2])
		i += 2
	}
	r.IV = binary.BigEndian.Uint16(b[i : i+2])
	i += 2
	copy(r.PP[:], b[i:i+4])
	i += 4
	// Gen 2 inserts happiness here; the mediator doesn't need it for
	// trade mutation so it's skipped rather than modeled.
	if gen2 {
		i++
	}
	r.Level = b[i]
	i++
	r.Status = b[i]
	i++
	r.CurrentHP = binary.BigEndian.Uint16(b[i : i+2])
	i += 2
	r.MaxHP = binary.BigEndian.Uint16(b[i : i+2])
	i += 2
	for s := 0; s < 4; s++ {
		r.Stats[s] = binary.BigEndian.Uint16(b[i : i+2])
		i += 2
	}
	return r
}

// WriteRecord serializes r back into b's layout, mirroring ParseRecord.
func WriteRecord(b []byte, r Record, gen2 bool) {
	i := 0
	b[i] = r.Species
	i++
	if gen2 {
		b[i] = r.HeldItem
		i++
	}
	copy(b[i:i+4], r.Moves[:])
	i += 4
	binary.BigEndian.PutUint16(b[i:i+2], r.TrainerID)
	i += 2
	b[i] = byte(r.Experience >> 16)
	b[i+1] = byte(r.Experience >> 8)
	b[i+2] = byte(r.Experience)
	i += 3
	for s := 0; s < 5; s++ {
		binary.BigEndian.PutUint16(b[i:i+2], r.StatEXP[s])
		i += 2
	}
	binary.BigEndian.PutUint16(b[i:i+2], r.IV)
	i += 2
	copy(b[i:i+4], r.PP[:])
	i += 4
	if gen2 {
		i++
	}
	b[i] = r.Level
	i++
	b[i] = r.Status
	i++
	binary.BigEndian.PutUint16(b[i:i+2], r.CurrentHP)
	i += 2
	binary.BigEndian.PutUint16(b[i:i+2], r.MaxHP)
	i += 2
	for s := 0; s < 4; s++ {
		binary.BigEndian.PutUint16(b[i:i+2], r.Stats[s])
		i += 2
	}
}

// IsSpecialMon reports whether species is a trade-evolution or
// trade-move-learn candidate, consulting the evolution and learnset
// tables (§4.8.1 step 8).
func IsSpecialMon(species uint8, evolutions []Evolution, learnsets []LearnsetEvo) bool {
	for _, e := range evolutions {
		if e.Species == species {
			return true
		}
	}
	for _, l := range learnsets {
		if l.Species == species {
			return true
		}
	}
	return false
}

// Evolution mirrors data.Evolution to avoid an import cycle between party
// and data; callers adapt data.Evolution values into this shape.
type Evolution struct {
	Species   uint8
	Item      uint8
	EvolvesTo uint8
}

// LearnsetEvo mirrors data.LearnsetEvo for the same reason.
type LearnsetEvo struct {
	Species uint8
	Move    uint8
}

// Evolve returns the post-trade species for species, given the evolution
// table, or species unchanged if no evolution applies. heldItem is the
// currently held item (0 = none); an Item-gated evolution only triggers
// when it matches.
func Evolve(species uint8, heldItem uint8, evolutions []Evolution) uint8 {
	for _, e := range evolutions {
		if e.Species != species {
			continue
		}
		if e.Item == 0 || e.Item == heldItem {
			return e.EvolvesTo
		}
	}
	return species
}
