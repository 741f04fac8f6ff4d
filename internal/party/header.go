package party

import "encoding/binary"

const (
	traderNameLen = 11
	maxPartySize  = 6

	// HeaderSize is the on-wire byte length of the fields Parse/WriteHeader
	// occupy at the front of a party section; the party's Pokémon records
	// immediately follow, one after another, at this offset.
	HeaderSize = traderNameLen + 1 + maxPartySize + 1 + 2
)

// Header is the Gen 1/2 party header (§3.1): trader name, party count,
// species list (terminated by 0xFF), and trainer id.
type Header struct {
	TraderName [traderNameLen]byte
	Count      uint8
	Species    [maxPartySize]uint8
	TrainerID  uint16
}

// ParseHeader reads a Header from the start of section. The caller is
// responsible for having already run the section through the Validator,
// so Count and Species are assumed clamped.
func ParseHeader(section []byte) Header {
	var h Header
	copy(h.TraderName[:], section[:traderNameLen])
	h.Count = section[traderNameLen]
	if h.Count < 1 {
		h.Count = 1
	}
	if h.Count > maxPartySize {
		h.Count = maxPartySize
	}

	speciesStart := traderNameLen + 1
	for i := 0; i < maxPartySize; i++ {
		h.Species[i] = section[speciesStart+i]
	}

	idOff := speciesStart + maxPartySize + 1 // species list + terminator byte
	h.TrainerID = binary.BigEndian.Uint16(section[idOff : idOff+2])
	return h
}

// WriteHeader serializes h back into the front of section, in place.
func WriteHeader(section []byte, h Header) {
	copy(section[:traderNameLen], h.TraderName[:])
	section[traderNameLen] = h.Count

	speciesStart := traderNameLen + 1
	count := int(h.Count)
	for i := 0; i < count && i < maxPartySize; i++ {
		section[speciesStart+i] = h.Species[i]
	}
	if count < maxPartySize {
		section[speciesStart+count] = 0xFF
	}

	idOff := speciesStart + maxPartySize + 1
	binary.BigEndian.PutUint16(section[idOff:idOff+2], h.TrainerID)
}
