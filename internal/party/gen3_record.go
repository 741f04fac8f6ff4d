package party

import "encoding/binary"

const (
	gen3EncLen = 48 // four 12-byte substructures
	gen3SubLen = 12
)

// Gen3Record is the 100-byte Gen 3 Pokémon record (§4.5 "Gen 3 record
// format"). Mail, version and ribbon bytes trafficked alongside it in a
// trade payload are handled by the section exchanger, not modeled here.
type Gen3Record struct {
	PID      uint32
	OTID     uint32
	Nickname [10]byte
	Language uint8
	Misc     uint8
	OTName   [7]byte
	Checksum uint16
	Enc      [gen3EncLen]byte // ciphertext on the wire; plaintext once Decrypt has run
	Status   uint8
	Level    uint8
	MailID   uint8
	CurrHP   uint16
	Stats    [6]uint16
}

// ParseGen3Record reads the fixed 100-byte-minus-padding layout from b.
func ParseGen3Record(b []byte) Gen3Record {
	var r Gen3Record
	r.PID = binary.LittleEndian.Uint32(b[0:4])
	r.OTID = binary.LittleEndian.Uint32(b[4:8])
	copy(r.Nickname[:], b[8:18])
	r.Language = b[18]
	r.Misc = b[19]
	copy(r.OTName[:], b[20:27])
	r.Checksum = binary.LittleEndian.Uint16(b[27:29])
	copy(r.Enc[:], b[29:29+gen3EncLen])
	off := 29 + gen3EncLen
	r.Status = b[off]
	r.Level = b[off+1]
	r.MailID = b[off+2]
	r.CurrHP = binary.LittleEndian.Uint16(b[off+3 : off+5])
	for i := 0; i < 6; i++ {
		r.Stats[i] = binary.LittleEndian.Uint16(b[off+5+i*2 : off+7+i*2])
	}
	return r
}

// WriteGen3Record serializes r back into b, mirroring ParseGen3Record.
func WriteGen3Record(b []byte, r Gen3Record) {
	binary.LittleEndian.PutUint32(b[0:4], r.PID)
	binary.LittleEndian.PutUint32(b[4:8], r.OTID)
	copy(b[8:18], r.Nickname[:])
	b[18] = r.Language
	b[19] = r.Misc
	copy(b[20:27], r.OTName[:])
	binary.LittleEndian.PutUint16(b[27:29], r.Checksum)
	copy(b[29:29+gen3EncLen], r.Enc[:])
	off := 29 + gen3EncLen
	b[off] = r.Status
	b[off+1] = r.Level
	b[off+2] = r.MailID
	binary.LittleEndian.PutUint16(b[off+3:off+5], r.CurrHP)
	for i := 0; i < 6; i++ {
		binary.LittleEndian.PutUint16(b[off+5+i*2:off+7+i*2], r.Stats[i])
	}
}

// substructurePermutations is the 24-entry table of [0,1,2,3] orderings,
// indexed by PID mod 24 (§3.2 invariant 5, §8.1 property 7). Each entry
// names the on-wire order of the Growth/Attacks/EVs/Misc substructures.
var substructurePermutations = [24][4]int{
	{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 1, 3}, {0, 3, 1, 2},
	{0, 2, 3, 1}, {0, 3, 2, 1}, {1, 0, 2, 3}, {1, 0, 3, 2},
	{2, 0, 1, 3}, {3, 0, 1, 2}, {2, 0, 3, 1}, {3, 0, 2, 1},
	{1, 2, 0, 3}, {1, 3, 0, 2}, {2, 1, 0, 3}, {3, 1, 0, 2},
	{2, 3, 0, 1}, {3, 2, 0, 1}, {1, 2, 3, 0}, {1, 3, 2, 0},
	{2, 1, 3, 0}, {3, 1, 2, 0}, {2, 3, 1, 0}, {3, 2, 1, 0},
}

// SubstructureOrder returns the on-wire substructure order for pid.
func SubstructureOrder(pid uint32) [4]int {
	return substructurePermutations[pid%24]
}

// xorKey returns the per-word decryption key: PID XOR OT_ID (§3.2
// invariant 5).
func xorKey(pid, otID uint32) uint32 {
	return pid ^ otID
}

// Decrypt XORs every aligned 32-bit word of r.Enc with the PID/OT_ID key,
// turning ciphertext into plaintext (or back again — XOR is an
// involution, so Decrypt and Encrypt are the same operation). It mutates
// r.Enc in place.
func (r *Gen3Record) Decrypt() {
	key := xorKey(r.PID, r.OTID)
	for i := 0; i < gen3EncLen; i += 4 {
		w := binary.LittleEndian.Uint32(r.Enc[i : i+4])
		binary.LittleEndian.PutUint32(r.Enc[i:i+4], w^key)
	}
}

// Encrypt is Decrypt's involution counterpart, kept as a separate name so
// call sites read as intent rather than relying on XOR symmetry.
func (r *Gen3Record) Encrypt() {
	r.Decrypt()
}

// ComputeChecksum returns the wrapping 16-bit sum of the 24 half-words of
// r.Enc in its current (plaintext) state (§3.2 invariant 5).
func (r *Gen3Record) ComputeChecksum() uint16 {
	var sum uint16
	for i := 0; i < gen3EncLen; i += 2 {
		sum += binary.LittleEndian.Uint16(r.Enc[i : i+2])
	}
	return sum
}

// ChecksumValid reports whether r.Checksum matches ComputeChecksum over
// the current (assumed-plaintext) Enc bytes.
func (r *Gen3Record) ChecksumValid() bool {
	return r.Checksum == r.ComputeChecksum()
}

// Substructure returns the plaintext 12-byte substructure named by kind
// (0=Growth, 1=Attacks, 2=EVs, 3=Misc), locating it via the PID-derived
// order.
func (r *Gen3Record) Substructure(kind int) []byte {
	order := SubstructureOrder(r.PID)
	for slot, k := range order {
		if k == kind {
			return r.Enc[slot*gen3SubLen : slot*gen3SubLen+gen3SubLen]
		}
	}
	return nil
}

// Nature returns the Gen 3 nature index: PID mod 25 (§4.5).
func (r *Gen3Record) Nature() uint8 {
	return uint8(r.PID % 25)
}

var natureStatMultipliers = [25][5]float64{
	// index order per stat: Atk, Def, Spd, SpA, SpD; 1.0 baseline unless
	// the nature boosts (1.1) or hinders (0.9) that stat.
	{1.0, 1.0, 1.0, 1.0, 1.0},   // Hardy
	{1.1, 0.9, 1.0, 1.0, 1.0},   // Lonely
	{1.1, 1.0, 0.9, 1.0, 1.0},   // Brave
	{1.1, 1.0, 1.0, 0.9, 1.0},   // Adamant
	{1.1, 1.0, 1.0, 1.0, 0.9},   // Naughty
	{0.9, 1.1, 1.0, 1.0, 1.0},   // Bold
	{1.0, 1.0, 1.0, 1.0, 1.0},   // Docile
	{1.0, 1.1, 0.9, 1.0, 1.0},   // Relaxed
	{1.0, 1.1, 1.0, 0.9, 1.0},   // Impish
	{1.0, 1.1, 1.0, 1.0, 0.9},   // Lax
	{0.9, 1.0, 1.1, 1.0, 1.0},   // Timid
	{1.0, 0.9, 1.1, 1.0, 1.0},   // Hasty
	{1.0, 1.0, 1.0, 1.0, 1.0},   // Serious
	{1.0, 1.0, 1.1, 0.9, 1.0},   // Jolly
	{1.0, 1.0, 1.1, 1.0, 0.9},   // Naive
	{0.9, 1.0, 1.0, 1.1, 1.0},   // Modest
	{1.0, 0.9, 1.0, 1.1, 1.0},   // Mild
	{1.0, 1.0, 0.9, 1.1, 1.0},   // Quiet
	{1.0, 1.0, 1.0, 1.0, 1.0},   // Bashful
	{1.0, 1.0, 1.0, 1.1, 0.9},   // Rash
	{0.9, 1.0, 1.0, 1.0, 1.1},   // Calm
	{1.0, 0.9, 1.0, 1.0, 1.1},   // Gentle
	{1.0, 1.0, 0.9, 1.0, 1.1},   // Sassy
	{1.0, 1.0, 1.0, 0.9, 1.1},   // Careful
	{1.0, 1.0, 1.0, 1.0, 1.0},   // Quirky
}

// Stat computes one of the five non-HP stats (Atk=0, Def=1, Spd=2,
// SpA=3, SpD=4) from base, IV, EV and level, applying the nature
// multiplier (§4.5 "Nature: PID mod 25. Stat formula...").
func (r *Gen3Record) Stat(statIdx int, base, iv uint8, ev uint16, level uint8) uint16 {
	v := (2*int(base)+int(iv))*int(level)/100 + int(ev)/4 + 5
	mult := natureStatMultipliers[r.Nature()][statIdx]
	return uint16(float64(v) * mult)
}

// HPStat computes the HP stat, which has no nature multiplier and adds
// level+10 instead of +5.
func HPStat(base, iv uint8, ev uint16, level uint8) uint16 {
	return uint16((2*int(base)+int(iv))*int(level)/100 + int(ev)/4 + int(level) + 10)
}
