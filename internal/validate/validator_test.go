package validate

import (
	"testing"

	"github.com/gblink/tradecore/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables() *data.Tables {
	// BadSpecies/BadMoves/BadItems/BadText are left at their zero value
	// (nothing flagged bad), so every id in these small fixtures passes.
	return &data.Tables{
		Gen:     data.Gen1,
		Stats:   [][6]uint8{{0, 0, 0, 0, 0, 0}, {45, 49, 49, 45, 65, 65}},
		Names:   []string{"MISSINGNO", "RATTATA"},
		MovesPP: []uint8{0, 35, 40},
	}
}

func TestCleanValueSubstitutesOnFailure(t *testing.T) {
	v := cleanValue(byte(200), func(b byte) bool { return b < 10 }, byte(1))
	assert.Equal(t, byte(1), v)

	v = cleanValue(byte(5), func(b byte) bool { return b < 10 }, byte(1))
	assert.Equal(t, byte(5), v)
}

func TestCheckPPClampsToMaxWithBasePPFortyQuirk(t *testing.T) {
	assert.Equal(t, 61, maxPP(40, 3))
	assert.Equal(t, 56, maxPP(40, 2))
	assert.Equal(t, 35, maxPP(35, 0))
}

func TestIdentityWhenSanityDisabled(t *testing.T) {
	tables := testTables()
	section := []byte{0xFF, 0xAB, 0x00}
	checkMap := []byte{byte(Species), byte(Move), byte(Item)}

	out := Validate(section, checkMap, tables, false)
	require.Equal(t, section, out)
}

func TestValidateCorrectsTeamSize(t *testing.T) {
	tables := testTables()
	section := []byte{9}
	checkMap := []byte{byte(TeamSize)}

	out := Validate(section, checkMap, tables, true)
	assert.Equal(t, byte(6), out[0])
}

// TestValidateClampsBothStatBytes ensures checkStat rewrites the high
// byte it already emitted provisionally, not just the low byte, once
// the full 16-bit pair is known to be out of bounds.
func TestValidateClampsBothStatBytes(t *testing.T) {
	tables := testTables()
	section := []byte{1, 0xFF, 0xFF} // species=RATTATA, stat=0xFFFF
	checkMap := []byte{byte(Species), byte(CheckStat), byte(CheckStat)}

	out := Validate(section, checkMap, tables, true)

	_, max16 := statBounds(baseStatFor(&Context{tables: tables, Species: 1}), false)
	assert.Equal(t, byte(max16>>8), out[1])
	assert.Equal(t, byte(max16), out[2])
	assert.NotEqual(t, byte(0xFF), out[1], "high byte must be clamped, not left at its provisional value")
}
