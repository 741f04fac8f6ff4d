package party

import "testing"

func TestJapaneseToInternationalRoundTripsFirstSixBytes(t *testing.T) {
	jp := []byte{0x81, 0x82, 0x83, 0x84, 0x85, 0x50}
	intl := JapaneseToInternational(jp)
	if len(intl) != intlTextLen {
		t.Fatalf("len(intl) = %d, want %d", len(intl), intlTextLen)
	}
	for i := jpTextLen; i < intlTextLen; i++ {
		if intl[i] != jpPad {
			t.Fatalf("intl[%d] = %#x, want padding %#x", i, intl[i], jpPad)
		}
	}
	back := InternationalToJapanese(intl)
	if len(back) != jpTextLen {
		t.Fatalf("len(back) = %d, want %d", len(back), jpTextLen)
	}
	for i := range back {
		if back[i] != jp[i] {
			t.Fatalf("back[%d] = %#x, want %#x", i, back[i], jp[i])
		}
	}
}

func TestTranslateMailBodySubstitutesThroughTable(t *testing.T) {
	table := make([]byte, 256)
	for i := range table {
		table[i] = byte(i)
	}
	table[0x10] = 0x99
	out := TranslateMailBody([]byte{0x10, 0x11}, table)
	if out[0] != 0x99 || out[1] != 0x11 {
		t.Fatalf("TranslateMailBody = %v, want [0x99 0x11]", out)
	}
}

func TestDisplayNameShiftJISEncodesASCII(t *testing.T) {
	out, err := DisplayNameShiftJIS("PIKA")
	if err != nil {
		t.Fatalf("DisplayNameShiftJIS: %v", err)
	}
	if out != "PIKA" {
		t.Fatalf("DisplayNameShiftJIS(ASCII) = %q, want %q", out, "PIKA")
	}
}
