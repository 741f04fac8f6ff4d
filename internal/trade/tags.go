package trade

// Tags is the peer message tag family for one generation; tagsFor builds
// it for generation suffix x (§6.3: "X ∈ {1,2,3} per generation where
// applicable").
type Tags struct {
	Buf, Neg   string
	Vec, Ves   string
	Ran        string
	PoolIn     string // POLX / P3SI
	PoolOut    string // P3SO, Gen 3 only
	Full       string // FLLX / FL3S
	Sng        string // SNGX, Gen 1/2 only
	Chc        string // CHCX / CH3S
	Acp        string // ACPX / A3S1 (+A3S2 for Gen 3)
	Acp2       string // A3S2, Gen 3 only
	Suc        []string
	Mvs        string
	Ask        string
}

func tagsFor(x byte) Tags {
	suffix := string(x)
	switch x {
	case '3':
		return Tags{
			Buf: "BUF3", Neg: "NEG3",
			Vec: "VEC3", Ves: "VES3",
			Ran:    "RAN3",
			PoolIn: "P3SI", PoolOut: "P3SO",
			Full: "FL3S",
			Chc:  "CH3S",
			Acp:  "A3S1", Acp2: "A3S2",
			Suc: []string{"S3S1", "S3S2", "S3S3", "S3S4", "S3S5", "S3S6", "S3S7"},
			Mvs: "MVS3", Ask: "ASK3",
		}
	default:
		return Tags{
			Buf: "BUF" + suffix, Neg: "NEG" + suffix,
			Vec: "VEC" + suffix, Ves: "VES" + suffix,
			Ran:    "RAN" + suffix,
			PoolIn: "POL" + suffix,
			Full:   "FLL" + suffix,
			Sng:    "SNG" + suffix,
			Chc:    "CHC" + suffix,
			Acp:    "ACP" + suffix,
			Suc:    []string{"SUC" + suffix},
			Mvs:    "MVS" + suffix,
			Ask:    "ASK" + suffix,
		}
	}
}
