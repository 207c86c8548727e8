package dedupe

// Tables holds the frequency tables every duplicate signal is computed from.
// They are built once over the whole row set before any flag is evaluated.
type Tables struct {
	// PairCount counts PairKey over rows that have a GTIN.
	PairCount map[string]int
	// RawCount counts non-empty RawKey over rows without a GTIN.
	RawCount map[string]int
	// NormCount counts non-empty NormKey over all rows.
	NormCount map[string]int
	// NormHasGTIN is true when any row sharing the NormKey has a GTIN.
	NormHasGTIN map[string]bool
}

// Flags are the three independent duplicate signals of a row.
type Flags struct {
	ByGTIN    bool `json:"dup_by_gtin"`
	ByRawKey  bool `json:"dup_by_raw_key"`
	ByNormKey bool `json:"dup_by_norm_key"`
}

// Duplicate ORs the three signals.
func (f Flags) Duplicate() bool {
	return f.ByGTIN || f.ByRawKey || f.ByNormKey
}

// BuildTables counts every key space over the derived rows.
func BuildTables(derived []Derived) Tables {
	t := Tables{
		PairCount:   make(map[string]int),
		RawCount:    make(map[string]int),
		NormCount:   make(map[string]int),
		NormHasGTIN: make(map[string]bool),
	}
	for _, d := range derived {
		if d.Missing {
			if !IsEmptyKey(d.RawKey) {
				t.RawCount[d.RawKey]++
			}
		} else {
			t.PairCount[d.PairKey]++
			t.NormHasGTIN[d.NormKey] = true
		}
		if !IsEmptyKey(d.NormKey) {
			t.NormCount[d.NormKey]++
		}
	}
	return t
}

// Classify evaluates the duplicate signals of every row against t.
func Classify(derived []Derived, t Tables) []Flags {
	out := make([]Flags, len(derived))
	for i, d := range derived {
		var f Flags
		if d.Missing {
			f.ByRawKey = !IsEmptyKey(d.RawKey) && t.RawCount[d.RawKey] > 1
		} else {
			f.ByGTIN = t.PairCount[d.PairKey] > 1
		}
		if !IsEmptyKey(d.NormKey) {
			// A GTIN-less row also collides with a single GTIN-bearing twin.
			f.ByNormKey = t.NormCount[d.NormKey] > 1 || (d.Missing && t.NormHasGTIN[d.NormKey])
		}
		out[i] = f
	}
	return out
}
