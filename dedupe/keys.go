package dedupe

import "strings"

// KeySeparator joins the parts of every grouping key.
const KeySeparator = "||"

// Row is one catalog entry as read from the upload. Index is the row's
// position in the source table and defines "original order".
type Row struct {
	Index    int
	GTIN     string
	SKU      string
	Name     string
	Category string
}

// Derived carries the normalised fields and grouping keys of a row.
type Derived struct {
	Row
	CleanGTIN    string
	CategoryNorm string
	PairKey      string
	RawKey       string
	NormKey      string
	Missing      bool
}

// Derive computes the comparable fields of every row. It never fails: blank or
// garbage values simply produce blank derived fields.
func Derive(rows []Row) []Derived {
	out := make([]Derived, len(rows))
	for i, r := range rows {
		gtin := CleanGTIN(r.GTIN)
		cat := strings.TrimSpace(r.Category)
		out[i] = Derived{
			Row:          r,
			CleanGTIN:    gtin,
			CategoryNorm: cat,
			PairKey:      joinKey(gtin, cat),
			RawKey:       joinKey(strings.TrimSpace(r.SKU), strings.TrimSpace(r.Name), cat),
			NormKey:      joinKey(NormalizeText(r.SKU), NormalizeText(r.Name), NormalizeText(r.Category)),
			Missing:      gtin == "",
		}
	}
	return out
}

// IsEmptyKey reports whether a composite key carries no content once the
// separator characters are removed. Empty keys never form groups.
func IsEmptyKey(key string) bool {
	return strings.TrimSpace(strings.ReplaceAll(key, "|", "")) == ""
}

func joinKey(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}
