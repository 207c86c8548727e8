package dedupe

import "strings"

// Match is one row found by Lookup, with every derived field exposed for
// debugging a verdict.
type Match struct {
	Row            int        `json:"row"`
	GTIN           string     `json:"gtin"`
	SKU            string     `json:"merchant_sku"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	CleanGTIN      string     `json:"clean_gtin"`
	RawKey         string     `json:"raw_key"`
	NormKey        string     `json:"norm_key"`
	Flags          Flags      `json:"flags"`
	Duplicate      bool       `json:"duplicate"`
	Missing        bool       `json:"missing"`
	Suggestion     Suggestion `json:"suggestion"`
	DeletedBy      string     `json:"deleted_by,omitempty"`
	Status         Status     `json:"status"`
	NormKeyCount   int        `json:"norm_key_count"`
	NormKeyHasGTIN bool       `json:"norm_key_has_gtin"`
}

// Lookup finds rows whose cleaned GTIN equals the digits of query, whose raw
// key contains query (case-insensitive) or whose normalised key contains the
// normalised query. Matches come back in original order.
func (r *Report) Lookup(query string) []Match {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	digits := CleanGTIN(q)
	lowered := strings.ToLower(q)
	norm := NormalizeText(q)

	var out []Match
	for _, res := range r.Results {
		hit := digits != "" && res.CleanGTIN == digits
		hit = hit || strings.Contains(strings.ToLower(res.RawKey), lowered)
		// an all-punctuation query normalises to "" and would match every row
		hit = hit || (norm != "" && strings.Contains(res.NormKey, norm))
		if hit {
			out = append(out, r.match(res))
		}
	}
	return out
}

// Indices returns the row positions of matches, for exporting them.
func Indices(matches []Match) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Row
	}
	return out
}

func (r *Report) match(res Result) Match {
	return Match{
		Row:            res.Index,
		GTIN:           res.GTIN,
		SKU:            res.SKU,
		Name:           res.Name,
		Category:       res.Category,
		CleanGTIN:      res.CleanGTIN,
		RawKey:         res.RawKey,
		NormKey:        res.NormKey,
		Flags:          res.Flags,
		Duplicate:      res.Duplicate(),
		Missing:        res.Missing,
		Suggestion:     res.Suggestion,
		DeletedBy:      res.DeletedBy,
		Status:         res.Status,
		NormKeyCount:   r.Tables.NormCount[res.NormKey],
		NormKeyHasGTIN: r.Tables.NormHasGTIN[res.NormKey],
	}
}
