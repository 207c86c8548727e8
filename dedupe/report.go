// Package dedupe decides which rows of a product catalog describe the same
// product and which copy of each product survives the cleanup.
//
// The pipeline is a chain of pure stages: Derive, BuildTables, Classify,
// SelectKeepers, Label and Partition. Run composes them.
package dedupe

import "sort"

// Result is the full verdict of one row.
type Result struct {
	Derived
	Flags
	Status     Status
	Suggestion Suggestion
	// DeletedBy names the keeper pass that marked the row Delete.
	DeletedBy  string
}

// Duplicate reports whether any duplicate signal fired.
func (r Result) Duplicate() bool {
	return r.Flags.Duplicate()
}

// Report is the outcome of one cleanup run.
type Report struct {
	Results []Result
	Tables  Tables
	// Kept lists row positions suggested Keep, in original order.
	Kept []int
	// Problematic lists rows suggested Delete or with a non-ok status, sorted
	// for review.
	Problematic []int
}

// Summary holds the counts of a run.
type Summary struct {
	Total               int `json:"total"`
	Kept                int `json:"kept"`
	Problematic         int `json:"problematic"`
	Deleted             int `json:"deleted"`
	OK                  int `json:"ok"`
	Missing             int `json:"missing"`
	Duplicate           int `json:"duplicate"`
	MissingAndDuplicate int `json:"missing_and_duplicate"`
	DupByGTIN           int `json:"dup_by_gtin"`
	DupByRawKey         int `json:"dup_by_raw_key"`
	DupByNormKey        int `json:"dup_by_norm_key"`
}

// Run executes the whole pipeline over rows.
func Run(rows []Row) *Report {
	derived := Derive(rows)
	tables := BuildTables(derived)
	flags := Classify(derived, tables)
	suggestions, deletedBy := SelectKeepersTraced(derived, flags, tables)
	statuses := Label(derived, flags)

	results := make([]Result, len(rows))
	for i := range derived {
		results[i] = Result{
			Derived:    derived[i],
			Flags:      flags[i],
			Status:     statuses[i],
			Suggestion: suggestions[i],
			DeletedBy:  deletedBy[i],
		}
	}

	kept, problematic := Partition(results)
	return &Report{
		Results:     results,
		Tables:      tables,
		Kept:        kept,
		Problematic: problematic,
	}
}

// Partition splits results into the kept set (original order) and the
// problematic set, sorted by status rank, normalised category, name and SKU.
func Partition(results []Result) (kept, problematic []int) {
	for i, r := range results {
		if r.Suggestion == Keep {
			kept = append(kept, i)
		}
		if r.Suggestion == Delete || r.Status != StatusOK {
			problematic = append(problematic, i)
		}
	}

	sort.SliceStable(problematic, func(a, b int) bool {
		ra, rb := results[problematic[a]], results[problematic[b]]
		if ka, kb := ra.Status.rank(), rb.Status.rank(); ka != kb {
			return ka < kb
		}
		if ra.CategoryNorm != rb.CategoryNorm {
			return ra.CategoryNorm < rb.CategoryNorm
		}
		if ra.Name != rb.Name {
			return ra.Name < rb.Name
		}
		return ra.SKU < rb.SKU
	})
	return kept, problematic
}

// Summary counts the report.
func (r *Report) Summary() Summary {
	s := Summary{
		Total:       len(r.Results),
		Kept:        len(r.Kept),
		Problematic: len(r.Problematic),
	}
	for _, res := range r.Results {
		if res.Suggestion == Delete {
			s.Deleted++
		}
		switch res.Status {
		case StatusOK:
			s.OK++
		case StatusMissing:
			s.Missing++
		case StatusDuplicate:
			s.Duplicate++
		case StatusMissingAndDuplicate:
			s.MissingAndDuplicate++
		}
		if res.ByGTIN {
			s.DupByGTIN++
		}
		if res.ByRawKey {
			s.DupByRawKey++
		}
		if res.ByNormKey {
			s.DupByNormKey++
		}
	}
	return s
}
