package dedupe_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
)

func rows(in ...dedupe.Row) []dedupe.Row {
	for i := range in {
		in[i].Index = i
	}
	return in
}

func TestRunUniqueRowIsOK(t *testing.T) {
	rep := dedupe.Run(rows(dedupe.Row{GTIN: "1", SKU: "s", Name: "Widget", Category: "A"}))

	require.Len(t, rep.Results, 1)
	assert.Equal(t, dedupe.StatusOK, rep.Results[0].Status)
	assert.Equal(t, dedupe.Keep, rep.Results[0].Suggestion)
	assert.Equal(t, []int{0}, rep.Kept)
	assert.Empty(t, rep.Problematic)
}

func TestRunDigitStringsMustMatchExactly(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "012345", SKU: "a", Name: "One", Category: "A"},
		dedupe.Row{GTIN: "0123450", SKU: "b", Name: "Two", Category: "A"},
	))

	for _, r := range rep.Results {
		assert.Equal(t, dedupe.StatusOK, r.Status)
		assert.Equal(t, dedupe.Keep, r.Suggestion)
	}
}

func TestRunSameGTINDifferentCategoryIsNotDuplicate(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "77", SKU: "a", Name: "One", Category: "A"},
		dedupe.Row{GTIN: "77", SKU: "b", Name: "Two", Category: "B"},
	))

	assert.False(t, rep.Results[0].ByGTIN)
	assert.False(t, rep.Results[1].ByGTIN)
}

func TestRunGTINGroupKeepsFirst(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "77", SKU: "a", Name: "One", Category: "A"},
		dedupe.Row{GTIN: "0077", SKU: "b", Name: "Two", Category: "A"},
		dedupe.Row{GTIN: " 77 ", SKU: "c", Name: "Three", Category: " A"},
	))

	r := rep.Results
	assert.True(t, r[0].ByGTIN)
	assert.False(t, r[1].ByGTIN, "leading zeros are significant")
	assert.True(t, r[2].ByGTIN)
	assert.Equal(t, dedupe.Keep, r[0].Suggestion)
	assert.Equal(t, dedupe.Keep, r[1].Suggestion)
	assert.Equal(t, dedupe.Delete, r[2].Suggestion)
	assert.Equal(t, dedupe.StatusDuplicate, r[0].Status)
	assert.Equal(t, dedupe.StatusOK, r[1].Status)
}

func TestRunMissingGTINRawKeyDuplicates(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "", SKU: "S1", Name: "Widget", Category: "A"},
		dedupe.Row{GTIN: "", SKU: "S1", Name: "Widget", Category: "A"},
	))

	r := rep.Results
	assert.True(t, r[0].ByRawKey)
	assert.True(t, r[1].ByRawKey)
	assert.Equal(t, dedupe.Keep, r[0].Suggestion)
	assert.Equal(t, dedupe.Delete, r[1].Suggestion)
	assert.Equal(t, dedupe.StatusMissingAndDuplicate, r[0].Status)
	assert.Equal(t, dedupe.StatusMissingAndDuplicate, r[1].Status)
}

func TestRunNormalizedMatchPrefersGTINKeeper(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "7", SKU: "s", Name: "Widget!!", Category: "A"},
		dedupe.Row{GTIN: "", SKU: "S", Name: "widget", Category: "a"},
	))

	a, b := rep.Results[0], rep.Results[1]
	require.Equal(t, a.NormKey, b.NormKey)
	assert.True(t, b.Missing)
	assert.True(t, rep.Tables.NormHasGTIN[b.NormKey])
	assert.True(t, b.ByNormKey)
	assert.Equal(t, dedupe.Keep, a.Suggestion)
	assert.Equal(t, dedupe.Delete, b.Suggestion)
	assert.Equal(t, dedupe.StatusDuplicate, a.Status)
	assert.Equal(t, dedupe.StatusMissingAndDuplicate, b.Status)
}

func TestRunNormalizedPassOverridesOrder(t *testing.T) {
	// the GTIN-bearing copy comes second but still wins
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "", SKU: "S", Name: "widget", Category: "a"},
		dedupe.Row{GTIN: "7", SKU: "s", Name: "Widget!!", Category: "A"},
	))

	assert.Equal(t, dedupe.Delete, rep.Results[0].Suggestion)
	assert.Equal(t, dedupe.Keep, rep.Results[1].Suggestion)
}

func TestRunNormalizedPassFallsBackToSurvivor(t *testing.T) {
	// no GTIN anywhere: rows 0 and 1 collide on raw key, row 2 only on the
	// normalised key. Row 0 survives pass two and is kept by pass three.
	rep := dedupe.Run(rows(
		dedupe.Row{SKU: "S", Name: "Widget", Category: "A"},
		dedupe.Row{SKU: "S", Name: "Widget", Category: "A"},
		dedupe.Row{SKU: "s", Name: "WIDGET", Category: "a"},
	))

	r := rep.Results
	assert.Equal(t, dedupe.Keep, r[0].Suggestion)
	assert.Equal(t, dedupe.Delete, r[1].Suggestion)
	assert.Equal(t, dedupe.Delete, r[2].Suggestion)
}

func TestRunDeletedRowIsNeverResurrected(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "1", SKU: "a", Name: "Foo", Category: "X"},
		dedupe.Row{GTIN: "1", SKU: "b", Name: "Bar", Category: "X"},
		dedupe.Row{GTIN: "", SKU: "B", Name: "bar", Category: "x"},
	))

	r := rep.Results
	assert.Equal(t, dedupe.Keep, r[0].Suggestion)
	// row 1 lost the GTIN pass and is still chosen as the norm-key keeper,
	// so its GTIN-less twin is dropped too
	assert.Equal(t, dedupe.Delete, r[1].Suggestion)
	assert.Equal(t, dedupe.Delete, r[2].Suggestion)
}

// A GTIN-less row flagged only through the GTIN twin rule, with a normalised
// key count of one, is never grouped and keeps its Keep verdict. Tables built
// by BuildTables never produce this shape (a GTIN twin always raises the count
// to two), so the stages are driven directly.
func TestSelectKeepersSkipsTwinFlaggedSingleton(t *testing.T) {
	derived := []dedupe.Derived{
		{Row: dedupe.Row{Index: 0}, NormKey: "s||widget||a", Missing: true},
	}
	tables := dedupe.Tables{
		PairCount:   map[string]int{},
		RawCount:    map[string]int{},
		NormCount:   map[string]int{"s||widget||a": 1},
		NormHasGTIN: map[string]bool{"s||widget||a": true},
	}
	flags := dedupe.Classify(derived, tables)

	assert.True(t, flags[0].ByNormKey)
	assert.Equal(t, []dedupe.Suggestion{dedupe.Keep}, dedupe.SelectKeepers(derived, flags, tables))
	assert.Equal(t, dedupe.StatusMissingAndDuplicate, dedupe.Label(derived, flags)[0])
}

func TestBuildTablesTwinAlwaysCountsTwo(t *testing.T) {
	derived := dedupe.Derive(rows(
		dedupe.Row{GTIN: "7", SKU: "s", Name: "Widget", Category: "A"},
		dedupe.Row{GTIN: "", SKU: "S", Name: "widget!", Category: "a"},
	))
	tables := dedupe.BuildTables(derived)

	assert.True(t, tables.NormHasGTIN["s||widget||a"])
	assert.Equal(t, 2, tables.NormCount["s||widget||a"])
}

func TestRunBlankRowsNeverGroup(t *testing.T) {
	var in []dedupe.Row
	for i := 0; i < 5; i++ {
		in = append(in, dedupe.Row{GTIN: "n/a", SKU: " ", Name: "", Category: "  "})
	}
	rep := dedupe.Run(rows(in...))

	for _, r := range rep.Results {
		assert.False(t, r.Duplicate())
		assert.Equal(t, dedupe.StatusMissing, r.Status)
		assert.Equal(t, dedupe.Keep, r.Suggestion)
	}
	assert.Empty(t, rep.Tables.RawCount)
	assert.Empty(t, rep.Tables.NormCount)
	// standalone missing rows stay visible for review
	assert.Len(t, rep.Problematic, 5)
	assert.Len(t, rep.Kept, 5)
}

func TestRunPipeCharactersDoNotFormKeys(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{SKU: "|", Name: "||", Category: ""},
		dedupe.Row{SKU: "|", Name: "||", Category: ""},
	))
	for _, r := range rep.Results {
		assert.False(t, r.ByRawKey)
		assert.False(t, r.ByNormKey)
	}
}

func TestRunTotalityAndIdempotence(t *testing.T) {
	in := sampleCatalog()
	first := dedupe.Run(in)
	second := dedupe.Run(in)

	require.Len(t, first.Results, len(in))
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.Kept, second.Kept)
	assert.Equal(t, first.Problematic, second.Problematic)

	for _, r := range first.Results {
		assert.NotEmpty(t, r.Status.String())
		assert.Contains(t, []dedupe.Suggestion{dedupe.Keep, dedupe.Delete}, r.Suggestion)
	}
}

// Holds as long as no normalised-key group reaches into a pair group and
// overrides its keeper; sampleCatalog has no such overlap.
func TestRunExactlyOneKeeperPerPairGroupWithoutNormOverride(t *testing.T) {
	rep := dedupe.Run(sampleCatalog())

	keepers := make(map[string]int)
	members := make(map[string]int)
	for _, r := range rep.Results {
		if !r.ByGTIN {
			continue
		}
		members[r.PairKey]++
		if r.Suggestion == dedupe.Keep {
			keepers[r.PairKey]++
		}
	}
	require.NotEmpty(t, members)
	for k := range members {
		assert.Equal(t, 1, keepers[k], "pair group %q", k)
	}
}

func TestRunNormalizedPassCanEmptyPairGroup(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "2", SKU: "a", Name: "Foo", Category: "X"},
		dedupe.Row{GTIN: "1", SKU: "a", Name: "Foo", Category: "X"},
		dedupe.Row{GTIN: "1", SKU: "b", Name: "Bar", Category: "X"},
	))

	assert.Equal(t, dedupe.Keep, rep.Results[0].Suggestion)
	for _, i := range []int{1, 2} {
		r := rep.Results[i]
		assert.Equal(t, "1||X", r.PairKey)
		assert.True(t, r.ByGTIN)
		assert.Equal(t, dedupe.Delete, r.Suggestion, "row %d", i)
	}
	assert.Equal(t, "norm_key", rep.Results[1].DeletedBy)
	assert.Equal(t, "gtin", rep.Results[2].DeletedBy)
	assert.Empty(t, rep.Results[0].DeletedBy)
	assert.Equal(t, []int{0}, rep.Kept)

	matches := rep.Lookup("foo")
	require.Len(t, matches, 2)
	assert.Equal(t, "norm_key", matches[1].DeletedBy)
}

func TestPartitionOrder(t *testing.T) {
	rep := dedupe.Run(sampleCatalog())

	rank := map[dedupe.Status]int{
		dedupe.StatusDuplicate:           0,
		dedupe.StatusMissingAndDuplicate: 1,
		dedupe.StatusMissing:             2,
	}
	prev := -1
	for _, i := range rep.Problematic {
		r := rep.Results[i]
		assert.True(t, r.Suggestion == dedupe.Delete || r.Status != dedupe.StatusOK)
		cur := rank[r.Status]
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	for k := 1; k < len(rep.Kept); k++ {
		assert.Less(t, rep.Kept[k-1], rep.Kept[k])
	}
}

func TestPartitionSortsWithinStatus(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{Name: "b", SKU: "1", Category: "B"},
		dedupe.Row{Name: "b", SKU: "0", Category: "A"},
		dedupe.Row{Name: "a", SKU: "9", Category: "A"},
		dedupe.Row{Name: "B", SKU: "9", Category: "A"},
	))

	// all four are standalone missing rows
	assert.Equal(t, []int{3, 2, 1, 0}, rep.Problematic)
}

func TestSummary(t *testing.T) {
	rep := dedupe.Run(rows(
		dedupe.Row{GTIN: "1", SKU: "a", Name: "x", Category: "A"},
		dedupe.Row{GTIN: "1", SKU: "b", Name: "y", Category: "A"},
		dedupe.Row{GTIN: "", SKU: "c", Name: "z", Category: "A"},
		dedupe.Row{GTIN: "2", SKU: "d", Name: "w", Category: "A"},
	))

	s := rep.Summary()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Kept)
	assert.Equal(t, 1, s.Deleted)
	assert.Equal(t, 2, s.Duplicate)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 1, s.OK)
	assert.Equal(t, 2, s.DupByGTIN)
	assert.Equal(t, 3, s.Problematic)
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "ok", dedupe.StatusOK.String())
	assert.Equal(t, "missing gtin", dedupe.StatusMissing.String())
	assert.Equal(t, "duplicate", dedupe.StatusDuplicate.String())
	assert.Equal(t, "missing gtin+ duplicate", dedupe.StatusMissingAndDuplicate.String())
	assert.Equal(t, "DELETE", dedupe.Delete.String())
}

func TestKeeperPolicies(t *testing.T) {
	derived := []dedupe.Derived{{Missing: true}, {Missing: true}, {Missing: false}}
	current := []dedupe.Suggestion{dedupe.Delete, dedupe.Keep, dedupe.Delete}

	assert.Equal(t, 0, dedupe.FirstInOrder([]int{0, 1, 2}, derived, current))
	assert.Equal(t, 2, dedupe.PreferGTIN([]int{0, 1, 2}, derived, current))
	assert.Equal(t, 1, dedupe.PreferGTIN([]int{0, 1}, derived, current))
	assert.Equal(t, 0, dedupe.PreferGTIN([]int{0}, derived, current))
}

func sampleCatalog() []dedupe.Row {
	var in []dedupe.Row
	for i := 0; i < 30; i++ {
		r := dedupe.Row{
			SKU:      fmt.Sprintf("SKU-%d", i%7),
			Name:     fmt.Sprintf("Item %d", i%5),
			Category: fmt.Sprintf("Cat%d", i%3),
		}
		if i%4 != 0 {
			r.GTIN = fmt.Sprintf("729%03d", i%6)
		}
		in = append(in, r)
	}
	return rows(in...)
}
