package dedupe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
)

func lookupReport() *dedupe.Report {
	return dedupe.Run(rows(
		dedupe.Row{GTIN: "729-0001", SKU: "s", Name: "Widget!!", Category: "A"},
		dedupe.Row{GTIN: "", SKU: "S", Name: "widget", Category: "a"},
		dedupe.Row{GTIN: "555", SKU: "G-1", Name: "Gadget", Category: "B"},
	))
}

func TestLookupByGTINDigits(t *testing.T) {
	matches := lookupReport().Lookup(" 7290001 ")

	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Row)
	assert.Equal(t, "7290001", matches[0].CleanGTIN)
	assert.Equal(t, 2, matches[0].NormKeyCount)
	assert.True(t, matches[0].NormKeyHasGTIN)
}

func TestLookupByRawSubstringIgnoresCase(t *testing.T) {
	matches := lookupReport().Lookup("GADG")

	require.Len(t, matches, 1)
	assert.Equal(t, "Gadget", matches[0].Name)
	assert.Equal(t, dedupe.StatusOK, matches[0].Status)
}

func TestLookupByNormalizedSubstring(t *testing.T) {
	matches := lookupReport().Lookup("WIDGET!")

	assert.Equal(t, []int{0, 1}, dedupe.Indices(matches))
	assert.Equal(t, dedupe.Delete, matches[1].Suggestion)
	assert.True(t, matches[1].Flags.ByNormKey)
	assert.True(t, matches[1].Missing)
}

func TestLookupEmptyOrPunctuationOnly(t *testing.T) {
	rep := lookupReport()

	assert.Empty(t, rep.Lookup("   "))
	assert.Empty(t, rep.Lookup("%%%"))
}
