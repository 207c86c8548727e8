package tabular_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
	"github.com/yuvalsigall-cpu/menu-cleaner/tabular"
)

const catalogCSV = "\xef\xbb\xbf GTIN ,Merchant_SKU,Name,Category Name,price\n" +
	"7,s,Widget!!,A,10\n" +
	",S,widget,a,11\n" +
	",,,,\n" +
	"555,G-1,Gadget,B\n"

func TestResolveSchema(t *testing.T) {
	s, err := tabular.ResolveSchema([]string{" GTIN ", "merchant_sku", "NAME", "cat", "Category_ID"})
	require.NoError(t, err)
	assert.Equal(t, tabular.Schema{GTIN: 0, SKU: 1, Name: 2, Category: 4}, s)
}

func TestResolveSchemaCategoryVariants(t *testing.T) {
	for _, h := range []string{"category", "Category Name", "category_name", "CAT", "cat_id", "category-id", "catid"} {
		t.Run(h, func(t *testing.T) {
			s, err := tabular.ResolveSchema([]string{"gtin", "merchant_sku", "name", h})
			require.NoError(t, err)
			assert.Equal(t, 3, s.Category)
		})
	}
}

func TestResolveSchemaMissingColumns(t *testing.T) {
	_, err := tabular.ResolveSchema([]string{"gtin", "sku", "title"})

	var schemaErr *tabular.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"merchant_sku", "name", "category"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "merchant_sku")
}

func TestReadCSV(t *testing.T) {
	table, err := tabular.Read(strings.NewReader(catalogCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{" GTIN ", "Merchant_SKU", "Name", "Category Name", "price"}, table.Headers)
	require.Len(t, table.Records, 3, "blank record dropped")
	assert.Equal(t, []string{"555", "G-1", "Gadget", "B", ""}, table.Records[2], "short record padded")

	s, err := tabular.ResolveSchema(table.Headers)
	require.NoError(t, err)
	rows := table.Rows(s)
	assert.Equal(t, dedupe.Row{Index: 1, GTIN: "", SKU: "S", Name: "widget", Category: "a"}, rows[1])
}

func TestReadEmpty(t *testing.T) {
	_, err := tabular.Read(strings.NewReader(""))
	assert.ErrorIs(t, err, tabular.ErrEmptyFile)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"gtin", "merchant_sku", "name", "category_id"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"7290001", "S1", "Widget", "12"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"", "S2", "Gadget"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	table, err := tabular.Read(&buf)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, []string{"7290001", "S1", "Widget", "12"}, table.Records[0])
	assert.Equal(t, []string{"", "S2", "Gadget", ""}, table.Records[1])
}

func TestWriteWorkbook(t *testing.T) {
	table, err := tabular.Read(strings.NewReader(catalogCSV))
	require.NoError(t, err)
	s, err := tabular.ResolveSchema(table.Headers)
	require.NoError(t, err)
	rep := dedupe.Run(table.Rows(s))

	var buf bytes.Buffer
	require.NoError(t, tabular.WriteWorkbook(&buf, table, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{tabular.SheetProblematic, tabular.SheetKept}, f.GetSheetList())

	problematic, err := f.GetRows(tabular.SheetProblematic)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{" GTIN ", "Merchant_SKU", "Name", "Category Name", "price", "status"},
		{"7", "s", "Widget!!", "A", "10", "duplicate"},
		{"", "S", "widget", "a", "11", "missing gtin+ duplicate"},
	}, problematic)

	kept, err := f.GetRows(tabular.SheetKept)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{" GTIN ", "Merchant_SKU", "Name", "Category Name", "price", "status"},
		{"7", "s", "Widget!!", "A", "10", "duplicate"},
		{"555", "G-1", "Gadget", "B", "", "ok"},
	}, kept)
}

func TestWriteCSV(t *testing.T) {
	table, err := tabular.Read(strings.NewReader(catalogCSV))
	require.NoError(t, err)
	s, err := tabular.ResolveSchema(table.Headers)
	require.NoError(t, err)
	rep := dedupe.Run(table.Rows(s))

	var buf bytes.Buffer
	require.NoError(t, tabular.WriteCSV(&buf, table, rep, dedupe.Indices(rep.Lookup("gadget"))))
	// fields with a leading space are quoted by encoding/csv
	assert.Equal(t, "\" GTIN \",Merchant_SKU,Name,Category Name,price,status\n555,G-1,Gadget,B,,ok\n", buf.String())
}
