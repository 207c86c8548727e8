// Package tabular reads catalog uploads into tables and renders cleanup
// reports back into workbooks.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
)

// ErrEmptyFile is returned when the upload has no header row.
var ErrEmptyFile = errors.New("file must include a header row")

// Table is an uploaded sheet: the header row plus data records padded to the
// header width. Values are kept verbatim.
type Table struct {
	Headers []string
	Records [][]string
}

// Field returns the value at col of record rec, or "" when out of range.
func (t *Table) Field(rec []string, col int) string {
	if col >= 0 && col < len(rec) {
		return rec[col]
	}
	return ""
}

// Rows projects the records onto the logical fields of s.
func (t *Table) Rows(s Schema) []dedupe.Row {
	out := make([]dedupe.Row, len(t.Records))
	for i, rec := range t.Records {
		out[i] = dedupe.Row{
			Index:    i,
			GTIN:     t.Field(rec, s.GTIN),
			SKU:      t.Field(rec, s.SKU),
			Name:     t.Field(rec, s.Name),
			Category: t.Field(rec, s.Category),
		}
	}
	return out
}

// Read parses an upload. Workbooks are tried first and anything that is not a
// workbook is read as CSV.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if t, err := readXLSX(data); err == nil {
		return t, nil
	}
	return readCSV(data)
}

func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return newTable(rows)
}

func readCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return newTable(rows)
}

// newTable takes the first row as headers and pads or truncates every record
// to the header width. Entirely blank records are dropped.
func newTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, ErrEmptyFile
	}
	t := &Table{Headers: rows[0]}
	width := len(t.Headers)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make([]string, width)
		copy(rec, row)
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
