package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
)

// Sheet names and the appended column of the cleanup workbook.
const (
	SheetProblematic = "Duplicates_Only"
	SheetKept        = "Full_Data"
	StatusColumn     = "status"

	DefaultReportName = "menu_cleaner_debug_final.xlsx"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteWorkbook renders the problematic and kept row sets of rep as two
// sheets. Each sheet carries the original columns plus the status column.
func WriteWorkbook(w io.Writer, t *Table, rep *dedupe.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProblematic); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetKept); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for _, sheet := range []struct {
		name string
		rows []int
	}{
		{SheetProblematic, rep.Problematic},
		{SheetKept, rep.Kept},
	} {
		if err := writeSheet(f, sheet.name, t, rep, sheet.rows); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet.name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet.name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *Table, rep *dedupe.Report, positions []int) error {
	if err := f.SetSheetRow(sheet, "A1", toCells(exportHeaders(t))); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	for n, pos := range positions {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, toCells(exportRecord(t, rep.Results[pos]))); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", n+2, sheet, err)
		}
	}
	return nil
}

// WriteCSV renders the given results as CSV with the original columns plus
// the status column.
func WriteCSV(w io.Writer, t *Table, rep *dedupe.Report, positions []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders(t)); err != nil {
		return err
	}
	for _, pos := range positions {
		if err := cw.Write(exportRecord(t, rep.Results[pos])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportHeaders(t *Table) []string {
	out := make([]string, 0, len(t.Headers)+1)
	out = append(out, t.Headers...)
	return append(out, StatusColumn)
}

func exportRecord(t *Table, res dedupe.Result) []string {
	rec := t.Records[res.Index]
	out := make([]string, 0, len(rec)+1)
	out = append(out, rec...)
	return append(out, res.Status.String())
}

// toCells wraps values for SetSheetRow. Values are written as strings.
func toCells(values []string) *[]interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return &cells
}
