// Package export writes the run's tables as a spreadsheet workbook for
// downstream analysis: one sheet of joined observations, one sheet of the
// income-level reference table.
package export

import (
	"context"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"wdireport/internal/artifact"
	"wdireport/internal/domain"
)

const (
	joinedSheet    = "Joined"
	referenceSheet = "Reference"
)

// XLSXWriter produces the two-sheet workbook artifact. The output file is
// overwritten on every run.
type XLSXWriter struct {
	path string
}

var _ artifact.Writer = (*XLSXWriter)(nil)

// NewXLSXWriter wires the workbook destination path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Format reports the registry key for this writer.
func (w *XLSXWriter) Format() string { return "xlsx" }

// Write fills both sheets and saves the workbook, reporting the path.
// Missing observation values leave their cell empty rather than carrying a
// NaN literal into the spreadsheet.
func (w *XLSXWriter) Write(_ context.Context, report domain.Report) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", joinedSheet); err != nil {
		return "", fmt.Errorf("name joined sheet: %w", err)
	}
	if err := writeJoined(f, report.Table); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(referenceSheet); err != nil {
		return "", fmt.Errorf("add reference sheet: %w", err)
	}
	if err := writeReference(f, report.Reference); err != nil {
		return "", err
	}

	if err := f.SaveAs(w.path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return w.path, nil
}

func writeJoined(f *excelize.File, rows []domain.ClassifiedObservation) error {
	header := []any{"country", "date", "value", "id", "iso2Code", "income_level"}
	if err := setRow(f, joinedSheet, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		cells := []any{
			row.Country,
			row.Date.Format("2006-01-02"),
			row.Value,
			row.IncomeLevelID,
			row.ISO2Code,
			row.IncomeLevel,
		}
		if math.IsNaN(row.Value) {
			cells[2] = nil
		}
		if err := setRow(f, joinedSheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeReference(f *excelize.File, rows []domain.CountryInfo) error {
	header := []any{"id", "iso2Code", "country", "income_level"}
	if err := setRow(f, referenceSheet, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		cells := []any{row.ID, row.ISO2Code, row.Country, row.IncomeLevel}
		if err := setRow(f, referenceSheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("address %s row %d: %w", sheet, row, err)
		}
		if value == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
