// Package report renders the explanation report for rejected records.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"vcfclean/pkg/domain"

	"github.com/xuri/excelize/v2"
)

// DefaultPath is the file name of the text report.
const DefaultPath = "invalid_explanations.txt"

// SheetName is the worksheet of the XLSX report.
const SheetName = "Invalid contacts"

// Render returns the text report: for every invalid record a
// "Contact: <label>" line, one "  - <message>" line per violation and a blank
// separator line.
func Render(invalid []domain.Classified) string {
	var b strings.Builder
	for _, entry := range invalid {
		b.WriteString("Contact: ")
		b.WriteString(entry.Record.Label())
		b.WriteByte('\n')
		for _, msg := range entry.Result {
			b.WriteString("  - ")
			b.WriteString(msg)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// RenderXLSX returns the report as an XLSX workbook with one row per
// violation: record number (1-based, in segmentation order), contact label and
// message.
func RenderXLSX(invalid []domain.Classified) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("could not name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &[]any{"Record", "Contact", "Violation"}); err != nil {
		return nil, fmt.Errorf("could not write header: %w", err)
	}

	row := 2
	for _, entry := range invalid {
		for _, msg := range entry.Result {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, fmt.Errorf("could not address row %d: %w", row, err)
			}
			values := []any{strconv.Itoa(entry.Record.Index + 1), entry.Record.Label(), msg}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return nil, fmt.Errorf("could not write row %d: %w", row, err)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not encode workbook: %w", err)
	}

	return buf.Bytes(), nil
}
