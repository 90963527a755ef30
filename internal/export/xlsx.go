package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/engine"
)

// Sheet names of an exported workbook
const (
	SheetAddresses     = "Addresses"
	SheetSummary       = "Summary"
	SheetSelectedAreas = "Selected Areas"
)

// Workbook builds the export workbook: the rows, a key/value summary and,
// for selections, the list of selected areas
func Workbook(exp engine.Export) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetAddresses); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	rows := make([][]any, 0, len(exp.Rows)+1)
	rows = append(rows, stringsToCells(exp.Columns))
	for _, r := range exp.Rows {
		rows = append(rows, addressCells(exp.Columns, r))
	}
	if err := writeSheet(f, SheetAddresses, rows, headerStyle, colWidth{"A", "A", 30}, colWidth{"B", "D", 14}); err != nil {
		f.Close()
		return nil, err
	}

	summary := [][]any{{"Key", "Value"}}
	for _, item := range exp.Summary {
		summary = append(summary, []any{item.Key, item.Value})
	}
	if err := writeSheet(f, SheetSummary, summary, headerStyle, colWidth{"A", "B", 24}); err != nil {
		f.Close()
		return nil, err
	}

	if len(exp.SelectedAreas) > 0 {
		areas := [][]any{{"Selected area"}}
		for _, a := range exp.SelectedAreas {
			areas = append(areas, []any{a})
		}
		if err := writeSheet(f, SheetSelectedAreas, areas, headerStyle, colWidth{"A", "A", 30}); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteXLSX writes the export workbook to w
func WriteXLSX(w io.Writer, exp engine.Export) error {
	f, err := Workbook(exp)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// colWidth sets the width of the columns from..to
type colWidth struct {
	from, to string
	width    float64
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int, widths ...colWidth) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	for _, cw := range widths {
		if err := f.SetColWidth(sheet, cw.from, cw.to, cw.width); err != nil {
			return err
		}
	}
	return f.SetRowStyle(sheet, 1, 1, headerStyle)
}

func stringsToCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// addressCells keeps numeric columns numeric so the sheet can be summed
func addressCells(columns, row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
		if i >= len(columns) || v == "" {
			continue
		}
		switch columns[i] {
		case dataset.ColumnHouseholds:
			if n, err := strconv.Atoi(v); err == nil {
				out[i] = n
			}
		case dataset.ColumnLatitude, dataset.ColumnLongitude:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				out[i] = f
			}
		}
	}
	return out
}
