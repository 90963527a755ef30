package source

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/posting-planner/internal/dataset"
)

// ReadXLSX parses the first sheet of a workbook; its first row is the header
func ReadXLSX(name string, r io.Reader) (*dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, dataset.NewLoadError(name, "failed to open excel", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dataset.NewLoadError(name, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, dataset.NewLoadError(name, "failed to read sheet "+sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, dataset.NewLoadError(name, "empty source", nil)
	}

	t := &dataset.Table{Name: name, Columns: rows[0]}
	for _, r := range rows[1:] {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
