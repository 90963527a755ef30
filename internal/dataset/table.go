package dataset

import (
	"github.com/posting-planner/internal/normalize"
)

// Table is a raw parsed source: named columns and loosely typed cells.
type Table struct {
	Name      string
	Columns   []string
	Rows      [][]any
	Mandatory bool
}

// columnIndex maps exact column names to their position; first occurrence wins
func (t *Table) columnIndex() map[string]int {
	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, seen := index[c]; !seen {
			index[c] = i
		}
	}
	return index
}

func cell(row []any, index map[string]int, column string) any {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// Records validates the mandatory columns and normalizes every row.
// Latitude and longitude columns are optional; when absent every row has
// missing coordinates.
func (t *Table) Records() ([]AddressRecord, error) {
	index := t.columnIndex()
	for _, required := range []string{ColumnAddress, ColumnHouseholds} {
		if _, ok := index[required]; !ok {
			return nil, NewLoadError(t.Name, "missing mandatory column "+required, nil)
		}
	}

	records := make([]AddressRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := AddressRecord{
			Address:    normalize.CellText(cell(row, index, ColumnAddress)),
			Households: normalize.Households(cell(row, index, ColumnHouseholds)),
		}
		if lat, ok := normalize.Coordinate(cell(row, index, ColumnLatitude)); ok {
			rec.Latitude = Coord(lat)
		}
		if lon, ok := normalize.Coordinate(cell(row, index, ColumnLongitude)); ok {
			rec.Longitude = Coord(lon)
		}
		records = append(records, rec)
	}
	return records, nil
}
