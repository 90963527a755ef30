package source

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/posting-planner/internal/dataset"
)

// ReadCSV parses a CSV source whose first record is the header
func ReadCSV(name string, r io.Reader) (*dataset.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, dataset.NewLoadError(name, "unreadable source", err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, dataset.NewLoadError(name, "unreadable source", err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, dataset.NewLoadError(name, "empty source", nil)
	}
	if err != nil {
		return nil, dataset.NewLoadError(name, "failed to read header", err)
	}

	t := &dataset.Table{Name: name, Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dataset.NewLoadError(name, "failed to read record", err)
		}

		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
