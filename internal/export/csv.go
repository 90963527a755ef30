package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/posting-planner/internal/engine"
)

// WriteCSV writes the exported rows with a header line. The summary is only
// carried by the workbook format.
func WriteCSV(w io.Writer, exp engine.Export) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exp.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range exp.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
