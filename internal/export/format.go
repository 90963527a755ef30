package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/posting-planner/internal/engine"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx"; empty means csv
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download file name for an export
func (f Format) FileName(exp engine.Export) string {
	return exp.FileBase + "." + string(f)
}

// Write serializes the export in this format
func (f Format) Write(w io.Writer, exp engine.Export) error {
	if f == FormatXLSX {
		return WriteXLSX(w, exp)
	}
	return WriteCSV(w, exp)
}
