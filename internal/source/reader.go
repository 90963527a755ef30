package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/posting-planner/internal/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is a supported source file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from a file name extension
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(name))
	}
}

// Read parses an uploaded or on-disk source. The format follows the name's
// extension; header aliases are applied before the table is returned.
func Read(name string, r io.Reader, aliases map[string]string) (*dataset.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, dataset.NewLoadError(name, "unreadable source", err)
	}

	var t *dataset.Table
	switch format {
	case FormatXLSX:
		t, err = ReadXLSX(name, r)
	default:
		t, err = ReadCSV(name, r)
	}
	if err != nil {
		return nil, err
	}
	ApplyAliases(t, aliases)
	return t, nil
}

// ReadFile opens and parses a source file
func ReadFile(path string, aliases map[string]string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, dataset.NewLoadError(path, "unreadable source", err)
	}
	defer file.Close()

	return Read(filepath.Base(path), file, aliases)
}

// ApplyAliases renames header columns to their canonical names
func ApplyAliases(t *dataset.Table, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	for i, c := range t.Columns {
		if canonical, ok := aliases[c]; ok {
			t.Columns[i] = canonical
		}
	}
}

// decodeText returns the file as UTF-8. Files that are not valid UTF-8 are
// taken to be Shift_JIS, the usual encoding of spreadsheet exports here.
func decodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode shift_jis: %w", err)
	}
	return string(decoded), nil
}
