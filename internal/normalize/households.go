package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Households coerces a household-count cell to a non-negative integer.
// The value is treated as text, thousands separators are stripped and the
// remainder parsed. Anything unparseable, non-finite, negative or beyond
// the int range becomes 0.
func Households(v any) int {
	text := CellText(v)
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n < 0 || n > math.MaxInt {
			return 0
		}
		return int(n)
	}

	// "1200.0" style cells come out of spreadsheets and float columns
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt {
		return 0
	}
	return int(f)
}

// Coordinate parses a latitude/longitude cell. ok is false when the cell is
// empty, unparseable or not finite.
func Coordinate(v any) (value float64, ok bool) {
	switch c := v.(type) {
	case nil:
		return 0, false
	case float64:
		value = c
	case float32:
		value = float64(c)
	case int:
		value = float64(c)
	case int64:
		value = float64(c)
	default:
		text := strings.TrimSpace(CellText(v))
		if text == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		value = f
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// CellText renders a raw table cell as text the way a spreadsheet export would
func CellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []byte:
		return string(c)
	case json.Number:
		return c.String()
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(v)
	}
}
