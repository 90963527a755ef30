package engine

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/filter"
)

// Mode says how the area of interest was chosen
type Mode string

const (
	ModeRadius    Mode = "radius"
	ModeSelection Mode = "selection"
)

// ExportMeta describes the area behind a Result
type ExportMeta struct {
	Mode Mode
	// AreaLabel is the radius center address; unused for selections
	AreaLabel string
	RadiusKm  float64
	// Directions and ReferenceLabel describe a direction-filtered selection
	Directions     filter.Direction
	ReferenceLabel string
	Selected       []string
}

// SummaryItem is one key/value line of the export summary
type SummaryItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Export is a serializer-ready view of a Result: the matched rows in source
// column layout plus a summary block.
type Export struct {
	Columns       []string      `json:"columns"`
	Rows          [][]string    `json:"rows"`
	Summary       []SummaryItem `json:"summary"`
	SelectedAreas []string      `json:"selected_areas,omitempty"`
	FileBase      string        `json:"file_base"`
}

// Exporter shapes aggregation results for export
type Exporter struct{}

// NewExporter creates a new exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Build turns a result and its metadata into an Export. The output depends
// only on its inputs; no timestamps are added.
func (e *Exporter) Build(res Result, meta ExportMeta) Export {
	out := Export{
		Columns: append([]string(nil), dataset.Columns...),
		Rows:    e.tableRows(res.Rows),
	}

	switch meta.Mode {
	case ModeSelection:
		out.Summary = e.selectionSummary(res, meta)
		out.SelectedAreas = append([]string{}, meta.Selected...)
	default:
		out.Summary = e.radiusSummary(res, meta)
	}
	out.FileBase = FileBase(meta)
	return out
}

func (e *Exporter) tableRows(rows *dataset.Dataset) [][]string {
	out := make([][]string, 0, rows.Len())
	for _, r := range rows.Records() {
		out = append(out, []string{
			r.Address,
			strconv.Itoa(r.Households),
			formatCoordinate(r.Latitude),
			formatCoordinate(r.Longitude),
		})
	}
	return out
}

func (e *Exporter) radiusSummary(res Result, meta ExportMeta) []SummaryItem {
	return []SummaryItem{
		{Key: "Search area", Value: meta.AreaLabel},
		{Key: "Radius", Value: formatFloat(meta.RadiusKm) + "km"},
		{Key: "Total households", Value: humanize.Comma(int64(res.TotalHouseholds)) + " households"},
		{Key: "Unit price", Value: formatFloat(res.UnitPrice) + " per household"},
		{Key: "Estimated amount", Value: FormatAmount(res.TotalHouseholds, res.UnitPrice)},
	}
}

func (e *Exporter) selectionSummary(res Result, meta ExportMeta) []SummaryItem {
	return []SummaryItem{
		{Key: "Selection method", Value: DescribeSelection(meta.Directions, meta.ReferenceLabel)},
		{Key: "Reference point", Value: describeReference(meta.ReferenceLabel)},
		{Key: "Selected areas", Value: strconv.Itoa(len(meta.Selected))},
		{Key: "Total households", Value: humanize.Comma(int64(res.TotalHouseholds)) + " households"},
		{Key: "Unit price", Value: formatFloat(res.UnitPrice) + " per household"},
		{Key: "Estimated amount", Value: FormatAmount(res.TotalHouseholds, res.UnitPrice)},
	}
}

// DescribeSelection labels how a selection was narrowed
func DescribeSelection(dirs filter.Direction, reference string) string {
	if reference == "" || dirs.IsEmpty() {
		return "selected areas"
	}
	return "areas " + dirs.String() + " of reference point"
}

func describeReference(reference string) string {
	if reference == "" {
		return "none"
	}
	return "reference: " + reference
}

// FormatAmount renders households x unit price with thousands grouping.
// The product is computed in decimal so that 3 x 10.1 prints as 30.3.
func FormatAmount(totalHouseholds int, unitPrice float64) string {
	amount := decimal.NewFromInt(int64(totalHouseholds)).Mul(decimal.NewFromFloat(unitPrice))
	return groupDecimal(amount)
}

func groupDecimal(d decimal.Decimal) string {
	whole := d.Truncate(0)
	s := humanize.Comma(whole.IntPart())
	frac := d.Sub(whole).Abs()
	if !frac.IsZero() {
		// "0.25" -> ".25"
		s += strings.TrimPrefix(frac.String(), "0")
	}
	return s
}

func formatFloat(f float64) string {
	return decimal.NewFromFloat(f).String()
}

func formatCoordinate(c *float64) string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(*c, 'f', -1, 64)
}

// FileBase returns the export file name without extension
func FileBase(meta ExportMeta) string {
	if meta.Mode == ModeSelection {
		prefix := "selection"
		if meta.ReferenceLabel != "" {
			prefix = sanitizeFileLabel(meta.ReferenceLabel)
		}
		if !meta.Directions.IsEmpty() {
			prefix += "_" + meta.Directions.String()
		}
		return prefix + "_addresses"
	}
	return "radius_" + sanitizeFileLabel(meta.AreaLabel) + "_" + formatFloat(meta.RadiusKm) + "km"
}

var fileLabelReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")

func sanitizeFileLabel(s string) string {
	return fileLabelReplacer.Replace(strings.TrimSpace(s))
}
