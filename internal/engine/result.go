package engine

import (
	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/geo"
)

// Result is one aggregation over an area of interest. It is recomputed from
// scratch for every request and never updated in place.
type Result struct {
	Rows            *dataset.Dataset `json:"-"`
	TotalHouseholds int              `json:"total_households"`
	UnitPrice       float64          `json:"unit_price"`
	EstimatedAmount float64          `json:"estimated_amount"`
}

// MatchedRows returns the number of rows in the area
func (r Result) MatchedRows() int {
	return r.Rows.Len()
}

// Center returns the mean position of the matched rows with coordinates,
// the natural map center for the area
func (r Result) Center() (geo.Point, bool) {
	var points []geo.Point
	for _, rec := range r.Rows.Records() {
		if p, ok := rec.Point(); ok {
			points = append(points, p)
		}
	}
	return geo.Centroid(points)
}

func newResult(rows *dataset.Dataset, unitPrice float64) Result {
	total := rows.TotalHouseholds()
	return Result{
		Rows:            rows,
		TotalHouseholds: total,
		UnitPrice:       unitPrice,
		EstimatedAmount: Estimate(total, unitPrice),
	}
}
