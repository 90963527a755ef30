package engine

import (
	"fmt"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/debug"
	"github.com/posting-planner/internal/geo"
	"github.com/posting-planner/internal/selection"
)

// Aggregator computes household totals over radius and selection areas
type Aggregator struct {
	debug bool
}

// NewAggregator creates a new aggregator
func NewAggregator(debugEnabled bool) *Aggregator {
	return &Aggregator{debug: debugEnabled}
}

// Radius aggregates every row of ds within radiusKm great-circle distance of
// center. Rows missing a coordinate are ignored. Matched rows keep dataset
// order. Any positive radius is accepted; input limits are a shell concern.
func (a *Aggregator) Radius(ds *dataset.Dataset, center geo.Point, radiusKm, unitPrice float64) Result {
	done := debug.DebugTiming(a.debug, fmt.Sprintf("radius scan %.1fkm around (%.6f, %.6f)", radiusKm, center.Lat, center.Lon))
	defer done()

	positions := ds.SpatialIndex().WithinRadius(center, radiusKm)
	debug.DebugOutput(a.debug, "radius scan matched %d of %d rows", len(positions), ds.Len())

	return newResult(ds.Pick(positions), unitPrice)
}

// Selection aggregates every row of ds whose address is selected. An address
// that appears in several rows contributes all of them; a selected address
// missing from ds contributes nothing.
func (a *Aggregator) Selection(ds *dataset.Dataset, sel selection.Set, unitPrice float64) Result {
	rows := ds.Filter(func(r dataset.AddressRecord) bool {
		return sel.Contains(r.Address)
	})
	debug.DebugOutput(a.debug, "selection of %d addresses matched %d rows", sel.Len(), rows.Len())

	return newResult(rows, unitPrice)
}
