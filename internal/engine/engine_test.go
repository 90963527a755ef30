package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/geo"
	"github.com/posting-planner/internal/selection"
)

func twoTowns(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, _, err := dataset.Load(&dataset.Table{
		Name:    "towns.csv",
		Columns: dataset.Columns,
		Rows: [][]any{
			{"Town A", "1,200", 34.0, 135.0},
			{"Town B", "300", 34.01, 135.0},
		},
		Mandatory: true,
	})
	require.NoError(t, err)
	return ds
}

func TestRadiusAggregation(t *testing.T) {
	ds := twoTowns(t)
	center, err := ds.LookupPoint("Town A")
	require.NoError(t, err)

	res := NewAggregator(false).Radius(ds, center, 2, 10)
	assert.Equal(t, 2, res.MatchedRows())
	assert.Equal(t, 1500, res.TotalHouseholds)
	assert.Equal(t, 15000.0, res.EstimatedAmount)
	assert.Equal(t, 10.0, res.UnitPrice)

	small := NewAggregator(false).Radius(ds, center, 1, 10)
	assert.Equal(t, 1200, small.TotalHouseholds, "Town B is about 1.11km away")
}

func TestRadiusIsMonotonic(t *testing.T) {
	ds := dataset.New([]dataset.AddressRecord{
		{Address: "a", Households: 5, Latitude: dataset.Coord(34.0), Longitude: dataset.Coord(135.0)},
		{Address: "b", Households: 7, Latitude: dataset.Coord(34.003), Longitude: dataset.Coord(135.004)},
		{Address: "c", Households: 11, Latitude: dataset.Coord(34.02), Longitude: dataset.Coord(134.99)},
		{Address: "d", Households: 13, Latitude: dataset.Coord(34.1), Longitude: dataset.Coord(135.1)},
		{Address: "e", Households: 17},
	})
	agg := NewAggregator(false)
	center := geo.Point{Lat: 34.0, Lon: 135.0}

	prev := -1
	for _, r := range []float64{0.1, 0.5, 1, 2, 5, 20} {
		total := agg.Radius(ds, center, r, 1).TotalHouseholds
		assert.GreaterOrEqual(t, total, prev, "radius %v", r)
		prev = total
	}
	assert.Equal(t, 36, prev, "rows without coordinates never match")
}

func TestRadiusKeepsDatasetOrder(t *testing.T) {
	ds := dataset.New([]dataset.AddressRecord{
		{Address: "far", Households: 1, Latitude: dataset.Coord(34.01), Longitude: dataset.Coord(135.0)},
		{Address: "near", Households: 1, Latitude: dataset.Coord(34.0), Longitude: dataset.Coord(135.0)},
	})
	res := NewAggregator(false).Radius(ds, geo.Point{Lat: 34, Lon: 135}, 5, 1)
	require.Equal(t, 2, res.MatchedRows())
	assert.Equal(t, "far", res.Rows.At(0).Address)
	assert.Equal(t, "near", res.Rows.At(1).Address)
}

func TestSelectionAggregation(t *testing.T) {
	ds := twoTowns(t)
	sel := selection.New().SelectAll([]string{"Town A", "Town B"})
	sel, _ = sel.Toggle("Town B", false)

	res := NewAggregator(false).Selection(ds, sel, 10)
	assert.Equal(t, 1200, res.TotalHouseholds)
	assert.Equal(t, 12000.0, res.EstimatedAmount)

	ghost := NewAggregator(false).Selection(ds, selection.New("Town Z"), 10)
	assert.Equal(t, 0, ghost.TotalHouseholds)
	assert.Equal(t, 0, ghost.MatchedRows())
}

func TestSelectionCountsEveryRowOfAnAddress(t *testing.T) {
	ds := dataset.New([]dataset.AddressRecord{
		{Address: "Town A", Households: 100},
		{Address: "Town A", Households: 50, Latitude: dataset.Coord(34), Longitude: dataset.Coord(135)},
	})
	res := NewAggregator(false).Selection(ds, selection.New("Town A"), 1)
	assert.Equal(t, 150, res.TotalHouseholds)
}

func TestResultCenter(t *testing.T) {
	ds := twoTowns(t)
	res := NewAggregator(false).Selection(ds, selection.New("Town A", "Town B"), 1)
	c, ok := res.Center()
	require.True(t, ok)
	assert.InDelta(t, 34.005, c.Lat, 1e-9)
	assert.InDelta(t, 135.0, c.Lon, 1e-9)
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		households int
		price      float64
		expected   float64
	}{
		{households: 1500, price: 10, expected: 15000},
		{households: 0, price: 10, expected: 0},
		{households: 3, price: 0.5, expected: 1.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Estimate(tt.households, tt.price))
	}

	// linear in households for a fixed price
	assert.InDelta(t, Estimate(300, 7.5)+Estimate(1200, 7.5), Estimate(1500, 7.5), 1e-9)
	assert.GreaterOrEqual(t, Estimate(1501, 7.5), Estimate(1500, 7.5))
}
