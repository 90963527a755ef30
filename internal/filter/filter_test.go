package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/geo"
)

func sample() *dataset.Dataset {
	return dataset.New([]dataset.AddressRecord{
		{Address: "兵庫県加古川市加古川町", Households: 100, Latitude: dataset.Coord(34.76), Longitude: dataset.Coord(134.84)},
		{Address: "兵庫県姫路市本町", Households: 200, Latitude: dataset.Coord(34.83), Longitude: dataset.Coord(134.69)},
		{Address: "兵庫県姫路市駅前町", Households: 50},
		{Address: "兵庫県明石市大明石町", Households: 70, Latitude: dataset.Coord(34.65), Longitude: dataset.Coord(134.99)},
	})
}

func addresses(ds *dataset.Dataset) []string {
	var out []string
	for _, r := range ds.Records() {
		out = append(out, r.Address)
	}
	return out
}

func TestByCity(t *testing.T) {
	ds := sample()

	tests := []struct {
		name     string
		city     string
		expected []string
	}{
		{name: "Sentinel keeps everything", city: AllCities, expected: addresses(ds)},
		{name: "Empty keeps everything", city: "", expected: addresses(ds)},
		{name: "Substring match", city: "姫路市", expected: []string{"兵庫県姫路市本町", "兵庫県姫路市駅前町"}},
		{name: "No match", city: "大阪市", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, addresses(ByCity(ds, tt.city)))
		})
	}

	assert.Same(t, ds, ByCity(ds, AllCities))
}

func TestByName(t *testing.T) {
	ds := sample()

	assert.Equal(t, []string{"兵庫県姫路市本町"}, addresses(ByName(ds, "本町", false)))
	assert.Len(t, ByName(ds, "", false).Records(), 4, "empty query matches everything")
	assert.Equal(t, []string{"兵庫県姫路市本町"}, addresses(ByName(ds, "姫路", true)), "rows without coordinates are dropped")
	assert.Empty(t, addresses(ByName(ds, "ほんまち", false)), "no fuzzy matching")
}

func TestParseDirections(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected Direction
		wantErr  bool
	}{
		{name: "Canonical", input: []string{"north"}, expected: North},
		{name: "Comma separated", input: []string{"north,east"}, expected: North | East},
		{name: "Repeated values", input: []string{"south", "west"}, expected: South | West},
		{name: "Aliases", input: []string{"N", "w"}, expected: North | West},
		{name: "Japanese", input: []string{"北側", "東"}, expected: North | East},
		{name: "Empty", input: nil, expected: 0},
		{name: "Unknown", input: []string{"up"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirections(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "none", Direction(0).String())
	assert.Equal(t, "north-east", (East | North).String())
	assert.Equal(t, []string{"north", "south", "east", "west"}, AllDirections.Names())
}

func TestDirectionJSON(t *testing.T) {
	data, err := json.Marshal(North | West)
	require.NoError(t, err)
	assert.JSONEq(t, `["north","west"]`, string(data))

	var d Direction
	require.NoError(t, json.Unmarshal([]byte(`"south,east"`), &d))
	assert.Equal(t, South|East, d)

	require.NoError(t, json.Unmarshal([]byte(`[]`), &d))
	assert.True(t, d.IsEmpty())

	assert.Error(t, json.Unmarshal([]byte(`["sideways"]`), &d))
}

func TestDirectionMatches(t *testing.T) {
	ref := geo.Point{Lat: 34.0, Lon: 135.0}

	tests := []struct {
		name     string
		dirs     Direction
		point    geo.Point
		expected bool
	}{
		{name: "North of reference", dirs: North, point: geo.Point{Lat: 34.01, Lon: 135.0}, expected: true},
		{name: "Same latitude is not north", dirs: North, point: geo.Point{Lat: 34.0, Lon: 135.0}, expected: false},
		{name: "Same latitude is not south", dirs: South, point: geo.Point{Lat: 34.0, Lon: 135.0}, expected: false},
		{name: "South", dirs: South, point: geo.Point{Lat: 33.99, Lon: 135.0}, expected: true},
		{name: "East", dirs: East, point: geo.Point{Lat: 34.0, Lon: 135.01}, expected: true},
		{name: "West", dirs: West, point: geo.Point{Lat: 34.0, Lon: 134.99}, expected: true},
		{name: "Combined directions are OR", dirs: North | East, point: geo.Point{Lat: 33.9, Lon: 135.1}, expected: true},
		{name: "All directions exclude the reference itself", dirs: AllDirections, point: ref, expected: false},
		{name: "Empty set matches nothing", dirs: 0, point: geo.Point{Lat: 35, Lon: 136}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dirs.Matches(ref, tt.point))
		})
	}
}

func TestByDirection(t *testing.T) {
	ds := dataset.New([]dataset.AddressRecord{
		{Address: "Town A", Households: 1200, Latitude: dataset.Coord(34.0), Longitude: dataset.Coord(135.0)},
		{Address: "Town B", Households: 300, Latitude: dataset.Coord(34.01), Longitude: dataset.Coord(135.0)},
		{Address: "Town C", Households: 10, Latitude: dataset.Coord(34.0), Longitude: dataset.Coord(135.02)},
		{Address: "Town D", Households: 5},
	})
	ref, err := ds.LookupPoint("Town A")
	require.NoError(t, err)

	assert.Equal(t, []string{"Town B"}, addresses(ByDirection(ds, ref, North)))
	assert.Empty(t, addresses(ByDirection(ds, ref, South)))
	assert.Equal(t, []string{"Town C"}, addresses(ByDirection(ds, ref, East)))
	assert.Equal(t, []string{"Town B", "Town C"}, addresses(ByDirection(ds, ref, AllDirections)))
}
