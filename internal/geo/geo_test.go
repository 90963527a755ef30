package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{name: "Same point", a: Point{34, 135}, b: Point{34, 135}, expected: 0, delta: 1e-9},
		{name: "0.01 degree north", a: Point{34, 135}, b: Point{34.01, 135}, expected: 1.109, delta: 0.005},
		{name: "One degree of latitude", a: Point{0, 0}, b: Point{1, 0}, expected: 111.195, delta: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceKm(tt.a, tt.b), tt.delta)
			assert.InDelta(t, DistanceKm(tt.a, tt.b), DistanceKm(tt.b, tt.a), 1e-12, "distance is symmetric")
		})
	}
}

func TestBoundAroundContainsRadius(t *testing.T) {
	center := Point{34.75, 134.8}
	b := BoundAround(center, 2)
	assert.Less(t, b.MinLat, center.Lat)
	assert.Greater(t, b.MaxLat, center.Lat)
	assert.Less(t, b.MinLon, center.Lon)
	assert.Greater(t, b.MaxLon, center.Lon)
	assert.InDelta(t, 2.0, DistanceKm(center, Point{b.MaxLat, center.Lon}), 0.01)
	assert.InDelta(t, 2.0, DistanceKm(center, Point{center.Lat, b.MaxLon}), 0.01)
}

func TestDistanceKmNearRadiusEdge(t *testing.T) {
	// 1.998 km on the mean sphere, 2.0004 km on the equatorial one
	center := Point{34.75, 134.8}
	near := Point{34.76797, 134.8}
	assert.Less(t, DistanceKm(center, near), 2.0)
	assert.Equal(t, []int{1}, NewIndex(map[int]Point{1: near}).WithinRadius(center, 2))
}

func TestCentroid(t *testing.T) {
	_, ok := Centroid(nil)
	assert.False(t, ok)

	c, ok := Centroid([]Point{{34, 135}, {34.02, 135.02}})
	assert.True(t, ok)
	assert.InDelta(t, 34.01, c.Lat, 1e-12)
	assert.InDelta(t, 135.01, c.Lon, 1e-12)
}

func TestIndexWithinRadius(t *testing.T) {
	ix := NewIndex(map[int]Point{
		0: {34.0, 135.0},
		1: {34.01, 135.0},
		2: {34.05, 135.0},
		3: {34.0, 135.001},
	})
	assert.Equal(t, 4, ix.Len())

	tests := []struct {
		name     string
		radius   float64
		expected []int
	}{
		{name: "Small radius keeps close points", radius: 0.5, expected: []int{0, 3}},
		{name: "Two km reaches 0.01 degrees", radius: 2, expected: []int{0, 1, 3}},
		{name: "Large radius keeps everything", radius: 10, expected: []int{0, 1, 2, 3}},
		{name: "Zero radius", radius: 0, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ix.WithinRadius(Point{34.0, 135.0}, tt.radius))
		})
	}
}

func TestIndexBoundaryIsInclusive(t *testing.T) {
	center := Point{34.0, 135.0}
	edge := Point{34.01, 135.0}
	ix := NewIndex(map[int]Point{7: edge})

	assert.Equal(t, []int{7}, ix.WithinRadius(center, DistanceKm(center, edge)))
}

func TestEmptyIndex(t *testing.T) {
	ix := NewIndex(nil)
	assert.Equal(t, 0, ix.Len())
	assert.Nil(t, ix.WithinRadius(Point{34, 135}, 5))
}
