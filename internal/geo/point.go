package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a lat/lon bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// MeanEarthRadius is the IUGG mean radius in meters. orb works on its
// equatorial radius, so distances are rescaled to the mean sphere.
const MeanEarthRadius = 6371008.8

const sphereScale = MeanEarthRadius / orb.EarthRadius

// boundPadding absorbs float error at the edge of a radius box (degrees).
const boundPadding = 1e-9

func (p Point) orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// DistanceKm returns the great-circle distance between two points in kilometers
func DistanceKm(a, b Point) float64 {
	return orbgeo.DistanceHaversine(a.orb(), b.orb()) * sphereScale / 1000
}

// BoundAround returns the box enclosing every point within radiusKm of center
func BoundAround(center Point, radiusKm float64) Bounds {
	b := orbgeo.NewBoundAroundPoint(center.orb(), radiusKm*1000/sphereScale).Pad(boundPadding)
	return Bounds{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

// Centroid returns the arithmetic mean of points, ok is false for an empty slice
func Centroid(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lon: lon / n}, true
}
