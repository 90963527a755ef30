package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the side length of the degenerate rectangle stored per point.
const pointTolerance = 1e-7

type indexedPoint struct {
	id    int
	point Point
	rect  rtreego.Rect
}

func (ip *indexedPoint) Bounds() rtreego.Rect {
	return ip.rect
}

// Index is an R-tree over identified points. It is read-only once built.
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex builds an index from points keyed by caller-chosen ids
func NewIndex(points map[int]Point) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for id, p := range points {
		item := &indexedPoint{
			id:    id,
			point: p,
			rect:  rtreego.Point{p.Lon, p.Lat}.ToRect(pointTolerance),
		}
		tree.Insert(item)
	}
	return &Index{tree: tree, size: len(points)}
}

// Len returns the number of indexed points
func (ix *Index) Len() int {
	return ix.size
}

// WithinRadius returns the ids of points at most radiusKm from center, ascending
func (ix *Index) WithinRadius(center Point, radiusKm float64) []int {
	if ix.size == 0 || radiusKm <= 0 {
		return nil
	}

	b := BoundAround(center, radiusKm)
	rect, err := rtreego.NewRect(
		rtreego.Point{b.MinLon, b.MinLat},
		[]float64{b.MaxLon - b.MinLon, b.MaxLat - b.MinLat},
	)
	if err != nil {
		return nil
	}

	var ids []int
	for _, s := range ix.tree.SearchIntersect(rect) {
		ip := s.(*indexedPoint)
		if DistanceKm(center, ip.point) <= radiusKm {
			ids = append(ids, ip.id)
		}
	}
	sort.Ints(ids)
	return ids
}
