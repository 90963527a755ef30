package dataset

import (
	"github.com/posting-planner/internal/geo"
)

// Canonical column names every source table must use.
const (
	ColumnAddress    = "address"
	ColumnHouseholds = "households"
	ColumnLatitude   = "latitude"
	ColumnLongitude  = "longitude"
)

// Columns lists the canonical columns in export order.
var Columns = []string{ColumnAddress, ColumnHouseholds, ColumnLatitude, ColumnLongitude}

// AddressRecord is one delivery area row
type AddressRecord struct {
	Address    string   `json:"address"`
	Households int      `json:"households"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present
func (r AddressRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Point returns the record position. ok is false when a coordinate is missing.
func (r AddressRecord) Point() (geo.Point, bool) {
	if !r.HasCoordinates() {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *r.Latitude, Lon: *r.Longitude}, true
}

// recordKey is the exact-row identity used for duplicate removal.
type recordKey struct {
	address    string
	households int
	hasLat     bool
	lat        float64
	hasLon     bool
	lon        float64
}

func (r AddressRecord) key() recordKey {
	k := recordKey{address: r.Address, households: r.Households}
	if r.Latitude != nil {
		k.hasLat, k.lat = true, *r.Latitude
	}
	if r.Longitude != nil {
		k.hasLon, k.lon = true, *r.Longitude
	}
	return k
}

// Equal compares all four fields
func (r AddressRecord) Equal(o AddressRecord) bool {
	return r.key() == o.key()
}

// Coord is a helper for building records with a present coordinate
func Coord(v float64) *float64 {
	return &v
}
