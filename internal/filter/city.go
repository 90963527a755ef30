package filter

import (
	"strings"

	"github.com/posting-planner/internal/dataset"
)

// AllCities is the sentinel city token that disables the city filter.
const AllCities = "all"

// IsAllCities reports whether city means "no city filter"
func IsAllCities(city string) bool {
	return city == "" || city == AllCities
}

// ByCity keeps rows whose address contains the city token as stored.
// The sentinel returns the dataset itself.
func ByCity(ds *dataset.Dataset, city string) *dataset.Dataset {
	if IsAllCities(city) {
		return ds
	}
	return ds.Filter(func(r dataset.AddressRecord) bool {
		return strings.Contains(r.Address, city)
	})
}

// ByName keeps rows whose address contains query. With requireCoords set,
// rows missing a coordinate are dropped as well, which is what spatial
// operations need.
func ByName(ds *dataset.Dataset, query string, requireCoords bool) *dataset.Dataset {
	return ds.Filter(func(r dataset.AddressRecord) bool {
		if !strings.Contains(r.Address, query) {
			return false
		}
		return !requireCoords || r.HasCoordinates()
	})
}
