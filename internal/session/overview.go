package session

import (
	"github.com/posting-planner/internal/filter"
)

// CityTotal is the row and household count of one city
type CityTotal struct {
	City       string `json:"city"`
	Rows       int    `json:"rows"`
	Addresses  int    `json:"addresses"`
	Households int    `json:"households"`
}

// Overview summarizes a session dataset
type Overview struct {
	Rows       int         `json:"rows"`
	Households int         `json:"households"`
	Selected   int         `json:"selected"`
	Cities     []CityTotal `json:"cities"`
}

// Overview totals the dataset per configured city. A city name that is not
// "all" narrows the listing to that city.
func (h *Handlers) Overview(st State, cities []string, city string) Overview {
	out := Overview{
		Rows:       st.Dataset.Len(),
		Households: st.Dataset.TotalHouseholds(),
		Selected:   st.Selection.Len(),
		Cities:     []CityTotal{},
	}
	if !filter.IsAllCities(city) {
		cities = []string{city}
	}
	for _, c := range cities {
		rows := filter.ByCity(st.Dataset, c)
		out.Cities = append(out.Cities, CityTotal{
			City:       c,
			Rows:       rows.Len(),
			Addresses:  len(rows.UniqueAddresses()),
			Households: rows.TotalHouseholds(),
		})
	}
	return out
}
