package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/geo"
)

// Direction is a set of cardinal directions relative to a reference point.
type Direction uint8

const (
	North Direction = 1 << iota
	South
	East
	West

	AllDirections = North | South | East | West
)

var directionNames = []struct {
	dir  Direction
	name string
}{
	{North, "north"},
	{South, "south"},
	{East, "east"},
	{West, "west"},
}

// aliases accepted by ParseDirection besides the canonical names
var directionAliases = map[string]Direction{
	"n":  North,
	"s":  South,
	"e":  East,
	"w":  West,
	"北":  North,
	"南":  South,
	"東":  East,
	"西":  West,
	"北側": North,
	"南側": South,
	"東側": East,
	"西側": West,
}

// ParseDirection parses a single direction name
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, dn := range directionNames {
		if dn.name == key {
			return dn.dir, nil
		}
	}
	if d, ok := directionAliases[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// ParseDirections parses a list of names; each element may itself be comma separated
func ParseDirections(values []string) (Direction, error) {
	var set Direction
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			d, err := ParseDirection(part)
			if err != nil {
				return 0, err
			}
			set |= d
		}
	}
	return set, nil
}

// Has reports whether every direction in o is in d
func (d Direction) Has(o Direction) bool {
	return o != 0 && d&o == o
}

// IsEmpty reports whether no direction is set
func (d Direction) IsEmpty() bool {
	return d&AllDirections == 0
}

// Names returns the canonical names in north, south, east, west order
func (d Direction) Names() []string {
	var names []string
	for _, dn := range directionNames {
		if d.Has(dn.dir) {
			names = append(names, dn.name)
		}
	}
	return names
}

func (d Direction) String() string {
	if d.IsEmpty() {
		return "none"
	}
	return strings.Join(d.Names(), "-")
}

// Matches classifies one position against ref. Comparisons are strict, so a
// row on the reference latitude is neither north nor south. Any requested
// direction is enough.
func (d Direction) Matches(ref, p geo.Point) bool {
	switch {
	case d.Has(North) && p.Lat > ref.Lat:
		return true
	case d.Has(South) && p.Lat < ref.Lat:
		return true
	case d.Has(East) && p.Lon > ref.Lon:
		return true
	case d.Has(West) && p.Lon < ref.Lon:
		return true
	}
	return false
}

// ByDirection keeps rows lying in any requested direction from ref. Rows
// missing coordinates never match.
func ByDirection(ds *dataset.Dataset, ref geo.Point, dirs Direction) *dataset.Dataset {
	return ds.Filter(func(r dataset.AddressRecord) bool {
		p, ok := r.Point()
		if !ok {
			return false
		}
		return dirs.Matches(ref, p)
	})
}

// MarshalJSON encodes the set as a list of canonical names
func (d Direction) MarshalJSON() ([]byte, error) {
	names := d.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON accepts a list of names or a single comma separated string
func (d *Direction) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("directions: %w", err)
		}
		names = []string{single}
	}
	parsed, err := ParseDirections(names)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
