package validation

import (
	"math"
)

// Radius checks a search radius in kilometers
func Radius(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return &ValidationError{Field: "radius_km", Reason: "must be a finite number"}
	}
	if km <= 0 {
		return &ValidationError{Field: "radius_km", Reason: "must be greater than 0"}
	}
	return nil
}

// UnitPrice checks a per-household price
func UnitPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return &ValidationError{Field: "unit_price", Reason: "must be a finite number"}
	}
	if price <= 0 {
		return &ValidationError{Field: "unit_price", Reason: "must be greater than 0"}
	}
	return nil
}

// Directions rejects an empty direction set when a reference point is given
func Directions(p Params) error {
	if p.HasReference() && p.Directions.IsEmpty() {
		return &ValidationError{Field: "directions", Reason: "at least one direction is required with a reference point"}
	}
	return nil
}

// RadiusSearch validates the inputs of a radius aggregation
func RadiusSearch(p Params) error {
	if p.ReferenceAddress == "" {
		return &ValidationError{Field: "reference_address", Reason: "a center address is required"}
	}
	if err := Radius(p.RadiusKm); err != nil {
		return err
	}
	return UnitPrice(p.UnitPrice)
}

// Listing validates the inputs of a candidate listing
func Listing(p Params) error {
	return Directions(p)
}
