package validation

import (
	"errors"
	"fmt"

	"github.com/posting-planner/internal/filter"
)

// ValidationError is a parameter rejected at the input boundary, before any
// aggregation runs.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Params are the per-operation inputs a shell collects from the user.
type Params struct {
	City             string           `json:"city"`
	Query            string           `json:"query"`
	RadiusKm         float64          `json:"radius_km"`
	UnitPrice        float64          `json:"unit_price"`
	Directions       filter.Direction `json:"directions"`
	ReferenceAddress string           `json:"reference_address,omitempty"`
}

// HasReference reports whether a reference point was supplied
func (p Params) HasReference() bool {
	return p.ReferenceAddress != ""
}
