package engine

// Estimate returns the projected amount for a household count. No rounding is
// applied; callers reject non-positive prices before calling.
func Estimate(totalHouseholds int, unitPrice float64) float64 {
	return float64(totalHouseholds) * unitPrice
}
