package money

import (
	"fmt"
	"math"
)

// Dollar amounts cross the API boundary as decimal dollars; everything behind it
// is integer pennies so balance arithmetic and equality checks stay exact.

// DollarsToPennies truncates any fractional-penny remainder. The small epsilon
// absorbs binary float representation error (12.34*100 is 1233.999... as a
// float64 and must still convert to 1234).
func DollarsToPennies(dollars float64) int64 {
	return int64(math.Floor(dollars*100 + 1e-6))
}

// PenniesToDollars converts an internal penny amount back to decimal dollars.
func PenniesToDollars(pennies int64) float64 {
	return float64(pennies) / 100
}

// FormatPennies renders a penny amount as a dollar string for display and logs.
func FormatPennies(pennies int64) string {
	sign := ""
	if pennies < 0 {
		sign = "-"
		pennies = -pennies
	}
	return fmt.Sprintf("%s$%d.%02d", sign, pennies/100, pennies%100)
}
