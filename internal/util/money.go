// Package util contains small internal helpers shared across packages.
package util

import "math"

// Round2 rounds a monetary amount to two decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ClampNonNegative returns v, floored at zero.
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
