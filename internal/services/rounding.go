package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds v to two decimal places, half away from zero, on the
// shortest decimal form of v. 1.005 therefore becomes 1.01 even though its
// binary value sits slightly below the midpoint.
func Round2(v float64) float64 {
	return RoundTo(v, 2)
}

// RoundTo returns NaN and infinities unchanged.
func RoundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
