package calculator

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundOptional rounds a nil-able value to two decimal places.
func RoundOptional(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}
