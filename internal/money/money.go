// Package money rounds and formats dinar amounts. Balances carry three
// decimal places (millimes), and every derived amount the portal returns is
// rounded to exactly three places.
package money

import "github.com/shopspring/decimal"

func Round3(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(3).Float64()
	return rounded
}

func Format(value float64) string {
	return decimal.NewFromFloat(value).Round(3).StringFixed(3)
}
