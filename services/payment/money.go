package payment

import "github.com/shopspring/decimal"

// ToMinorUnits converts a major-unit amount (cedis) to the smallest currency unit (pesewas/kobo).
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// FromMinorUnits converts a minor-unit amount back to major units.
func FromMinorUnits(minor int64) float64 {
	return decimal.New(minor, -2).InexactFloat64()
}
