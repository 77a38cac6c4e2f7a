package aggregate

import "github.com/shopspring/decimal"

// PercentageChange returns (new - original) / |original|.
// Undefined for a zero original value; callers guard.
func PercentageChange(original, newValue decimal.Decimal) decimal.Decimal {
	return newValue.Sub(original).Div(original.Abs())
}

// PercentageDifference returns |a - b| / ((a + b) / 2). Symmetric in its
// arguments. When the mean of the inputs is zero the measure has no defined
// value and zero is returned.
func PercentageDifference(a, b decimal.Decimal) decimal.Decimal {
	denominator := a.Add(b).Div(decimal.NewFromInt(2))
	if denominator.IsZero() {
		return decimal.Zero
	}
	return a.Sub(b).Abs().Div(denominator)
}
