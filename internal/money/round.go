// Package money holds the regulatory rounding rules used by the benefit
// tables and formulas. All amounts are decimal dollars.
package money

import "github.com/shopspring/decimal"

var (
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
	three00 = decimal.NewFromInt(300)
)

// RoundToCents rounds half up to the nearest cent.
func RoundToCents(x decimal.Decimal) decimal.Decimal {
	return x.Mul(hundred).Add(decimal.NewFromFloat(0.5)).Floor().Div(hundred)
}

// FloorToDime drops everything below ten cents.
func FloorToDime(x decimal.Decimal) decimal.Decimal {
	return x.Mul(ten).Floor().Div(ten)
}

// CeilToDime raises to the next multiple of ten cents.
func CeilToDime(x decimal.Decimal) decimal.Decimal {
	return x.Mul(ten).Ceil().Div(ten)
}

// FloorToDollar drops the cents.
func FloorToDollar(x decimal.Decimal) decimal.Decimal {
	return x.Floor()
}

// RoundToDollar rounds half up to the nearest dollar.
func RoundToDollar(x decimal.Decimal) decimal.Decimal {
	return x.Add(decimal.NewFromFloat(0.5)).Floor()
}

// RoundToNearest300 rounds to the nearest multiple of $300, halves going up.
// Contribution and benefit bases are rounded this way.
func RoundToNearest300(x decimal.Decimal) decimal.Decimal {
	return x.Div(three00).Add(decimal.NewFromFloat(0.5)).Floor().Mul(three00)
}

// RoundToNearest10 rounds to the nearest multiple of $10.
func RoundToNearest10(x decimal.Decimal) decimal.Decimal {
	return x.Div(ten).Add(decimal.NewFromFloat(0.5)).Floor().Mul(ten)
}

// RoundPIA applies the benefit rounding rule in force for year: amounts
// computed for years before 1982 are raised to the next dime, later amounts are
// dropped to the next lower dime.
func RoundPIA(x decimal.Decimal, year int) decimal.Decimal {
	if year < 1982 {
		return CeilToDime(x)
	}
	return FloorToDime(x)
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi decimal.Decimal) decimal.Decimal {
	return Max(lo, Min(x, hi))
}
