package tables

import (
	"time"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// benefitIncreaseHistory holds the automatic benefit increases from 1975, as
// fractions.
var benefitIncreaseHistory = []float64{
	0.080, 0.064, 0.059, 0.065, 0.099, 0.143, 0.112, 0.074, 0.035, 0.035, // 1975-1984
	0.031, 0.013, 0.042, 0.040, 0.047, 0.054, 0.037, 0.030, 0.026, 0.028, // 1985-1994
	0.026, 0.029, 0.021, 0.013, 0.025, 0.035, 0.026, 0.014, 0.021, 0.027, // 1995-2004
	0.041, 0.033, 0.023, 0.058, 0.000, 0.000, 0.036, 0.017, 0.015, 0.017, // 2005-2014
	0.000, 0.003, 0.020, 0.028, 0.016, // 2015-2019
}

// NewBenefitIncreases returns the benefit increase by year over [YEAR37,
// maxyear], projected at the assumed rate. A law change may reduce the
// increase from an effective year, never below zero.
func NewBenefitIncreases(ctx domain.CalcContext, change *domain.ColaChange) *series.Money {
	bi := series.NewMoney(series.YEAR37, ctx.MaxYear)
	for i, v := range benefitIncreaseHistory {
		if y := 1975 + i; bi.Contains(y) {
			bi.Set(y, decimal.NewFromFloat(v))
		}
	}
	for y := LastHistoricalYear + 1; y <= ctx.MaxYear; y++ {
		bi.Set(y, ctx.Assumptions.BenefitIncrease)
	}
	if change != nil {
		for y := max(change.EffectiveYear, bi.Base()); y <= bi.Last(); y++ {
			r := bi.At(y).Sub(change.Points)
			if r.IsNegative() {
				r = decimal.Zero
			}
			bi.Set(y, r)
		}
	}
	return bi
}

// IncreaseEffective returns the date a benefit increase for year takes
// effect: June through 1982, December from 1983.
func IncreaseEffective(year int) time.Time {
	if year < 1983 {
		return domain.Date(year, time.June, 1)
	}
	return domain.Date(year, time.December, 1)
}
