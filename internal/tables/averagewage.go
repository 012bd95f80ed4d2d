// Package tables holds the historical benefit and tax tables and the rules
// that project them beyond the last year of published data.
package tables

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// LastHistoricalYear is the last year with published table values.
const LastHistoricalYear = 2019

// averageWageHistory is the national average wage index from 1951.
var averageWageHistory = []float64{
	2799.16, 2973.32, 3139.44, 3155.64, 3301.44, 3532.36, 3641.72, 3673.80, 3855.80, 4007.12, // 1951-1960
	4086.76, 4291.40, 4396.64, 4576.32, 4658.72, 4938.36, 5213.44, 5571.76, 5893.76, 6186.24, // 1961-1970
	6497.08, 7133.80, 7580.16, 8030.76, 8630.92, 9226.48, 9779.44, 10556.03, 11479.46, 12513.46, // 1971-1980
	13773.10, 14531.34, 15239.24, 16135.07, 16822.51, 17321.82, 18426.51, 19334.04, 20099.55, 21027.98, // 1981-1990
	21811.60, 22935.42, 23132.67, 23753.53, 24705.66, 25913.90, 27426.00, 28861.44, 30469.84, 32154.82, // 1991-2000
	32921.92, 33252.09, 34064.95, 35648.55, 36952.94, 38651.41, 40405.48, 41334.97, 40711.61, 41673.83, // 2001-2010
	42979.61, 44321.67, 44888.16, 46481.52, 48098.63, 48642.15, 50321.89, 52145.80, 54099.99, // 2011-2019
}

// NewAverageWage returns the average wage index over [YEAR37, maxyear]. Years
// before 1951 are zero; years after the published series grow at the assumed
// rate, rounded to cents.
func NewAverageWage(ctx domain.CalcContext) *series.Money {
	awi := series.NewMoney(series.YEAR37, ctx.MaxYear)
	for i, v := range averageWageHistory {
		if y := 1951 + i; awi.Contains(y) {
			awi.Set(y, decimal.NewFromFloat(v))
		}
	}
	growth := decimal.NewFromInt(1).Add(ctx.Assumptions.AverageWageGrowth)
	for y := LastHistoricalYear + 1; y <= ctx.MaxYear; y++ {
		awi.Set(y, money.RoundToCents(awi.At(y-1).Mul(growth)))
	}
	return awi
}
