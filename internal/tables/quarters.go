package tables

import (
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// qcAmountHistory is the earnings needed for one quarter of coverage from
// 1978.
var qcAmountHistory = []int64{
	250, 260, 290, 310, 340, 370, 390, 410, 440, 460, // 1978-1987
	470, 500, 520, 540, 570, 590, 620, 630, 640, 670, // 1988-1997
	700, 740, 780, 830, 870, 890, 900, 920, 970, 1000, // 1998-2007
	1050, 1090, 1120, 1120, 1130, 1160, 1200, 1220, 1260, 1300, // 2008-2017
	1320, 1360, // 2018-2019
}

// QcPerQuarterPre1978 is the wage amount that credited a calendar quarter
// before annual reporting.
var QcPerQuarterPre1978 = decimal.NewFromInt(50)

// NewQcAmounts returns the quarter of coverage amount by year from 1978 (zero
// before), projected as $250 scaled by the average wage index two years
// earlier relative to 1976, rounded to $10, never decreasing.
func NewQcAmounts(awi *series.Money, maxyear int) *series.Money {
	qc := series.NewMoney(series.YEAR37, maxyear)
	for i, v := range qcAmountHistory {
		if y := 1978 + i; qc.Contains(y) {
			qc.Set(y, decimal.NewFromInt(v))
		}
	}
	base := decimal.NewFromInt(250)
	for y := LastHistoricalYear + 1; y <= maxyear; y++ {
		next := money.RoundToNearest10(base.Mul(awi.At(y - 2)).Div(awi.At(1976)))
		qc.Set(y, money.Max(qc.At(y-1), next))
	}
	return qc
}
