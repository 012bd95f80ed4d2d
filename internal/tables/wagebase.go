package tables

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// Unlimited stands in for a base that no longer caps earnings.
var Unlimited = decimal.New(1, 12)

type baseStep struct {
	first, last int
	amount      int64
}

var wageBaseHistory = []baseStep{
	{1937, 1950, 3000}, {1951, 1954, 3600}, {1955, 1958, 4200}, {1959, 1965, 4800},
	{1966, 1967, 6600}, {1968, 1971, 7800}, {1972, 1972, 9000}, {1973, 1973, 10800},
	{1974, 1974, 13200}, {1975, 1975, 14100}, {1976, 1976, 15300}, {1977, 1977, 16500},
	{1978, 1978, 17700}, {1979, 1979, 22900}, {1980, 1980, 25900}, {1981, 1981, 29700},
	{1982, 1982, 32400}, {1983, 1983, 35700}, {1984, 1984, 37800}, {1985, 1985, 39600},
	{1986, 1986, 42000}, {1987, 1987, 43800}, {1988, 1988, 45000}, {1989, 1989, 48000},
	{1990, 1990, 51300}, {1991, 1991, 53400}, {1992, 1992, 55500}, {1993, 1993, 57600},
	{1994, 1994, 60600}, {1995, 1995, 61200}, {1996, 1996, 62700}, {1997, 1997, 65400},
	{1998, 1998, 68400}, {1999, 1999, 72600}, {2000, 2000, 76200}, {2001, 2001, 80400},
	{2002, 2002, 84900}, {2003, 2003, 87000}, {2004, 2004, 87900}, {2005, 2005, 90000},
	{2006, 2006, 94200}, {2007, 2007, 97500}, {2008, 2008, 102000}, {2009, 2011, 106800},
	{2012, 2012, 110100}, {2013, 2013, 113700}, {2014, 2014, 117000}, {2015, 2016, 118500},
	{2017, 2017, 127200}, {2018, 2018, 128400}, {2019, 2019, 132900},
}

// The HI base matched the OASDI base through 1990 and was removed after 1993.
var wageBaseHIHistory = []baseStep{
	{1991, 1991, 125000}, {1992, 1992, 130200}, {1993, 1993, 135000},
}

// wageBaseOldLawHistory is the base that would have applied without the 1977
// amendments' ad hoc increases. Earlier years equal the actual base.
var wageBaseOldLawHistory = []baseStep{
	{1979, 1979, 18900}, {1980, 1980, 20400}, {1981, 1981, 22200}, {1982, 1982, 24300},
	{1983, 1983, 26700}, {1984, 1984, 28200}, {1985, 1985, 29700}, {1986, 1986, 31200},
	{1987, 1987, 32700}, {1988, 1988, 33600}, {1989, 1989, 35700}, {1990, 1990, 38100},
	{1991, 1991, 39600}, {1992, 1992, 41400}, {1993, 1993, 42900}, {1994, 1994, 44100},
	{1995, 1995, 45300}, {1996, 1996, 46800}, {1997, 1997, 48600}, {1998, 1998, 50700},
	{1999, 1999, 53700}, {2000, 2000, 56700}, {2001, 2001, 59700}, {2002, 2002, 63000},
	{2003, 2003, 64500}, {2004, 2004, 65400}, {2005, 2005, 66900}, {2006, 2006, 69900},
	{2007, 2007, 72600}, {2008, 2008, 75900}, {2009, 2011, 79200}, {2012, 2012, 81900},
	{2013, 2013, 84300}, {2014, 2014, 87000}, {2015, 2016, 88200}, {2017, 2017, 94500},
	{2018, 2018, 95400}, {2019, 2019, 98700},
}

// wageBaseSeries is the general wage-base engine: a historical table and an
// anchor from which later years are projected with the average wage index.
type wageBaseSeries struct {
	history    []baseStep
	anchorYear int
	anchorBase decimal.Decimal
}

func (w wageBaseSeries) build(awi *series.Money, maxyear int, growth *decimal.Decimal) *series.Money {
	base := series.NewMoney(series.YEAR37, maxyear)
	for _, step := range w.history {
		assignSteady(base, step.first, min(step.last, maxyear), decimal.NewFromInt(step.amount))
	}
	w.project(base, awi, LastHistoricalYear+1, growth)
	return base
}

// assignSteady sets a fixed table's years. The tables all lie within the
// series, so a range error is a programming error.
func assignSteady(base *series.Money, first, last int, v decimal.Decimal) {
	if err := base.Assign(first, last, v); err != nil {
		panic(err)
	}
}

// project fills years from first on. The automatic rule scales the anchor
// base by the growth in the average wage index two years earlier and rounds
// to $300; a base never decreases.
func (w wageBaseSeries) project(base, awi *series.Money, first int, growth *decimal.Decimal) {
	for y := first; y <= base.Last(); y++ {
		prev := base.At(y - 1)
		var next decimal.Decimal
		if growth != nil {
			next = money.RoundToNearest300(prev.Mul(decimal.NewFromInt(1).Add(*growth)))
		} else {
			next = money.RoundToNearest300(w.anchorBase.Mul(awi.At(y - 2)).Div(awi.At(w.anchorYear - 2)))
		}
		base.Set(y, money.Max(prev, next))
	}
}

var (
	oasdiBase   = wageBaseSeries{history: wageBaseHistory, anchorYear: 1994, anchorBase: decimal.NewFromInt(60600)}
	oldLawBase  = wageBaseSeries{history: append(append([]baseStep{}, wageBaseHistory[:13]...), wageBaseOldLawHistory...), anchorYear: 2019, anchorBase: decimal.NewFromInt(98700)}
	hiBaseSteps = append(append([]baseStep{}, wageBaseHistory[:25]...), wageBaseHIHistory...)
)

// NewWageBase returns the OASDI contribution and benefit base. A law change
// may set the base for an effective year, after which it grows with the
// average wage index from that point.
func NewWageBase(awi *series.Money, ctx domain.CalcContext, change *domain.WageBaseChange) *series.Money {
	base := oasdiBase.build(awi, ctx.MaxYear, ctx.Assumptions.WageBaseGrowth)
	if change != nil && base.Contains(change.EffectiveYear) {
		base.Set(change.EffectiveYear, change.Base)
		anchor := wageBaseSeries{anchorYear: change.EffectiveYear, anchorBase: change.Base}
		for y := change.EffectiveYear + 1; y <= base.Last(); y++ {
			next := money.RoundToNearest300(anchor.anchorBase.Mul(awi.At(y - 2)).Div(awi.At(anchor.anchorYear - 2)))
			base.Set(y, money.Max(base.At(y-1), next))
		}
	}
	return base
}

// NewWageBaseHI returns the Medicare base, Unlimited from 1994.
func NewWageBaseHI(maxyear int) *series.Money {
	base := series.NewMoney(series.YEAR37, maxyear)
	for _, step := range hiBaseSteps {
		assignSteady(base, step.first, min(step.last, maxyear), decimal.NewFromInt(step.amount))
	}
	assignSteady(base, 1994, maxyear, Unlimited)
	return base
}

// NewWageBaseOldLaw returns the old-law contribution and benefit base.
func NewWageBaseOldLaw(awi *series.Money, maxyear int) *series.Money {
	return oldLawBase.build(awi, maxyear, nil)
}
