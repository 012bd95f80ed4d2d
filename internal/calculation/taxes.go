package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// LifetimeTaxes holds a worker's payroll taxes by year and trust fund.
type LifetimeTaxes struct {
	FirstYear int
	LastYear  int
	Oasi      *series.Money
	Di        *series.Money
	Oasdi     *series.Money
	Hi        *series.Money
	Oasdhi    *series.Money
}

// Fund returns the series for f.
func (t *LifetimeTaxes) Fund(f tables.Fund) *series.Money {
	switch f {
	case tables.OASI:
		return t.Oasi
	case tables.DI:
		return t.Di
	case tables.OASDI:
		return t.Oasdi
	case tables.HI:
		return t.Hi
	default:
		return t.Oasdhi
	}
}

// Total sums the fund's taxes over every year.
func (t *LifetimeTaxes) Total(f tables.Fund) decimal.Decimal {
	return t.Fund(f).Sum(t.FirstYear, t.LastYear)
}

// TaxCalculator computes payroll taxes on a worker's earnings.
type TaxCalculator struct {
	tables *Tables
	// Gross uses rates before the tax credits when set.
	Gross bool
}

// NewTaxCalculator returns a calculator over t.
func NewTaxCalculator(t *Tables) *TaxCalculator {
	return &TaxCalculator{tables: t}
}

func (tc *TaxCalculator) oneYear(earnings decimal.Decimal, year int, kind tables.TaxKind, fund tables.Fund) decimal.Decimal {
	if tc.Gross {
		return money.RoundToCents(tc.tables.TaxRates.OneYearGross(earnings, year, kind, fund))
	}
	return money.RoundToCents(tc.tables.TaxRates.OneYearNet(earnings, year, kind, fund))
}

// LifetimeTaxes computes OASI, DI and HI taxes for each year with earnings,
// rounded to the cent. OASDI and OASDHI are the sums of their parts. OASDI
// earnings are capped at the contribution and benefit base; HI earnings add
// Medicare-only earnings and are capped at the HI base.
func (tc *TaxCalculator) LifetimeTaxes(w *domain.WorkerData) *LifetimeTaxes {
	last := min(w.Earnings.Last(), tc.tables.TaxRates.LastYear())
	first := w.Earnings.Base()
	t := &LifetimeTaxes{
		FirstYear: first,
		LastYear:  last,
		Oasi:      series.NewMoney(first, last),
		Di:        series.NewMoney(first, last),
		Oasdi:     series.NewMoney(first, last),
		Hi:        series.NewMoney(first, last),
		Oasdhi:    series.NewMoney(first, last),
	}
	for y := first; y <= last; y++ {
		kind := tables.Employee
		if w.SelfEmployed != nil && w.SelfEmployed.Contains(y) && w.SelfEmployed.At(y) {
			kind = tables.SelfEmployed
		}
		earn := w.Earnings.At(y)
		oasdiEarn := money.Min(earn, tc.tables.WageBase.At(y))
		hiEarn := earn
		if w.HIEarnings != nil && w.HIEarnings.Contains(y) {
			hiEarn = hiEarn.Add(w.HIEarnings.At(y))
		}
		hiEarn = money.Min(hiEarn, tc.tables.WageBaseHI.At(y))

		oasi := tc.oneYear(oasdiEarn, y, kind, tables.OASI)
		di := tc.oneYear(oasdiEarn, y, kind, tables.DI)
		hi := tc.oneYear(hiEarn, y, kind, tables.HI)
		t.Oasi.Set(y, oasi)
		t.Di.Set(y, di)
		t.Hi.Set(y, hi)
		t.Oasdi.Set(y, oasi.Add(di))
		t.Oasdhi.Set(y, oasi.Add(di).Add(hi))
	}
	return t
}
