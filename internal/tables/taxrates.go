package tables

import (
	"fmt"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// TaxKind distinguishes employee from self-employed rates.
type TaxKind int

const (
	Employee TaxKind = iota
	SelfEmployed
	numKinds
)

func (k TaxKind) String() string {
	if k == SelfEmployed {
		return "self-employed"
	}
	return "employee"
}

// Fund is a trust fund bucket. OASDI and OASDHI are always derived sums.
type Fund int

const (
	OASI Fund = iota
	DI
	OASDI
	HI
	OASDHI
	numFunds
)

var fundNames = [...]string{"OASI", "DI", "OASDI", "HI", "OASDHI"}

func (f Fund) String() string {
	if f < 0 || f >= numFunds {
		return fmt.Sprintf("Fund(%d)", int(f))
	}
	return fundNames[f]
}

// Funds lists every bucket in display order.
var Funds = []Fund{OASI, DI, OASDI, HI, OASDHI}

type rateStep struct {
	first, last  int
	oasi, di, hi float64
}

// Statutory employee rates, as percentages.
var employeeRates = []rateStep{
	{1937, 1949, 1.0, 0, 0}, {1950, 1953, 1.5, 0, 0}, {1954, 1956, 2.0, 0, 0},
	{1957, 1958, 2.0, 0.25, 0}, {1959, 1959, 2.25, 0.25, 0}, {1960, 1961, 2.75, 0.25, 0},
	{1962, 1962, 2.875, 0.25, 0}, {1963, 1965, 3.375, 0.25, 0}, {1966, 1966, 3.5, 0.35, 0.35},
	{1967, 1967, 3.55, 0.35, 0.5}, {1968, 1968, 3.325, 0.475, 0.6}, {1969, 1969, 3.725, 0.475, 0.6},
	{1970, 1970, 3.65, 0.55, 0.6}, {1971, 1972, 4.05, 0.55, 0.6}, {1973, 1973, 4.3, 0.55, 1.0},
	{1974, 1977, 4.375, 0.575, 0.9}, {1978, 1978, 4.275, 0.775, 1.0}, {1979, 1980, 4.33, 0.75, 1.05},
	{1981, 1981, 4.525, 0.825, 1.3}, {1982, 1982, 4.575, 0.825, 1.3}, {1983, 1983, 4.775, 0.625, 1.3},
	{1984, 1984, 5.2, 0.5, 1.3}, {1985, 1985, 5.2, 0.5, 1.35}, {1986, 1987, 5.2, 0.5, 1.45},
	{1988, 1989, 5.53, 0.53, 1.45}, {1990, 1993, 5.6, 0.6, 1.45}, {1994, 1996, 5.26, 0.94, 1.45},
	{1997, 1999, 5.35, 0.85, 1.45}, {2000, 2015, 5.3, 0.9, 1.45}, {2016, 2018, 5.015, 1.185, 1.45},
	{2019, 2019, 5.3, 0.9, 1.45},
}

// Statutory self-employed rates before 1984; later rates are twice the
// employee rates.
var selfEmployedRates = []rateStep{
	{1951, 1953, 2.25, 0, 0}, {1954, 1956, 3.0, 0, 0}, {1957, 1958, 3.0, 0.375, 0},
	{1959, 1959, 3.375, 0.375, 0}, {1960, 1961, 4.125, 0.375, 0}, {1962, 1962, 4.325, 0.375, 0},
	{1963, 1965, 5.025, 0.375, 0}, {1966, 1966, 5.275, 0.525, 0.35}, {1967, 1967, 5.375, 0.525, 0.5},
	{1968, 1968, 5.0875, 0.7125, 0.6}, {1969, 1969, 5.5875, 0.7125, 0.6}, {1970, 1970, 5.475, 0.825, 0.6},
	{1971, 1972, 6.075, 0.825, 0.6}, {1973, 1973, 6.205, 0.795, 1.0}, {1974, 1977, 6.185, 0.815, 0.9},
	{1978, 1978, 6.01, 1.09, 1.0}, {1979, 1980, 6.01, 1.04, 1.05}, {1981, 1981, 6.7625, 1.2375, 1.3},
	{1982, 1982, 6.8125, 1.2375, 1.3}, {1983, 1983, 7.1125, 0.9375, 1.3},
}

type creditStep struct {
	first, last int
	kind        TaxKind
	total       float64
	withHI      bool
}

// Tax credits, as percentages of earnings, allocated across the funds in
// proportion to the statutory rates.
var taxCredits = []creditStep{
	{1984, 1984, Employee, 0.3, true},
	{1984, 1984, SelfEmployed, 2.7, true},
	{1985, 1985, SelfEmployed, 2.3, true},
	{1986, 1989, SelfEmployed, 2.0, true},
	{2011, 2012, Employee, 2.0, false},
	{2011, 2012, SelfEmployed, 2.0, false},
}

// TaxRates maps (year, kind, fund) to net and gross payroll tax rates.
// Gross equals net plus credit for every entry.
type TaxRates struct {
	net    [numKinds][numFunds]*series.Money
	credit [numKinds][numFunds]*series.Money
	gross  [numKinds][numFunds]*series.Money
}

var pct = decimal.NewFromInt(100)

func newEmptyRates(maxyear int) *TaxRates {
	t := &TaxRates{}
	for k := range t.net {
		for f := range t.net[k] {
			t.net[k][f] = series.NewMoney(series.YEAR37, maxyear)
			t.credit[k][f] = series.NewMoney(series.YEAR37, maxyear)
			t.gross[k][f] = series.NewMoney(series.YEAR37, maxyear)
		}
	}
	return t
}

// NewTaxRates builds present-law rates. Years after the historical table hold
// the last year's rates.
func NewTaxRates(maxyear int) *TaxRates {
	t := newEmptyRates(maxyear)
	statutory := [numKinds][3]*series.Money{}
	for k := range statutory {
		for f := range statutory[k] {
			statutory[k][f] = series.NewMoney(series.YEAR37, maxyear)
		}
	}
	fill := func(kind TaxKind, steps []rateStep) {
		for _, s := range steps {
			for y := s.first; y <= min(s.last, maxyear); y++ {
				statutory[kind][0].Set(y, decimal.NewFromFloat(s.oasi).Div(pct))
				statutory[kind][1].Set(y, decimal.NewFromFloat(s.di).Div(pct))
				statutory[kind][2].Set(y, decimal.NewFromFloat(s.hi).Div(pct))
			}
		}
	}
	fill(Employee, employeeRates)
	fill(SelfEmployed, selfEmployedRates)
	two := decimal.NewFromInt(2)
	for y := 1984; y <= maxyear; y++ {
		src := min(y, LastHistoricalYear)
		for f := 0; f < 3; f++ {
			statutory[Employee][f].Set(y, statutory[Employee][f].At(src))
			statutory[SelfEmployed][f].Set(y, statutory[Employee][f].At(src).Mul(two))
		}
	}

	for kind := Employee; kind < numKinds; kind++ {
		for y := series.YEAR37; y <= maxyear; y++ {
			t.setNetRates(kind, y, statutory[kind][0].At(y), statutory[kind][1].At(y), statutory[kind][2].At(y))
		}
	}
	for _, c := range taxCredits {
		for y := c.first; y <= min(c.last, maxyear); y++ {
			k := c.kind
			g := [3]decimal.Decimal{statutory[k][0].At(y), statutory[k][1].At(y), statutory[k][2].At(y)}
			cr := splitCredit(decimal.NewFromFloat(c.total).Div(pct), g, c.withHI)
			t.setCredits(k, y, cr[0], cr[1], cr[2])
			t.setNetRates(k, y, g[0].Sub(cr[0]), g[1].Sub(cr[1]), g[2].Sub(cr[2]))
		}
	}
	t.setGrossRates()
	return t
}

// splitCredit allocates total across OASI, DI and optionally HI in proportion
// to the statutory rates; the last fund takes the rounding remainder.
func splitCredit(total decimal.Decimal, g [3]decimal.Decimal, withHI bool) [3]decimal.Decimal {
	var out [3]decimal.Decimal
	sum := g[0].Add(g[1])
	if withHI {
		sum = sum.Add(g[2])
	}
	if sum.IsZero() {
		return out
	}
	out[0] = total.Mul(g[0]).Div(sum).Round(8)
	if withHI {
		out[1] = total.Mul(g[1]).Div(sum).Round(8)
		out[2] = total.Sub(out[0]).Sub(out[1])
	} else {
		out[1] = total.Sub(out[0])
		out[2] = decimal.Zero
	}
	return out
}

// NewTaxRatesLC builds rates with a law change's intervals applied over the
// present-law table. Credits are never changed by a law change.
func NewTaxRatesLC(maxyear int, change *domain.TaxRateChange) (*TaxRates, error) {
	t := NewTaxRates(maxyear)
	if change == nil || change.Ind == domain.TaxRateNone {
		return t, nil
	}
	if err := change.Check(); err != nil {
		return nil, err
	}
	for i, first := range change.Years {
		last := maxyear
		if i+1 < len(change.Years) {
			last = change.Years[i+1] - 1
		}
		for y := max(first, series.YEAR37); y <= min(last, maxyear); y++ {
			t.setNetRates(Employee, y,
				change.Taxrate(domain.FundOASI, i), change.Taxrate(domain.FundDI, i), change.Taxrate(domain.FundHI, i))
			t.setNetRates(SelfEmployed, y,
				change.SelfEmployedRate(domain.FundOASI, i), change.SelfEmployedRate(domain.FundDI, i), change.SelfEmployedRate(domain.FundHI, i))
		}
	}
	t.setGrossRates()
	return t, nil
}

func (t *TaxRates) setNetRates(kind TaxKind, year int, oasi, di, hi decimal.Decimal) {
	r := &t.net[kind]
	r[OASI].Set(year, oasi)
	r[DI].Set(year, di)
	r[HI].Set(year, hi)
	r[OASDI].Set(year, oasi.Add(di))
	r[OASDHI].Set(year, oasi.Add(di).Add(hi))
}

func (t *TaxRates) setCredits(kind TaxKind, year int, oasi, di, hi decimal.Decimal) {
	c := &t.credit[kind]
	c[OASI].Set(year, oasi)
	c[DI].Set(year, di)
	c[HI].Set(year, hi)
	c[OASDI].Set(year, oasi.Add(di))
	c[OASDHI].Set(year, oasi.Add(di).Add(hi))
}

func (t *TaxRates) setGrossRates() {
	for k := range t.gross {
		for f := range t.gross[k] {
			g, n, c := t.gross[k][f], t.net[k][f], t.credit[k][f]
			for y := g.Base(); y <= g.Last(); y++ {
				g.Set(y, n.At(y).Add(c.At(y)))
			}
		}
	}
}

// Net returns the net tax rate.
func (t *TaxRates) Net(year int, kind TaxKind, fund Fund) decimal.Decimal {
	return t.net[kind][fund].At(year)
}

// Credit returns the tax credit rate.
func (t *TaxRates) Credit(year int, kind TaxKind, fund Fund) decimal.Decimal {
	return t.credit[kind][fund].At(year)
}

// Gross returns the gross tax rate.
func (t *TaxRates) Gross(year int, kind TaxKind, fund Fund) decimal.Decimal {
	return t.gross[kind][fund].At(year)
}

// LastYear returns the last year covered.
func (t *TaxRates) LastYear() int { return t.net[Employee][OASI].Last() }

// OneYearNet returns net tax on earnings, unrounded.
func (t *TaxRates) OneYearNet(earnings decimal.Decimal, year int, kind TaxKind, fund Fund) decimal.Decimal {
	return t.Net(year, kind, fund).Mul(earnings)
}

// OneYearGross returns gross tax on earnings, unrounded.
func (t *TaxRates) OneYearGross(earnings decimal.Decimal, year int, kind TaxKind, fund Fund) decimal.Decimal {
	return t.Gross(year, kind, fund).Mul(earnings)
}
