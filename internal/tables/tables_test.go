package tables

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() domain.CalcContext {
	return domain.NewCalcContext(domain.DefaultAssumptions())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTaxRates_GrossIsNetPlusCredit(t *testing.T) {
	rates := NewTaxRates(2030)

	for _, kind := range []TaxKind{Employee, SelfEmployed} {
		for _, fund := range Funds {
			for y := 1937; y <= 2030; y++ {
				gross := rates.Gross(y, kind, fund)
				sum := rates.Net(y, kind, fund).Add(rates.Credit(y, kind, fund))
				require.True(t, gross.Equal(sum), "%s %s %d: gross %s != net+credit %s", kind, fund, y, gross, sum)
			}
		}
	}
}

func TestTaxRates_DerivedBuckets(t *testing.T) {
	rates := NewTaxRates(2030)

	for _, kind := range []TaxKind{Employee, SelfEmployed} {
		for y := 1937; y <= 2030; y++ {
			oasdi := rates.Net(y, kind, OASI).Add(rates.Net(y, kind, DI))
			assert.True(t, rates.Net(y, kind, OASDI).Equal(oasdi), "OASDI %d", y)
			oasdhi := oasdi.Add(rates.Net(y, kind, HI))
			assert.True(t, rates.Net(y, kind, OASDHI).Equal(oasdhi), "OASDHI %d", y)
		}
	}
}

func TestTaxRates_HistoricalValues(t *testing.T) {
	rates := NewTaxRates(2030)

	assert.True(t, rates.Net(2019, Employee, OASDI).Equal(dec("0.062")))
	assert.True(t, rates.Net(2019, Employee, HI).Equal(dec("0.0145")))
	assert.True(t, rates.Net(2019, SelfEmployed, OASDI).Equal(dec("0.124")))
	assert.True(t, rates.Net(2025, Employee, OASDI).Equal(dec("0.062")), "later years hold the last rate")

	// 2011 payroll tax holiday: 2 points of credit on OASDI only.
	assert.True(t, rates.Net(2011, Employee, OASDI).Equal(dec("0.042")))
	assert.True(t, rates.Gross(2011, Employee, OASDI).Equal(dec("0.062")))
	assert.True(t, rates.Credit(2011, Employee, HI).IsZero())

	// 1984 self-employed credit of 2.7 points against OASDHI.
	assert.True(t, rates.Gross(1984, SelfEmployed, OASDHI).Equal(dec("0.14")))
	assert.True(t, rates.Net(1984, SelfEmployed, OASDHI).Equal(dec("0.113")))
}

func TestTaxRatesLC_ReadAndApply(t *testing.T) {
	var change domain.TaxRateChange
	require.NoError(t, change.Read(strings.NewReader("1 1\n2020 0.06 0.0 0.0145\n")))

	rates, err := NewTaxRatesLC(2040, &change)
	require.NoError(t, err)

	for y := 2020; y <= 2040; y++ {
		assert.True(t, rates.Net(y, Employee, OASI).Equal(dec("0.06")), "employee %d", y)
		assert.True(t, rates.Net(y, SelfEmployed, OASI).Equal(dec("0.12")), "self-employed %d", y)
	}

	present := NewTaxRates(2040)
	for y := 1937; y < 2020; y++ {
		for _, fund := range Funds {
			assert.True(t, rates.Net(y, Employee, fund).Equal(present.Net(y, Employee, fund)), "%s %d unchanged", fund, y)
		}
	}
}

func TestTaxRatesLC_SeparateSelfEmployedRates(t *testing.T) {
	var change domain.TaxRateChange
	input := "2 2\n2025 0.055 0.01 0.0145 0.10 0.02 0.029\n2030 0.06 0.01 0.0145 0.11 0.02 0.029\n"
	require.NoError(t, change.Read(strings.NewReader(input)))

	rates, err := NewTaxRatesLC(2035, &change)
	require.NoError(t, err)

	assert.True(t, rates.Net(2027, SelfEmployed, OASI).Equal(dec("0.10")))
	assert.True(t, rates.Net(2029, Employee, OASI).Equal(dec("0.055")))
	assert.True(t, rates.Net(2030, Employee, OASI).Equal(dec("0.06")))
	assert.True(t, rates.Net(2035, SelfEmployed, OASDI).Equal(dec("0.13")))
}

func TestTaxRateChange_ReadErrors(t *testing.T) {
	tests := map[string]string{
		"missing header field": "1\n",
		"bad indicator":        "7 1\n2020 0.06 0 0\n",
		"short interval":       "1 1\n2020 0.06\n",
		"missing interval":     "1 2\n2020 0.06 0 0\n",
		"decreasing years":     "1 2\n2025 0.06 0 0\n2020 0.06 0 0\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			var change domain.TaxRateChange
			assert.Error(t, change.Read(strings.NewReader(input)))
		})
	}
}

func TestOneYearTax_Unrounded(t *testing.T) {
	rates := NewTaxRates(2030)
	tax := rates.OneYearNet(dec("12345.67"), 2019, Employee, OASDI)
	assert.True(t, tax.Equal(dec("765.43154")))
}

func TestWageBase_HistoryAndProjection(t *testing.T) {
	ctx := testContext()
	awi := NewAverageWage(ctx)
	base := NewWageBase(awi, ctx, nil)

	assert.True(t, base.At(1937).Equal(dec("3000")))
	assert.True(t, base.At(1990).Equal(dec("51300")))
	assert.True(t, base.At(2019).Equal(dec("132900")))
	assert.True(t, base.At(2020).Equal(dec("137700")), "got %s", base.At(2020))
	for y := 2021; y <= ctx.MaxYear; y++ {
		require.True(t, base.At(y).GreaterThanOrEqual(base.At(y-1)))
	}
}

func TestWageBase_LawChange(t *testing.T) {
	ctx := testContext()
	awi := NewAverageWage(ctx)
	base := NewWageBase(awi, ctx, &domain.WageBaseChange{EffectiveYear: 2025, Base: dec("250000")})

	assert.True(t, base.At(2025).Equal(dec("250000")))
	assert.True(t, base.At(2026).GreaterThan(dec("250000")))
	assert.True(t, base.At(2019).Equal(dec("132900")))
}

func TestWageBaseHI(t *testing.T) {
	hi := NewWageBaseHI(2030)
	assert.True(t, hi.At(1990).Equal(dec("51300")))
	assert.True(t, hi.At(1993).Equal(dec("135000")))
	assert.True(t, hi.At(1994).Equal(Unlimited))

	short := NewWageBaseHI(1985)
	assert.Equal(t, 1985, short.Last())
	assert.True(t, short.At(1985).Equal(dec("39600")))
}

func TestAssignSteady(t *testing.T) {
	base := series.NewMoney(series.YEAR37, 1990)

	assignSteady(base, 1980, 1985, dec("100"))
	assert.True(t, base.At(1985).Equal(dec("100")))
	assert.NotPanics(t, func() { assignSteady(base, 1995, 1990, dec("1")) })
	assert.Panics(t, func() { assignSteady(base, 1989, 1991, dec("1")) })
}

func TestWageBaseOldLaw(t *testing.T) {
	ctx := testContext()
	awi := NewAverageWage(ctx)
	old := NewWageBaseOldLaw(awi, ctx.MaxYear)

	assert.True(t, old.At(1978).Equal(dec("17700")))
	assert.True(t, old.At(1990).Equal(dec("38100")))
	assert.True(t, old.At(2019).Equal(dec("98700")))
	assert.True(t, old.At(2020).GreaterThanOrEqual(dec("98700")))
}

func TestBendPoints_1990And2019(t *testing.T) {
	awi := NewAverageWage(testContext())

	bend, err := ScaleBendPoints(awi, 1990, PiaBend1979)
	require.NoError(t, err)
	assert.True(t, bend[0].IsZero())
	assert.True(t, bend[1].Equal(dec("356")), "got %s", bend[1])
	assert.True(t, bend[2].Equal(dec("2145")), "got %s", bend[2])

	bend, err = ScaleBendPoints(awi, 2019, PiaBend1979)
	require.NoError(t, err)
	assert.True(t, bend[1].Equal(dec("926")))
	assert.True(t, bend[2].Equal(dec("5583")))

	_, err = ScaleBendPoints(awi, 1978, PiaBend1979)
	assert.Error(t, err)
}

func TestQcAmounts(t *testing.T) {
	awi := NewAverageWage(testContext())
	qc := NewQcAmounts(awi, 2030)

	assert.True(t, qc.At(1977).IsZero())
	assert.True(t, qc.At(1978).Equal(dec("250")))
	assert.True(t, qc.At(2019).Equal(dec("1360")))
	assert.True(t, qc.At(2020).Equal(dec("1410")), "got %s", qc.At(2020))
}

func TestBenefitIncreases(t *testing.T) {
	ctx := testContext()
	bi := NewBenefitIncreases(ctx, nil)
	assert.True(t, bi.At(1980).Equal(dec("0.143")))
	assert.True(t, bi.At(2030).Equal(ctx.Assumptions.BenefitIncrease))

	reduced := NewBenefitIncreases(ctx, &domain.ColaChange{EffectiveYear: 2016, Points: dec("0.005")})
	assert.True(t, reduced.At(2016).IsZero(), "never below zero")
	assert.True(t, reduced.At(2017).Equal(dec("0.015")))
	assert.True(t, reduced.At(2015).IsZero())
	assert.True(t, reduced.At(2014).Equal(dec("0.017")))
}

func TestCatchup(t *testing.T) {
	c := NewCatchup()
	require.NoError(t, c.Set(2020, 2022, dec("2.5")))
	assert.True(t, c.Factor(2020, 2022).Equal(dec("1.025")))
	assert.True(t, c.Factor(2020, 2023).Equal(dec("1")))

	err := c.Set(2020, 2022, dec("150"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.CodeCatchupPercent, verr.Code)
}
