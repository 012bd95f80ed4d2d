package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// WindfallInd records which rule governed the windfall elimination
// computation.
type WindfallInd int

const (
	WindfallNone WindfallInd = iota
	Has30Years
	ReducedPerc
	OneHalfPension
)

func (w WindfallInd) String() string {
	switch w {
	case Has30Years:
		return "30 or more years of coverage"
	case ReducedPerc:
		return "reduced first percentage"
	case OneHalfPension:
		return "one-half pension limit"
	default:
		return "not applicable"
	}
}

const (
	windfallFirstYear = 1986
	windfallFullYears = 30
)

// WindfallPerc returns the first-bracket percentage for a worker with
// yearsTotal years of coverage: 90 percent at 30 years, 5 points less for each
// year short, never under 40 percent. Eligibility in 1986 through 1989 phases
// the floor in.
func WindfallPerc(yearsTotal, eligYear int) decimal.Decimal {
	p := 90 - 5*(windfallFullYears-yearsTotal)
	floor := 40
	switch {
	case eligYear <= 1986:
		floor = 80
	case eligYear == 1987:
		floor = 70
	case eligYear == 1988:
		floor = 60
	case eligYear == 1989:
		floor = 50
	}
	p = max(floor, min(90, p))
	return decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(100))
}

// WindfallResult is the outcome of the windfall elimination computation.
type WindfallResult struct {
	Ind      WindfallInd
	PercWind decimal.Decimal
	Pia      decimal.Decimal
}

// WindfallCal applies the windfall elimination provision to piaElig. The
// reduced-percentage PIA is never allowed to fall below piaElig less one half
// of the monthly pension.
func WindfallCal(piaElig decimal.Decimal, portion, perc []decimal.Decimal, yearsTotal, eligYear int, pension decimal.Decimal) (WindfallResult, error) {
	if yearsTotal >= windfallFullYears {
		return WindfallResult{Ind: Has30Years, Pia: piaElig}, nil
	}
	percWind := WindfallPerc(yearsTotal, eligYear)
	reduced := append([]decimal.Decimal(nil), perc...)
	reduced[0] = percWind
	test, err := AimePiaCal(portion, reduced, eligYear)
	if err != nil {
		return WindfallResult{}, err
	}
	half := money.RoundPIA(piaElig.Sub(pension.Div(decimal.NewFromInt(2))), eligYear)
	if test.GreaterThanOrEqual(half) {
		return WindfallResult{Ind: ReducedPerc, PercWind: percWind, Pia: test}, nil
	}
	return WindfallResult{Ind: OneHalfPension, PercWind: percWind, Pia: half}, nil
}

// windfallApplies reports whether the provision reaches the worker's own
// benefit: a noncovered pension first payable after 1985, eligibility after
// 1985, and not a survivor computation.
func windfallApplies(w *domain.WorkerData, eligYear int) bool {
	return w.HasPension() &&
		w.Benefit != domain.Survivor &&
		eligYear >= windfallFirstYear &&
		w.Pension.Entitlement.Year() >= windfallFirstYear
}

// coverageThreshold returns the earnings that make year a year of coverage.
// Years 1951-1978 use 25 percent of the base, later years a share of the
// old-law base: 25 percent, or lateRate from 1991 when lateRate is set.
func coverageThreshold(year int, base, oldLaw *series.Money, lateRate decimal.Decimal) decimal.Decimal {
	quarter := decimal.NewFromFloat(0.25)
	switch {
	case year <= 1978:
		return base.At(year).Mul(quarter)
	case year <= 1990 || lateRate.IsZero():
		return oldLaw.At(year).Mul(quarter)
	default:
		return oldLaw.At(year).Mul(lateRate)
	}
}

// YearsOfCoverage counts years of coverage through last. Earnings before 1951
// count one year per $900, at most 14.
func YearsOfCoverage(earnings, base, oldLaw *series.Money, last int, lateRate decimal.Decimal) int {
	pre := earnings.Sum(series.YEAR37, min(1950, last))
	years := int(pre.Div(decimal.NewFromInt(900)).Floor().IntPart())
	years = min(years, 14)
	for y := 1951; y <= last; y++ {
		if earnings.At(y).IsPositive() && earnings.At(y).GreaterThanOrEqual(coverageThreshold(y, base, oldLaw, lateRate)) {
			years++
		}
	}
	return years
}
