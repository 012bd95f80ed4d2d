package calculation

import (
	"time"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// tableBracket is one band of the benefit table in effect in 1978, stated as
// a percentage of the average monthly wage falling in the band.
type tableBracket struct {
	width decimal.Decimal
	rate  decimal.Decimal
}

// The last bracket is open-ended.
var (
	tableBrackets = []tableBracket{
		{decimal.NewFromInt(110), decimal.NewFromFloat(1.459)},
		{decimal.NewFromInt(290), decimal.NewFromFloat(0.5307)},
		{decimal.NewFromInt(150), decimal.NewFromFloat(0.4959)},
		{decimal.NewFromInt(100), decimal.NewFromFloat(0.5829)},
		{decimal.NewFromInt(100), decimal.NewFromFloat(0.3242)},
		{decimal.NewFromInt(250), decimal.NewFromFloat(0.2945)},
		{decimal.NewFromInt(175), decimal.NewFromFloat(0.2651)},
		{decimal.NewFromInt(100), decimal.NewFromFloat(0.2475)},
		{decimal.Zero, decimal.NewFromFloat(0.2357)},
	}
	tableMinimumPia = decimal.NewFromFloat(121.80)
	tableYear       = 1978
	tableMfbRate    = decimal.NewFromFloat(1.5)
)

// TablePia returns the 1978 benefit table PIA for an average monthly wage.
func TablePia(amw decimal.Decimal) decimal.Decimal {
	rest := amw
	sum := decimal.Zero
	for _, b := range tableBrackets {
		if !rest.IsPositive() {
			break
		}
		part := rest
		if !b.width.IsZero() {
			part = money.Min(rest, b.width)
		}
		sum = sum.Add(part.Mul(b.rate))
		rest = rest.Sub(part)
	}
	return money.Max(tableMinimumPia, money.RoundPIA(sum, tableYear))
}

// averageMonthlyWage computes a table method from the unindexed earnings
// selected over comp. Benefit increases start with colaFrom.
func (s *caseState) averageMonthlyWage(kind MethodKind, comp domain.CompPeriod, earnings *series.Money, colaFrom int) *MethodResult {
	r := &MethodResult{Kind: kind, EligYear: s.pia.EligYear, Comp: comp}
	r.Order = OrderEarnings(earnings, comp.StartYear, comp.EndYear, comp.N, nil)
	r.Aime = AverageMonthly(TotalSelected(earnings, r.Order, comp.StartYear, comp.EndYear), comp.N)
	pia1978 := TablePia(r.Aime)
	mfb1978 := money.RoundPIA(pia1978.Mul(tableMfbRate), tableYear)

	// Carry the table amounts to the year of eligibility.
	through := tables.IncreaseEffective(s.pia.EligYear - 1)
	r.PiaElig = s.applyColas(pia1978, s.pia.EligYear, tables.FirstIndexedYear, through)
	r.MfbElig = s.applyColas(mfb1978, s.pia.EligYear, tables.FirstIndexedYear, through)
	s.finish(r, max(colaFrom, tables.FirstIndexedYear))
	return r
}

// oldStartApplicable holds for workers born before 1930 with earnings or
// quarters before 1951.
func (s *caseState) oldStartApplicable() bool {
	w := s.worker
	return w.BirthYear() < 1930 && (s.pia.EarnTotal50.IsPositive() || w.QcPre1951 > 0)
}

func (s *caseState) oldStartCal() (*MethodResult, error) {
	start := max(series.YEAR37, domain.YearAttaining(s.worker.BirthDate, 22))
	comp := s.oldCompPeriod(start)
	return s.averageMonthlyWage(OldStart, comp, s.pia.EarnLimited, s.pia.EligYear), nil
}

func (s *caseState) tableApplicable() bool {
	return s.pia.EligYear < tables.FirstIndexedYear
}

func (s *caseState) tableCal() (*MethodResult, error) {
	return s.averageMonthlyWage(PiaTable, s.pia.CompPeriodOld, s.pia.EarnLimited, s.pia.EligYear), nil
}

// Last year of eligibility the transitional guarantee reaches.
const transGuarLastYear = 1983

func (s *caseState) transGuarApplicable() bool {
	w, elig := s.worker, s.pia.EligYear
	if elig < tables.FirstIndexedYear || elig > transGuarLastYear {
		return false
	}
	switch w.Benefit {
	case domain.OldAge:
		return true
	case domain.Survivor:
		return !w.DeathDate.Before(domain.DateAttaining(w.BirthDate, 62))
	}
	return false
}

// transGuarCal computes the old-law PIA from earnings through the year
// before eligibility limited to the old-law base.
func (s *caseState) transGuarCal() (*MethodResult, error) {
	comp := s.pia.CompPeriodOld
	comp.EndYear = s.pia.EligYear - 1
	return s.averageMonthlyWage(TransGuar, comp, s.pia.EarnOldLaw, s.pia.EligYear), nil
}

// Frozen minimum amounts.
var (
	frozMinPia = decimal.NewFromInt(122)
	frozMinMfb = decimal.NewFromInt(183)
)

const (
	frozMinFirstYear = 1979
	frozMinLastYear  = 1981
)

func (s *caseState) frozMinApplicable() bool {
	return s.pia.EligYear >= frozMinFirstYear && s.pia.EligYear <= frozMinLastYear
}

// frozMinCal pays the frozen minimum, increased only after entitlement.
func (s *caseState) frozMinCal() (*MethodResult, error) {
	r := &MethodResult{Kind: FrozMin, EligYear: s.pia.EligYear, PiaElig: frozMinPia, MfbElig: frozMinMfb}
	s.finish(r, firstIncreaseAfter(s.worker.EntitlementDate))
	return r, nil
}

// Months after cessation within which a new entitlement keeps the prior
// disability PIA.
const dibGuarMonths = 12

// dibGuarApplicable holds when a prior disability PIA is on record and the
// worker was re-entitled within 12 months of cessation, or the prior period
// continued until conversion to an old-age or survivor benefit.
func (s *caseState) dibGuarApplicable() bool {
	w := s.worker
	p := w.Prior
	if !p.Valid() || !p.PriorPia.IsPositive() || p.Entitlement.IsZero() {
		return false
	}
	if p.Continuing() {
		return w.Benefit != domain.Disability
	}
	return domain.MonthsBetween(p.Cessation, w.EntitlementDate) <= dibGuarMonths
}

// dibGuarCal carries the prior PIA forward with every increase after the
// prior entitlement.
func (s *caseState) dibGuarCal() (*MethodResult, error) {
	p := s.worker.Prior
	r := &MethodResult{Kind: DibGuar, EligYear: p.Onset.Year(), PiaElig: p.PriorPia, MfbElig: p.PriorMfb}
	if !r.MfbElig.IsPositive() {
		r.MfbElig = money.RoundPIA(p.PriorPia.Mul(tableMfbRate), p.Entitlement.Year())
	}
	s.finish(r, firstIncreaseAfter(p.Entitlement))
	return r, nil
}

// Years of coverage the special minimum starts above.
const specMinBaseYears = 10

var specMinMfbRate = decimal.NewFromFloat(1.5)

func (s *caseState) specMinApplicable() bool {
	return s.pia.SpecMinYears > specMinBaseYears
}

// specMinCal pays the per-year amount for each year of coverage over 10, up
// to the maximum, stated in January 1979 dollars.
func (s *caseState) specMinCal() (*MethodResult, error) {
	elig := s.pia.EligYear
	amount, maxYears := s.law.SpecMinParams(elig)
	excess := min(s.pia.SpecMinYears, maxYears) - specMinBaseYears
	r := &MethodResult{Kind: SpecMin, EligYear: elig}
	if excess <= 0 {
		s.finish(r, max(elig, tables.FirstIndexedYear))
		return r, nil
	}
	base := money.RoundPIA(amount.Mul(decimal.NewFromInt(int64(excess))), tables.FirstIndexedYear)
	through := tables.IncreaseEffective(elig - 1)
	if elig <= tables.FirstIndexedYear {
		through = time.Time{}
	}
	r.PiaElig = s.applyColas(base, elig, tables.FirstIndexedYear, through)
	r.MfbElig = money.RoundPIA(r.PiaElig.Mul(specMinMfbRate), elig)
	s.finish(r, max(elig, tables.FirstIndexedYear))
	return r, nil
}
