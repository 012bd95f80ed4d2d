package calculation

import (
	"fmt"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

var realWageGainRate = decimal.NewFromFloat(0.01)

// RealWageGainAdj scales amount by one percent per year of eligibility after
// startYear and rounds it for the year before startYear.
func RealWageGainAdj(amount decimal.Decimal, eligYear, startYear int) decimal.Decimal {
	years := decimal.NewFromInt(int64(eligYear - startYear))
	return money.RoundPIA(amount.Mul(one.Add(realWageGainRate.Mul(years))), startYear-1)
}

// wageIndParams configures one run of the wage-indexed computation.
type wageIndParams struct {
	kind     MethodKind
	eligYear int
	comp     domain.CompPeriod
	freeze   *series.Bits
	earnings *series.Money
	// windfall applies the windfall elimination provision when it reaches
	// the worker.
	windfall bool
	// childCare runs the childcare dropout on the selected years.
	childCare bool
	// disabilityMfb uses the disability family maximum.
	disabilityMfb bool
	// colaFrom is the first increase year applied; zero means the year of
	// eligibility.
	colaFrom int
}

// wageIndexed runs the wage-indexed computation shared by the wage-indexed,
// non-freeze, childcare and reindexed widow(er) methods.
func (s *caseState) wageIndexed(p wageIndParams) (*MethodResult, error) {
	w := s.worker
	r := &MethodResult{Kind: p.kind, EligYear: p.eligYear, IndexYear: p.eligYear - 2, Comp: p.comp}
	awi := s.tables.AverageWage

	r.Multiplied, r.Indexed = IndexEarnings(p.comp.StartYear, r.IndexYear, p.comp.EndYear, p.earnings, awi, p.freeze)
	r.Order = OrderEarnings(r.Indexed, p.comp.StartYear, p.comp.EndYear, p.comp.N, p.freeze)
	n := p.comp.N
	if p.childCare {
		r.ChildCareDrop = s.childCareDropout(r.Indexed, r.Order, p.comp)
		n -= r.ChildCareDrop
		s.pia.ChildCareDrop = r.ChildCareDrop
	}
	r.Aime = AverageMonthly(TotalSelected(r.Indexed, r.Order, p.comp.StartYear, p.comp.EndYear), n)

	var err error
	if r.BendPia, err = s.law.PiaBendPoints(awi, p.eligYear); err != nil {
		return nil, err
	}
	r.PercPia = s.law.PiaPercentages(p.eligYear)
	if len(r.PercPia) != len(r.BendPia) {
		return nil, fmt.Errorf("%d percentages for %d bend points", len(r.PercPia), len(r.BendPia)-1)
	}
	if r.PortionAime, err = SetPortionAime(r.Aime, r.BendPia); err != nil {
		return nil, err
	}
	if r.PiaElig, err = AimePiaCal(r.PortionAime, r.PercPia, p.eligYear); err != nil {
		return nil, err
	}

	if p.windfall && windfallApplies(w, p.eligYear) {
		wr, err := WindfallCal(r.PiaElig, r.PortionAime, r.PercPia, s.pia.YearsCoverage, p.eligYear, w.Pension.Amount)
		if err != nil {
			return nil, fmt.Errorf("windfall elimination: %w", err)
		}
		r.Windfall, r.PercWind, r.PiaElig = wr.Ind, wr.PercWind, wr.Pia
	}

	mfbAime := r.Aime
	if w.Totalization && w.ForeignQcs > 0 {
		us := s.usQcs(p.comp.EndYear)
		r.PiaTheoretical = r.PiaElig
		share := decimal.NewFromInt(int64(us)).Div(decimal.NewFromInt(int64(us + w.ForeignQcs)))
		r.PiaElig = money.RoundPIA(r.PiaElig.Mul(share), p.eligYear)
		if r.TotalizedAime, err = DeconvertAime(r.PiaElig, r.BendPia, r.PercPia, p.eligYear); err != nil {
			return nil, err
		}
		mfbAime = r.TotalizedAime
	}

	if r.BendMfb, err = tables.ScaleBendPoints(awi, p.eligYear, tables.MfbBend1979); err != nil {
		return nil, err
	}
	if p.disabilityMfb && p.eligYear >= 1980 {
		r.MfbElig = DisabilityMfb(mfbAime, r.PiaElig, p.eligYear)
	} else if r.MfbElig, err = MfbCal(r.PiaElig, r.BendMfb, p.eligYear); err != nil {
		return nil, err
	}

	if a := s.ctx.Assumptions; a.Statement && p.eligYear > s.ctx.StartYear {
		r.PiaElig = RealWageGainAdj(r.PiaElig, p.eligYear, s.ctx.StartYear)
		r.MfbElig = RealWageGainAdj(r.MfbElig, p.eligYear, s.ctx.StartYear)
		r.RealWageGain = true
	}

	from := p.colaFrom
	if from == 0 {
		from = p.eligYear
	}
	s.finish(r, from)
	return r, nil
}

func (s *caseState) wageIndApplicable() bool {
	return s.pia.EligYear >= tables.FirstIndexedYear
}

func (s *caseState) wageIndCal() (*MethodResult, error) {
	return s.wageIndexed(wageIndParams{
		kind:          WageInd,
		eligYear:      s.pia.EligYear,
		comp:          s.pia.CompPeriodNew,
		freeze:        s.pia.FreezeYears,
		earnings:      s.pia.EarnLimited,
		windfall:      true,
		disabilityMfb: s.worker.Benefit == domain.Disability,
	})
}

// nonFreezeApplicable holds for a worker with a prior period of disability
// whose freeze could lower the result.
func (s *caseState) nonFreezeApplicable() bool {
	return s.wageIndApplicable() && s.worker.Prior.Valid() && series.Count(s.pia.FreezeYears, series.YEAR37, s.ctx.MaxYear) > 0
}

func (s *caseState) nonFreezeCal() (*MethodResult, error) {
	start := max(1951, domain.YearAttaining(s.worker.BirthDate, 22))
	return s.wageIndexed(wageIndParams{
		kind:          WageIndNonFreeze,
		eligYear:      s.pia.EligYear,
		comp:          s.compPeriod(s.pia.EligYear, start, nil),
		earnings:      s.pia.EarnLimited,
		windfall:      true,
		disabilityMfb: s.worker.Benefit == domain.Disability,
	})
}
