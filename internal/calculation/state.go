package calculation

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// caseState is the scratch state of one case's calculation. It is created by
// Calculate and discarded when the case finishes.
type caseState struct {
	ctx     domain.CalcContext
	law     Law
	tables  *Tables
	logger  Logger
	worker  *domain.WorkerData
	family  domain.SecondaryArray
	pia     *domain.PiaData
	results map[MethodKind]*MethodResult

	// earnings are the worker's earnings with any projection applied.
	earnings *series.Money
}

func (s *caseState) benefitDate() time.Time {
	if s.worker.BenefitDate.IsZero() {
		return s.worker.EntitlementDate
	}
	return s.worker.BenefitDate
}

// eligibilityYear returns the year the worker first meets the age or event
// test for the case's benefit type.
func eligibilityYear(w *domain.WorkerData) int {
	age62 := domain.YearAttaining(w.BirthDate, 62)
	switch w.Benefit {
	case domain.Disability:
		return w.Disability.Onset.Year()
	case domain.Survivor:
		if w.IsDead() && w.DeathDate.Year() < age62 {
			return w.DeathDate.Year()
		}
	}
	return age62
}

// eventYear is the last year whose earnings count toward the case.
func (s *caseState) eventYear() int {
	w := s.worker
	switch w.Benefit {
	case domain.Disability:
		return w.Disability.Onset.Year()
	case domain.Survivor:
		return w.DeathDate.Year()
	}
	return max(s.pia.EligYear-1, s.benefitDate().Year()-1)
}

// Deemed military wage credits.
var (
	militaryPerQuarter = decimal.NewFromInt(300)
	militaryPerYear    = decimal.NewFromInt(1200)
)

// militaryCredits returns the deemed wage credits for active duty: $300 per
// calendar quarter of service 1957-1977 and $1,200 per year of service
// 1978-2001.
func militaryCredits(service []domain.MilitaryService, maxyear int) *series.Money {
	credits := series.NewMoney(series.YEAR37, maxyear)
	for _, m := range service {
		for y := max(1957, m.Start.Year()); y <= min(2001, m.End.Year(), maxyear); y++ {
			if y >= 1978 {
				credits.Set(y, militaryPerYear)
				continue
			}
			quarters := 0
			for q := 0; q < 4; q++ {
				qStart := domain.Date(y, time.Month(3*q+1), 1)
				qEnd := qStart.AddDate(0, 3, -1)
				if !m.Start.After(qEnd) && !m.End.Before(qStart) {
					quarters++
				}
			}
			credits.Set(y, militaryPerQuarter.Mul(decimal.NewFromInt(int64(quarters))))
		}
	}
	return credits
}

// setupEarnings fills the derived earnings series.
func (s *caseState) setupEarnings() error {
	w, p, maxyear := s.worker, s.pia, s.ctx.MaxYear
	for y := series.YEAR37; y <= maxyear; y++ {
		e := decimal.Zero
		if s.earnings.Contains(y) {
			e = s.earnings.At(y)
		}
		if rr, ok := w.Railroad.Earnings[y]; ok {
			e = e.Add(rr)
		}
		p.EarnOasdi.Set(y, e)
	}
	if err := p.EarnOasdi.AddSeries(series.YEAR37, maxyear, militaryCredits(w.Military, maxyear)); err != nil {
		return fmt.Errorf("military credits: %w", err)
	}

	if err := p.EarnLimited.AssignFrom(series.YEAR37, maxyear, p.EarnOasdi.Annual); err != nil {
		return err
	}
	if err := p.EarnLimited.Limit(series.YEAR37, maxyear, s.tables.WageBase); err != nil {
		return fmt.Errorf("wage base limit: %w", err)
	}
	if err := p.EarnOldLaw.AssignFrom(series.YEAR37, maxyear, p.EarnOasdi.Annual); err != nil {
		return err
	}
	if err := p.EarnOldLaw.Limit(series.YEAR37, maxyear, s.tables.WageBaseOldLaw); err != nil {
		return fmt.Errorf("old-law wage base limit: %w", err)
	}
	p.EarnTotal50 = p.EarnLimited.Sum(series.YEAR37, 1950)

	if w.ChildCare != nil {
		for y := max(series.YEAR37, w.ChildCare.Base()); y <= min(maxyear, w.ChildCare.Last()); y++ {
			p.ChildCare.Set(y, w.ChildCare.At(y))
		}
	}
	return nil
}

// setupFreeze marks the years of a prior period of disability. A period still
// running at eligibility covers every year up to it.
func (s *caseState) setupFreeze() {
	prior := s.worker.Prior
	if !prior.Valid() {
		return
	}
	last := s.pia.EligYear - 1
	if !prior.Continuing() {
		last = min(last, prior.Cessation.Year())
	}
	for y := max(1951, prior.Onset.Year()); y <= min(last, s.ctx.MaxYear); y++ {
		s.pia.FreezeYears.Set(y, true)
	}
}

// Share of the old-law base that makes a year of coverage for the special
// minimum from 1991.
var specMinLateRate = decimal.NewFromFloat(0.15)

// setup resets the derived data and fills everything the methods share.
func (s *caseState) setup() error {
	w, p := s.worker, s.pia
	p.Initialize()
	p.EligYear = eligibilityYear(w)
	p.EntYear = w.EntitlementDate.Year()
	p.BenefitYear = s.benefitDate().Year()

	if err := s.setupEarnings(); err != nil {
		return err
	}
	s.setupFreeze()
	s.setupQcs()
	s.setupInsured()

	p.CompPeriodNew = s.compPeriod(p.EligYear, max(1951, domain.YearAttaining(w.BirthDate, 22)), p.FreezeYears)
	oldStart := max(1951, domain.YearAttaining(w.BirthDate, 22))
	p.CompPeriodOld = s.oldCompPeriod(oldStart)

	last := min(s.eventYear(), s.ctx.MaxYear)
	p.YearsCoverage = YearsOfCoverage(p.EarnOasdi, s.tables.WageBase, s.tables.WageBaseOldLaw, last, decimal.Zero)
	p.SpecMinYears = YearsOfCoverage(p.EarnOasdi, s.tables.WageBase, s.tables.WageBaseOldLaw, last, specMinLateRate)
	return nil
}
