package calculation

import (
	"time"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// childCareMaxYears caps regular plus childcare dropout years.
const childCareMaxYears = 3

// childCareThreshold is the most a childcare year may earn and still be
// dropped. Present law allows no earnings at all.
var childCareThreshold = decimal.Zero

// childCareEffective is the first entitlement date the childcare dropout
// reaches.
var childCareEffective = domain.Date(1981, time.July, 1)

// childCareDisability returns the disability period the childcare dropout is
// computed on, or nil when the case does not qualify. An old-age case
// qualifies through a prior period that started on or after the effective
// date and lasted until age 61.
func (s *caseState) childCareDisability() *domain.DisabilityPeriod {
	w := s.worker
	switch w.Benefit {
	case domain.Disability:
		if !w.Disability.Entitlement.Before(childCareEffective) {
			return &w.Disability
		}
	case domain.OldAge:
		p := w.Prior
		if !p.Valid() || p.Onset.Before(childCareEffective) {
			return nil
		}
		if p.Continuing() || !p.Cessation.Before(domain.DateAttaining(w.BirthDate, 61)) {
			return p
		}
	}
	return nil
}

func (s *caseState) childCareApplicable() bool {
	w := s.worker
	return s.pia.EligYear >= tables.FirstIndexedYear &&
		!w.Totalization &&
		w.HasChildCareYears() &&
		s.childCareDisability() != nil
}

func (s *caseState) childCareCal() (*MethodResult, error) {
	w := s.worker
	d := s.childCareDisability()
	eligYear := d.Onset.Year()
	start := max(1951, domain.YearAttaining(w.BirthDate, 22))
	comp := s.compPeriodFor(eligYear, start, min(eligYear, s.ctx.MaxYear), s.pia.FreezeYears, true)
	return s.wageIndexed(wageIndParams{
		kind:          ChildCare,
		eligYear:      eligYear,
		comp:          comp,
		freeze:        s.pia.FreezeYears,
		earnings:      s.pia.EarnLimited,
		childCare:     true,
		windfall:      true,
		disabilityMfb: true,
	})
}

// childCareDropMax is the number of childcare years that may be dropped:
// what the regular dropout leaves under the cap, without going below two
// computation years.
func childCareDropMax(comp domain.CompPeriod) int {
	return max(0, min(childCareMaxYears-comp.Dropout, comp.N-minCompYears))
}

// childCareDropout drops childcare years earning no more than
// childCareThreshold from the selected years and returns how many were
// dropped. Selected childcare years are dropped first, in year order. Then
// zero years outside the childcare set are swapped out of the selection for
// unselected zero childcare years.
func (s *caseState) childCareDropout(indexed *series.Money, order *series.Ints, comp domain.CompPeriod) int {
	return childCareDropoutCal(indexed, order, s.pia.ChildCare, s.pia.FreezeYears, comp)
}

func childCareDropoutCal(indexed *series.Money, order *series.Ints, childCare, freeze *series.Bits, comp domain.CompPeriod) int {
	limit := childCareDropMax(comp)
	drop := 0
	noEarnings := func(y int) bool { return indexed.At(y).LessThanOrEqual(childCareThreshold) }

	for y := comp.StartYear; y <= comp.EndYear && drop < limit; y++ {
		if order.At(y) == selected && childCare.At(y) && noEarnings(y) {
			order.Set(y, dropped)
			drop++
		}
	}
	if drop >= limit {
		return drop
	}

	var in, out []int
	for y := comp.StartYear; y <= comp.EndYear; y++ {
		switch {
		case order.At(y) == selected && !childCare.At(y) && noEarnings(y):
			in = append(in, y)
		case order.At(y) == notSelected && childCare.At(y) && noEarnings(y) && !(freeze != nil && freeze.At(y)):
			out = append(out, y)
		}
	}
	k := min(len(in), len(out), limit-drop)
	for i := 0; i < k; i++ {
		order.Set(in[i], notSelected)
		order.Set(out[i], dropped)
	}
	return drop + k
}
