package calculation

import (
	"time"

	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// applyColas raises amount by every benefit increase from fromYear whose
// effective date falls on or before through, rounding each step for its
// year. Catch-up increases recorded for eligYear apply with the regular
// increase.
func (s *caseState) applyColas(amount decimal.Decimal, eligYear, fromYear int, through time.Time) decimal.Decimal {
	bi := s.tables.BenefitIncreases
	for y := max(fromYear, bi.Base()); y <= bi.Last(); y++ {
		if tables.IncreaseEffective(y).After(through) {
			break
		}
		f := one.Add(bi.At(y)).Mul(s.tables.Catchup.Factor(eligYear, y))
		amount = money.RoundPIA(amount.Mul(f), y)
	}
	return amount
}

// firstIncreaseAfter returns the first year whose benefit increase takes
// effect after date.
func firstIncreaseAfter(date time.Time) int {
	y := date.Year()
	if !tables.IncreaseEffective(y).After(date) {
		y++
	}
	return y
}

// finish carries the eligibility-year amounts forward to the entitlement
// and benefit dates.
func (s *caseState) finish(r *MethodResult, colaFrom int) {
	w := s.worker
	r.PiaEnt = s.applyColas(r.PiaElig, r.EligYear, colaFrom, w.EntitlementDate)
	r.MfbEnt = s.applyColas(r.MfbElig, r.EligYear, colaFrom, w.EntitlementDate)
	r.PiaBen = s.applyColas(r.PiaElig, r.EligYear, colaFrom, s.benefitDate())
	r.MfbBen = s.applyColas(r.MfbElig, r.EligYear, colaFrom, s.benefitDate())
}
