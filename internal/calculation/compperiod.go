package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
)

// Computation period rules.
const (
	maxDropout     = 5
	minCompYears   = 2
	disabilityStep = 5
)

// compPeriod builds the wage-indexed computation period: years from start
// through the year before eligYear less freeze years elapse, and the n
// highest years are chosen from start through the event year.
func (s *caseState) compPeriod(eligYear, start int, freeze *series.Bits) domain.CompPeriod {
	end := min(s.eventYear(), s.ctx.MaxYear)
	return s.compPeriodFor(eligYear, start, end, freeze, s.worker.Benefit == domain.Disability)
}

// compPeriodFor builds a period ending at end. A disability period drops one
// year for each five elapsed, at most five.
func (s *caseState) compPeriodFor(eligYear, start, end int, freeze *series.Bits, disability bool) domain.CompPeriod {
	c := domain.CompPeriod{StartYear: start, EndYear: end}
	for y := start; y < eligYear; y++ {
		if freeze != nil && freeze.At(y) {
			c.FreezeYears++
			continue
		}
		c.Elapsed++
	}
	c.Dropout = maxDropout
	if disability {
		c.Dropout = min(maxDropout, c.Elapsed/disabilityStep)
	}
	c.Dropout = max(0, c.Dropout-s.law.DropoutReduction(eligYear))
	c.N = max(minCompYears, c.Elapsed-c.Dropout)
	return c
}

// oldCompPeriod builds the period used by the average monthly wage methods.
func (s *caseState) oldCompPeriod(start int) domain.CompPeriod {
	c := domain.CompPeriod{StartYear: start, EndYear: min(s.eventYear(), s.ctx.MaxYear)}
	c.Elapsed = max(0, s.pia.EligYear-start)
	c.Dropout = maxDropout
	c.N = max(minCompYears, c.Elapsed-c.Dropout)
	return c
}
