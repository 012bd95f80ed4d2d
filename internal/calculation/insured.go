package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// Quarters of coverage rules.
const (
	qcPerYear          = 4
	qcMinFully         = 6
	qcMaxFully         = 40
	qcDisability       = 20
	qcDisabilityWindow = 10
	qcCurrently        = 6
	qcCurrentlyWindow  = 3
	// qcPre1951Max is the most quarters the lump-sum pre-1951 rule can
	// credit.
	qcPre1951Max = 56
)

var (
	qcPre1951Amount = decimal.NewFromInt(400)
	seQcMinimum     = decimal.NewFromInt(400)
)

// qcsForYear credits quarters of coverage for one year of earnings.
func (s *caseState) qcsForYear(year int, earnings decimal.Decimal) int {
	w := s.worker
	if w.QcOverride != nil && w.QcOverride.Contains(year) && year < 1978 && w.QcOverride.At(year) > 0 {
		return min(qcPerYear, w.QcOverride.At(year))
	}
	if !earnings.IsPositive() {
		return 0
	}
	if earnings.GreaterThanOrEqual(s.tables.WageBase.At(year)) {
		return qcPerYear
	}
	var per decimal.Decimal
	if year < 1978 {
		if w.SelfEmployed != nil && w.SelfEmployed.Contains(year) && w.SelfEmployed.At(year) {
			if earnings.GreaterThanOrEqual(seQcMinimum) {
				return qcPerYear
			}
			return 0
		}
		per = tables.QcPerQuarterPre1978
	} else {
		per = s.tables.QcAmounts.At(year)
	}
	return min(qcPerYear, int(earnings.Div(per).Floor().IntPart()))
}

// setupQcs credits quarters of coverage from 1951. Earlier quarters are the
// recorded count or, without one, $400 of pre-1951 earnings per quarter.
func (s *caseState) setupQcs() {
	p := s.pia
	for y := 1951; y <= s.ctx.MaxYear; y++ {
		p.Qcs.Set(y, s.qcsForYear(y, p.EarnOasdi.At(y)))
	}
	pre := s.worker.QcPre1951
	if pre == 0 && p.EarnTotal50.IsPositive() {
		pre = min(qcPre1951Max, int(p.EarnTotal50.Div(qcPre1951Amount).Floor().IntPart()))
	}
	p.Qcs.Set(1950, pre)
}

// qcsThrough counts quarters of coverage through last, foreign quarters
// included for a totalization case.
func (s *caseState) qcsThrough(last int) int {
	n := series.SumInts(s.pia.Qcs, series.YEAR37, min(last, s.ctx.MaxYear))
	if s.worker.Totalization {
		n += s.worker.ForeignQcs
	}
	return n
}

// usQcs counts domestic quarters through last.
func (s *caseState) usQcs(last int) int {
	return series.SumInts(s.pia.Qcs, series.YEAR37, min(last, s.ctx.MaxYear))
}

// requiredQcs returns the quarters needed to be fully insured: one per year
// elapsed after 1950, or after the year of attaining 21, before the year of
// eligibility, excluding freeze years, bounded to [6, 40].
func (s *caseState) requiredQcs() int {
	p := s.pia
	first := max(1951, domain.YearAttaining(s.worker.BirthDate, 21)+1)
	elapsed := 0
	for y := first; y < p.EligYear; y++ {
		if !p.FreezeYears.At(y) {
			elapsed++
		}
	}
	return max(qcMinFully, min(qcMaxFully, elapsed))
}

// disabilityInsured applies the 20-of-40 test, or for onset before 31 the
// half-the-quarters-since-21 test with a floor of 6.
func (s *caseState) disabilityInsured(onsetYear int) (bool, int) {
	w := s.worker
	got := series.SumInts(s.pia.Qcs, max(1951, onsetYear-qcDisabilityWindow+1), onsetYear)
	need := qcDisability
	if age := onsetYear - w.BirthYear(); age < 31 {
		since21 := qcPerYear * max(0, onsetYear-domain.YearAttaining(w.BirthDate, 21))
		need = max(qcMinFully, since21/2)
		got = series.SumInts(s.pia.Qcs, max(1951, domain.YearAttaining(w.BirthDate, 21)), onsetYear)
	}
	return got >= need, got
}

// setupInsured determines insured status for the case's benefit type.
func (s *caseState) setupInsured() {
	w, p := s.worker, s.pia
	ins := domain.InsuredStatus{QcRequired: s.requiredQcs()}
	last := min(s.eventYear(), s.ctx.MaxYear)
	if w.Benefit == domain.OldAge {
		last = s.ctx.MaxYear
	}
	ins.QcTotal = s.qcsThrough(last)
	ins.Fully = ins.QcTotal >= ins.QcRequired
	ins.Permanent = ins.Fully && ins.QcTotal >= qcMaxFully
	if w.IsDead() {
		dy := w.DeathDate.Year()
		ins.Currently = series.SumInts(p.Qcs, max(1951, dy-qcCurrentlyWindow+1), min(dy, s.ctx.MaxYear)) >= qcCurrently
	}
	if w.Benefit == domain.Disability {
		ins.Disability, ins.QcDisability = s.disabilityInsured(w.Disability.Onset.Year())
	}
	p.Insured = ins
}
