package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/shopspring/decimal"
)

// applyFamilyMax sets each member's original and payable benefit. While the
// worker lives the auxiliaries share what the maximum leaves over the
// worker's PIA; after death the survivors share the whole maximum.
//
// A widow(er) whose reindexed PIA governs is paid from that PIA, and the
// family shares the larger of the two maximums.
func (s *caseState) applyFamilyMax(pia, mfb decimal.Decimal, reind []ReindexedWidow) {
	if len(s.family) == 0 {
		return
	}
	own := make(map[*domain.Secondary]decimal.Decimal)
	for _, r := range reind {
		if !r.Governs || r.Method == nil {
			continue
		}
		own[r.Member] = r.Method.PiaBen
		mfb = money.Max(mfb, r.Method.MfbBen)
	}

	year := s.pia.BenefitYear
	total := decimal.Zero
	for _, m := range s.family {
		base := pia
		if p, ok := own[m]; ok {
			base = p
		}
		m.Original = money.RoundPIA(base.Mul(m.Category.Fraction()), year)
		m.Benefit = m.Original
		total = total.Add(m.Original)
	}
	if !total.IsPositive() {
		return
	}

	available := mfb.Sub(pia)
	if s.worker.IsDead() {
		available = mfb
	}
	available = money.Max(available, decimal.Zero)
	if total.LessThanOrEqual(available) {
		s.logger.Debugf("family maximum %s not reached by %s", mfb.StringFixed(2), total.StringFixed(2))
		return
	}

	ratio := available.Div(total)
	s.logger.Debugf("family maximum ratio %s", ratio.StringFixed(6))
	for _, m := range s.family {
		m.Benefit = money.RoundPIA(m.Original.Mul(ratio), year)
	}
}
