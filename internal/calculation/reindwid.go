package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// First year of death, and later year of widow(er) entitlement, the
// reindexing reaches.
const reindWidFirstYear = 1985

// ReindexedWidow is the reindexed computation for one widow(er).
type ReindexedWidow struct {
	Member  *domain.Secondary
	Method  *MethodResult
	Governs bool
}

// widowOwnEligYear is the year the widow(er) first could be entitled: age 60,
// or for a disabled widow(er) age 50 or the onset year if later.
func widowOwnEligYear(m *domain.Secondary) int {
	if m.Category == domain.DisabledWidow {
		return max(domain.YearAttaining(m.BirthDate, 50), m.DisabilityOnset.Year())
	}
	return domain.YearAttaining(m.BirthDate, 60)
}

// ReindWidEligYear bounds the widow(er)'s own eligibility year below by the
// worker's and above by the year the widow(er) turns 62.
func ReindWidEligYear(m *domain.Secondary, workerElig int) int {
	upper := m.BirthDate.Year() - 1 + 62
	return max(workerElig, min(widowOwnEligYear(m), upper))
}

func (s *caseState) reindWidApplicable(m *domain.Secondary) bool {
	w := s.worker
	if s.pia.EligYear < tables.FirstIndexedYear || !m.Category.IsWidow() || w.Totalization || !w.IsDead() {
		return false
	}
	if !w.DeathDate.Before(domain.DateAttaining(w.BirthDate, 62)) {
		return false
	}
	entYear := m.EntitlementDate.Year()
	if entYear <= reindWidFirstYear-1 && w.DeathDate.Year() < reindWidFirstYear {
		return false
	}
	return s.law.ReindWidAllowed(entYear)
}

func (s *caseState) reindWidCal(m *domain.Secondary) (*MethodResult, error) {
	eligYear := ReindWidEligYear(m, s.pia.EligYear)
	r, err := s.wageIndexed(wageIndParams{
		kind:     ReindWid,
		eligYear: eligYear,
		comp:     s.pia.CompPeriodNew,
		freeze:   s.pia.FreezeYears,
		earnings: s.pia.EarnLimited,
	})
	if err != nil {
		return nil, err
	}
	// Increases run from the reindexed eligibility year to the member's
	// entitlement.
	r.PiaEnt = s.applyColas(r.PiaElig, eligYear, eligYear, m.EntitlementDate)
	r.MfbEnt = s.applyColas(r.MfbElig, eligYear, eligYear, m.EntitlementDate)
	return r, nil
}

// reindWidCalAll runs the reindexed computation for every widow(er) it
// reaches and compares it with the worker's governing PIA.
func (s *caseState) reindWidCalAll(high *MethodResult) ([]ReindexedWidow, error) {
	var out []ReindexedWidow
	for _, m := range s.family.Widows() {
		m.ReindPia, m.ReindEligYr, m.ReindGoverns = decimal.Zero, 0, false
		if !s.reindWidApplicable(m) {
			s.logger.Debugf("reindexed widow(er) not applicable for %s", m.Name)
			continue
		}
		r, err := s.reindWidCal(m)
		if err != nil {
			return nil, err
		}
		governs := high == nil || r.PiaBen.GreaterThan(high.PiaBen)
		m.ReindPia, m.ReindEligYr, m.ReindGoverns = r.PiaBen, r.EligYear, governs
		s.logger.Debugf("reindexed widow(er) %s: elig %d pia %s governs=%t", m.Name, r.EligYear, r.PiaBen.StringFixed(2), governs)
		out = append(out, ReindexedWidow{Member: m, Method: r, Governs: governs})
	}
	return out, nil
}
