package domain

import (
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// CompPeriod describes a computation period.
type CompPeriod struct {
	StartYear   int
	EndYear     int
	Elapsed     int
	Dropout     int
	FreezeYears int
	N           int
}

// GetN returns the number of computation years.
func (c CompPeriod) GetN() int { return c.N }

// InsuredStatus summarizes the worker's quarters of coverage.
type InsuredStatus struct {
	QcTotal      int
	QcRequired   int
	QcDisability int
	Fully        bool
	Permanent    bool
	Currently    bool
	Disability   bool
}

// Insured reports whether the status supports the benefit type.
func (s InsuredStatus) Insured(b BenefitType) bool {
	switch b {
	case Disability:
		return s.Fully && s.Disability
	case Survivor:
		return s.Fully || s.Currently
	default:
		return s.Fully
	}
}

// PiaData is the derived state of one case. It is reset at the start of every
// calculation.
type PiaData struct {
	EligYear    int
	EntYear     int
	BenefitYear int
	Insured     InsuredStatus
	Qcs         *series.Ints

	// EarnOasdi is covered earnings including railroad and military credits.
	// EarnLimited caps them at the contribution and benefit base and
	// EarnOldLaw at the old-law base. EarnTotal50 is the 1937-1950 total.
	EarnOasdi   *series.Money
	EarnLimited *series.Money
	EarnOldLaw  *series.Money
	EarnTotal50 decimal.Decimal

	FreezeYears *series.Bits
	ChildCare   *series.Bits

	CompPeriodNew CompPeriod
	CompPeriodOld CompPeriod

	// YearsCoverage counts years of substantial coverage for the windfall
	// elimination provision; SpecMinYears years of coverage for the special
	// minimum.
	YearsCoverage int
	SpecMinYears  int

	ChildCareDrop int

	HighPia decimal.Decimal
	HighMfb decimal.Decimal
}

// NewPiaData allocates derived series over [YEAR37, maxyear].
func NewPiaData(maxyear int) *PiaData {
	p := &PiaData{}
	p.allocate(maxyear)
	return p
}

func (p *PiaData) allocate(maxyear int) {
	p.Qcs = series.NewInts(series.YEAR37, maxyear)
	p.EarnOasdi = series.NewMoney(series.YEAR37, maxyear)
	p.EarnLimited = series.NewMoney(series.YEAR37, maxyear)
	p.EarnOldLaw = series.NewMoney(series.YEAR37, maxyear)
	p.FreezeYears = series.NewBits(series.YEAR37, maxyear)
	p.ChildCare = series.NewBits(series.YEAR37, maxyear)
}

// Initialize resets every derived value, reusing the allocated series.
func (p *PiaData) Initialize() {
	p.EligYear, p.EntYear, p.BenefitYear = 0, 0, 0
	p.Insured = InsuredStatus{}
	p.Qcs.Fill()
	p.EarnOasdi.Fill()
	p.EarnLimited.Fill()
	p.EarnOldLaw.Fill()
	p.FreezeYears.Fill()
	p.ChildCare.Fill()
	p.EarnTotal50 = decimal.Zero
	p.CompPeriodNew = CompPeriod{}
	p.CompPeriodOld = CompPeriod{}
	p.YearsCoverage = 0
	p.SpecMinYears = 0
	p.ChildCareDrop = 0
	p.HighPia = decimal.Zero
	p.HighMfb = decimal.Zero
}
