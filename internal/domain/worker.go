package domain

import (
	"strings"
	"time"

	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// BenefitType is the kind of benefit a case is calculated for.
type BenefitType int

const (
	OldAge BenefitType = iota
	Survivor
	Disability
)

func (b BenefitType) String() string {
	switch b {
	case OldAge:
		return "old-age"
	case Survivor:
		return "survivor"
	case Disability:
		return "disability"
	default:
		return "unknown"
	}
}

// ParseBenefitType maps a configuration keyword to a BenefitType.
func ParseBenefitType(s string) (BenefitType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "old-age", "old_age", "oldage", "retirement", "a":
		return OldAge, true
	case "survivor", "survivors", "s":
		return Survivor, true
	case "disability", "dib", "d":
		return Disability, true
	}
	return OldAge, false
}

// DisabilityPeriod is one period of disability.
type DisabilityPeriod struct {
	Onset       time.Time
	Entitlement time.Time
	// Cessation is zero while the disability continues.
	Cessation time.Time
	// PriorPia and PriorMfb are the amounts in effect at Entitlement, used by
	// the disability guarantee.
	PriorPia decimal.Decimal
	PriorMfb decimal.Decimal
}

// Valid reports whether the period has an onset date.
func (d *DisabilityPeriod) Valid() bool {
	return d != nil && !d.Onset.IsZero()
}

// Continuing reports whether the period had not ceased.
func (d *DisabilityPeriod) Continuing() bool {
	return d.Cessation.IsZero()
}

// Pension is a pension based on noncovered employment.
type Pension struct {
	Amount      decimal.Decimal
	Entitlement time.Time
}

// RailroadData carries railroad earnings credited to the worker's record.
type RailroadData struct {
	Earnings map[int]decimal.Decimal
}

// MilitaryService is a period of active duty that earns deemed wage credits.
type MilitaryService struct {
	Start time.Time
	End   time.Time
}

// EarningsProjection describes how future earnings are filled in.
type EarningsProjection struct {
	FirstYear int
	LastYear  int
	// Base is the amount used when the year before FirstYear has no
	// earnings.
	Base decimal.Decimal
	// Growth is the annual increase. When nil earnings follow the average
	// wage index.
	Growth *decimal.Decimal
}

// WorkerData is one worker's lifetime record.
type WorkerData struct {
	ID              string
	Name            string
	SSN             string
	Female          bool
	BirthDate       time.Time
	DeathDate       time.Time
	Benefit         BenefitType
	EntitlementDate time.Time
	BenefitDate     time.Time

	// Earnings are OASDI covered earnings; HIEarnings are Medicare-only
	// earnings in addition to them.
	Earnings      *series.Money
	HIEarnings    *series.Money
	SelfEmployed  *series.Bits
	QcPre1951     int
	QcOverride    *series.Ints
	ChildCare     *series.Bits
	ForeignQcs    int
	Totalization  bool
	Disability    DisabilityPeriod
	Prior         *DisabilityPeriod
	Pension       Pension
	Railroad      RailroadData
	Military      []MilitaryService
	Projection    *EarningsProjection
}

// NewWorkerData allocates a record with all series covering [YEAR37, maxyear].
func NewWorkerData(maxyear int) *WorkerData {
	return &WorkerData{
		Earnings:     series.NewMoney(series.YEAR37, maxyear),
		HIEarnings:   series.NewMoney(series.YEAR37, maxyear),
		SelfEmployed: series.NewBits(series.YEAR37, maxyear),
		ChildCare:    series.NewBits(series.YEAR37, maxyear),
		Railroad:     RailroadData{Earnings: map[int]decimal.Decimal{}},
	}
}

// BirthYear returns the calendar year of birth.
func (w *WorkerData) BirthYear() int { return w.BirthDate.Year() }

// IsDead reports whether a death date is recorded.
func (w *WorkerData) IsDead() bool { return !w.DeathDate.IsZero() }

// HasPension reports whether a noncovered pension is recorded.
func (w *WorkerData) HasPension() bool { return w.Pension.Amount.IsPositive() }

// MaxYear returns the last year of the earnings horizon.
func (w *WorkerData) MaxYear() int { return w.Earnings.Last() }

// LastEarningsYear returns the last year with positive covered earnings, or
// zero when there are none.
func (w *WorkerData) LastEarningsYear() int {
	for y := w.Earnings.Last(); y >= w.Earnings.Base(); y-- {
		if w.Earnings.At(y).IsPositive() {
			return y
		}
	}
	return 0
}

// HasChildCareYears reports whether any childcare year is flagged.
func (w *WorkerData) HasChildCareYears() bool {
	return w.ChildCare != nil && series.Count(w.ChildCare, w.ChildCare.Base(), w.ChildCare.Last()) > 0
}

// SetSSN validates and stores a social security number.
func (w *WorkerData) SetSSN(ssn string) error {
	digits := strings.ReplaceAll(ssn, "-", "")
	if len(digits) != 9 {
		return invalid(CodeSSN, "ssn", "ssn %q must have 9 digits", ssn)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return invalid(CodeSSN, "ssn", "ssn %q contains a non-digit", ssn)
		}
	}
	area := digits[:3]
	if area == "000" || area == "666" || area[0] == '9' || digits[3:5] == "00" || digits[5:] == "0000" {
		return invalid(CodeSSN, "ssn", "ssn %q is not assignable", ssn)
	}
	w.SSN = digits
	return nil
}

// Check validates the record's dates and amounts against each other.
func (w *WorkerData) Check() error {
	if w.BirthDate.IsZero() {
		return invalid(CodeBirthDate, "birth_date", "birth date is required")
	}
	if w.BirthDate.Year() < 1870 {
		return invalid(CodeBirthDate, "birth_date", "birth year %d is too early", w.BirthDate.Year())
	}
	if w.IsDead() && w.DeathDate.Before(w.BirthDate) {
		return invalid(CodeDeathDate, "death_date", "death date precedes birth date")
	}
	if w.Benefit == Survivor && !w.IsDead() {
		return invalid(CodeDeathDate, "death_date", "survivor case requires a death date")
	}
	if w.EntitlementDate.IsZero() {
		return invalid(CodeEntitlementDate, "entitlement_date", "entitlement date is required")
	}
	if w.EntitlementDate.Before(w.BirthDate) {
		return invalid(CodeEntitlementDate, "entitlement_date", "entitlement precedes birth")
	}
	if !w.BenefitDate.IsZero() && w.BenefitDate.Before(w.EntitlementDate) {
		return invalid(CodeBenefitDate, "benefit_date", "benefit date precedes entitlement")
	}
	if w.Benefit == Disability {
		if err := w.checkDisability(&w.Disability, "disability"); err != nil {
			return err
		}
	}
	if w.Prior.Valid() {
		if err := w.checkDisability(w.Prior, "prior_disability"); err != nil {
			return err
		}
		if w.Prior.Continuing() && w.Benefit == Disability {
			return invalid(CodeDisabilityCease, "prior_disability", "prior disability must have ceased")
		}
	}
	if w.Pension.Amount.IsNegative() {
		return invalid(CodePension, "pension", "pension amount cannot be negative")
	}
	if w.HasPension() && w.Pension.Entitlement.IsZero() {
		return invalid(CodePension, "pension", "pension entitlement date is required")
	}
	for y := w.Earnings.Base(); y <= w.Earnings.Last(); y++ {
		if w.Earnings.At(y).IsNegative() {
			return invalid(CodeEarnings, "earnings", "earnings for %d are negative", y)
		}
	}
	if p := w.Projection; p != nil {
		if p.FirstYear > p.LastYear || p.FirstYear <= series.YEAR37 || p.LastYear > w.MaxYear() {
			return invalid(CodeProjectionPeriod, "projection", "projection years %d-%d are invalid", p.FirstYear, p.LastYear)
		}
	}
	return nil
}

func (w *WorkerData) checkDisability(d *DisabilityPeriod, field string) error {
	if !d.Valid() {
		return invalid(CodeDisabilityOnset, field, "onset date is required")
	}
	if d.Onset.Before(w.BirthDate) {
		return invalid(CodeDisabilityOnset, field, "onset precedes birth")
	}
	if !d.Entitlement.IsZero() && d.Entitlement.Before(d.Onset) {
		return invalid(CodeDisabilityEnt, field, "entitlement precedes onset")
	}
	if !d.Cessation.IsZero() && d.Cessation.Before(d.Onset) {
		return invalid(CodeDisabilityCease, field, "cessation precedes onset")
	}
	return nil
}
