package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a family member's beneficiary category.
type Category int

const (
	Spouse Category = iota
	Child
	Widow
	DisabledWidow
	SurvivingChild
	Mother
	Parent
)

var categoryNames = map[Category]string{
	Spouse:         "spouse",
	Child:          "child",
	Widow:          "widow",
	DisabledWidow:  "disabled-widow",
	SurvivingChild: "surviving-child",
	Mother:         "mother",
	Parent:         "parent",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCategory maps a configuration keyword to a Category.
func ParseCategory(s string) (Category, bool) {
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return Spouse, false
}

// Survivor reports whether the category is paid on a deceased worker's record.
func (c Category) Survivor() bool {
	return c >= Widow
}

// IsWidow reports whether the category is a widow(er) category.
func (c Category) IsWidow() bool {
	return c == Widow || c == DisabledWidow
}

// Fraction is the share of the worker's PIA payable before the family
// maximum.
func (c Category) Fraction() decimal.Decimal {
	switch c {
	case Spouse, Child:
		return decimal.NewFromFloat(0.5)
	case Widow, DisabledWidow:
		return decimal.NewFromInt(1)
	case SurvivingChild, Mother:
		return decimal.NewFromFloat(0.75)
	case Parent:
		return decimal.NewFromFloat(0.825)
	}
	return decimal.Zero
}

// Secondary is one family member entitled on the worker's record.
type Secondary struct {
	Name            string
	Category        Category
	BirthDate       time.Time
	EntitlementDate time.Time
	// DisabilityOnset applies to disabled widow(er)s.
	DisabilityOnset time.Time

	// Results filled by the calculation.
	Original decimal.Decimal
	Benefit  decimal.Decimal
	// ReindPia is the reindexed widow(er) PIA, zero when the method did not
	// apply.
	ReindPia     decimal.Decimal
	ReindEligYr  int
	ReindGoverns bool
}

// Check validates the member against the worker record.
func (s *Secondary) Check(w *WorkerData) error {
	if s.BirthDate.IsZero() {
		return invalid(CodeSecondaryBirth, s.Name, "birth date is required")
	}
	if s.Category.Survivor() && !w.IsDead() {
		return invalid(CodeDeathDate, s.Name, "%s requires a deceased worker", s.Category)
	}
	if s.Category == DisabledWidow {
		if s.DisabilityOnset.IsZero() || s.DisabilityOnset.Before(s.BirthDate) {
			return invalid(CodeWidowOnsetBirth, s.Name, "disabled widow(er) onset precedes birth")
		}
		if !s.EntitlementDate.IsZero() && s.DisabilityOnset.After(s.EntitlementDate) {
			return invalid(CodeWidowOnsetEnt, s.Name, "disabled widow(er) onset follows entitlement")
		}
	}
	return nil
}

// MaxFamilySize is the most family members a case can carry.
const MaxFamilySize = 20

// SecondaryArray is the worker's family.
type SecondaryArray []*Secondary

// CheckFamilySize validates a requested family size.
func CheckFamilySize(n int) error {
	if n < 0 || n > MaxFamilySize {
		return invalid(CodeFamilySize, "family", "family size %d out of range [0, %d]", n, MaxFamilySize)
	}
	return nil
}

// Check validates every member.
func (a SecondaryArray) Check(w *WorkerData) error {
	if err := CheckFamilySize(len(a)); err != nil {
		return err
	}
	for _, s := range a {
		if err := s.Check(w); err != nil {
			return err
		}
	}
	return nil
}

// Widows returns the widow(er) members.
func (a SecondaryArray) Widows() []*Secondary {
	var out []*Secondary
	for _, s := range a {
		if s.Category.IsWidow() {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a copy of the members so a calculation can fill in results
// without touching a.
func (a SecondaryArray) Clone() SecondaryArray {
	if a == nil {
		return nil
	}
	out := make(SecondaryArray, len(a))
	for i, s := range a {
		c := *s
		out[i] = &c
	}
	return out
}
