package calculation

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// MethodKind identifies a calculation method. The order of the constants is
// the order methods run in.
type MethodKind int

const (
	OldStart MethodKind = iota
	PiaTable
	WageInd
	TransGuar
	SpecMin
	FrozMin
	ChildCare
	DibGuar
	WageIndNonFreeze
	ReindWid
)

var methodNames = [...]string{
	OldStart:         "old-start",
	PiaTable:         "pia-table",
	WageInd:          "wage-indexed",
	TransGuar:        "transitional-guarantee",
	SpecMin:          "special-minimum",
	FrozMin:          "frozen-minimum",
	ChildCare:        "childcare-dropout",
	DibGuar:          "disability-guarantee",
	WageIndNonFreeze: "wage-indexed-non-freeze",
	ReindWid:         "reindexed-widow",
}

func (k MethodKind) String() string {
	if k >= 0 && int(k) < len(methodNames) {
		return methodNames[k]
	}
	return "unknown"
}

// general reports whether the method competes on amount alone.
func (k MethodKind) general() bool {
	switch k {
	case OldStart, PiaTable, WageInd, ChildCare, WageIndNonFreeze:
		return true
	}
	return false
}

// guarantee reports whether the method is a guarantee that overrides the
// general methods when higher.
func (k MethodKind) guarantee() bool {
	switch k {
	case TransGuar, DibGuar, FrozMin:
		return true
	}
	return false
}

// MethodResult holds everything one method computed.
type MethodResult struct {
	Kind      MethodKind
	EligYear  int
	IndexYear int
	Comp      domain.CompPeriod

	Multiplied *series.Money
	Indexed    *series.Money
	Order      *series.Ints

	// Aime is the average indexed monthly earnings, or the average monthly
	// wage for the table methods.
	Aime        decimal.Decimal
	BendPia     []decimal.Decimal
	PercPia     []decimal.Decimal
	PortionAime []decimal.Decimal
	BendMfb     []decimal.Decimal

	PiaElig decimal.Decimal
	MfbElig decimal.Decimal
	PiaEnt  decimal.Decimal
	MfbEnt  decimal.Decimal
	PiaBen  decimal.Decimal
	MfbBen  decimal.Decimal

	Windfall WindfallInd
	PercWind decimal.Decimal

	ChildCareDrop int

	// PiaTheoretical is the PIA before totalization proration, and
	// TotalizedAime the AIME that produces the prorated PIA.
	PiaTheoretical decimal.Decimal
	TotalizedAime  decimal.Decimal

	// RealWageGain records that the Statement adjustment was applied.
	RealWageGain bool
}

// method is one entry of the dispatch table: a pure applicability test and
// the computation it guards.
type method struct {
	kind       MethodKind
	applicable func(*caseState) bool
	calculate  func(*caseState) (*MethodResult, error)
}

// methods is the fixed order methods run in for the worker. Reindexed
// widow(er) computations run per family member after resolution.
var methods = []method{
	{OldStart, (*caseState).oldStartApplicable, (*caseState).oldStartCal},
	{PiaTable, (*caseState).tableApplicable, (*caseState).tableCal},
	{WageInd, (*caseState).wageIndApplicable, (*caseState).wageIndCal},
	{TransGuar, (*caseState).transGuarApplicable, (*caseState).transGuarCal},
	{SpecMin, (*caseState).specMinApplicable, (*caseState).specMinCal},
	{FrozMin, (*caseState).frozMinApplicable, (*caseState).frozMinCal},
	{ChildCare, (*caseState).childCareApplicable, (*caseState).childCareCal},
	{DibGuar, (*caseState).dibGuarApplicable, (*caseState).dibGuarCal},
	{WageIndNonFreeze, (*caseState).nonFreezeApplicable, (*caseState).nonFreezeCal},
}
