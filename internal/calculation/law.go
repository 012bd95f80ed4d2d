package calculation

import (
	"fmt"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// Tables bundles the year-indexed tables one calculator reads.
type Tables struct {
	AverageWage      *series.Money
	WageBase         *series.Money
	WageBaseHI       *series.Money
	WageBaseOldLaw   *series.Money
	BenefitIncreases *series.Money
	QcAmounts        *series.Money
	TaxRates         *tables.TaxRates
	Catchup          *tables.Catchup
}

// NewTables builds the tables for ctx, with changes applied when non-nil.
func NewTables(ctx domain.CalcContext, changes *domain.LawChangeArray) (*Tables, error) {
	awi := tables.NewAverageWage(ctx)
	t := &Tables{
		AverageWage:    awi,
		WageBaseHI:     tables.NewWageBaseHI(ctx.MaxYear),
		WageBaseOldLaw: tables.NewWageBaseOldLaw(awi, ctx.MaxYear),
		QcAmounts:      tables.NewQcAmounts(awi, ctx.MaxYear),
		Catchup:        tables.NewCatchup(),
	}
	if changes == nil {
		t.WageBase = tables.NewWageBase(awi, ctx, nil)
		t.BenefitIncreases = tables.NewBenefitIncreases(ctx, nil)
		t.TaxRates = tables.NewTaxRates(ctx.MaxYear)
		return t, nil
	}

	t.WageBase = tables.NewWageBase(awi, ctx, changes.WageBase)
	t.BenefitIncreases = tables.NewBenefitIncreases(ctx, changes.Cola)
	rates, err := tables.NewTaxRatesLC(ctx.MaxYear, changes.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("tax rate change: %w", err)
	}
	t.TaxRates = rates
	if t.Catchup, err = tables.NewCatchupFrom(changes.Catchup); err != nil {
		return nil, fmt.Errorf("catch-up increases: %w", err)
	}
	return t, nil
}

// Law supplies the rules that differ between present law and a law change.
type Law interface {
	Name() string
	PiaBendPoints(awi *series.Money, eligYear int) ([]decimal.Decimal, error)
	PiaPercentages(eligYear int) []decimal.Decimal
	DropoutReduction(eligYear int) int
	ReindWidAllowed(entYear int) bool
	SpecMinParams(eligYear int) (amount decimal.Decimal, maxYears int)
}

// Special minimum amount per year of coverage over 10 in January 1979 and the
// most years counted.
var (
	specMinAmount1979 = decimal.NewFromFloat(11.50)
	specMinMaxYears   = 30
)

// PresentLaw applies the law as enacted.
type PresentLaw struct{}

func (PresentLaw) Name() string { return "present law" }

// PiaBendPoints returns the formula bend points for eligYear.
func (PresentLaw) PiaBendPoints(awi *series.Money, eligYear int) ([]decimal.Decimal, error) {
	return tables.ScaleBendPoints(awi, eligYear, tables.PiaBend1979)
}

// PiaPercentages returns the formula percentages for eligYear.
func (PresentLaw) PiaPercentages(int) []decimal.Decimal {
	return append([]decimal.Decimal(nil), tables.PiaPerc...)
}

func (PresentLaw) DropoutReduction(int) int { return 0 }

func (PresentLaw) ReindWidAllowed(int) bool { return true }

func (PresentLaw) SpecMinParams(int) (decimal.Decimal, int) {
	return specMinAmount1979, specMinMaxYears
}

// LawChange overrides present law where its parameters apply and defers to
// it elsewhere.
type LawChange struct {
	PresentLaw
	Changes *domain.LawChangeArray
}

func (l LawChange) Name() string {
	if l.Changes.Description != "" {
		return "law change: " + l.Changes.Description
	}
	return "law change"
}

func (l LawChange) formula(eligYear int) *domain.PiaFormulaChange {
	if f := l.Changes.PiaFormula; f != nil && eligYear >= f.EffectiveYear {
		return f
	}
	return nil
}

func (l LawChange) PiaBendPoints(awi *series.Money, eligYear int) ([]decimal.Decimal, error) {
	f := l.formula(eligYear)
	if f == nil || len(f.BendPoints) == 0 {
		return l.PresentLaw.PiaBendPoints(awi, eligYear)
	}
	return tables.ScaleBendPoints(awi, eligYear, f.BendPoints)
}

// PiaPercentages phases the changed percentages in linearly when the number
// of brackets matches present law.
func (l LawChange) PiaPercentages(eligYear int) []decimal.Decimal {
	f := l.formula(eligYear)
	if f == nil {
		return l.PresentLaw.PiaPercentages(eligYear)
	}
	target := append([]decimal.Decimal(nil), f.Percentages...)
	step := eligYear - f.EffectiveYear + 1
	if f.PhaseIn <= 1 || step >= f.PhaseIn || len(target) != len(tables.PiaPerc) {
		return target
	}
	frac := decimal.NewFromInt(int64(step)).Div(decimal.NewFromInt(int64(f.PhaseIn)))
	out := make([]decimal.Decimal, len(target))
	for i, pl := range tables.PiaPerc {
		out[i] = pl.Add(target[i].Sub(pl).Mul(frac)).Round(6)
	}
	return out
}

func (l LawChange) DropoutReduction(eligYear int) int {
	c := l.Changes.CompPeriod
	if c == nil || eligYear < c.EffectiveYear {
		return 0
	}
	return min(c.Reduction, (eligYear-c.EffectiveYear)/c.Step+1)
}

func (l LawChange) ReindWidAllowed(entYear int) bool {
	if r := l.Changes.NoReindWid; r != nil && r.Contains(entYear) {
		return false
	}
	return true
}

func (l LawChange) SpecMinParams(eligYear int) (decimal.Decimal, int) {
	if s := l.Changes.SpecMin; s != nil && eligYear >= s.EffectiveYear {
		return s.Amount, s.MaxYears
	}
	return l.PresentLaw.SpecMinParams(eligYear)
}
