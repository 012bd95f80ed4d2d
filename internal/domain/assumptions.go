package domain

import (
	"github.com/shopspring/decimal"
)

// Default projection horizon and first projected year.
const (
	DefaultMaxYear   = 2100
	DefaultStartYear = 2020
)

// Assumptions selects the economic projections used beyond the last year of
// historical data.
type Assumptions struct {
	// AverageWageGrowth is the assumed annual increase in the average wage
	// index.
	AverageWageGrowth decimal.Decimal `yaml:"average_wage_growth" json:"average_wage_growth"`
	// BenefitIncrease is the assumed annual cost-of-living increase.
	BenefitIncrease decimal.Decimal `yaml:"benefit_increase" json:"benefit_increase"`
	// WageBaseGrowth overrides the automatic wage base increase when set.
	WageBaseGrowth *decimal.Decimal `yaml:"wage_base_growth,omitempty" json:"wage_base_growth,omitempty"`
	// Statement turns on the real-wage-gain adjustment used for Statement
	// estimates.
	Statement bool `yaml:"statement" json:"statement"`
	StartYear int  `yaml:"start_year" json:"start_year"`
	MaxYear   int  `yaml:"max_year" json:"max_year"`
}

// DefaultAssumptions returns the intermediate projection set.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		AverageWageGrowth: decimal.NewFromFloat(0.039),
		BenefitIncrease:   decimal.NewFromFloat(0.026),
		StartYear:         DefaultStartYear,
		MaxYear:           DefaultMaxYear,
	}
}

// Check validates the assumption ranges.
func (a Assumptions) Check() error {
	lo, hi := decimal.NewFromFloat(-0.1), decimal.NewFromFloat(0.25)
	if a.AverageWageGrowth.LessThan(lo) || a.AverageWageGrowth.GreaterThan(hi) {
		return invalid(CodeAssumptionRange, "average_wage_growth", "must be between -10%% and 25%%")
	}
	if a.BenefitIncrease.IsNegative() || a.BenefitIncrease.GreaterThan(hi) {
		return invalid(CodeAssumptionRange, "benefit_increase", "must be between 0%% and 25%%")
	}
	if a.WageBaseGrowth != nil && (a.WageBaseGrowth.LessThan(lo) || a.WageBaseGrowth.GreaterThan(hi)) {
		return invalid(CodeAssumptionRange, "wage_base_growth", "must be between -10%% and 25%%")
	}
	if a.StartYear < 1980 || a.MaxYear < a.StartYear || a.MaxYear > 2200 {
		return invalid(CodeAssumptionRange, "start_year", "start year %d and max year %d are inconsistent", a.StartYear, a.MaxYear)
	}
	return nil
}

// CalcContext is the immutable context threaded through one calculation.
type CalcContext struct {
	Assumptions Assumptions
	StartYear   int
	MaxYear     int
}

// NewCalcContext derives a context from the assumptions.
func NewCalcContext(a Assumptions) CalcContext {
	if a.MaxYear == 0 {
		a.MaxYear = DefaultMaxYear
	}
	if a.StartYear == 0 {
		a.StartYear = DefaultStartYear
	}
	return CalcContext{Assumptions: a, StartYear: a.StartYear, MaxYear: a.MaxYear}
}
