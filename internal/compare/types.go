package compare

import (
	"fmt"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one law's outcome for a case with the metrics compared
// across laws.
type ComparisonResult struct {
	Law       string              `json:"law"`
	Result    *calculation.Result `json:"-"`
	Governing string              `json:"governing"`

	// Key Metrics
	Pia            decimal.Decimal `json:"pia"`
	Mfb            decimal.Decimal `json:"mfb"`
	FamilyBenefits decimal.Decimal `json:"familyBenefits"`
	LifetimeTaxes  decimal.Decimal `json:"lifetimeTaxes"`

	// Comparison to Base
	PiaDiffFromBase decimal.Decimal `json:"piaDiffFromBase"`
	PiaPctFromBase  decimal.Decimal `json:"piaPctFromBase"`
	MfbDiffFromBase decimal.Decimal `json:"mfbDiffFromBase"`
	TaxDiffFromBase decimal.Decimal `json:"taxDiffFromBase"`
}

// ComparisonSet is a case calculated under a base law and its alternatives.
type ComparisonSet struct {
	CaseID             string             `json:"caseId"`
	Worker             string             `json:"worker"`
	BaseLaw            string             `json:"baseLaw"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// MetricsCalculator extracts the compared metrics from a calculation.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics fills the metrics for res. Lifetime taxes are the OASDHI
// taxes on the worker's projected earnings at the calculator's tax rates.
func (mc *MetricsCalculator) CalculateMetrics(calc *calculation.Calculator, res *calculation.Result, w *domain.WorkerData) (ComparisonResult, error) {
	result := ComparisonResult{
		Law:            res.Law,
		Result:         res,
		Pia:            res.HighPia,
		Mfb:            res.HighMfb,
		FamilyBenefits: mc.familyBenefits(res.Family),
	}
	if res.High != nil {
		result.Governing = res.High.Kind.String()
	}

	earnings, err := calc.ProjectEarnings(w)
	if err != nil {
		return result, err
	}
	projected := *w
	projected.Earnings = earnings
	taxes := calculation.NewTaxCalculator(calc.Tables()).LifetimeTaxes(&projected)
	result.LifetimeTaxes = taxes.Total(tables.OASDHI)
	return result, nil
}

// CalculateComparison computes the differences between a result and the base.
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.PiaDiffFromBase = alt.Pia.Sub(base.Pia)
	if !base.Pia.IsZero() {
		alt.PiaPctFromBase = alt.PiaDiffFromBase.
			Div(base.Pia).
			Mul(decimal.NewFromInt(100))
	}
	alt.MfbDiffFromBase = alt.Mfb.Sub(base.Mfb)
	alt.TaxDiffFromBase = alt.LifetimeTaxes.Sub(base.LifetimeTaxes)
	return alt
}

func (mc *MetricsCalculator) familyBenefits(family domain.SecondaryArray) decimal.Decimal {
	total := decimal.Zero
	for _, s := range family {
		total = total.Add(s.Benefit)
	}
	return total
}

// GenerateRecommendations summarizes which law favors the worker.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	highest := base
	for i := range compSet.AlternativeResults {
		if alt := &compSet.AlternativeResults[i]; alt.Pia.GreaterThan(highest.Pia) {
			highest = alt
		}
	}
	if highest != base {
		recommendations = append(recommendations, fmt.Sprintf("Highest PIA: %s provides $%s more per month than %s",
			highest.Law, highest.Pia.Sub(base.Pia).StringFixed(2), base.Law))
	}

	lowest := base
	for i := range compSet.AlternativeResults {
		if alt := &compSet.AlternativeResults[i]; alt.Pia.LessThan(lowest.Pia) {
			lowest = alt
		}
	}
	if lowest != base {
		recommendations = append(recommendations, fmt.Sprintf("Largest reduction: %s lowers the PIA by $%s (%s%%)",
			lowest.Law, base.Pia.Sub(lowest.Pia).StringFixed(2), lowest.PiaPctFromBase.Abs().StringFixed(1)))
	}

	lowestTax := base
	for i := range compSet.AlternativeResults {
		if alt := &compSet.AlternativeResults[i]; alt.LifetimeTaxes.LessThan(lowestTax.LifetimeTaxes) {
			lowestTax = alt
		}
	}
	if lowestTax != base {
		recommendations = append(recommendations, fmt.Sprintf("Lowest taxes: %s saves $%s in lifetime payroll taxes",
			lowestTax.Law, base.LifetimeTaxes.Sub(lowestTax.LifetimeTaxes).StringFixed(2)))
	}

	for _, alt := range compSet.AlternativeResults {
		if alt.Governing != base.Governing {
			recommendations = append(recommendations, fmt.Sprintf("Under %s the %s method governs instead of %s",
				alt.Law, alt.Governing, base.Governing))
		}
	}

	return recommendations
}
