package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/anypia/internal/calculation"
)

// CompareEngine calculates one case under a base law and a list of
// alternative laws.
type CompareEngine struct {
	Base              *calculation.Calculator
	Alternatives      []*calculation.Calculator
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(base *calculation.Calculator, alternatives ...*calculation.Calculator) *CompareEngine {
	return &CompareEngine{
		Base:              base,
		Alternatives:      alternatives,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// Compare runs the case under every law. Each law works on its own copy of
// the family so the member benefits reported per law stay independent; cs
// itself is left unchanged.
func (ce *CompareEngine) Compare(ctx context.Context, cs *calculation.Case) (*ComparisonSet, error) {
	if ce.Base == nil {
		return nil, errors.New("no base law to compare against")
	}
	if cs == nil || cs.Worker == nil {
		return nil, errors.New("case has no worker")
	}

	baseResult, err := ce.run(ctx, ce.Base, cs)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base law: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, calc := range ce.Alternatives {
		altResult, err := ce.run(ctx, calc, cs)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s: %w", calc.LawName(), err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		CaseID:             cs.ID,
		Worker:             cs.Worker.Name,
		BaseLaw:            baseResult.Law,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, calc *calculation.Calculator, cs *calculation.Case) (ComparisonResult, error) {
	own := &calculation.Case{ID: cs.ID, Worker: cs.Worker, Family: cs.Family.Clone()}
	res, err := calc.Calculate(ctx, own)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(calc, res, cs.Worker)
}
