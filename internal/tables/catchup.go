package tables

import (
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/shopspring/decimal"
)

type catchupKey struct{ elig, year int }

// Catchup holds catch-up benefit increases, in percent, keyed by eligibility
// year and year of increase.
type Catchup struct {
	increases map[catchupKey]decimal.Decimal
}

// NewCatchup builds an empty table.
func NewCatchup() *Catchup {
	return &Catchup{increases: map[catchupKey]decimal.Decimal{}}
}

// NewCatchupFrom builds a table from law-change increases.
func NewCatchupFrom(list []domain.CatchupIncrease) (*Catchup, error) {
	c := NewCatchup()
	for _, inc := range list {
		if err := c.Set(inc.EligYear, inc.Year, inc.Percent); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Set stores a percentage, which must lie in [0, 100].
func (c *Catchup) Set(eligYear, year int, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return &domain.ValidationError{Code: domain.CodeCatchupPercent, Field: "catchup", Message: "percent " + pct.String() + " out of range [0, 100]"}
	}
	c.increases[catchupKey{eligYear, year}] = pct
	return nil
}

// Factor returns the multiplier for the increase, 1 when none is recorded.
func (c *Catchup) Factor(eligYear, year int) decimal.Decimal {
	if c == nil {
		return decimal.NewFromInt(1)
	}
	pct, ok := c.increases[catchupKey{eligYear, year}]
	if !ok {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))
}

// Len returns the number of recorded increases.
func (c *Catchup) Len() int { return len(c.increases) }
