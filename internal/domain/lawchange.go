package domain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Trust fund columns of a tax rate change.
const (
	FundOASI = iota
	FundDI
	FundHI
	numRateFunds
)

// Tax rate change indicators.
const (
	TaxRateNone = iota
	// TaxRateEmployee supplies employee rates; self-employed rates are twice
	// the employee rates.
	TaxRateEmployee
	// TaxRateSeparate supplies employee and self-employed rates.
	TaxRateSeparate
)

// TaxRateChange replaces the payroll tax rates by year interval. Interval i
// runs from Years[i] up to Years[i+1]-1; the last interval runs to the end of
// the projection.
type TaxRateChange struct {
	Ind      int                             `yaml:"ind" json:"ind"`
	Years    []int                           `yaml:"years" json:"years"`
	Employee [][numRateFunds]decimal.Decimal `yaml:"employee" json:"employee"`
	SelfEmp  [][numRateFunds]decimal.Decimal `yaml:"self_employed,omitempty" json:"self_employed,omitempty"`
}

// SetTaxrate stores the employee rate of one trust fund for interval i.
func (c *TaxRateChange) SetTaxrate(fund, i int, rate decimal.Decimal) error {
	if fund < 0 || fund >= numRateFunds || i < 0 || i >= len(c.Employee) {
		return invalid(CodeLawChangeValue, "taxrate", "no rate slot for fund %d interval %d", fund, i)
	}
	c.Employee[i][fund] = rate
	return nil
}

// Taxrate returns the employee rate of one trust fund for interval i.
func (c *TaxRateChange) Taxrate(fund, i int) decimal.Decimal {
	return c.Employee[i][fund]
}

// SelfEmployedRate returns the self-employed rate of one trust fund for
// interval i.
func (c *TaxRateChange) SelfEmployedRate(fund, i int) decimal.Decimal {
	if c.Ind == TaxRateSeparate {
		return c.SelfEmp[i][fund]
	}
	return c.Employee[i][fund].Mul(decimal.NewFromInt(2))
}

// Read parses the line-oriented format: a header "<ind> <count>" followed by
// count lines "<year> <oasi> <di> <hi> [<oasiSE> <diSE> <hiSE>]".
func (c *TaxRateChange) Read(r io.Reader) error {
	sc := bufio.NewScanner(r)
	next := func() ([]string, error) {
		for sc.Scan() {
			if f := strings.Fields(sc.Text()); len(f) > 0 {
				return f, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	head, err := next()
	if err != nil {
		return fmt.Errorf("read tax rate header: %w", err)
	}
	if len(head) != 2 {
		return invalid(CodeTaxRateFormat, "taxrate", "header needs 2 fields, got %d", len(head))
	}
	ind, err1 := strconv.Atoi(head[0])
	n, err2 := strconv.Atoi(head[1])
	if err1 != nil || err2 != nil || ind < TaxRateNone || ind > TaxRateSeparate || n < 0 {
		return invalid(CodeTaxRateFormat, "taxrate", "bad header %q", strings.Join(head, " "))
	}

	c.Ind = ind
	c.Years = make([]int, n)
	c.Employee = make([][numRateFunds]decimal.Decimal, n)
	c.SelfEmp = nil
	want := 1 + numRateFunds
	if ind == TaxRateSeparate {
		want += numRateFunds
		c.SelfEmp = make([][numRateFunds]decimal.Decimal, n)
	}
	for i := 0; i < n; i++ {
		f, err := next()
		if err != nil {
			return fmt.Errorf("read tax rate interval %d: %w", i, err)
		}
		if len(f) != want {
			return invalid(CodeTaxRateFormat, "taxrate", "interval %d needs %d fields, got %d", i, want, len(f))
		}
		if c.Years[i], err = strconv.Atoi(f[0]); err != nil {
			return invalid(CodeTaxRateFormat, "taxrate", "interval %d year %q", i, f[0])
		}
		for fund := 0; fund < numRateFunds; fund++ {
			v, err := decimal.NewFromString(f[1+fund])
			if err != nil {
				return invalid(CodeTaxRateFormat, "taxrate", "interval %d rate %q", i, f[1+fund])
			}
			if err := c.SetTaxrate(fund, i, v); err != nil {
				return err
			}
			if ind == TaxRateSeparate {
				se, err := decimal.NewFromString(f[1+numRateFunds+fund])
				if err != nil {
					return invalid(CodeTaxRateFormat, "taxrate", "interval %d rate %q", i, f[1+numRateFunds+fund])
				}
				c.SelfEmp[i][fund] = se
			}
		}
	}
	return c.Check()
}

// Check validates interval ordering and rate ranges.
func (c *TaxRateChange) Check() error {
	if len(c.Employee) != len(c.Years) {
		return invalid(CodeLawChangeValue, "taxrate", "%d years but %d rate rows", len(c.Years), len(c.Employee))
	}
	if c.Ind == TaxRateSeparate && len(c.SelfEmp) != len(c.Years) {
		return invalid(CodeLawChangeValue, "taxrate", "%d years but %d self-employed rows", len(c.Years), len(c.SelfEmp))
	}
	for i, y := range c.Years {
		if y < 1937 {
			return invalid(CodeLawChangeYear, "taxrate", "interval year %d before 1937", y)
		}
		if i > 0 && y <= c.Years[i-1] {
			return invalid(CodeLawChangeYear, "taxrate", "interval years must increase")
		}
		for fund := 0; fund < numRateFunds; fund++ {
			if r := c.Employee[i][fund]; !validTaxRate(r) {
				return invalid(CodeLawChangeValue, "taxrate", "rate %s out of range", r)
			}
			if c.Ind != TaxRateSeparate {
				continue
			}
			if r := c.SelfEmp[i][fund]; !validTaxRate(r) {
				return invalid(CodeLawChangeValue, "taxrate", "self-employed rate %s out of range", r)
			}
		}
	}
	return nil
}

// validTaxRate bounds a rate to [0, 0.5].
func validTaxRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromFloat(0.5))
}

// YearRange is an inclusive range of years; LastYear zero means open ended.
type YearRange struct {
	FirstYear int `yaml:"first_year" json:"first_year"`
	LastYear  int `yaml:"last_year,omitempty" json:"last_year,omitempty"`
}

// Contains reports whether year falls within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.FirstYear && (r.LastYear == 0 || year <= r.LastYear)
}

// NoReindWid removes the reindexed widow(er) computation for entitlements
// within the range.
type NoReindWid struct {
	YearRange `yaml:",inline"`
}

// PiaFormulaChange replaces the PIA formula for eligibility years from
// EffectiveYear. Percentages move linearly from present law over PhaseIn
// years when the number of brackets is unchanged. BendPoints are amounts in
// 1979 dollars; when empty the present-law bend points are kept.
type PiaFormulaChange struct {
	EffectiveYear int               `yaml:"effective_year" json:"effective_year"`
	PhaseIn       int               `yaml:"phase_in" json:"phase_in"`
	BendPoints    []decimal.Decimal `yaml:"bend_points,omitempty" json:"bend_points,omitempty"`
	Percentages   []decimal.Decimal `yaml:"percentages" json:"percentages"`
}

// SpecMinChange replaces the special minimum amount per year of coverage
// (in 1979 dollars) and the maximum number of years counted.
type SpecMinChange struct {
	EffectiveYear int             `yaml:"effective_year" json:"effective_year"`
	Amount        decimal.Decimal `yaml:"amount" json:"amount"`
	MaxYears      int             `yaml:"max_years" json:"max_years"`
}

// CompPeriodChange lengthens the computation period by reducing dropout
// years: one year for each Step eligibility years from EffectiveYear, up to
// Reduction years.
type CompPeriodChange struct {
	EffectiveYear int `yaml:"effective_year" json:"effective_year"`
	Reduction     int `yaml:"reduction" json:"reduction"`
	Step          int `yaml:"step" json:"step"`
}

// ColaChange reduces the cost-of-living increase by Points (a fraction) from
// EffectiveYear, never below zero.
type ColaChange struct {
	EffectiveYear int             `yaml:"effective_year" json:"effective_year"`
	Points        decimal.Decimal `yaml:"points" json:"points"`
}

// WageBaseChange sets the contribution and benefit base for EffectiveYear;
// later years grow from it with the average wage index.
type WageBaseChange struct {
	EffectiveYear int             `yaml:"effective_year" json:"effective_year"`
	Base          decimal.Decimal `yaml:"base" json:"base"`
}

// CatchupIncrease is one catch-up benefit increase.
type CatchupIncrease struct {
	EligYear int             `yaml:"elig_year" json:"elig_year"`
	Year     int             `yaml:"year" json:"year"`
	Percent  decimal.Decimal `yaml:"percent" json:"percent"`
}

// LawChangeArray is the set of proposed deviations from present law. It is
// read-only during a calculation.
type LawChangeArray struct {
	Description string             `yaml:"description" json:"description"`
	TaxRate     *TaxRateChange     `yaml:"tax_rate,omitempty" json:"tax_rate,omitempty"`
	NoReindWid  *NoReindWid        `yaml:"no_reindexed_widow,omitempty" json:"no_reindexed_widow,omitempty"`
	PiaFormula  *PiaFormulaChange  `yaml:"pia_formula,omitempty" json:"pia_formula,omitempty"`
	SpecMin     *SpecMinChange     `yaml:"special_minimum,omitempty" json:"special_minimum,omitempty"`
	CompPeriod  *CompPeriodChange  `yaml:"computation_period,omitempty" json:"computation_period,omitempty"`
	Cola        *ColaChange        `yaml:"cola,omitempty" json:"cola,omitempty"`
	WageBase    *WageBaseChange    `yaml:"wage_base,omitempty" json:"wage_base,omitempty"`
	Catchup     []CatchupIncrease  `yaml:"catchup,omitempty" json:"catchup,omitempty"`
}

// Check validates every change that is present.
func (l *LawChangeArray) Check() error {
	if l.TaxRate != nil {
		if err := l.TaxRate.Check(); err != nil {
			return err
		}
	}
	if p := l.PiaFormula; p != nil {
		n := len(p.Percentages)
		if n < 2 || n > 5 {
			return invalid(CodeLawChangeValue, "pia_formula", "need 2 to 5 percentages, got %d", n)
		}
		if len(p.BendPoints) == 0 && n != 3 {
			return invalid(CodeLawChangeValue, "pia_formula", "%d percentages need explicit bend points", n)
		}
		if len(p.BendPoints) != 0 && len(p.BendPoints) != n-1 {
			return invalid(CodeLawChangeValue, "pia_formula", "need %d bend points, got %d", n-1, len(p.BendPoints))
		}
		for i := 1; i < len(p.BendPoints); i++ {
			if !p.BendPoints[i].GreaterThan(p.BendPoints[i-1]) {
				return invalid(CodeLawChangeValue, "pia_formula", "bend points must increase")
			}
		}
		if p.PhaseIn < 0 {
			return invalid(CodeLawChangeValue, "pia_formula", "phase-in cannot be negative")
		}
	}
	if s := l.SpecMin; s != nil {
		if s.Amount.IsNegative() || s.MaxYears < 11 || s.MaxYears > 50 {
			return invalid(CodeLawChangeValue, "special_minimum", "amount %s or max years %d out of range", s.Amount, s.MaxYears)
		}
	}
	if c := l.CompPeriod; c != nil && (c.Reduction < 0 || c.Reduction > 5 || c.Step < 1) {
		return invalid(CodeLawChangeValue, "computation_period", "reduction %d or step %d out of range", c.Reduction, c.Step)
	}
	if c := l.Cola; c != nil && c.Points.IsNegative() {
		return invalid(CodeLawChangeValue, "cola", "points cannot be negative")
	}
	if w := l.WageBase; w != nil && !w.Base.IsPositive() {
		return invalid(CodeLawChangeValue, "wage_base", "base must be positive")
	}
	for _, c := range l.Catchup {
		if c.Percent.IsNegative() || c.Percent.GreaterThan(decimal.NewFromInt(100)) {
			return invalid(CodeCatchupPercent, "catchup", "percent %s out of range [0, 100]", c.Percent)
		}
	}
	return nil
}
