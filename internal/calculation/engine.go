package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// Case is one worker and the family members entitled on the record.
type Case struct {
	ID     string
	Worker *domain.WorkerData
	Family domain.SecondaryArray
}

// Result is the outcome of calculating one case.
type Result struct {
	CaseID  string
	Law     string
	PiaData *domain.PiaData
	// Methods holds every method that applied, in the order they ran.
	Methods []*MethodResult
	// High is the governing method; HighPia and HighMfb its amounts at the
	// benefit date.
	High      *MethodResult
	HighPia   decimal.Decimal
	HighMfb   decimal.Decimal
	Family    domain.SecondaryArray
	Reindexed []ReindexedWidow
	Warnings  []string
}

// Method returns the result of kind, or nil when it did not apply.
func (r *Result) Method(kind MethodKind) *MethodResult {
	for _, m := range r.Methods {
		if m.Kind == kind {
			return m
		}
	}
	return nil
}

// Insured reports whether the worker is insured for the case's benefit.
func (r *Result) Insured(b domain.BenefitType) bool {
	return r.PiaData.Insured.Insured(b)
}

// Calculator computes cases under one law. It is safe for concurrent use by
// multiple goroutines once built.
type Calculator struct {
	logger Logger
	ctx    domain.CalcContext
	law    Law
	tables *Tables
}

// NewCalculator builds a present-law calculator.
func NewCalculator(a domain.Assumptions) (*Calculator, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	ctx := domain.NewCalcContext(a)
	t, err := NewTables(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Calculator{logger: NopLogger{}, ctx: ctx, law: PresentLaw{}, tables: t}, nil
}

// NewLawChangeCalculator builds a calculator that applies changes.
func NewLawChangeCalculator(a domain.Assumptions, changes *domain.LawChangeArray) (*Calculator, error) {
	if changes == nil {
		return NewCalculator(a)
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	if err := changes.Check(); err != nil {
		return nil, err
	}
	ctx := domain.NewCalcContext(a)
	t, err := NewTables(ctx, changes)
	if err != nil {
		return nil, err
	}
	return &Calculator{logger: NopLogger{}, ctx: ctx, law: LawChange{Changes: changes}, tables: t}, nil
}

// SetLogger sets the logger; nil restores the no-op logger.
func (c *Calculator) SetLogger(l Logger) {
	if l == nil {
		c.logger = NopLogger{}
		return
	}
	c.logger = l
}

// Context returns the calculation context.
func (c *Calculator) Context() domain.CalcContext { return c.ctx }

// Tables returns the tables the calculator reads.
func (c *Calculator) Tables() *Tables { return c.tables }

// LawName returns the name of the law the calculator applies.
func (c *Calculator) LawName() string { return c.law.Name() }

// Calculate computes every applicable method for the case, resolves the
// governing PIA and applies the family maximum. A failure aborts the case.
func (c *Calculator) Calculate(ctx context.Context, cs *Case) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cs == nil || cs.Worker == nil {
		return nil, errors.New("case has no worker")
	}
	if err := cs.Worker.Check(); err != nil {
		return nil, err
	}
	if err := cs.Family.Check(cs.Worker); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			rangeErr, ok := r.(*series.RangeError)
			if !ok {
				panic(r)
			}
			res, err = nil, fmt.Errorf("%s: case %s: %w", c.law.Name(), cs.ID, rangeErr)
		}
	}()

	res, err = c.calculate(cs)
	if err != nil {
		return nil, fmt.Errorf("%s: case %s: %w", c.law.Name(), cs.ID, err)
	}
	return res, nil
}

func (c *Calculator) calculate(cs *Case) (*Result, error) {
	s := &caseState{
		ctx:     c.ctx,
		law:     c.law,
		tables:  c.tables,
		logger:  c.logger,
		worker:  cs.Worker,
		family:  cs.Family,
		pia:     domain.NewPiaData(c.ctx.MaxYear),
		results: make(map[MethodKind]*MethodResult),
	}
	earnings, err := c.ProjectEarnings(cs.Worker)
	if err != nil {
		return nil, fmt.Errorf("projecting earnings: %w", err)
	}
	s.earnings = earnings
	if err := s.runSetup(); err != nil {
		return nil, fmt.Errorf("setting up case: %w", err)
	}

	res := &Result{CaseID: cs.ID, Law: c.law.Name(), PiaData: s.pia, Family: cs.Family}
	w := cs.Worker
	if !s.pia.Insured.Insured(w.Benefit) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("worker is not insured for %s benefits (%d of %d quarters)",
			w.Benefit, s.pia.Insured.QcTotal, s.pia.Insured.QcRequired))
	}
	c.logger.Debugf("case %s: eligibility %d, %d computation years, %d years of coverage",
		cs.ID, s.pia.EligYear, s.pia.CompPeriodNew.N, s.pia.YearsCoverage)

	for _, m := range methods {
		if !m.applicable(s) {
			continue
		}
		c.logger.Debugf("case %s: %s applies", cs.ID, m.kind)
		r, err := runMethod(m, s)
		if err != nil {
			return nil, err
		}
		s.results[m.kind] = r
		res.Methods = append(res.Methods, r)
	}

	res.High = resolve(res.Methods)
	if res.High == nil {
		return nil, fmt.Errorf("no method applies for eligibility year %d", s.pia.EligYear)
	}
	res.HighPia, res.HighMfb = res.High.PiaBen, res.High.MfbBen
	s.pia.HighPia, s.pia.HighMfb = res.HighPia, res.HighMfb
	c.logger.Debugf("case %s: %s governs, PIA %s MFB %s", cs.ID, res.High.Kind, res.HighPia.StringFixed(2), res.HighMfb.StringFixed(2))

	if res.Reindexed, err = s.runReindWid(res.High); err != nil {
		return nil, fmt.Errorf("in %s: %w", ReindWid, err)
	}
	s.applyFamilyMax(res.HighPia, res.HighMfb, res.Reindexed)
	return res, nil
}

// recoverRange turns a *series.RangeError panic into err. Other panics
// propagate.
func recoverRange(err *error) {
	if r := recover(); r != nil {
		rangeErr, ok := r.(*series.RangeError)
		if !ok {
			panic(r)
		}
		*err = rangeErr
	}
}

func (s *caseState) runSetup() (err error) {
	defer recoverRange(&err)
	return s.setup()
}

// runMethod calculates one method and names it in any error.
func runMethod(m method, s *caseState) (r *MethodResult, err error) {
	defer func() {
		if err != nil {
			r, err = nil, fmt.Errorf("in %s: %w", m.kind, err)
		}
	}()
	defer recoverRange(&err)
	return m.calculate(s)
}

func (s *caseState) runReindWid(high *MethodResult) (out []ReindexedWidow, err error) {
	defer recoverRange(&err)
	return s.reindWidCalAll(high)
}

// resolve picks the governing method: the highest general method, replaced
// by a guarantee that is higher, replaced in turn by a higher special
// minimum. Ties keep the earlier method.
func resolve(results []*MethodResult) *MethodResult {
	var high *MethodResult
	higher := func(r *MethodResult) bool { return high == nil || r.PiaBen.GreaterThan(high.PiaBen) }
	for _, r := range results {
		if r.Kind.general() && higher(r) {
			high = r
		}
	}
	for _, r := range results {
		if r.Kind.guarantee() && higher(r) {
			high = r
		}
	}
	for _, r := range results {
		if r.Kind == SpecMin && higher(r) {
			high = r
		}
	}
	return high
}

// BatchResult pairs one case's result with its error.
type BatchResult struct {
	Case   *Case
	Result *Result
	Err    error
}

// CalculateBatch calculates independent cases on up to workers goroutines.
// Results come back in the order of cases.
func (c *Calculator) CalculateBatch(ctx context.Context, cases []*Case, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	out := make([]BatchResult, len(cases))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := c.Calculate(ctx, cases[idx])
				out[idx] = BatchResult{Case: cases[idx], Result: res, Err: err}
			}
		}()
	}

	for i := range cases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
