package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrOpen reports that an input file could not be read.
	ErrOpen = errors.New("cannot open input")
	// ErrParse reports that an input file could not be decoded or lacks a
	// required field.
	ErrParse = errors.New("cannot parse input")
)

const dateLayout = "2006-01-02"

// CaseFile is one case as read from disk.
type CaseFile struct {
	ID            string
	Worker        *domain.WorkerData
	Family        domain.SecondaryArray
	Assumptions   domain.Assumptions
	LawChanges    *domain.LawChangeArray
	// LawChangeFile names a law change file to load; relative paths are
	// resolved against the case file.
	LawChangeFile string
}

// InputParser handles parsing of case, assumption and law change files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

func readFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, filename, err)
	}
	return data, nil
}

// LoadCase loads a case from a YAML file. A law change file named in the
// case is resolved relative to the case file.
func (ip *InputParser) LoadCase(filename string) (*CaseFile, error) {
	data, err := readFile(filename)
	if err != nil {
		return nil, err
	}
	cf, err := ip.ParseCase(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if ref := cf.LawChangeFile; ref != "" {
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(filepath.Dir(filename), ref)
		}
		lc, err := ip.LoadLawChanges(ref)
		if err != nil {
			return nil, err
		}
		cf.LawChanges = lc
	}
	return cf, nil
}

// ParseCase decodes and validates a case document.
func (ip *InputParser) ParseCase(data []byte) (*CaseFile, error) {
	var doc caseDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrParse, err)
	}

	a := domain.DefaultAssumptions()
	if doc.Assumptions != nil {
		a = doc.Assumptions.merge(a)
	}
	worker, err := doc.Worker.toDomain(a.MaxYear)
	if err != nil {
		return nil, err
	}
	family, err := buildFamily(doc.Family)
	if err != nil {
		return nil, err
	}
	cf := &CaseFile{
		ID:            doc.ID,
		Worker:        worker,
		Family:        family,
		Assumptions:   a,
		LawChanges:    doc.LawChanges,
		LawChangeFile: doc.LawChangeFile,
	}
	if cf.ID == "" {
		cf.ID = worker.ID
	}
	if err := ip.ValidateCase(cf); err != nil {
		return nil, fmt.Errorf("case validation failed: %w", err)
	}
	return cf, nil
}

// ValidateCase validates the loaded case
func (ip *InputParser) ValidateCase(cf *CaseFile) error {
	if err := cf.Assumptions.Check(); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	if err := cf.Worker.Check(); err != nil {
		return fmt.Errorf("worker validation failed: %w", err)
	}
	if err := cf.Family.Check(cf.Worker); err != nil {
		return fmt.Errorf("family validation failed: %w", err)
	}
	if cf.LawChanges != nil {
		if err := cf.LawChanges.Check(); err != nil {
			return fmt.Errorf("law change validation failed: %w", err)
		}
	}
	return nil
}

// LoadAssumptions loads a projection assumption set. Fields left out keep
// their default values.
func (ip *InputParser) LoadAssumptions(filename string) (domain.Assumptions, error) {
	a := domain.DefaultAssumptions()
	data, err := readFile(filename)
	if err != nil {
		return a, err
	}
	var doc assumptionsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return a, fmt.Errorf("%w: %s: failed to parse YAML: %w", ErrParse, filename, err)
	}
	a = doc.merge(a)
	if err := a.Check(); err != nil {
		return a, fmt.Errorf("%s: assumptions validation failed: %w", filename, err)
	}
	return a, nil
}

// LoadLawChanges loads a law change set from YAML. A tax_rate_file entry is
// read with the line-oriented tax rate format, relative to the YAML file.
func (ip *InputParser) LoadLawChanges(filename string) (*domain.LawChangeArray, error) {
	data, err := readFile(filename)
	if err != nil {
		return nil, err
	}
	var doc lawChangeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse YAML: %w", ErrParse, filename, err)
	}
	lc := &doc.LawChangeArray
	if doc.TaxRateFile != "" {
		ref := doc.TaxRateFile
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(filepath.Dir(filename), ref)
		}
		tr, err := ip.LoadTaxRates(ref)
		if err != nil {
			return nil, err
		}
		lc.TaxRate = tr
	}
	if err := lc.Check(); err != nil {
		return nil, fmt.Errorf("%s: law change validation failed: %w", filename, err)
	}
	return lc, nil
}

// LoadTaxRates reads a tax rate change in the line-oriented text format.
func (ip *InputParser) LoadTaxRates(filename string) (*domain.TaxRateChange, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, filename, err)
	}
	defer f.Close()

	var tr domain.TaxRateChange
	if err := tr.Read(f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, filename, err)
	}
	return &tr, nil
}

type caseDoc struct {
	ID            string                 `yaml:"id"`
	Worker        workerDoc              `yaml:"worker"`
	Family        []memberDoc            `yaml:"family"`
	Assumptions   *assumptionsDoc        `yaml:"assumptions"`
	LawChangeFile string                 `yaml:"law_change_file"`
	LawChanges    *domain.LawChangeArray `yaml:"law_changes"`
}

type assumptionsDoc struct {
	AverageWageGrowth *decimal.Decimal `yaml:"average_wage_growth"`
	BenefitIncrease   *decimal.Decimal `yaml:"benefit_increase"`
	WageBaseGrowth    *decimal.Decimal `yaml:"wage_base_growth"`
	Statement         *bool            `yaml:"statement"`
	StartYear         int              `yaml:"start_year"`
	MaxYear           int              `yaml:"max_year"`
}

func (d *assumptionsDoc) merge(a domain.Assumptions) domain.Assumptions {
	if d.AverageWageGrowth != nil {
		a.AverageWageGrowth = *d.AverageWageGrowth
	}
	if d.BenefitIncrease != nil {
		a.BenefitIncrease = *d.BenefitIncrease
	}
	if d.WageBaseGrowth != nil {
		g := *d.WageBaseGrowth
		a.WageBaseGrowth = &g
	}
	if d.Statement != nil {
		a.Statement = *d.Statement
	}
	if d.StartYear != 0 {
		a.StartYear = d.StartYear
	}
	if d.MaxYear != 0 {
		a.MaxYear = d.MaxYear
	}
	return a
}

type lawChangeDoc struct {
	domain.LawChangeArray `yaml:",inline"`
	TaxRateFile           string `yaml:"tax_rate_file"`
}

type disabilityDoc struct {
	Onset       string          `yaml:"onset"`
	Entitlement string          `yaml:"entitlement"`
	Cessation   string          `yaml:"cessation"`
	PriorPia    decimal.Decimal `yaml:"prior_pia"`
	PriorMfb    decimal.Decimal `yaml:"prior_mfb"`
}

type pensionDoc struct {
	Amount      decimal.Decimal `yaml:"amount"`
	Entitlement string          `yaml:"entitlement"`
}

type militaryDoc struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type projectionDoc struct {
	FirstYear int              `yaml:"first_year"`
	LastYear  int              `yaml:"last_year"`
	Base      decimal.Decimal  `yaml:"base"`
	Growth    *decimal.Decimal `yaml:"growth"`
}

type workerDoc struct {
	ID              string                  `yaml:"id"`
	Name            string                  `yaml:"name"`
	SSN             string                  `yaml:"ssn"`
	Sex             string                  `yaml:"sex"`
	BirthDate       string                  `yaml:"birth_date"`
	DeathDate       string                  `yaml:"death_date"`
	Benefit         string                  `yaml:"benefit"`
	EntitlementDate string                  `yaml:"entitlement_date"`
	BenefitDate     string                  `yaml:"benefit_date"`
	Earnings        map[int]decimal.Decimal `yaml:"earnings"`
	HIEarnings      map[int]decimal.Decimal `yaml:"hi_earnings"`
	SelfEmployed    []int                   `yaml:"self_employed_years"`
	ChildCare       []int                   `yaml:"childcare_years"`
	QcPre1951       int                     `yaml:"qc_pre1951"`
	QcOverride      map[int]int             `yaml:"qc_override"`
	ForeignQcs      int                     `yaml:"foreign_qcs"`
	Totalization    bool                    `yaml:"totalization"`
	Disability      *disabilityDoc          `yaml:"disability"`
	Prior           *disabilityDoc          `yaml:"prior_disability"`
	Pension         *pensionDoc             `yaml:"pension"`
	Railroad        map[int]decimal.Decimal `yaml:"railroad_earnings"`
	Military        []militaryDoc           `yaml:"military_service"`
	Projection      *projectionDoc          `yaml:"projection"`
}

type memberDoc struct {
	Name            string `yaml:"name"`
	Category        string `yaml:"category"`
	BirthDate       string `yaml:"birth_date"`
	EntitlementDate string `yaml:"entitlement_date"`
	DisabilityOnset string `yaml:"disability_onset"`
}

// parseDate parses an optional date; required dates are checked by the
// domain validators.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: invalid date %q", ErrParse, field, s)
	}
	return domain.Date(t.Year(), t.Month(), t.Day()), nil
}

func setYears(field string, dst *series.Money, values map[int]decimal.Decimal) error {
	for y, v := range values {
		if !dst.Contains(y) {
			return fmt.Errorf("%w: %s: year %d outside %d-%d", ErrParse, field, y, dst.Base(), dst.Last())
		}
		dst.Set(y, v)
	}
	return nil
}

func setBits(field string, dst *series.Bits, years []int) error {
	for _, y := range years {
		if !dst.Contains(y) {
			return fmt.Errorf("%w: %s: year %d outside %d-%d", ErrParse, field, y, dst.Base(), dst.Last())
		}
		dst.Set(y, true)
	}
	return nil
}

func (d *disabilityDoc) toDomain(field string) (domain.DisabilityPeriod, error) {
	var p domain.DisabilityPeriod
	var err error
	if p.Onset, err = parseDate(field+".onset", d.Onset); err != nil {
		return p, err
	}
	if p.Entitlement, err = parseDate(field+".entitlement", d.Entitlement); err != nil {
		return p, err
	}
	if p.Cessation, err = parseDate(field+".cessation", d.Cessation); err != nil {
		return p, err
	}
	p.PriorPia, p.PriorMfb = d.PriorPia, d.PriorMfb
	return p, nil
}

func (d *workerDoc) toDomain(maxyear int) (*domain.WorkerData, error) {
	if strings.TrimSpace(d.BirthDate) == "" {
		return nil, fmt.Errorf("%w: worker.birth_date is required", ErrParse)
	}
	w := domain.NewWorkerData(maxyear)
	w.ID = d.ID
	w.Name = d.Name
	if d.SSN != "" {
		if err := w.SetSSN(d.SSN); err != nil {
			return nil, err
		}
	}
	switch strings.ToLower(d.Sex) {
	case "", "m", "male":
	case "f", "female":
		w.Female = true
	default:
		return nil, fmt.Errorf("%w: worker.sex: unknown value %q", ErrParse, d.Sex)
	}
	if d.Benefit != "" {
		b, ok := domain.ParseBenefitType(d.Benefit)
		if !ok {
			return nil, fmt.Errorf("%w: worker.benefit: unknown type %q", ErrParse, d.Benefit)
		}
		w.Benefit = b
	}

	var err error
	dates := []struct {
		field string
		src   string
		dst   *time.Time
	}{
		{"worker.birth_date", d.BirthDate, &w.BirthDate},
		{"worker.death_date", d.DeathDate, &w.DeathDate},
		{"worker.entitlement_date", d.EntitlementDate, &w.EntitlementDate},
		{"worker.benefit_date", d.BenefitDate, &w.BenefitDate},
	}
	for _, dt := range dates {
		if *dt.dst, err = parseDate(dt.field, dt.src); err != nil {
			return nil, err
		}
	}

	if err := setYears("worker.earnings", w.Earnings, d.Earnings); err != nil {
		return nil, err
	}
	if err := setYears("worker.hi_earnings", w.HIEarnings, d.HIEarnings); err != nil {
		return nil, err
	}
	if err := setBits("worker.self_employed_years", w.SelfEmployed, d.SelfEmployed); err != nil {
		return nil, err
	}
	if err := setBits("worker.childcare_years", w.ChildCare, d.ChildCare); err != nil {
		return nil, err
	}
	w.QcPre1951 = d.QcPre1951
	if len(d.QcOverride) > 0 {
		w.QcOverride = series.NewInts(series.YEAR37, maxyear)
		for y, n := range d.QcOverride {
			if !w.QcOverride.Contains(y) || n < 0 || n > 4 {
				return nil, fmt.Errorf("%w: worker.qc_override: %d quarters in %d", ErrParse, n, y)
			}
			w.QcOverride.Set(y, n)
		}
	}
	w.ForeignQcs = d.ForeignQcs
	w.Totalization = d.Totalization

	if d.Disability != nil {
		if w.Disability, err = d.Disability.toDomain("worker.disability"); err != nil {
			return nil, err
		}
	}
	if d.Prior != nil {
		p, err := d.Prior.toDomain("worker.prior_disability")
		if err != nil {
			return nil, err
		}
		w.Prior = &p
	}
	if d.Pension != nil {
		w.Pension.Amount = d.Pension.Amount
		if w.Pension.Entitlement, err = parseDate("worker.pension.entitlement", d.Pension.Entitlement); err != nil {
			return nil, err
		}
	}
	for y, v := range d.Railroad {
		w.Railroad.Earnings[y] = v
	}
	for i, m := range d.Military {
		field := fmt.Sprintf("worker.military_service[%d]", i)
		start, err := parseDate(field+".start", m.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseDate(field+".end", m.End)
		if err != nil {
			return nil, err
		}
		if start.IsZero() || end.Before(start) {
			return nil, fmt.Errorf("%w: %s: invalid service period", ErrParse, field)
		}
		w.Military = append(w.Military, domain.MilitaryService{Start: start, End: end})
	}
	if p := d.Projection; p != nil {
		w.Projection = &domain.EarningsProjection{
			FirstYear: p.FirstYear,
			LastYear:  p.LastYear,
			Base:      p.Base,
			Growth:    p.Growth,
		}
	}
	return w, nil
}

func buildFamily(docs []memberDoc) (domain.SecondaryArray, error) {
	if err := domain.CheckFamilySize(len(docs)); err != nil {
		return nil, err
	}
	family := make(domain.SecondaryArray, 0, len(docs))
	for i, m := range docs {
		field := fmt.Sprintf("family[%d]", i)
		cat, ok := domain.ParseCategory(strings.ToLower(strings.TrimSpace(m.Category)))
		if !ok {
			return nil, fmt.Errorf("%w: %s.category: unknown category %q", ErrParse, field, m.Category)
		}
		s := &domain.Secondary{Name: m.Name, Category: cat}
		if s.Name == "" {
			s.Name = field
		}
		var err error
		if s.BirthDate, err = parseDate(field+".birth_date", m.BirthDate); err != nil {
			return nil, err
		}
		if s.EntitlementDate, err = parseDate(field+".entitlement_date", m.EntitlementDate); err != nil {
			return nil, err
		}
		if s.DisabilityOnset, err = parseDate(field+".disability_onset", m.DisabilityOnset); err != nil {
			return nil, err
		}
		family = append(family, s)
	}
	return family, nil
}
