package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create parser")
}

func TestInputParser_LoadCase_OldAge(t *testing.T) {
	parser := NewInputParser()
	cf, err := parser.LoadCase(filepath.Join("testdata", "old_age.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "case-001", cf.ID)
	w := cf.Worker
	assert.Equal(t, "Jane Example", w.Name)
	assert.Equal(t, "123456789", w.SSN)
	assert.True(t, w.Female)
	assert.Equal(t, domain.OldAge, w.Benefit)
	assert.Equal(t, domain.Date(1955, 3, 15), w.BirthDate)
	assert.Equal(t, domain.Date(2021, 4, 1), w.EntitlementDate)
	assert.True(t, w.BenefitDate.IsZero())
	assert.True(t, w.Earnings.At(1990).Equal(dec("35000.5")))
	assert.True(t, w.Earnings.At(1991).IsZero())
	assert.True(t, w.HIEarnings.At(1990).Equal(dec("1500")))
	assert.True(t, w.SelfEmployed.At(1990))
	assert.False(t, w.SelfEmployed.At(1980))
	assert.True(t, w.ChildCare.At(1985))
	require.NotNil(t, w.QcOverride)
	assert.Equal(t, 2, w.QcOverride.At(1975))
	assert.True(t, w.Pension.Amount.Equal(dec("850")))
	require.Len(t, w.Military, 1)
	assert.Equal(t, domain.Date(1976, 5, 31), w.Military[0].End)

	require.Len(t, cf.Family, 1)
	assert.Equal(t, domain.Spouse, cf.Family[0].Category)

	assert.True(t, cf.Assumptions.AverageWageGrowth.Equal(dec("0.04")))
	assert.True(t, cf.Assumptions.BenefitIncrease.Equal(domain.DefaultAssumptions().BenefitIncrease),
		"Omitted assumptions keep their defaults")
	assert.True(t, cf.Assumptions.Statement)
	assert.Nil(t, cf.LawChanges)
}

func TestInputParser_LoadCase_SurvivorWithLawChanges(t *testing.T) {
	parser := NewInputParser()
	cf, err := parser.LoadCase(filepath.Join("testdata", "survivor.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.Survivor, cf.Worker.Benefit)
	require.Len(t, cf.Family, 2)
	assert.Equal(t, domain.Widow, cf.Family[0].Category)
	assert.Equal(t, domain.DisabledWidow, cf.Family[1].Category)
	assert.Equal(t, "family[1]", cf.Family[1].Name, "Unnamed members are named by position")
	assert.Equal(t, domain.Date(2010, 6, 1), cf.Family[1].DisabilityOnset)

	lc := cf.LawChanges
	require.NotNil(t, lc)
	require.NotNil(t, lc.NoReindWid)
	assert.True(t, lc.NoReindWid.Contains(2016))
	assert.False(t, lc.NoReindWid.Contains(1999))
	require.NotNil(t, lc.Cola)
	assert.True(t, lc.Cola.Points.Equal(dec("0.005")))
	require.NotNil(t, lc.TaxRate, "Tax rates come from the referenced text file")
	assert.Equal(t, []int{2020, 2030}, lc.TaxRate.Years)
	assert.True(t, lc.TaxRate.Taxrate(domain.FundOASI, 1).Equal(dec("0.060")))
	assert.True(t, lc.TaxRate.SelfEmployedRate(domain.FundDI, 0).Equal(dec("0.018")))
}

func TestInputParser_LoadCase_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	cf, err := parser.LoadCase(filepath.Join("testdata", "missing.yaml"))

	assert.Error(t, err, "Should error for missing file")
	assert.Nil(t, cf)
	assert.True(t, errors.Is(err, ErrOpen))
	assert.False(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, os.ErrNotExist), "Should keep the underlying cause")
}

func TestInputParser_LoadCase_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	cf, err := parser.LoadCase(filepath.Join("testdata", "invalid_yaml.yaml"))

	assert.Error(t, err)
	assert.Nil(t, cf)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadCase_ValidationError(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadCase(filepath.Join("testdata", "bad_dates.yaml"))
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "Should surface the validation error")
	assert.Equal(t, domain.CodeEntitlementDate, verr.Code)
	assert.Contains(t, err.Error(), "worker validation failed")
}

func TestInputParser_ParseCase_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing birth date",
			yaml:    "worker:\n  entitlement_date: \"2020-01-01\"\n",
			wantErr: "birth_date is required",
		},
		{
			name:    "bad date",
			yaml:    "worker:\n  birth_date: \"15/03/1955\"\n",
			wantErr: "invalid date",
		},
		{
			name:    "unknown sex",
			yaml:    "worker:\n  birth_date: \"1955-03-15\"\n  sex: x\n",
			wantErr: "unknown value",
		},
		{
			name:    "unknown benefit",
			yaml:    "worker:\n  birth_date: \"1955-03-15\"\n  benefit: lump-sum\n",
			wantErr: "unknown type",
		},
		{
			name:    "earnings out of range",
			yaml:    "worker:\n  birth_date: \"1955-03-15\"\n  earnings:\n    1900: 100\n",
			wantErr: "year 1900 outside",
		},
		{
			name:    "too many quarters",
			yaml:    "worker:\n  birth_date: \"1955-03-15\"\n  qc_override:\n    1970: 5\n",
			wantErr: "5 quarters in 1970",
		},
		{
			name:    "unknown category",
			yaml:    "worker:\n  birth_date: \"1955-03-15\"\nfamily:\n  - category: cousin\n",
			wantErr: "unknown category",
		},
		{
			name:    "military service reversed",
			yaml:    "worker:\n  birth_date: \"1955-03-15\"\n  military_service:\n    - start: \"1975-01-01\"\n      end: \"1974-01-01\"\n",
			wantErr: "invalid service period",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseCase([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputParser_ParseCase_BadSSN(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.ParseCase([]byte("worker:\n  birth_date: \"1955-03-15\"\n  ssn: 666-12-3456\n"))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.CodeSSN, verr.Code)
}

func TestInputParser_ParseCase_InlineLawChanges(t *testing.T) {
	doc := `
worker:
  birth_date: "1960-01-01"
  entitlement_date: "2027-01-01"
law_changes:
  description: enhanced special minimum
  special_minimum:
    effective_year: 2025
    amount: 20
    max_years: 35
`
	parser := NewInputParser()
	cf, err := parser.ParseCase([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, cf.LawChanges)
	require.NotNil(t, cf.LawChanges.SpecMin)
	assert.Equal(t, 35, cf.LawChanges.SpecMin.MaxYears)
	assert.True(t, cf.LawChanges.SpecMin.Amount.Equal(dec("20")))

	_, err = parser.ParseCase([]byte(strings.Replace(doc, "max_years: 35", "max_years: 5", 1)))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.CodeLawChangeValue, verr.Code)
}

func TestInputParser_LoadAssumptions(t *testing.T) {
	parser := NewInputParser()
	a, err := parser.LoadAssumptions(filepath.Join("testdata", "assumptions.yaml"))
	require.NoError(t, err)

	assert.True(t, a.AverageWageGrowth.Equal(dec("0.035")))
	assert.True(t, a.BenefitIncrease.Equal(dec("0.02")))
	require.NotNil(t, a.WageBaseGrowth)
	assert.True(t, a.WageBaseGrowth.Equal(dec("0.03")))
	assert.Equal(t, 2090, a.MaxYear)
	assert.Equal(t, domain.DefaultStartYear, a.StartYear)
}

func TestInputParser_LoadAssumptions_OutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assumptions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benefit_increase: 0.5\n"), 0644))

	parser := NewInputParser()
	_, err := parser.LoadAssumptions(path)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.CodeAssumptionRange, verr.Code)
	assert.Equal(t, "benefit_increase", verr.Field)
}

func TestInputParser_LoadTaxRates(t *testing.T) {
	parser := NewInputParser()
	tr, err := parser.LoadTaxRates(filepath.Join("testdata", "taxrates.txt"))
	require.NoError(t, err)
	assert.Equal(t, domain.TaxRateEmployee, tr.Ind)
	assert.True(t, tr.Taxrate(domain.FundHI, 0).Equal(dec("0.0145")))

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1 1\n2020 0.05 0.01\n"), 0644))
	_, err = parser.LoadTaxRates(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, strings.Contains(err.Error(), "needs 4 fields"))

	_, err = parser.LoadTaxRates(filepath.Join(t.TempDir(), "none.txt"))
	assert.True(t, errors.Is(err, ErrOpen))
}

func TestInputParser_LoadLawChanges_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lc.yaml")
	doc := "pia_formula:\n  effective_year: 2030\n  percentages: [0.9, 0.32]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	parser := NewInputParser()
	_, err := parser.LoadLawChanges(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need explicit bend points")
}
