package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/series"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func buildTestReport() *Report {
	w := domain.NewWorkerData(domain.DefaultMaxYear)
	w.Name = "Jane Example"
	w.BirthDate = domain.Date(1955, time.March, 15)
	w.EntitlementDate = domain.Date(2021, time.April, 1)

	pd := domain.NewPiaData(domain.DefaultMaxYear)
	pd.EligYear = 2017
	pd.Insured = domain.InsuredStatus{QcTotal: 1240, QcRequired: 40, Fully: true}
	pd.CompPeriodNew = domain.CompPeriod{Elapsed: 40, Dropout: 5, N: 35}

	wage := &calculation.MethodResult{
		Kind:     calculation.WageInd,
		EligYear: 2017,
		Aime:     dec("4500"),
		PiaElig:  dec("1985.3"),
		PiaEnt:   dec("2025"),
		PiaBen:   dec("2118.4"),
		MfbBen:   dec("3707.6"),
		Windfall: calculation.ReducedPerc,
		PercWind: dec("0.5"),
	}
	spec := &calculation.MethodResult{Kind: calculation.SpecMin, EligYear: 2017, PiaBen: dec("850.1"), MfbBen: dec("1275.1")}
	spouse := &domain.Secondary{Name: "John Example", Category: domain.Spouse, Original: dec("1059.2"), Benefit: dec("1059.2")}

	res := &calculation.Result{
		CaseID:   "case-1",
		Law:      "present law",
		PiaData:  pd,
		Methods:  []*calculation.MethodResult{wage, spec},
		High:     wage,
		HighPia:  wage.PiaBen,
		HighMfb:  wage.MfbBen,
		Family:   domain.SecondaryArray{spouse},
		Warnings: []string{"check the pension amount"},
	}
	return &Report{
		Case:        &calculation.Case{ID: "case-1", Worker: w, Family: res.Family},
		Result:      res,
		Assumptions: DescribeAssumptions(domain.DefaultAssumptions()),
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := map[string]string{
		"0":          "$0.00",
		"5.5":        "$5.50",
		"1234.567":   "$1,234.57",
		"1000000":    "$1,000,000.00",
		"-2500.1":    "-$2,500.10",
		"-0.001":     "$0.00",
		"999999.999": "$1,000,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(dec(in)), in)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "2.60%", FormatPercentage(dec("0.026")))
	assert.Equal(t, "90.00%", FormatPercentage(dec("0.9")))
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "JSON", "csv", "text", " table "} {
		f, ok := GetFormatterByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, f, name)
	}
	f, _ := GetFormatterByName("txt")
	assert.Equal(t, "console", f.Name())

	_, ok := GetFormatterByName("html")
	assert.False(t, ok)
	assert.Equal(t, []string{"console", "csv", "json"}, AvailableFormatterNames())
}

func TestFormatterFunc(t *testing.T) {
	var got []*Report
	f := FormatterFunc{ID: "test", F: func(reports []*Report) ([]byte, error) {
		got = reports
		return []byte("out"), nil
	}}
	r := buildTestReport()

	var buf bytes.Buffer
	require.NoError(t, WriteFormatted(&buf, f, r))
	assert.Equal(t, "out", buf.String())
	assert.Equal(t, "test", f.Name())
	require.Len(t, got, 1)
	assert.Same(t, r, got[0])
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	f := FormatterFunc{ID: "broken", F: func([]*Report) ([]byte, error) {
		return nil, errors.New("boom")
	}}
	var buf bytes.Buffer
	err := WriteFormatted(&buf, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken formatter: boom")
	assert.Zero(t, buf.Len())
}

func TestConsoleFormatter_Format(t *testing.T) {
	data, err := ConsoleFormatter{}.Format([]*Report{buildTestReport()})
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "PIA CALCULATION: case-1 (present law)")
	assert.Contains(t, out, "Jane Example, born Mar 15, 1955")
	assert.Contains(t, out, "insured (1,240 of 40 quarters required)")
	assert.Contains(t, out, "Computation years: 35 (40 elapsed, 5 dropout)")
	assert.Contains(t, out, "*wage-indexed")
	assert.Contains(t, out, " special-minimum")
	assert.Contains(t, out, "$2,118.40")
	assert.Contains(t, out, "reduced first percentage, first percentage 50.00%")
	assert.Contains(t, out, "Governing method:  wage-indexed")
	assert.Contains(t, out, "Family maximum:    $3,707.60")
	assert.Contains(t, out, "John Example")
	assert.Contains(t, out, "Average wage growth: 3.90%")
	assert.Contains(t, out, "WARNINGS:")
}

func TestConsoleFormatter_NoResult(t *testing.T) {
	_, err := ConsoleFormatter{}.Format([]*Report{{}})
	assert.Error(t, err)
}

func TestJSONFormatter_Format(t *testing.T) {
	data, err := JSONFormatter{}.Format([]*Report{buildTestReport()})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	got := decoded[0]
	assert.Equal(t, "case-1", got["case_id"])
	assert.Equal(t, "wage-indexed", got["governing_method"])
	assert.Equal(t, "2118.4", got["pia"])
	assert.Equal(t, true, got["insured"])
	methods := got["methods"].([]any)
	require.Len(t, methods, 2)
	first := methods[0].(map[string]any)
	assert.Equal(t, true, first["governs"])
	assert.Equal(t, "reduced first percentage", first["windfall"])
	second := methods[1].(map[string]any)
	_, hasWindfall := second["windfall"]
	assert.False(t, hasWindfall)
}

func TestCSVFormatter_Format(t *testing.T) {
	r1 := buildTestReport()
	r2 := buildTestReport()
	r2.Result.CaseID = "case-2"

	data, err := CSVFormatter{}.Format([]*Report{r1, r2})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "CaseID", rows[0][0])
	assert.Equal(t, []string{"case-1", "present law", "wage-indexed", "2017", "4500.00", "1985.30", "2025.00", "2118.40", "3707.60", "true"}, rows[1])
	assert.Equal(t, "false", rows[2][9])
	assert.Equal(t, "case-2", rows[4][0])
}

func TestFormatTaxes(t *testing.T) {
	lt := &calculation.LifetimeTaxes{FirstYear: 2018, LastYear: 2020}
	lt.Oasi = series.MoneyFrom(2018, 0, 3100, 3200)
	lt.Di = series.MoneyFrom(2018, 0, 500, 500)
	lt.Oasdi = series.MoneyFrom(2018, 0, 3600, 3700)
	lt.Hi = series.MoneyFrom(2018, 0, 725, 750)
	lt.Oasdhi = series.MoneyFrom(2018, 0, 4325, 4450)

	out := string(FormatTaxes(lt))
	assert.NotContains(t, out, "2018", "Years without tax are skipped")
	assert.Contains(t, out, "2019")
	assert.Contains(t, out, "$4,325.00")
	assert.Contains(t, out, "$8,775.00 taxed over 2 years")
	assert.True(t, strings.HasPrefix(out, "YEAR"))
}
