package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		CaseID:  "case-a",
		Worker:  "Alex Example",
		BaseLaw: "present law",
		BaseResult: &ComparisonResult{
			Law:            "present law",
			Governing:      "wage-indexed",
			Pia:            dec("1234.5"),
			Mfb:            dec("2160.4"),
			FamilyBenefits: dec("600"),
			LifetimeTaxes:  dec("45210.75"),
		},
		AlternativeResults: []ComparisonResult{
			{
				Law:             "law change: lower formula",
				Governing:       "wage-indexed",
				Pia:             dec("1100"),
				Mfb:             dec("1925"),
				FamilyBenefits:  dec("550"),
				LifetimeTaxes:   dec("45210.75"),
				PiaDiffFromBase: dec("-134.5"),
				PiaPctFromBase:  dec("-10.895"),
				MfbDiffFromBase: dec("-235.4"),
			},
			{
				Law:             "law change: higher taxes",
				Governing:       "wage-indexed",
				Pia:             dec("1234.5"),
				Mfb:             dec("2160.4"),
				LifetimeTaxes:   dec("50000"),
				TaxDiffFromBase: dec("4789.25"),
			},
		},
		Recommendations: []string{"Largest reduction: law change: lower formula lowers the PIA by $134.50 (10.9%)"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format([]*ComparisonSet{sampleSet()})

	assert.Contains(t, out, "LAW COMPARISON: case-a")
	assert.Contains(t, out, "Worker: Alex Example")
	assert.Contains(t, out, "Base law: present law")
	assert.Contains(t, out, "present law (base)")
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "$2,160.40")
	assert.Contains(t, out, "COMPARISON TO BASE")
	assert.Contains(t, out, "  PIA:              -$134.50 (-10.9%)")
	assert.Contains(t, out, "  Family maximum:   -$235.40")
	assert.Contains(t, out, "  Lifetime taxes:   +$4,789.25")
	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "- Largest reduction:")
	// Unchanged taxes are not listed.
	assert.Equal(t, 1, strings.Count(out, "Lifetime taxes:"))
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil

	out := (&TableFormatter{}).Format([]*ComparisonSet{set})
	assert.Contains(t, out, "present law (base)")
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "SUMMARY")
}

func TestTableFormatter_MultipleSets(t *testing.T) {
	second := sampleSet()
	second.CaseID = "case-b"
	out := (&TableFormatter{}).Format([]*ComparisonSet{sampleSet(), second})
	assert.Contains(t, out, "LAW COMPARISON: case-a")
	assert.Contains(t, out, "LAW COMPARISON: case-b")
}

func TestTableFormatter_Truncate(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "short", tf.truncate("short", 10))
	assert.Equal(t, "a very ...", tf.truncate("a very long law name", 10))
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact([]*ComparisonSet{sampleSet(), {CaseID: "skipped"}})
	assert.Equal(t, "case-a: present law $1,234.50 | law change: lower formula: -$134.50 | law change: higher taxes: =\n", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format([]*ComparisonSet{sampleSet()})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"CaseID", "Law", "Type", "Governing", "PIA", "MFB", "FamilyBenefits", "LifetimeTaxes", "PiaDiff", "PiaPct", "MfbDiff", "TaxDiff"}, records[0])
	assert.Equal(t, []string{"case-a", "present law", "base", "wage-indexed", "1234.50", "2160.40", "600.00", "45210.75", "0.00", "0.00", "0.00", "0.00"}, records[1])
	assert.Equal(t, "alternative", records[2][2])
	assert.Equal(t, "-134.50", records[2][8])
	assert.Equal(t, "-10.90", records[2][9])
	assert.Equal(t, "4789.25", records[3][11])
}

func TestCSVFormatter_Empty(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format([]*ComparisonSet{sampleSet()})
		require.NoError(t, err)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "case-a", decoded[0]["caseId"])
		assert.Equal(t, "present law", decoded[0]["baseLaw"])

		base := decoded[0]["baseResult"].(map[string]any)
		assert.Equal(t, "1234.5", base["pia"])
		assert.NotContains(t, base, "Result")

		alts := decoded[0]["alternativeResults"].([]any)
		require.Len(t, alts, 2)
		assert.Equal(t, "-134.5", alts[0].(map[string]any)["piaDiffFromBase"])

		assert.Equal(t, pretty, strings.Contains(out, "\n  "))
	}

	out, err := (&JSONFormatter{}).Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}
