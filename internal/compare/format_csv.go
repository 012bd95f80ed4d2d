package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format writes one row per case and law, each case's base law first.
func (cf *CSVFormatter) Format(sets []*ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"CaseID",
		"Law",
		"Type",
		"Governing",
		"PIA",
		"MFB",
		"FamilyBenefits",
		"LifetimeTaxes",
		"PiaDiff",
		"PiaPct",
		"MfbDiff",
		"TaxDiff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, compSet := range sets {
		if compSet.BaseResult != nil {
			if err := writer.Write(cf.formatRow(compSet.CaseID, compSet.BaseResult, "base")); err != nil {
				return "", err
			}
		}
		for i := range compSet.AlternativeResults {
			if err := writer.Write(cf.formatRow(compSet.CaseID, &compSet.AlternativeResults[i], "alternative")); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(caseID string, result *ComparisonResult, kind string) []string {
	return []string{
		caseID,
		result.Law,
		kind,
		result.Governing,
		result.Pia.StringFixed(2),
		result.Mfb.StringFixed(2),
		result.FamilyBenefits.StringFixed(2),
		result.LifetimeTaxes.StringFixed(2),
		result.PiaDiffFromBase.StringFixed(2),
		result.PiaPctFromBase.StringFixed(2),
		result.MfbDiffFromBase.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
	}
}
