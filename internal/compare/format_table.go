package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/anypia/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format renders each set as a table of laws followed by the differences
// from the base law.
func (tf *TableFormatter) Format(sets []*ComparisonSet) string {
	var sb strings.Builder
	for i, compSet := range sets {
		if i > 0 {
			sb.WriteString("\n")
		}
		tf.formatSet(&sb, compSet)
	}
	return sb.String()
}

func (tf *TableFormatter) formatSet(sb *strings.Builder, compSet *ComparisonSet) {
	sb.WriteString(fmt.Sprintf("LAW COMPARISON: %s\n", compSet.CaseID))
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.Worker != "" {
		sb.WriteString(fmt.Sprintf("Worker: %s\n", compSet.Worker))
	}
	sb.WriteString(fmt.Sprintf("Base law: %s\n\n", compSet.BaseLaw))

	nameWidth := 30
	numWidth := 12

	sb.WriteString(fmt.Sprintf("%-*s %-24s %*s %*s\n",
		nameWidth, "Law",
		"Governing method",
		numWidth, "PIA",
		numWidth, "MFB"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Law))
			sb.WriteString(fmt.Sprintf("  PIA:              %s (%s%%)\n",
				tf.signedCurrency(alt.PiaDiffFromBase),
				alt.PiaPctFromBase.StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Family maximum:   %s\n", tf.signedCurrency(alt.MfbDiffFromBase)))
			if !alt.TaxDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Lifetime taxes:   %s\n", tf.signedCurrency(alt.TaxDiffFromBase)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nSUMMARY\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	}
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Law
	if isBase {
		name += " (base)"
	}
	return fmt.Sprintf("%-*s %-24s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		result.Governing,
		numWidth, output.FormatCurrency(result.Pia),
		numWidth, output.FormatCurrency(result.Mfb))
}

// signedCurrency prefixes increases with +.
func (tf *TableFormatter) signedCurrency(d decimal.Decimal) string {
	if d.Round(2).IsPositive() {
		return "+" + output.FormatCurrency(d)
	}
	return output.FormatCurrency(d)
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each set.
func (tf *TableFormatter) FormatCompact(sets []*ComparisonSet) string {
	var sb strings.Builder
	for _, compSet := range sets {
		if compSet.BaseResult == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %s %s", compSet.CaseID, compSet.BaseLaw, output.FormatCurrency(compSet.BaseResult.Pia)))
		for _, alt := range compSet.AlternativeResults {
			change := "="
			if !alt.PiaDiffFromBase.Round(2).IsZero() {
				change = tf.signedCurrency(alt.PiaDiffFromBase)
			}
			sb.WriteString(fmt.Sprintf(" | %s: %s", alt.Law, change))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
