package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/tables"
)

// ConsoleFormatter renders a plain-text report per case.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(reports []*Report) ([]byte, error) {
	var buf bytes.Buffer
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		if err := writeConsoleReport(&buf, r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

func writeConsoleReport(buf *bytes.Buffer, r *Report) error {
	if r == nil || r.Result == nil || r.Case == nil || r.Case.Worker == nil {
		return fmt.Errorf("report has no result")
	}
	res, w, pd := r.Result, r.Case.Worker, r.Result.PiaData

	title := fmt.Sprintf("PIA CALCULATION: %s (%s)", res.CaseID, res.Law)
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", len(title)))
	name := w.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(buf, "Worker:            %s, born %s\n", name, formatDate(w.BirthDate))
	fmt.Fprintf(buf, "Benefit:           %s, entitled %s\n", w.Benefit, formatDate(w.EntitlementDate))
	if w.IsDead() {
		fmt.Fprintf(buf, "Died:              %s\n", formatDate(w.DeathDate))
	}
	fmt.Fprintf(buf, "Eligibility year:  %d\n", pd.EligYear)

	status := "not insured"
	if res.Insured(w.Benefit) {
		status = "insured"
	}
	fmt.Fprintf(buf, "Insured status:    %s (%s of %s quarters required)\n",
		status, humanize.Comma(int64(pd.Insured.QcTotal)), humanize.Comma(int64(pd.Insured.QcRequired)))
	cp := pd.CompPeriodNew
	fmt.Fprintf(buf, "Computation years: %d (%d elapsed, %d dropout)\n", cp.N, cp.Elapsed, cp.Dropout)
	if len(r.Assumptions) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "ASSUMPTIONS:")
		for _, a := range r.Assumptions {
			fmt.Fprintf(buf, "  %s\n", a)
		}
	}

	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%-26s %12s %12s %12s %12s %12s\n", "METHOD", "AIME/AMW", "PIA ELIG", "PIA ENT", "PIA BEN", "MFB BEN")
	fmt.Fprintln(buf, strings.Repeat("-", 26+5*13))
	for _, m := range res.Methods {
		mark := " "
		if m == res.High {
			mark = "*"
		}
		fmt.Fprintf(buf, "%s%-25s %12s %12s %12s %12s %12s\n", mark, m.Kind,
			FormatCurrency(m.Aime), FormatCurrency(m.PiaElig), FormatCurrency(m.PiaEnt),
			FormatCurrency(m.PiaBen), FormatCurrency(m.MfbBen))
		if m.Windfall != calculation.WindfallNone {
			fmt.Fprintf(buf, "  windfall elimination: %s, first percentage %s\n", m.Windfall, FormatPercentage(m.PercWind))
		}
		if m.ChildCareDrop > 0 {
			fmt.Fprintf(buf, "  childcare years dropped: %d\n", m.ChildCareDrop)
		}
	}

	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Governing method:  %s\n", res.High.Kind)
	fmt.Fprintf(buf, "PIA:               %s\n", FormatCurrency(res.HighPia))
	fmt.Fprintf(buf, "Family maximum:    %s\n", FormatCurrency(res.HighMfb))

	if len(res.Family) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "FAMILY BENEFITS:")
		for _, s := range res.Family {
			fmt.Fprintf(buf, "  %-20s %-16s %12s (before maximum %s)\n",
				s.Name, s.Category, FormatCurrency(s.Benefit), FormatCurrency(s.Original))
		}
	}
	for _, rw := range res.Reindexed {
		verdict := "does not govern"
		if rw.Governs {
			verdict = "governs"
		}
		fmt.Fprintf(buf, "  reindexed widow(er) %s: PIA %s, eligible %d, %s\n",
			rw.Member.Name, FormatCurrency(rw.Method.PiaBen), rw.Method.EligYear, verdict)
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "WARNINGS:")
		for _, warning := range res.Warnings {
			fmt.Fprintf(buf, "  %s\n", warning)
		}
	}
	return nil
}

// FormatTaxes renders lifetime payroll taxes for the years with any tax.
func FormatTaxes(t *calculation.LifetimeTaxes) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-6s", "YEAR")
	for _, f := range tables.Funds {
		fmt.Fprintf(&buf, " %14s", f)
	}
	fmt.Fprintln(&buf)
	years := 0
	for y := t.FirstYear; y <= t.LastYear; y++ {
		if t.Oasdhi.At(y).IsZero() {
			continue
		}
		years++
		fmt.Fprintf(&buf, "%-6d", y)
		for _, f := range tables.Funds {
			fmt.Fprintf(&buf, " %14s", FormatCurrency(t.Fund(f).At(y)))
		}
		fmt.Fprintln(&buf)
	}
	fmt.Fprintf(&buf, "%-6s", "TOTAL")
	for _, f := range tables.Funds {
		fmt.Fprintf(&buf, " %14s", FormatCurrency(t.Total(f)))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%s taxed over %s years\n", FormatCurrency(t.Total(tables.OASDHI)), humanize.Comma(int64(years)))
	return buf.Bytes()
}

// DescribeAssumptions lists assumptions in display form.
func DescribeAssumptions(a domain.Assumptions) []string {
	out := []string{
		fmt.Sprintf("Average wage growth: %s", FormatPercentage(a.AverageWageGrowth)),
		fmt.Sprintf("Benefit increase:    %s", FormatPercentage(a.BenefitIncrease)),
	}
	if a.WageBaseGrowth != nil {
		out = append(out, fmt.Sprintf("Wage base growth:    %s", FormatPercentage(*a.WageBaseGrowth)))
	}
	if a.Statement {
		out = append(out, "Real wage gain adjustment applied")
	}
	out = append(out, fmt.Sprintf("Projection:          %d through %d", a.StartYear, a.MaxYear))
	return out
}
