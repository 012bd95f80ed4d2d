// Package output renders calculation results.
package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/shopspring/decimal"
)

// Report is one calculated case ready for rendering.
type Report struct {
	Case   *calculation.Case
	Result *calculation.Result
	// Assumptions lists the projection assumptions in display form.
	Assumptions []string
}

// Formatter renders reports in one format.
type Formatter interface {
	Name() string
	Format(reports []*Report) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(reports []*Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(reports []*Report) ([]byte, error) { return f.F(reports) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{},
	"csv":     CSVFormatter{},
}

var formatAliases = map[string]string{
	"text":  "console",
	"table": "console",
	"txt":   "console",
}

// GetFormatterByName returns the formatter registered under name or alias.
func GetFormatterByName(name string) (Formatter, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[name]; ok {
		name = alias
	}
	f, ok := formatters[name]
	return f, ok
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders reports with f and writes them to w.
func WriteFormatted(w io.Writer, f Formatter, reports ...*Report) error {
	data, err := f.Format(reports)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// FormatCurrency formats an amount as dollars and cents with thousands
// separators.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	dot := strings.IndexByte(s, '.')
	whole, err := strconv.ParseInt(s[:dot], 10, 64)
	if err != nil {
		return "$" + s
	}
	out := "$" + humanize.Comma(whole) + s[dot:]
	if amount.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

// FormatPercentage formats a fraction as a percentage.
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
