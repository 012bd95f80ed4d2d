package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/compare"
	"github.com/rgehrsitz/anypia/internal/config"
)

func compareCmd() *cobra.Command {
	var assumptionsFile string
	var alternatives []string
	var format string
	var debug bool

	cmd := &cobra.Command{
		Use:   "compare [case-file...]",
		Short: "Compare present law with one or more law changes",
		Long: "Calculates each case under present law and under every law change given with " +
			"--alternative, or the case's own law change when none is given, and reports the " +
			"differences in PIA, family maximum and lifetime payroll taxes.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "console", "json", "csv":
			default:
				return fmt.Errorf("unknown format %q (available: table, json, csv)", format)
			}
			files, err := expandInputs(args)
			if err != nil {
				return err
			}

			parser := config.NewInputParser()
			var sets []*compare.ComparisonSet
			for _, file := range files {
				cf, err := parser.LoadCase(file)
				if err != nil {
					return err
				}
				a := cf.Assumptions
				if assumptionsFile != "" {
					if a, err = parser.LoadAssumptions(assumptionsFile); err != nil {
						return err
					}
				}

				base, err := calculation.NewCalculator(a)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				var alts []*calculation.Calculator
				for _, lcFile := range alternatives {
					lc, err := parser.LoadLawChanges(lcFile)
					if err != nil {
						return err
					}
					calc, err := calculation.NewLawChangeCalculator(a, lc)
					if err != nil {
						return fmt.Errorf("%s: %w", lcFile, err)
					}
					alts = append(alts, calc)
				}
				if len(alts) == 0 && cf.LawChanges != nil {
					calc, err := calculation.NewLawChangeCalculator(a, cf.LawChanges)
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}
					alts = append(alts, calc)
				}
				if len(alts) == 0 {
					return errors.New("nothing to compare: pass --alternative or a case with law changes")
				}
				if debug {
					base.SetLogger(simpleCLILogger{})
					for _, c := range alts {
						c.SetLogger(simpleCLILogger{})
					}
				}

				set, err := compare.NewCompareEngine(base, alts...).Compare(cmd.Context(), toCase(cf))
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				set.Worker = workerLabel(cf.Worker)
				sets = append(sets, set)
			}
			return writeComparison(cmd.OutOrStdout(), format, sets)
		},
	}
	cmd.Flags().StringVar(&assumptionsFile, "assumptions", "", "Assumptions file overriding those in the case file")
	cmd.Flags().StringArrayVarP(&alternatives, "alternative", "a", nil, "Law change file to compare against present law (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, csv)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug output for detailed calculations")
	return cmd
}

func writeComparison(w io.Writer, format string, sets []*compare.ComparisonSet) error {
	var out string
	var err error
	switch format {
	case "json":
		out, err = (&compare.JSONFormatter{Pretty: true}).Format(sets)
	case "csv":
		out, err = (&compare.CSVFormatter{}).Format(sets)
	default:
		out = (&compare.TableFormatter{}).Format(sets)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
