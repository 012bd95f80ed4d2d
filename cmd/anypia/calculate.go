package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/config"
	"github.com/rgehrsitz/anypia/internal/output"
)

func formatterFor(name string) (output.Formatter, error) {
	f, ok := output.GetFormatterByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(output.AvailableFormatterNames(), ", "))
	}
	return f, nil
}

func calculateCmd() *cobra.Command {
	var opts calcOptions
	var format string

	cmd := &cobra.Command{
		Use:   "calculate [case-file...]",
		Short: "Calculate the PIA and family maximum of one or more cases",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatterFor(format)
			if err != nil {
				return err
			}
			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			parser := config.NewInputParser()
			var reports []*output.Report
			for _, file := range files {
				cf, err := parser.LoadCase(file)
				if err != nil {
					return err
				}
				calc, err := opts.calculator(parser, cf)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				cs := toCase(cf)
				res, err := calc.Calculate(cmd.Context(), cs)
				if err != nil {
					return err
				}
				reports = append(reports, &output.Report{
					Case:        cs,
					Result:      res,
					Assumptions: output.DescribeAssumptions(calc.Context().Assumptions),
				})
				if db != nil {
					run, err := db.SaveRun(cmd.Context(), res, workerLabel(cf.Worker), cf.Worker.Benefit.String())
					if err != nil {
						return fmt.Errorf("save run: %w", err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", run.ID)
				}
			}
			return output.WriteFormatted(cmd.OutOrStdout(), f, reports...)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, json, csv)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [case-file...]",
		Short: "Validate case files without calculating",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			parser := config.NewInputParser()
			failed := 0
			for _, file := range files {
				cf, err := parser.LoadCase(file)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", file, err)
					continue
				}
				law := "present law"
				if cf.LawChanges != nil {
					law = "law change"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: case %s, %s, %d family members, %s\n",
					file, cf.ID, cf.Worker.Benefit, len(cf.Family), law)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d case files failed validation", failed, len(files))
			}
			return nil
		},
	}
}

func taxesCmd() *cobra.Command {
	var opts calcOptions
	var gross bool

	cmd := &cobra.Command{
		Use:   "taxes [case-file]",
		Short: "Compute lifetime payroll taxes on a worker's earnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			cf, err := parser.LoadCase(args[0])
			if err != nil {
				return err
			}
			calc, err := opts.calculator(parser, cf)
			if err != nil {
				return err
			}
			earnings, err := calc.ProjectEarnings(cf.Worker)
			if err != nil {
				return err
			}
			w := *cf.Worker
			w.Earnings = earnings

			tc := calculation.NewTaxCalculator(calc.Tables())
			tc.Gross = gross
			rates := "net"
			if gross {
				rates = "gross"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lifetime payroll taxes for %s (%s rates, %s)\n\n", workerLabel(&w), rates, calc.LawName())
			_, err = cmd.OutOrStdout().Write(output.FormatTaxes(tc.LifetimeTaxes(&w)))
			return err
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&gross, "gross", false, "Use statutory rates before tax credits")
	return cmd
}
