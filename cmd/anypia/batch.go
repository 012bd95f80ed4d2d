package main

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/config"
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/output"
)

func batchCmd() *cobra.Command {
	var opts calcOptions
	var format string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch [case-file-or-dir...]",
		Short: "Calculate many cases in parallel under one set of assumptions",
		Long: "Calculates every case under the assumptions given by --assumptions (or the defaults) " +
			"and the law change given by --law-change. Assumptions and law changes in the case files are ignored.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatterFor(format)
			if err != nil {
				return err
			}
			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			parser := config.NewInputParser()
			calc, err := opts.build(parser, domain.DefaultAssumptions(), nil)
			if err != nil {
				return err
			}

			cases := make([]*calculation.Case, 0, len(files))
			for _, file := range files {
				cf, err := parser.LoadCase(file)
				if err != nil {
					return err
				}
				cs := toCase(cf)
				if cs.ID == "" {
					cs.ID = file
				}
				cases = append(cases, cs)
			}

			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			batchID := uuid.NewString()
			assumptions := output.DescribeAssumptions(calc.Context().Assumptions)
			var reports []*output.Report
			failed := 0
			for _, br := range calc.CalculateBatch(cmd.Context(), cases, workers) {
				if br.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "case %s: %v\n", br.Case.ID, br.Err)
					continue
				}
				reports = append(reports, &output.Report{Case: br.Case, Result: br.Result, Assumptions: assumptions})
				if db != nil {
					w := br.Case.Worker
					if _, err := db.SaveRun(cmd.Context(), br.Result, workerLabel(w), w.Benefit.String()); err != nil {
						return fmt.Errorf("save run: %w", err)
					}
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "batch %s: %d calculated, %d failed\n", batchID, len(reports), failed)
			if err := output.WriteFormatted(cmd.OutOrStdout(), f, reports...); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(cases))
			}
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format (console, json, csv)")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of cases calculated at once")
	return cmd
}
