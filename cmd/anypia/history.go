package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/anypia/internal/output"
)

func historyCmd() *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history [case-id]",
		Short: "List stored calculation runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("history needs a database: set --db or ANYPIA_DB")
			}
			defer db.Close()
			out := cmd.OutOrStdout()

			if runID != "" {
				rows, err := db.MethodResults(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					return fmt.Errorf("run %s not found", runID)
				}
				fmt.Fprintf(out, "%-26s %6s %12s %12s %12s\n", "METHOD", "ELIG", "AIME/AMW", "PIA BEN", "MFB BEN")
				for _, r := range rows {
					mark := " "
					if r.Governs {
						mark = "*"
					}
					fmt.Fprintf(out, "%s%-25s %6d %12s %12s %12s\n", mark, r.Method, r.EligYear,
						output.FormatCurrency(r.Aime), output.FormatCurrency(r.PiaBen), output.FormatCurrency(r.MfbBen))
				}
				return nil
			}

			caseID := ""
			if len(args) == 1 {
				caseID = args[0]
			}
			runs, err := db.ListRuns(cmd.Context(), caseID, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs stored")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %-12s %-16s %-24s PIA %s  MFB %s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.CaseID, r.Law, r.Governing,
					output.FormatCurrency(r.Pia), output.FormatCurrency(r.Mfb))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the methods of one run")
	return cmd
}
