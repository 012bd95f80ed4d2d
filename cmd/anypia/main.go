package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/rgehrsitz/anypia/internal/config"
	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/store"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Environment variables consulted when the matching flag is not set.
const (
	envDatabase    = "ANYPIA_DB"
	envAssumptions = "ANYPIA_ASSUMPTIONS"
	envLawChange   = "ANYPIA_LAW_CHANGE"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "anypia %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.GoVersion + " " + bi.Main.Path
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "anypia",
		Short: "Social Security PIA and family maximum calculator",
		Long: "Computes the primary insurance amount and maximum family benefit of a worker " +
			"under every applicable method, present law or a proposed law change.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flagFromEnv(cmd, "db", envDatabase)
			flagFromEnv(cmd, "assumptions", envAssumptions)
			flagFromEnv(cmd, "law-change", envLawChange)
			return nil
		},
	}
	root.PersistentFlags().String("db", "", "SQLite database for run history (history is not kept when empty)")

	root.AddCommand(calculateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(taxesCmd())
	root.AddCommand(batchCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(versionCmd())
	return root
}

// flagFromEnv copies an environment value into a flag the user left unset.
func flagFromEnv(cmd *cobra.Command, name, env string) {
	f := cmd.Flags().Lookup(name)
	if f == nil || f.Changed {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		_ = cmd.Flags().Set(name, v)
	}
}

// loadDotEnv reads .env from the working directory when present.
func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// calcOptions are the settings shared by the commands that calculate.
type calcOptions struct {
	assumptionsFile string
	lawChangeFile   string
	debug           bool
}

func (o *calcOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.assumptionsFile, "assumptions", "", "Assumptions file overriding those in the case file")
	cmd.Flags().StringVar(&o.lawChangeFile, "law-change", "", "Law change file to calculate under instead of present law")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "Enable debug output for detailed calculations")
}

// calculator builds a calculator for a case, applying the assumption and law
// change overrides.
func (o *calcOptions) calculator(parser *config.InputParser, cf *config.CaseFile) (*calculation.Calculator, error) {
	return o.build(parser, cf.Assumptions, cf.LawChanges)
}

func (o *calcOptions) build(parser *config.InputParser, a domain.Assumptions, lc *domain.LawChangeArray) (*calculation.Calculator, error) {
	if o.assumptionsFile != "" {
		var err error
		if a, err = parser.LoadAssumptions(o.assumptionsFile); err != nil {
			return nil, err
		}
	}
	if o.lawChangeFile != "" {
		var err error
		if lc, err = parser.LoadLawChanges(o.lawChangeFile); err != nil {
			return nil, err
		}
	}
	calc, err := calculation.NewLawChangeCalculator(a, lc)
	if err != nil {
		return nil, err
	}
	if o.debug {
		calc.SetLogger(simpleCLILogger{})
	}
	return calc, nil
}

// openStore opens the history database named by --db, or returns nil when
// none is configured.
func openStore(cmd *cobra.Command) (*store.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

// expandInputs turns directory arguments into the YAML files they contain.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", config.ErrOpen, arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		var found []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			m, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, m...)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, errors.New("no case files found")
	}
	return files, nil
}

func toCase(cf *config.CaseFile) *calculation.Case {
	return &calculation.Case{ID: cf.ID, Worker: cf.Worker, Family: cf.Family}
}

func workerLabel(w *domain.WorkerData) string {
	if strings.TrimSpace(w.Name) != "" {
		return w.Name
	}
	return w.ID
}

func main() {
	if err := loadDotEnv(); err != nil {
		log.Print(err)
	}
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
