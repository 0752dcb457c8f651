// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-lookup/internal/backend"
	"github.com/pdiddy/research-lookup/internal/queryfile"
	"github.com/pdiddy/research-lookup/internal/report"
	"github.com/pdiddy/research-lookup/internal/router"
	"github.com/pdiddy/research-lookup/internal/secrets"
	"github.com/pdiddy/research-lookup/pkg/types"
)

// secretsDir is where key files are read from when the environment has no
// key. Tests point it at a temporary directory.
var secretsDir = secrets.DefaultDir

// getenv reads credentials. Tests replace it.
var getenv = os.Getenv

func init() {
	addLookupFlags(rootCmd.Flags())

	_ = viper.BindPFlag("force_backend", rootCmd.Flags().Lookup("force-backend"))
	_ = viper.BindPFlag("delay", rootCmd.Flags().Lookup("delay"))
	_ = viper.BindPFlag("concurrency", rootCmd.Flags().Lookup("concurrency"))
}

func addLookupFlags(f *pflag.FlagSet) {
	f.StringArray("batch", nil, "run multiple queries; repeatable, and arguments after it are queries too")
	f.String("batch-file", "", "read queries from a file (one per line, or a YAML list)")
	f.String("force-backend", "", "force a backend: parallel (general) or perplexity (specialist)")
	f.Bool("json", false, "output as JSON (same as --format json)")
	f.String("format", "text", "output format: text, json, yaml, or csl")
	f.StringP("output", "o", "", "write output to file")
	f.Duration("delay", types.DefaultLookupConfig().Delay, "delay between consecutive batch queries")
	f.Int("concurrency", 1, "maximum batch queries in flight")
}

func runLookup(cmd *cobra.Command, args []string) error {
	creds, store, err := secrets.Credentials(secretsDir, getenv)
	if err != nil {
		return err
	}
	if len(store) > 0 {
		fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", store.Names())
	}
	if !creds.Availability().Any() {
		fmt.Fprintln(os.Stderr, "Error: No API keys found. Set at least one:")
		fmt.Fprintln(os.Stderr, "  export PARALLEL_API_KEY='...'    (primary - Parallel Chat API)")
		fmt.Fprintln(os.Stderr, "  export OPENROUTER_API_KEY='...'   (fallback - Perplexity academic)")
		return errNoCredentials
	}

	queries, batch, err := collectQueries(cmd, args)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		_ = cmd.Help()
		return errNoQuery
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadLookupConfig(viper.GetViper())
	if err != nil {
		return err
	}

	r, err := newRouter(cfg, creds)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var results []types.LookupResult
	if batch {
		fmt.Fprintf(os.Stderr, "Running batch research for %d queries...\n", len(queries))
		results = router.NewBatchRunner(r, scheduler(cfg), logger).Run(ctx, queries)
	} else {
		fmt.Fprintf(os.Stderr, "Researching: %s\n", queries[0])
		results = []types.LookupResult{r.Lookup(ctx, queries[0])}
	}

	return writeResults(cmd, format, results)
}

// collectQueries gathers queries from the positional arguments, --batch, and
// --batch-file. In batch mode every positional argument is its own query, so
// "--batch q1 q2 q3" runs three queries; otherwise the arguments are joined
// into one. batch reports whether the batch flags were used.
func collectQueries(cmd *cobra.Command, args []string) (queries []string, batch bool, err error) {
	list, _ := cmd.Flags().GetStringArray("batch")
	path, _ := cmd.Flags().GetString("batch-file")
	batch = len(list) > 0 || path != ""

	if batch {
		for _, q := range append(list, args...) {
			if q = strings.TrimSpace(q); q != "" {
				queries = append(queries, q)
			}
		}
	}
	if path != "" {
		fromFile, err := queryfile.Read(path)
		if err != nil {
			return nil, false, err
		}
		queries = append(queries, fromFile...)
	}
	if batch {
		return queries, true, nil
	}

	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		return []string{q}, false, nil
	}
	return nil, false, nil
}

func outputFormat(cmd *cobra.Command) (report.Format, error) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return report.FormatJSON, nil
	}
	name, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(name)
}

// newRouter builds adapters for the configured credentials and a router
// over them.
func newRouter(cfg types.LookupConfig, creds backend.Credentials) (*router.Router, error) {
	adapters, err := backend.FromConfig(cfg, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("configuring backends: %w", err)
	}
	return router.New(adapters,
		router.WithSelector(router.NewSelector(cfg.AcademicKeywords)),
		router.WithForcedBackend(cfg.ForceBackend),
		router.WithLogger(logger),
	), nil
}

// scheduler runs batches sequentially unless concurrency is raised.
func scheduler(cfg types.LookupConfig) router.Scheduler {
	if cfg.Concurrency > 1 {
		return router.BoundedScheduler{Limit: cfg.Concurrency, Delay: cfg.Delay}
	}
	return router.SequentialScheduler{Delay: cfg.Delay}
}

// writeResults renders results to --output when set, otherwise to stdout.
func writeResults(cmd *cobra.Command, format report.Format, results []types.LookupResult) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return report.Write(cmd.OutOrStdout(), format, results)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := report.Write(f, format, results); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Results written to %s\n", path)
	return nil
}
