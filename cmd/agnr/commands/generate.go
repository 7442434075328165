package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dyluth/agnr/internal/listing"
	"github.com/dyluth/agnr/internal/metrics"
	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	minLength   int
	maxLength   int
	minWidth    int
	maxWidth    int
	workers     int
	symmetric   bool
	format      string
	output      string
	metricsFile string
	metricsAddr string
	quiet       bool
	store       storeFlags
}

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Enumerate canonical periodic edge patterns",
		Long: `Enumerate every canonical periodic edge pattern within the length and width
bounds, in increasing length order.

Lengths count slices. Widths are starting widths: every slice is between
2×min-width and 2×max-width wide. Patterns that merely repeat a shorter
pattern found earlier in the same run are dropped.

Bounds and output settings come from agnr.yml when present; flags override it.

Output Formats:
  jsonl - One tagged JSON record per line (default)
  pairs - One [[low,high],...] array per line
  names - One pattern name per line
  table - Human-readable table

Examples:
  # Lengths 2 to 10 with starting widths 1 to 3
  agnr generate --min-length 2 --max-length 10 --min-width 1 --max-width 3

  # Only patterns with a mirror or shift symmetry, as names
  agnr generate --symmetric -f names

  # Store results in a Redis catalog and export metrics
  agnr generate --redis-url redis://localhost:6379 --metrics-file agnr.prom

  # Watch a long run from Prometheus
  agnr generate --max-length 20 --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.minLength, "min-length", 0, "Shortest pattern, in slices (overrides generation.min_length)")
	f.IntVar(&o.maxLength, "max-length", 0, "Longest pattern, in slices (overrides generation.max_length)")
	f.IntVar(&o.minWidth, "min-width", 0, "Smallest starting width (overrides generation.min_width)")
	f.IntVar(&o.maxWidth, "max-width", 0, "Largest starting width (overrides generation.max_width)")
	f.IntVarP(&o.workers, "workers", "w", 0, "Concurrent searches per length, 0 = one per CPU")
	f.BoolVar(&o.symmetric, "symmetric", false, "Keep only patterns with a non-identity symmetry")
	f.StringVarP(&o.format, "format", "f", "", "Output format: jsonl, pairs, names or table")
	f.StringVarP(&o.output, "output", "o", "", "Write results to this file instead of stdout")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address during the run")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "Suppress progress logging")
	o.store.register(cmd)

	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	p := statusPrinter(cmd)

	cfg, err := loadConfig(cmd, p)
	if err != nil {
		return err
	}

	// Explicit flags win over the config file
	gen := *cfg.Generation
	flags := cmd.Flags()
	if flags.Changed("min-length") {
		gen.MinLength = o.minLength
	}
	if flags.Changed("max-length") {
		gen.MaxLength = o.maxLength
	}
	if flags.Changed("min-width") {
		gen.MinWidth = o.minWidth
	}
	if flags.Changed("max-width") {
		gen.MaxWidth = o.maxWidth
	}
	if flags.Changed("workers") {
		gen.Workers = o.workers
	}
	if flags.Changed("symmetric") {
		gen.SymmetricOnly = o.symmetric
	}
	if err := gen.Validate(); err != nil {
		return p.Error(
			"invalid generation bounds",
			err.Error(),
			[]string{"Lengths and widths must be positive, with each minimum at most its maximum"},
		)
	}

	formatName := cfg.Output.Format
	if o.format != "" {
		formatName = o.format
	}
	format, err := listing.ParseFormat(formatName)
	if err != nil {
		return p.Error("invalid output format", err.Error(), []string{"Valid formats: jsonl, pairs, names, table"})
	}

	outputPath := cfg.Output.Path
	if o.output != "" {
		outputPath = o.output
	}
	metricsPath := cfg.Metrics.Path
	if o.metricsFile != "" {
		metricsPath = o.metricsFile
	}
	metricsAddr := cfg.Metrics.Addr
	if o.metricsAddr != "" {
		metricsAddr = o.metricsAddr
	}

	opts := gen.Options()
	if !o.quiet {
		opts.Logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	}
	var recorder *metrics.Recorder
	if metricsPath != "" || metricsAddr != "" {
		recorder = metrics.NewRecorder()
		opts.Observer = recorder
	}

	// Connect before the search so a bad catalog fails fast
	var store *catalog.Client
	if url, namespace := o.store.resolve(cfg); url != "" {
		store, err = openCatalog(ctx, p, url, namespace)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if metricsAddr != "" {
		var pinger metrics.Pinger
		if store != nil {
			pinger = store
		}
		srv := metrics.NewServer(recorder, pinger)
		if err := srv.Start(metricsAddr); err != nil {
			return p.Error("failed to start metrics server", err.Error(), []string{"Choose a free address, e.g. --metrics-addr :9091"})
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		if opts.Logger != nil {
			opts.Logger.Printf("[Metrics] serving /metrics and /healthz on %s", srv.Addr())
		}
	}

	run := catalog.NewRun(opts)
	res, err := ribbon.Enumerate(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return p.Error("generation cancelled", "The run was interrupted before all lengths finished; nothing was written.", nil)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	records := make([]ribbon.Record, 0, res.Specs.Len())
	for _, c := range res.Specs.Sorted() {
		records = append(records, ribbon.NewRecord(c))
	}
	title := fmt.Sprintf("lengths %d-%d, widths %d-%d", gen.MinLength, gen.MaxLength, gen.MinWidth, gen.MaxWidth)
	if err := writeRecords(cmd.OutOrStdout(), outputPath, format, records, title); err != nil {
		return p.ErrorWithContext("failed to write results", err.Error(), map[string]string{"Output": outputPath}, nil)
	}

	if store != nil {
		if err := storeResult(ctx, store, run, res, opts.Logger); err != nil {
			return p.ErrorWithContext(
				"failed to store results",
				err.Error(),
				map[string]string{"Namespace": store.Namespace()},
				[]string{"Results were written to the output; rerun with the same bounds to retry storage"},
			)
		}
	}

	if metricsPath != "" {
		if err := recorder.WriteTextfile(metricsPath); err != nil {
			return p.Error("failed to write metrics", err.Error(), nil)
		}
	}

	if !o.quiet {
		p.Success("Generated %d canonical patterns (%s)\n", res.Specs.Len(), title)
	}
	return nil
}

// writeRecords writes to path, or to stdout when path is empty or "-".
func writeRecords(stdout io.Writer, path string, format listing.OutputFormat, records []ribbon.Record, title string) error {
	if path == "" || path == "-" {
		return listing.Write(stdout, format, records, title)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := listing.Write(w, format, records, title); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}

// storeResult writes every nameable pattern and the run record to the catalog.
func storeResult(ctx context.Context, store *catalog.Client, run *catalog.Run, res *ribbon.Result, logger *log.Logger) error {
	entries, skipped := catalog.EntriesFromResult(res, run.ID)
	if skipped > 0 && logger != nil {
		logger.Printf("[Catalog] skipping %d patterns with coordinates beyond the name alphabet", skipped)
	}

	added, err := store.PutEntries(ctx, entries)
	if err != nil {
		return err
	}

	run.Finish(res.Specs.Len())
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}

	if logger != nil {
		logger.Printf("[Catalog] stored %d patterns (%d new) in namespace %s, run %s",
			len(entries), added, store.Namespace(), run.ID)
	}
	return nil
}
