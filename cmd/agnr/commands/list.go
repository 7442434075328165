package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/agnr/internal/listing"
	"github.com/dyluth/agnr/internal/resolver"
	"github.com/dyluth/agnr/internal/timespec"
	"github.com/dyluth/agnr/internal/watch"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		store        storeFlags
		filter       listing.Filter
		outFormat    string
		since, until string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns stored in the catalog",
		Long: `List the patterns stored in a Redis catalog, ordered by length then name.

Filters:
  --length     - Only patterns with this many slices
  --symmetric  - Only patterns with a mirror or shift symmetry
  --match      - Only names matching a glob pattern ("41*", "4?5")
  --since      - Only patterns stored after this time ("1h", RFC3339)
  --until      - Only patterns stored before this time

Output Formats:
  table - Human-readable table (default)
  jsonl - Line-delimited JSON including run IDs
  pairs - One [[low,high],...] array per line
  names - One name per line

Examples:
  agnr list --redis-url redis://localhost:6379
  agnr list --length 6 --symmetric -o names
  agnr list --since 30m -o jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := statusPrinter(cmd)

			format, err := listing.ParseFormat(outFormat)
			if err != nil {
				return p.Error("invalid output format", err.Error(), []string{"Valid formats: table, jsonl, pairs, names"})
			}
			if err := filter.Validate(); err != nil {
				return p.Error("invalid filter", err.Error(), nil)
			}
			if filter.Stored, err = timespec.ParseRange(since, until, time.Now()); err != nil {
				return p.Error("invalid time range", err.Error(), []string{"Use a duration like '1h30m' or RFC3339 like '2026-10-18T13:00:00Z'"})
			}

			cfg, err := loadConfig(cmd, p)
			if err != nil {
				return err
			}
			url, namespace := store.resolve(cfg)
			client, err := openCatalog(ctx, p, url, namespace)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := listing.ListEntries(ctx, client, format, &filter, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to list patterns: %w", err)
			}
			return nil
		},
	}

	store.register(cmd)
	cmd.Flags().IntVar(&filter.Length, "length", 0, "Filter by length in slices")
	cmd.Flags().BoolVar(&filter.SymmetricOnly, "symmetric", false, "Only patterns with a non-identity symmetry")
	cmd.Flags().StringVar(&filter.NameGlob, "match", "", "Filter by name (glob pattern)")
	cmd.Flags().StringVar(&since, "since", "", "Only patterns stored after this time (duration or RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "Only patterns stored before this time (duration or RFC3339)")
	cmd.Flags().StringVarP(&outFormat, "output", "o", string(listing.OutputFormatTable), "Output format: table, jsonl, pairs or names")
	return cmd
}

func newShowCmd() *cobra.Command {
	var (
		store storeFlags
		wait  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show one stored pattern as JSON",
		Long: `Display the complete catalog entry for a pattern name as pretty-printed JSON.

With --wait, poll until the pattern is stored or the duration passes, which is
useful while a generate run is still writing to the catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := statusPrinter(cmd)
			name := args[0]

			cfg, err := loadConfig(cmd, p)
			if err != nil {
				return err
			}
			url, namespace := store.resolve(cfg)
			client, err := openCatalog(ctx, p, url, namespace)
			if err != nil {
				return err
			}
			defer client.Close()

			if wait > 0 {
				entry, err := watch.PollForEntry(ctx, client, name, wait)
				if err != nil {
					return p.Error(fmt.Sprintf("pattern '%s' not found", name), err.Error(), nil)
				}
				return listing.FormatSingleJSON(cmd.OutOrStdout(), entry)
			}

			err = listing.ShowEntry(ctx, client, name, cmd.OutOrStdout())
			if listing.IsNotFound(err) {
				return p.Error(
					fmt.Sprintf("pattern '%s' not found", name),
					err.Error(),
					[]string{
						"List stored patterns:\n  agnr list",
						fmt.Sprintf("Wait for a running generate:\n  agnr show %s --wait 30s", name),
					},
				)
			}
			if err != nil {
				return p.Error("failed to show pattern", err.Error(), nil)
			}
			return nil
		},
	}

	store.register(cmd)
	cmd.Flags().DurationVar(&wait, "wait", 0, "Poll for the pattern for up to this long")
	return cmd
}

func newRunsCmd() *cobra.Command {
	var (
		store        storeFlags
		since, until string
	)
	cmd := &cobra.Command{
		Use:   "runs [RUN_ID]",
		Short: "List recorded generation runs, or show one",
		Long: `List the generation runs recorded in the catalog, most recent first.

Given a run ID, or a unique prefix of at least 6 characters, print that run as
JSON instead.

Examples:
  agnr runs --since 24h
  agnr runs 3f2a9c`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := statusPrinter(cmd)

			started, err := timespec.ParseRange(since, until, time.Now())
			if err != nil {
				return p.Error("invalid time range", err.Error(), []string{"Use a duration like '1h30m' or RFC3339 like '2026-10-18T13:00:00Z'"})
			}

			cfg, err := loadConfig(cmd, p)
			if err != nil {
				return err
			}
			url, namespace := store.resolve(cfg)
			client, err := openCatalog(ctx, p, url, namespace)
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 0 {
				return listing.ListRuns(ctx, client, started, cmd.OutOrStdout())
			}

			id, err := resolver.ResolveRunID(ctx, client, args[0])
			var ambiguous *resolver.AmbiguousError
			switch {
			case errors.As(err, &ambiguous):
				return p.Error("ambiguous run ID", ambiguous.Describe(), []string{"Use a longer prefix to identify the run"})
			case resolver.IsNotFoundError(err):
				return p.Error("run not found", err.Error(), []string{"List recorded runs:\n  agnr runs"})
			case err != nil:
				return p.Error("invalid run ID", err.Error(), nil)
			}

			run, err := client.GetRun(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to read run: %w", err)
			}
			return listing.FormatSingleJSON(cmd.OutOrStdout(), run)
		},
	}
	store.register(cmd)
	cmd.Flags().StringVar(&since, "since", "", "Only runs started after this time (duration or RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "Only runs started before this time (duration or RFC3339)")
	return cmd
}
