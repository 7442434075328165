package commands

import (
	"github.com/dyluth/agnr/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		store     storeFlags
		outFormat string
		count     int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream patterns as they are stored",
		Long: `Follow a catalog and print each pattern as a generate run stores it.

Output Formats:
  default - Timestamped human-readable lines
  json    - Line-delimited JSON for programmatic processing

Examples:
  agnr watch --redis-url redis://localhost:6379
  agnr watch -o json --count 100 > first100.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := statusPrinter(cmd)

			format, err := watch.ParseFormat(outFormat)
			if err != nil {
				return p.Error("invalid output format", err.Error(), []string{"Valid formats: default, json"})
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

			return watch.StreamSpecs(ctx, client, format, count, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	store.register(cmd)
	cmd.Flags().StringVarP(&outFormat, "output", "o", string(watch.OutputFormatDefault), "Output format (default or json)")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many patterns, 0 = run until interrupted")
	return cmd
}
