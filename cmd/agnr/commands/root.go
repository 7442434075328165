package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/agnr/internal/config"
	"github.com/dyluth/agnr/internal/printer"
	"github.com/spf13/cobra"
)

var versionString = "dev"

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agnr",
		Short: "agnr - armchair graphene nanoribbon boundary enumerator",
		Long: `agnr enumerates the distinct periodic edge patterns of armchair graphene
nanoribbons. A pattern is a sequence of slices, each a (low, high) pair of
atom-row coordinates; consecutive slices differ by one widen, narrow or shift
step, and the last slice steps back onto the first.

Every pattern is reported once, in canonical form, under its mirror images and
cyclic shifts. Results can be written as JSON lines, pair lists, names or a
table, and stored in a Redis catalog for later inspection.`,
		Version: versionString,
		// Prevent silent success when unknown flags are passed to root command
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	root.PersistentFlags().String("config", "", fmt.Sprintf("Path to configuration file (default %q if present)", config.DefaultPath))

	root.AddCommand(
		newGenerateCmd(),
		newNameCmd(),
		newDecodeCmd(),
		newListCmd(),
		newShowCmd(),
		newRunsCmd(),
		newWatchCmd(),
		newInitCmd(),
	)
	return root
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// newPrinter writes status to stdout. Commands whose stdout carries data use
// statusPrinter instead.
func newPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// statusPrinter sends every message to stderr so stdout stays machine-readable.
func statusPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.ErrOrStderr(), cmd.ErrOrStderr())
}

// loadConfig reads --config if given, else agnr.yml when it exists, else defaults.
func loadConfig(cmd *cobra.Command, p *printer.Printer) (*config.AgnrConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.AgnrConfig
	var err error
	if path == "" {
		path = config.DefaultPath
		cfg, err = config.LoadOrDefault(path)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, p.ErrorWithContext(
			"configuration error",
			err.Error(),
			map[string]string{"Path": path},
			[]string{
				"Fix the file and retry",
				"Write a fresh default:\n  agnr init --force",
			},
		)
	}
	return cfg, nil
}
