package commands

import (
	"errors"
	"fmt"

	"github.com/dyluth/agnr/internal/config"
	"github.com/dyluth/agnr/internal/scaffold"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default agnr.yml",
		Long: `Write a commented default configuration file.

The file is written to --config if given, else ./agnr.yml. Use --force to
replace an existing file (WARNING: discards its settings).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)

			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultPath
			}

			err := scaffold.Initialize(path, force)
			var exists *scaffold.ExistsError
			if errors.As(err, &exists) {
				return p.Error(
					"configuration already exists",
					fmt.Sprintf("Found existing: %s", exists.Path),
					[]string{"Use 'agnr init --force' to overwrite it"},
				)
			}
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}

			p.Success("Created %s\n", path)
			p.Info("\nNext steps:\n")
			p.Info("  1. Adjust the generation bounds in %s\n", path)
			p.Info("  2. Run 'agnr generate'\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}
