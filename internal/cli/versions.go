package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgporter/internal/config"
	"github.com/matzehuels/pkgporter/pkg/migrate"
)

// versionsCommand creates the versions command, which prints the migration
// plan for the source registry without touching the target.
func (c *CLI) versionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Print the versions a migration would process, in order",
		Example: `  pkgporter versions -r pypi -s https://pypi.org -p requests
  pkgporter versions -r npm -s https://registry.npmjs.org -p left-pad --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd, false)
			if err != nil {
				return err
			}

			store, err := openCache(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			spin := newSpinner(ctx, os.Stderr, "Fetching versions from "+cfg.Source.Host(), c.Interactive && !asJSON)
			spin.Start()
			plan, err := migrate.New(c.resolver(cfg, store, logger), nil, logger).Plan(ctx, cfg.MigrateOptions())
			spin.Stop()
			if err != nil {
				if !asJSON {
					hintFetchError(c.Out, cfg, err)
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				if plan == nil {
					plan = []string{}
				}
				return enc.Encode(plan)
			}

			printKeyValue(c.Out, "Package", cfg.Package.FullName()+" ("+cfg.RegistryType+")")
			printKeyValue(c.Out, "Registry", cfg.Source.URL)
			if len(plan) == 0 {
				printWarning(c.Out, "No versions found")
				return nil
			}
			fmt.Fprintln(c.Out, planTable(plan))
			printInfo(c.Out, "%s", planSummary(plan))
			return nil
		},
	}

	config.AddFlags(cmd.Flags(), true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as a JSON array")
	return cmd
}
