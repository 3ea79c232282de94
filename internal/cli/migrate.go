package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgporter/internal/config"
	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/migrate"
	"github.com/matzehuels/pkgporter/pkg/registries"
	"github.com/matzehuels/pkgporter/pkg/registry"
)

// migrateCommand creates the migrate command.
func (c *CLI) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every version of a package to the target registry",
		Long: `Fetch all versions of a package from the source registry, order them by
semantic version (non-semver versions last) and publish each one to the
target registry, oldest first.

The run stops at the first failure unless --keep-going is set. Versions
published before a failure stay published.`,
		Example: `  # Preview an npm migration
  pkgporter migrate -r npm -s https://registry.npmjs.org -t https://npm.example.com -p left-pad --dry-run

  # Migrate a scoped package, tokens from the environment
  SOURCE_AUTH_TOKEN=... TARGET_AUTH_TOKEN=... pkgporter migrate -r npm --scope @acme -p utils -s ... -t ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMigrate(cmd)
		},
	}

	config.AddFlags(cmd.Flags(), false)
	return cmd
}

func (c *CLI) runMigrate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd, true)
	if err != nil {
		return err
	}

	store, err := openCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	logger.Debug("migration configured", "config", cfg.Summary())
	printKeyValue(c.Out, "Package", cfg.Package.FullName()+" ("+cfg.RegistryType+")")
	printRoute(c.Out, cfg.Source.URL, cfg.Target.URL)

	if !cfg.DryRun && !cfg.Yes && c.Interactive {
		ok, err := confirm(os.Stdin, c.Out, NewConfirmModel(
			fmt.Sprintf("Publish all versions of %s to %s?", cfg.Package.FullName(), cfg.Target.Host()),
			"Versions already on the target registry will fail to publish.",
			"Use --dry-run to preview or --yes to skip this prompt.",
		))
		if err != nil {
			return err
		}
		if !ok {
			printWarning(c.Out, "Aborted")
			return nil
		}
	}

	spin := newSpinner(ctx, os.Stderr, "Fetching versions from "+cfg.Source.Host(), c.Interactive)
	spin.Start()
	defer spin.Stop()

	m := migrate.New(c.resolver(cfg, store, logger), &reporter{w: c.Out, spinner: spin, table: cfg.Verbose}, logger)
	prog := newProgress(logger)

	summary, err := m.Run(ctx, cfg.MigrateOptions())
	spin.Stop()
	printSummary(c.Out, cfg, summary)
	if err != nil {
		hintFetchError(c.Out, cfg, err)
		return err
	}

	if cfg.DryRun {
		prog.done(fmt.Sprintf("Dry run of %s finished", cfg.Package.FullName()))
		printNextStep(c.Out, "Run without --dry-run to migrate", "pkgporter migrate")
		return nil
	}
	prog.done(fmt.Sprintf("Migrated %d %s", summary.Count(migrate.StatusMigrated),
		plural(summary.Count(migrate.StatusMigrated), "version", "versions")))
	return nil
}

// resolver builds backends that share the CLI's runner, cache and logger.
func (c *CLI) resolver(cfg *config.Config, store cache.Cache, logger *log.Logger) migrate.Resolver {
	return func(tag string) (registry.Backend, error) {
		return registries.Resolve(tag, registries.Options{
			Runner:      c.Runner,
			Cache:       store,
			CacheTTL:    cfg.CacheTTL,
			Logger:      logger,
			TempDir:     cfg.WorkDir,
			PublishArgs: cfg.PublishArgs,
		})
	}
}

// hintFetchError explains the usual causes of a missing source package.
func hintFetchError(w io.Writer, cfg *config.Config, err error) {
	if !registry.IsNotFound(err) {
		return
	}
	printWarning(w, "%s was not found on %s", cfg.Package.FullName(), cfg.Source.Host())
	printDetail(w, "Check the package name and scope, and that SOURCE_AUTH_TOKEN can read private packages")
}

// printSummary prints the tally of a run that got as far as a plan.
func printSummary(w io.Writer, cfg *config.Config, s *migrate.Summary) {
	if s == nil || s.Plan == nil {
		return
	}
	migrated := s.Count(migrate.StatusMigrated)
	failed := s.Count(migrate.StatusFailed)
	switch {
	case cfg.DryRun:
		printSuccess(w, "Dry run complete: %d %s would be migrated",
			len(s.Plan), plural(len(s.Plan), "version", "versions"))
	case failed == 0:
		printSuccess(w, "Migrated %d of %d versions", migrated, len(s.Plan))
	default:
		printError(w, "Migrated %d of %d versions, %d failed", migrated, len(s.Plan), failed)
	}
	printDetail(w, "Run %s", s.RunID)
}
