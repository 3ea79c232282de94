package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgporter/internal/config"
	"github.com/matzehuels/pkgporter/pkg/buildinfo"
	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/shell"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pkgporter"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Runner executes npm, pip and twine. Tests replace it with a fake.
	Runner shell.Runner
	// Out receives progress output.
	Out io.Writer
	// Interactive enables the confirmation prompt and the spinner.
	Interactive bool

	configFile string
	envFile    string
	verbose    *bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		Runner:      shell.NewExecRunner(),
		Out:         os.Stdout,
		Interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pkgporter migrates package versions between registries",
		Long: `pkgporter copies every published version of a package from one registry to
another of the same ecosystem (npm to npm, PyPI to PyPI), oldest first.

Settings come from flags, the environment, a .env file and pkgporter.toml,
in that order of precedence. Environment variables:

` + config.EnvHelp(),
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if *c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	c.verbose = config.AddVerboseFlag(flags)
	flags.StringVar(&c.configFile, "config", "", "TOML configuration file (default: ./"+config.DefaultConfigFile+" if present)")
	flags.StringVar(&c.envFile, "env-file", "", "dotenv file (default: ./"+config.DefaultEnvFile+" if present)")

	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration for cmd and applies its verbosity.
func (c *CLI) loadConfig(cmd *cobra.Command, requireTarget bool) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile:    c.configFile,
		EnvFile:       c.envFile,
		Flags:         cmd.Flags(),
		RequireTarget: requireTarget,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
		fmt.Fprint(c.Out, StyleDim.Render(cfg.String())+"\n")
	}
	return cfg, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// openCache opens the metadata cache selected by cfg.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), appName)
	}
	return cache.Open(ctx, cfg.CacheOptions(dir))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pkgporter/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
