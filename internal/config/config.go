// Package config loads the pkgporter run configuration.
//
// Values are layered, highest precedence first:
//
//  1. command-line flags
//  2. process environment (SOURCE_REGISTRY, TARGET_REGISTRY, ...)
//  3. a dotenv file (.env by default)
//  4. a TOML file (pkgporter.toml by default)
//
// The result is an immutable [Config] snapshot that has been validated and
// normalised once; nothing downstream re-checks URLs or names.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/migrate"
	"github.com/matzehuels/pkgporter/pkg/registry"
)

// Defaults for optional settings.
const (
	DefaultConfigFile = "pkgporter.toml"
	DefaultEnvFile    = ".env"
	DefaultCacheTTL   = time.Hour
)

// Config is a validated configuration snapshot.
type Config struct {
	Source       registry.Endpoint
	Target       registry.Endpoint // zero when not required (versions command)
	Package      registry.Package
	RegistryType string // normalised tag, e.g. "npm"

	Verbose     bool
	DryRun      bool
	KeepGoing   bool
	Yes         bool     // skip the interactive confirmation
	PublishArgs []string // extra publish arguments, shell-split

	Cache    string // one of the cache.Backend* names
	CacheTTL time.Duration
	RedisURL string
	MongoURI string
	WorkDir  string // parent for staged files and artifacts

	Files []string // configuration files that were read
}

// Policy returns the migration failure policy.
func (c *Config) Policy() migrate.Policy {
	if c.KeepGoing {
		return migrate.KeepGoing
	}
	return migrate.FailFast
}

// MigrateOptions converts the configuration into migration options.
func (c *Config) MigrateOptions() migrate.Options {
	return migrate.Options{
		Source:       c.Source,
		Target:       c.Target,
		Package:      c.Package,
		RegistryType: c.RegistryType,
		DryRun:       c.DryRun,
		Policy:       c.Policy(),
	}
}

// CacheOptions returns the options for opening the metadata cache.
func (c *Config) CacheOptions(defaultDir string) cache.Options {
	return cache.Options{
		Backend:  c.Cache,
		Dir:      defaultDir,
		RedisURL: c.RedisURL,
		MongoURI: c.MongoURI,
	}
}

// String renders the configuration for verbose output. Tokens and
// connection strings with credentials are redacted.
func (c *Config) String() string {
	var b strings.Builder
	row := func(k string, v any) { fmt.Fprintf(&b, "  %-16s %v\n", k, v) }

	b.WriteString("Configuration:\n")
	row("registry type", c.RegistryType)
	row("source", c.Source.URL)
	row("source token", redactToken(c.Source.Token))
	if c.Target.URL != "" {
		row("target", c.Target.URL)
		row("target token", redactToken(c.Target.Token))
	}
	row("package", c.Package.FullName())
	row("dry run", c.DryRun)
	row("keep going", c.KeepGoing)
	if len(c.PublishArgs) > 0 {
		row("publish args", strings.Join(c.PublishArgs, " "))
	}
	row("cache", c.Cache)
	if c.Cache != cache.BackendNone {
		row("cache ttl", c.CacheTTL)
	}
	if c.RedisURL != "" {
		row("redis", redactURL(c.RedisURL))
	}
	if c.MongoURI != "" {
		row("mongo", redactURL(c.MongoURI))
	}
	if len(c.Files) > 0 {
		row("files", strings.Join(c.Files, ", "))
	}
	return b.String()
}

func redactToken(tok string) string {
	if tok == "" {
		return "(none)"
	}
	return registry.Redacted
}
