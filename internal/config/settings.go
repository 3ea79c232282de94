package config

import (
	"strings"

	"github.com/spf13/pflag"
)

// setting describes one configuration key and where it can come from.
// An empty flag means the value cannot be given on the command line
// (tokens, to keep them out of shell history and process listings).
type setting struct {
	key   string // TOML key and viper key
	env   string // environment variable
	flag  string // long flag name
	short string
	usage string
	write bool // only meaningful for commands that publish
}

const (
	keySourceRegistry = "source_registry"
	keyTargetRegistry = "target_registry"
	keyPackageName    = "package_name"
	keyPackageScope   = "package_scope"
	keySourceToken    = "source_auth_token"
	keyTargetToken    = "target_auth_token"
	keyRegistryType   = "registry_type"
	keyVerbose        = "verbose"
	keyDryRun         = "dry_run"
	keyKeepGoing      = "keep_going"
	keyPublishArgs    = "publish_args"
	keyYes            = "yes"
	keyCache          = "cache"
	keyCacheTTL       = "cache_ttl"
	keyRedisURL       = "redis_url"
	keyMongoURI       = "mongo_uri"
	keyWorkDir        = "work_dir"
)

var settings = []setting{
	{keySourceRegistry, "SOURCE_REGISTRY", "source-registry", "s", "source registry URL", false},
	{keyTargetRegistry, "TARGET_REGISTRY", "target-registry", "t", "target registry URL", true},
	{keyPackageName, "PACKAGE_NAME", "package", "p", "package name", false},
	{keyPackageScope, "PACKAGE_SCOPE", "scope", "", "package scope, e.g. @acme (npm only)", false},
	{keySourceToken, "SOURCE_AUTH_TOKEN", "", "", "", false},
	{keyTargetToken, "TARGET_AUTH_TOKEN", "", "", "", true},
	{keyRegistryType, "REGISTRY_TYPE", "registry-type", "r", "registry type (npm, pypi)", false},
	{keyVerbose, "VERBOSE", "verbose", "v", "enable debug logging", false},
	{keyDryRun, "DRY_RUN", "dry-run", "", "report what would be migrated without downloading or publishing", true},
	{keyKeepGoing, "KEEP_GOING", "keep-going", "", "continue with the next version after a failure", true},
	{keyPublishArgs, "PUBLISH_ARGS", "publish-args", "", "extra arguments for npm publish / twine upload", true},
	{keyYes, "PKGPORTER_YES", "yes", "y", "do not ask for confirmation before a live run", true},
	{keyCache, "PKGPORTER_CACHE", "cache", "", "metadata cache backend (none, file, redis, mongo)", false},
	{keyCacheTTL, "PKGPORTER_CACHE_TTL", "cache-ttl", "", "metadata cache TTL", false},
	{keyRedisURL, "PKGPORTER_REDIS_URL", "redis-url", "", "redis URL for --cache=redis", false},
	{keyMongoURI, "PKGPORTER_MONGO_URI", "mongo-uri", "", "MongoDB URI for --cache=mongo", false},
	{keyWorkDir, "PKGPORTER_WORK_DIR", "work-dir", "", "directory for temporary files (default: system temp dir)", false},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// AddFlags registers the configuration flags on fs. With readOnly set,
// flags that only matter when publishing (target, dry-run, ...) are
// skipped. verbose is left to the caller since it is usually a persistent
// root flag.
func AddFlags(fs *pflag.FlagSet, readOnly bool) {
	for _, s := range settings {
		if readOnly && s.write {
			continue
		}
		switch s.key {
		case keyVerbose:
			continue
		case keyDryRun, keyKeepGoing, keyYes:
			fs.BoolP(s.flag, s.short, false, s.usage)
		case keyCacheTTL:
			fs.Duration(s.flag, DefaultCacheTTL, s.usage)
		case keyCache:
			fs.String(s.flag, "none", s.usage)
		default:
			if s.flag != "" {
				fs.StringP(s.flag, s.short, "", s.usage)
			}
		}
	}
}

// AddVerboseFlag registers --verbose/-v on fs.
func AddVerboseFlag(fs *pflag.FlagSet) *bool {
	s, _ := lookupSetting(keyVerbose)
	return fs.BoolP(s.flag, s.short, false, s.usage)
}

// EnvVars returns the environment variable names in help order.
func EnvVars() []string {
	names := make([]string, len(settings))
	for i, s := range settings {
		names[i] = s.env
	}
	return names
}

// EnvHelp lists the environment variables, for command help text.
func EnvHelp() string {
	var b strings.Builder
	for _, name := range EnvVars() {
		b.WriteString("  " + name + "\n")
	}
	return b.String()
}
