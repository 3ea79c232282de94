package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/errors"
	"github.com/matzehuels/pkgporter/pkg/registries"
	"github.com/matzehuels/pkgporter/pkg/registry"
)

// Options controls where [Load] reads from.
type Options struct {
	// ConfigFile is a TOML file. Empty means DefaultConfigFile if it exists.
	ConfigFile string
	// EnvFile is a dotenv file. Empty means DefaultEnvFile if it exists.
	EnvFile string
	// Flags are the parsed command-line flags. Flags that were not set on
	// the command line do not override lower layers.
	Flags *pflag.FlagSet
	// RequireTarget makes the target registry mandatory.
	RequireTarget bool
}

// Load reads, validates and normalises the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	var files []string

	for _, s := range settings {
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind %s", s.env)
		}
		if opts.Flags == nil || s.flag == "" {
			continue
		}
		if f := opts.Flags.Lookup(s.flag); f != nil {
			if err := v.BindPFlag(s.key, f); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind --%s", s.flag)
			}
		}
	}

	if path, ok, err := locate(opts.ConfigFile, DefaultConfigFile); err != nil {
		return nil, err
	} else if ok {
		if err := readTOML(v, path); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	if path, ok, err := locate(opts.EnvFile, DefaultEnvFile); err != nil {
		return nil, err
	} else if ok {
		if err := readDotenv(v, path); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	cfg, err := build(v, opts.RequireTarget)
	if err != nil {
		return nil, err
	}
	cfg.Files = files
	return cfg, nil
}

// locate returns the file to read. An explicitly named file must exist;
// the default is used only if present.
func locate(explicit, fallback string) (string, bool, error) {
	path := explicit
	if path == "" {
		path = fallback
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, true, nil
	case os.IsNotExist(err) && explicit == "":
		return "", false, nil
	default:
		return "", false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
}

// readTOML loads a TOML file as the lowest-precedence layer.
func readTOML(v *viper.Viper, path string) error {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	for k, val := range raw {
		if _, ok := lookupSetting(k); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, k)
		}
		v.SetDefault(k, val)
	}
	return nil
}

// readDotenv loads a dotenv file. It ranks below the real environment, so
// variables already exported win over the file.
func readDotenv(v *viper.Viper, path string) error {
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	values := make(map[string]any)
	for _, s := range settings {
		name := strings.ToLower(s.env)
		if env.IsSet(name) {
			values[s.key] = env.Get(name)
		}
	}
	return v.MergeConfigMap(values)
}

func build(v *viper.Viper, requireTarget bool) (*Config, error) {
	required := []string{keySourceRegistry, keyPackageName, keyRegistryType}
	if requireTarget {
		required = append(required, keyTargetRegistry)
	}
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, missing(key)
		}
	}

	cfg := &Config{
		RegistryType: registries.Normalize(v.GetString(keyRegistryType)),
		Verbose:      v.GetBool(keyVerbose),
		DryRun:       v.GetBool(keyDryRun),
		KeepGoing:    v.GetBool(keyKeepGoing),
		Yes:          v.GetBool(keyYes),
		Cache:        strings.ToLower(strings.TrimSpace(v.GetString(keyCache))),
		CacheTTL:     v.GetDuration(keyCacheTTL),
		RedisURL:     strings.TrimSpace(v.GetString(keyRedisURL)),
		MongoURI:     strings.TrimSpace(v.GetString(keyMongoURI)),
		WorkDir:      strings.TrimSpace(v.GetString(keyWorkDir)),
	}

	if !registries.IsSupported(cfg.RegistryType) {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported registry type %q (supported: %s)",
			v.GetString(keyRegistryType), strings.Join(registries.Supported(), ", "))
	}

	var err error
	if cfg.Source, err = endpoint(v, keySourceRegistry, keySourceToken); err != nil {
		return nil, err
	}
	if v.GetString(keyTargetRegistry) != "" {
		if cfg.Target, err = endpoint(v, keyTargetRegistry, keyTargetToken); err != nil {
			return nil, err
		}
	}

	cfg.Package = registry.Package{
		Name:  strings.TrimSpace(v.GetString(keyPackageName)),
		Scope: normalizeScope(cfg.RegistryType, v.GetString(keyPackageScope)),
	}
	if err := registries.ValidatePackage(cfg.RegistryType, cfg.Package); err != nil {
		return nil, err
	}

	if cfg.PublishArgs, err = publishArgs(v.Get(keyPublishArgs)); err != nil {
		return nil, err
	}

	if err := validateCache(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func endpoint(v *viper.Viper, urlKey, tokenKey string) (registry.Endpoint, error) {
	ep, err := registry.NewEndpoint(v.GetString(urlKey), strings.TrimSpace(v.GetString(tokenKey)))
	if err != nil {
		return registry.Endpoint{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", urlKey)
	}
	return ep, nil
}

// normalizeScope trims the scope and, for npm, adds the leading "@" when
// it was left out.
func normalizeScope(registryType, scope string) string {
	scope = strings.TrimSpace(scope)
	if scope != "" && registryType == "npm" && !strings.HasPrefix(scope, "@") {
		scope = "@" + scope
	}
	return scope
}

// publishArgs accepts a shell-quoted string (environment, flags) or a
// TOML array.
func publishArgs(raw any) ([]string, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		args, err := shlex.Split(val)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "publish_args")
		}
		return args, nil
	case []string:
		return val, nil
	case []any:
		args := make([]string, 0, len(val))
		for _, a := range val {
			s, ok := a.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "publish_args: %v is not a string", a)
			}
			args = append(args, s)
		}
		return args, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "publish_args: unsupported value %T", raw)
	}
}

func validateCache(cfg *Config) error {
	if cfg.Cache == "" {
		cfg.Cache = cache.BackendNone
	}
	backends := []string{cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo}
	if !slices.Contains(backends, cfg.Cache) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (expected one of %s)",
			cfg.Cache, strings.Join(backends, ", "))
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	switch {
	case cfg.Cache == cache.BackendRedis && cfg.RedisURL == "":
		return missing(keyRedisURL)
	case cfg.Cache == cache.BackendMongo && cfg.MongoURI == "":
		return missing(keyMongoURI)
	}
	return nil
}

func missing(key string) error {
	s, _ := lookupSetting(key)
	if s.flag == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "missing %s (set %s)", key, s.env)
	}
	return errors.New(errors.ErrCodeInvalidConfig, "missing %s (use --%s or set %s)", key, s.flag, s.env)
}

// redactURL hides the password of a connection string.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return registry.Redacted
	}
	return u.Redacted()
}

// Summary is a compact one-line description used in log fields.
func (c *Config) Summary() string {
	return fmt.Sprintf("%s %s: %s -> %s", c.RegistryType, c.Package.FullName(), c.Source.URL, c.Target.URL)
}
