// Package registries maps registry-type tags to [registry.Backend]
// implementations.
//
// This package exists so that consumers (the migrator, the CLI) can pick a
// backend by name without importing every implementation themselves:
//
//	backend, err := registries.Resolve("npm", registries.Options{Logger: logger})
//	if err != nil {
//	    // UNSUPPORTED: unknown tag, nothing has been contacted yet
//	}
package registries

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/errors"
	"github.com/matzehuels/pkgporter/pkg/registry"
	"github.com/matzehuels/pkgporter/pkg/registry/npm"
	"github.com/matzehuels/pkgporter/pkg/registry/pypi"
	"github.com/matzehuels/pkgporter/pkg/shell"
)

// Options carries the dependencies shared by all backends.
type Options struct {
	Runner      shell.Runner
	Cache       cache.Cache // metadata cache for HTTP lookups; nil disables caching
	CacheTTL    time.Duration
	Logger      *log.Logger
	TempDir     string
	PublishArgs []string
}

// Supported returns the recognised registry-type tags in sorted order.
func Supported() []string {
	return []string{npm.Type, pypi.Type}
}

// Normalize trims and lowercases a registry-type tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// IsSupported reports whether tag names a known backend.
func IsSupported(tag string) bool {
	return slices.Contains(Supported(), Normalize(tag))
}

// Resolve returns the backend for tag. Unknown tags fail with
// [errors.ErrCodeUnsupported] without constructing anything.
func Resolve(tag string, opts Options) (registry.Backend, error) {
	switch Normalize(tag) {
	case npm.Type:
		return npm.New(npm.Options{
			Runner:      opts.Runner,
			Logger:      opts.Logger,
			TempDir:     opts.TempDir,
			PublishArgs: opts.PublishArgs,
		}), nil
	case pypi.Type:
		return pypi.New(pypi.Options{
			Runner:      opts.Runner,
			Client:      registry.NewClient(opts.Cache, opts.CacheTTL),
			Logger:      opts.Logger,
			TempDir:     opts.TempDir,
			PublishArgs: opts.PublishArgs,
		}), nil
	default:
		return nil, unsupported(tag)
	}
}

// ValidatePackage checks pkg against the naming rules of the ecosystem
// behind tag. Only npm packages may carry a scope.
func ValidatePackage(tag string, pkg registry.Package) error {
	switch Normalize(tag) {
	case npm.Type:
		if pkg.Scope != "" {
			if err := errors.ValidateNpmScope(pkg.Scope); err != nil {
				return err
			}
		}
		return errors.ValidateNpmPackageName(pkg.FullName())
	case pypi.Type:
		if pkg.Scope != "" {
			return errors.New(errors.ErrCodeInvalidPackage, "PyPI packages have no scope (got %q)", pkg.Scope)
		}
		return errors.ValidatePythonPackageName(pkg.Name)
	default:
		return unsupported(tag)
	}
}

func unsupported(tag string) error {
	return errors.New(errors.ErrCodeUnsupported, "unsupported registry type %q (supported: %s)",
		tag, strings.Join(Supported(), ", "))
}
