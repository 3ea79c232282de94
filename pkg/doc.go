// Package pkg provides the core libraries for pkgporter, a package-version
// migrator between registries of the same ecosystem.
//
// # Overview
//
// pkgporter copies every published version of a package from a source
// registry to a target registry (npm to npm, PyPI to PyPI). The pkg
// directory is organized into four main areas:
//
//  1. [version] - Semantic version parsing and migration ordering
//  2. [registry] - The backend contract, endpoints, artifacts and shared HTTP client
//  3. [registries] - Resolution of a registry-type tag to a concrete backend
//  4. [migrate] - The orchestrator that fetches, orders, downloads and publishes
//
// # Architecture
//
// The data flow of one migration run:
//
//	Source registry
//	      ↓
//	[registry.Backend].FetchVersions  (npm view / PyPI JSON API)
//	      ↓
//	[version.Sort]                   (ascending semver, non-semver last)
//	      ↓
//	for each version:
//	  DownloadVersion → PublishVersion  (npm pack/publish, pip download/twine upload)
//	      ↓
//	Target registry
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/pkgporter/pkg/migrate"
//	    "github.com/matzehuels/pkgporter/pkg/registries"
//	    "github.com/matzehuels/pkgporter/pkg/registry"
//	)
//
//	resolve := func(tag string) (registry.Backend, error) {
//	    return registries.Resolve(tag, registries.Options{})
//	}
//	src, _ := registry.NewEndpoint("https://registry.npmjs.org", "")
//	dst, _ := registry.NewEndpoint("https://npm.example.com", token)
//
//	summary, err := migrate.New(resolve, nil, nil).Run(ctx, migrate.Options{
//	    Source:       src,
//	    Target:       dst,
//	    Package:      registry.Package{Name: "left-pad"},
//	    RegistryType: "npm",
//	})
//
// # Supporting Packages
//
// [shell] - Runs npm, pip and twine; [shell/shelltest] fakes it in tests.
//
// [cache] - Metadata cache with file, Redis and MongoDB backends.
//
// [httputil] - Retry helpers for registry HTTP calls.
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for migration, cache and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...
//
// No test talks to a real registry or spawns npm, pip or twine.
//
// [version]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/version
// [registry]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/registry
// [registries]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/registries
// [migrate]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/migrate
// [shell]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/shell
// [shell/shelltest]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/shell/shelltest
// [cache]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/buildinfo
// [registry.Backend]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/registry#Backend
// [version.Sort]: https://pkg.go.dev/github.com/matzehuels/pkgporter/pkg/version#Sort
package pkg
