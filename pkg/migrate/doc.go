// Package migrate drives a package migration from one registry to another.
//
// A run resolves the backend for the configured registry type, fetches the
// source version list, orders it with [version.Sort] and replays each
// version in that order:
//
//	download from source → publish to target → report
//
// In dry-run mode every version is reported as "would be processed" and no
// download or publish is attempted. Under the default [FailFast] policy the
// first failure ends the run; versions published before it stay published.
// [KeepGoing] records failures and continues with the next version.
//
// # Usage
//
//	m := migrate.New(resolver, reporter, logger)
//	summary, err := m.Run(ctx, migrate.Options{
//	    Source:       source,
//	    Target:       target,
//	    Package:      registry.Package{Name: "utils", Scope: "@acme"},
//	    RegistryType: "npm",
//	})
//
// Progress is delivered to a [Reporter] as it happens; the returned
// [Summary] holds the same information once the run ends.
package migrate
