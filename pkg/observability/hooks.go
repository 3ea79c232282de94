// Package observability provides hooks for metrics, tracing, and logging.
//
// The migration core emits events through globally registered hook sets so
// that instrumentation can be added without the core depending on any
// metrics or tracing backend. Defaults are no-ops.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMigrationHooks(&myMigrationHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Migration().OnVersionStart(ctx, "npm", "left-pad", "1.0.0")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Migration Hooks
// =============================================================================

// MigrationHooks receives events from the migration orchestrator.
type MigrationHooks interface {
	// OnFetchComplete fires after the source version list was fetched.
	OnFetchComplete(ctx context.Context, registryType, pkg string, versions int, duration time.Duration, err error)

	// OnVersionStart fires before a version is processed.
	OnVersionStart(ctx context.Context, registryType, pkg, version string)

	// OnVersionComplete fires after a version was migrated, simulated or failed.
	// status is one of "migrated", "dry-run", "failed".
	OnVersionComplete(ctx context.Context, registryType, pkg, version, status string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups made by registry clients.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from registry HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMigrationHooks is a no-op implementation of MigrationHooks.
type NoopMigrationHooks struct{}

func (NoopMigrationHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopMigrationHooks) OnVersionStart(context.Context, string, string, string) {}
func (NoopMigrationHooks) OnVersionComplete(context.Context, string, string, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	migrationHooks MigrationHooks = NoopMigrationHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetMigrationHooks registers custom migration hooks. Nil is ignored.
func SetMigrationHooks(h MigrationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		migrationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Migration returns the registered migration hooks.
func Migration() MigrationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return migrationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	migrationHooks = NoopMigrationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
