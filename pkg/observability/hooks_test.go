package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	m := NoopMigrationHooks{}
	m.OnFetchComplete(ctx, "npm", "left-pad", 12, time.Second, nil)
	m.OnVersionStart(ctx, "npm", "left-pad", "1.0.0")
	m.OnVersionComplete(ctx, "npm", "left-pad", "1.0.0", "migrated", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "pypi")
	c.OnCacheMiss(ctx, "pypi")
	c.OnCacheSet(ctx, "pypi", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "pypi.org", "/pypi/requests/json")
	h.OnResponse(ctx, "GET", "pypi.org", "/pypi/requests/json", 200, time.Second)
	h.OnError(ctx, "GET", "pypi.org", "/pypi/requests/json", errors.New("timeout"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Migration().(NoopMigrationHooks); !ok {
		t.Error("Migration() should return NoopMigrationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customMigration := &testMigrationHooks{}
	SetMigrationHooks(customMigration)
	if Migration() != customMigration {
		t.Error("SetMigrationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Migration().(NoopMigrationHooks); !ok {
		t.Error("Reset() should restore NoopMigrationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testMigrationHooks{}
	SetMigrationHooks(custom)
	SetMigrationHooks(nil)
	if Migration() != custom {
		t.Error("SetMigrationHooks(nil) should keep existing hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testMigrationHooks{}
	SetMigrationHooks(custom)

	ctx := context.Background()
	Migration().OnVersionStart(ctx, "pypi", "requests", "2.0.0")
	Migration().OnVersionComplete(ctx, "pypi", "requests", "2.0.0", "dry-run", 0, nil)

	if custom.started != 1 || custom.completed != 1 {
		t.Errorf("events = (%d, %d), want (1, 1)", custom.started, custom.completed)
	}
}

type testMigrationHooks struct {
	NoopMigrationHooks
	started   int
	completed int
}

func (h *testMigrationHooks) OnVersionStart(context.Context, string, string, string) {
	h.started++
}

func (h *testMigrationHooks) OnVersionComplete(context.Context, string, string, string, string, time.Duration, error) {
	h.completed++
}

type testCacheHooks struct{ NoopCacheHooks }

type testHTTPHooks struct{ NoopHTTPHooks }
