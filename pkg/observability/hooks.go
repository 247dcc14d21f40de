// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through a global registry of hook interfaces whose
// defaults do nothing. main registers real implementations at startup, such
// as [Prometheus]:
//
//	func main() {
//	    p := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	    observability.SetBuildHooks(p)
//	    observability.SetCacheHooks(p)
//	    observability.SetServerHooks(p)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnFetchStart(ctx, source)
//	// ... fetch ...
//	observability.Build().OnFetchComplete(ctx, source, n, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from record fetching and graph builds.
type BuildHooks interface {
	OnFetchStart(ctx context.Context, source string)
	OnFetchComplete(ctx context.Context, source string, billets int, duration time.Duration, err error)

	// OnBuildComplete reports a finished graph build. layout names the
	// placement that was used, such as "graphviz" or "grid".
	OnBuildComplete(ctx context.Context, nodes int, layout string, duration time.Duration)

	// OnIntegrityIssue is called once per repaired record.
	OnIntegrityIssue(ctx context.Context, kind string)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnFetchStart(context.Context, string)                                {}
func (NoopBuildHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopBuildHooks) OnBuildComplete(context.Context, int, string, time.Duration)        {}
func (NoopBuildHooks) OnIntegrityIssue(context.Context, string)                            {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

var (
	buildHooks  BuildHooks  = NoopBuildHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetBuildHooks registers build hooks. Nil is ignored.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
