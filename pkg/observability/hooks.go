// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without tying the library
// packages to a metrics backend. Consumers register hooks at startup to
// receive events about aggregation, layout, rendering, cache lookups and
// requests to graph sources. [Metrics] is the Prometheus implementation used
// by `graphweave serve`.
//
// # Architecture
//
// Each event category has an interface and a no-op implementation. The
// registered set is swapped atomically, so reading hooks on hot paths never
// takes a lock.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics()
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetSourceHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, g.NodeCount())
//	layout, err := generate(g)
//	observability.Pipeline().OnLayoutComplete(ctx, g.NodeCount(), len(layout.Edges), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	// Aggregation events
	OnAggregateStart(ctx context.Context, fragments int)
	OnAggregateComplete(ctx context.Context, nodes, edges, dangling int, duration time.Duration)

	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Source Hooks
// =============================================================================

// SourceHooks receives events from requests to graph services.
type SourceHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (no response was received).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every pipeline event. Embed it to implement a
// subset of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnAggregateStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnAggregateComplete(context.Context, int, int, int, time.Duration) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSourceHooks ignores every source event.
type NoopSourceHooks struct{}

func (NoopSourceHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopSourceHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopSourceHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	source   SourceHooks
}

var noopHooks = hookSet{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	source:   NoopSourceHooks{},
}

var registry atomic.Pointer[hookSet]

func init() { Reset() }

// update installs a modified copy of the current hook set.
func update(fn func(*hookSet)) {
	for {
		cur := registry.Load()
		next := *cur
		fn(&next)
		if registry.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetSourceHooks registers source request hooks. Nil is ignored.
func SetSourceHooks(h SourceHooks) {
	if h != nil {
		update(func(s *hookSet) { s.source = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return registry.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return registry.Load().cache }

// Source returns the registered source request hooks.
func Source() SourceHooks { return registry.Load().source }

// Reset restores the no-op hooks.
func Reset() {
	set := noopHooks
	registry.Store(&set)
}
