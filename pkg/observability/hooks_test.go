package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnAggregateStart(ctx, 3)
	p.OnAggregateComplete(ctx, 10, 12, 1, time.Millisecond)
	p.OnLayoutStart(ctx, 10)
	p.OnLayoutComplete(ctx, 10, 11, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopSourceHooks{}
	h.OnRequest(ctx, "GET", "graph.example.com", "/api/nodes")
	h.OnResponse(ctx, "GET", "graph.example.com", "/api/nodes", 200, time.Second)
	h.OnError(ctx, "GET", "graph.example.com", "/api/nodes", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Source().(NoopSourceHooks); !ok {
		t.Error("Source() should return NoopSourceHooks by default")
	}

	m := NewMetrics()
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetSourceHooks(m)
	if Pipeline() != PipelineHooks(m) || Cache() != CacheHooks(m) || Source() != SourceHooks(m) {
		t.Error("Set*Hooks should install the metrics hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
