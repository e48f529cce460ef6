package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/observability"
	"github.com/matzehuels/graphweave/pkg/source"
)

func exampleFragments() []graph.Fragment {
	return []graph.Fragment{
		{
			This:      &graph.NodeRecord{ID: "a", Label: "https://example.com/a"},
			Neighbors: []graph.NodeRecord{{ID: "b"}},
			Edges:     []graph.EdgeRecord{{ID: "e1", Source: "a", Target: "b"}},
		},
		{
			This:      &graph.NodeRecord{ID: "b"},
			Neighbors: []graph.NodeRecord{{ID: "a"}},
			Edges:     []graph.EdgeRecord{{ID: "e1", Source: "a", Target: "b"}},
		},
	}
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	result, err := r.Execute(context.Background(), exampleFragments(), Options{Formats: []string{"json", "dot"}})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID", result.RunID)
	}
	if result.Stats.NodeCount != 2 || result.Stats.EdgeCount != 1 || result.Stats.Fragments != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Stats.DuplicateEdges != 1 {
		t.Errorf("DuplicateEdges = %d, want 1", result.Stats.DuplicateEdges)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash is empty")
	}

	l := result.Layout
	if !l.Ready || len(l.Nodes) != 2 || len(l.Edges) != 1 || l.Edges[0].ID != "e1" {
		t.Fatalf("layout = %+v", l)
	}

	back, err := graph.UnmarshalLayout(result.Artifacts["json"])
	if err != nil || len(back.Nodes) != 2 {
		t.Errorf("json artifact = %v", err)
	}
	if !strings.HasPrefix(string(result.Artifacts["dot"]), "digraph G") {
		t.Errorf("dot artifact = %q", result.Artifacts["dot"])
	}
}

func TestExecuteEmpty(t *testing.T) {
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Layout.Ready || len(result.Layout.Nodes) != 0 {
		t.Errorf("layout = %+v", result.Layout)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), exampleFragments(), Options{Formats: []string{"gif"}})
	if err == nil {
		t.Fatal("Execute() should reject unknown formats")
	}
}

func TestExecuteCaching(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()
	opts := Options{Formats: []string{"json", "dot"}}

	first, err := r.Execute(ctx, exampleFragments(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run cache info = %+v, want misses", first.CacheInfo)
	}

	second, err := r.Execute(ctx, exampleFragments(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want hits", second.CacheInfo)
	}
	if first.GraphHash != second.GraphHash || first.RunID == second.RunID {
		t.Error("graph hash should be stable and run ids unique")
	}
	if string(first.Artifacts["dot"]) != string(second.Artifacts["dot"]) {
		t.Error("cached artifact differs from rendered one")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, exampleFragments(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run cache info = %+v, want misses", third.CacheInfo)
	}
}

func TestRenderPartialCache(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()
	g, _ := r.Aggregate(ctx, exampleFragments())
	l, err := r.ComputeLayout(ctx, g, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render(ctx, l, Options{Formats: []string{"dot"}}); err != nil {
		t.Fatal(err)
	}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, Options{Formats: []string{"dot", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("hit should be false when one format was rendered")
	}
	if len(artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(artifacts))
	}
}

func TestRenderRejectsUnreadyLayout(t *testing.T) {
	if _, err := RenderFromLayout(context.Background(), graph.Layout{}, Options{}); err == nil {
		t.Error("RenderFromLayout() should reject a layout that is not ready")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	aggregated atomic.Int32
	layouts    atomic.Int32
	renders    atomic.Int32
}

func (h *recordingHooks) OnAggregateComplete(context.Context, int, int, int, time.Duration) {
	h.aggregated.Add(1)
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, int, time.Duration, error) {
	h.layouts.Add(1)
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders.Add(1)
}

func TestExecuteEmitsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), exampleFragments(), Options{}); err != nil {
		t.Fatal(err)
	}
	if h.aggregated.Load() != 1 || h.layouts.Load() != 1 || h.renders.Load() != 1 {
		t.Errorf("hooks = %d/%d/%d, want 1/1/1", h.aggregated.Load(), h.layouts.Load(), h.renders.Load())
	}
}

func TestAcquire(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"id":"e1","source":"a","target":"b"}]}`))
	}))
	defer srv.Close()

	client, err := source.NewClient(source.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	r := newFileRunner(t)
	ctx := context.Background()

	fragments, hit, err := r.AcquireWithCacheInfo(ctx, client, AcquireOptions{Whole: true})
	if err != nil || hit {
		t.Fatalf("first acquire: hit=%v err=%v", hit, err)
	}
	g := graph.Aggregate(fragments...)
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph = %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	if _, hit, _ := r.AcquireWithCacheInfo(ctx, client, AcquireOptions{Whole: true}); !hit {
		t.Error("second acquire should hit the cache")
	}
	if _, err := r.Acquire(ctx, client, AcquireOptions{Whole: true, Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}
