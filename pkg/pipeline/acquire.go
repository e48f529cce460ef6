package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/source"
)

// AcquireOptions selects how fragments are fetched from a graph service.
type AcquireOptions struct {
	Whole   bool // Use the whole-graph endpoint instead of per-node fragments
	Refresh bool // Ignore a cached acquisition
}

// AcquireWithCacheInfo fetches fragments through client, caching the
// decoded result by source URL. It returns whether the result came from cache.
func (r *Runner) AcquireWithCacheInfo(ctx context.Context, client *source.Client, opts AcquireOptions) ([]graph.Fragment, bool, error) {
	cacheKey := r.Keyer.GraphKey(client.BaseURL(), cache.GraphKeyOpts{Whole: opts.Whole})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if fragments, err := graph.DecodeFragments(data); err == nil {
				return fragments, true, nil
			}
		}
	}

	var (
		fragments []graph.Fragment
		err       error
	)
	if opts.Whole {
		fragments, err = client.FetchGraph(ctx)
	} else {
		fragments, err = client.FetchFragments(ctx)
	}
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(fragments)
	if err != nil {
		return nil, false, fmt.Errorf("encode fragments: %w", err)
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err != nil {
		r.Logger.Warn("cache fragments", "error", err)
	}

	r.Logger.Info("acquired fragments", "source", client.BaseURL(), "fragments", len(fragments), "whole", opts.Whole)
	return fragments, false, nil
}

// Acquire is a convenience wrapper that calls AcquireWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Acquire(ctx context.Context, client *source.Client, opts AcquireOptions) ([]graph.Fragment, error) {
	fragments, _, err := r.AcquireWithCacheInfo(ctx, client, opts)
	return fragments, err
}
