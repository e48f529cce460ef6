// Package httputil provides the HTTP plumbing used by the graph source client.
//
// # Overview
//
//   - [Cache]: file-based response caching with a TTL
//   - [Retry]: retry with exponential backoff for transient failures
//
// # Caching
//
// [Cache] stores decoded responses under ~/.cache/graphweave/http with a
// configurable TTL, so repeated layouts of the same source do not refetch
// every fragment:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var ids []string
//	if ok, _ := cache.Get(url, &ids); !ok {
//	    ids = fetch(url)
//	    _ = cache.Set(url, ids)
//	}
//
// Use [Cache.Namespace] to keep entries of different hosts apart.
//
// # Retry
//
// [Retry] repeats an operation while it fails with a [RetryableError]:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Callers decide what is transient; the source client treats network errors
// and 5xx responses as retryable and everything else as final.
//
// The cache can be cleared via `graphweave cache clear` or by deleting the
// cache directory.
package httputil
