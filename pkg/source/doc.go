// Package source acquires knowledge-graph data from an HTTP graph service or
// from disk.
//
// # Endpoints
//
// A graph service exposes two access strategies, both relative to a base URL:
//
//	GET /graph          {"nodes": [...], "edges": [...]}
//	GET /nodes          ["a", "b", ...]   (ids as strings or numbers)
//	GET /nodes/{id}     {"this": {...}, "neighbors": [...], "edges": [...]}
//
// [Client.FetchGraph] uses the whole-graph endpoint. [Client.FetchFragments]
// lists the node ids and then fetches one fragment per id, up to
// Options.Concurrency requests at a time. Both return fragments ready for
// graph.Aggregate; the whole graph is a single fragment.
//
// # Failures
//
// Network errors and 5xx responses are retried with exponential backoff.
// If the id list cannot be fetched the error carries
// errors.ErrCodeAcquisition. Individual fragment failures are logged and
// skipped, so a partially reachable service still yields a (smaller) graph.
//
// # Caching
//
// Decoded responses are cached on disk via httputil.Cache when Options.Cache
// is set. Options.Refresh bypasses cached entries but still updates them.
package source
