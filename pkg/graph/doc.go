// Package graph provides the knowledge-graph data model, the fragment
// aggregator and the serialization types shared by every stage of graphweave.
//
// # Architecture
//
// The package sits at both ends of the layout pipeline:
//
//   - [NodeRecord], [EdgeRecord], [Fragment]: raw input as fetched from sources
//   - [Graph]: the canonical, deduplicated graph built by [Aggregate]
//   - [Layout], [PositionedNode], [ProjectedEdge]: render-ready output
//
// The force simulation (pkg/layout/force) consumes a [Graph] and the
// projector (pkg/layout/project) produces a [Layout].
//
// # Aggregation
//
// Sources return partial views of the graph, one per focal node:
//
//	{
//	  "this":      {"id": "a", "label": "https://example.com/a"},
//	  "neighbors": [{"id": "b"}],
//	  "edges":     [{"id": "e1", "source": "a", "target": "b"}]
//	}
//
// [Aggregate] merges any number of fragments. The first record seen for a
// node id wins and later records with the same id are discarded whole. Edges
// are keyed by their (source, target) pair, so two edges with different ids
// but identical endpoints collapse to the first one. Aggregation never fails.
//
// A whole-graph payload ({"nodes": [...], "edges": [...]}) is treated as a
// single fragment. [DecodeInput] accepts either shape:
//
//	fragments, err := graph.DecodeInput(data)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // report, skip layout
//	}
//	g := graph.Aggregate(fragments...)
//
// # Dangling references
//
// Edges may point at ids that never appear as nodes. The graph keeps them;
// [Graph.Resolved] and [Graph.Dangling] let later stages skip them.
//
// # Concurrency
//
// A [Graph] is safe for concurrent reads once built. Building it is not safe
// for concurrent use.
package graph
