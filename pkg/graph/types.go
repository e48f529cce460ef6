package graph

import (
	"slices"
)

// =============================================================================
// Records - Raw Graph Data
// =============================================================================

// NodeRecord is a knowledge-graph node as delivered by a source.
// Identity is by ID; every other field is payload.
type NodeRecord struct {
	ID          string   `json:"id"`
	Label       string   `json:"label,omitempty"` // Display label, commonly a source URL
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n NodeRecord) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// clone returns a copy that does not share the Tags backing array.
func (n NodeRecord) clone() NodeRecord {
	n.Tags = slices.Clone(n.Tags)
	return n
}

// EdgeRecord is a directed connection between two nodes.
// Deduplication uses the (Source, Target) pair, never ID.
type EdgeRecord struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Key returns the deduplication key of the edge.
func (e EdgeRecord) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e EdgeRecord) IsSelfLoop() bool { return e.Source == e.Target }

// EdgeKey identifies an edge by its ordered endpoints.
type EdgeKey struct {
	Source string
	Target string
}

// =============================================================================
// Fragment - Partial Graph View
// =============================================================================

// Fragment is a partial view of the graph centred on one node, as returned by
// a per-node query. Every field is optional.
type Fragment struct {
	This      *NodeRecord  `json:"this,omitempty"`
	Neighbors []NodeRecord `json:"neighbors,omitempty"`
	Edges     []EdgeRecord `json:"edges,omitempty"`
}

// IsEmpty reports whether the fragment carries no nodes and no edges.
func (f Fragment) IsEmpty() bool {
	return f.This == nil && len(f.Neighbors) == 0 && len(f.Edges) == 0
}

// WholeGraph is the payload of a whole-graph fetch.
type WholeGraph struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// Fragment converts the whole graph into a single fragment without a focal
// node, so it can be fed to the aggregator like any other fragment.
func (w WholeGraph) Fragment() Fragment {
	return Fragment{Neighbors: w.Nodes, Edges: w.Edges}
}
