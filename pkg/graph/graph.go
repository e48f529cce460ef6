package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. Records without an id cannot be keyed.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID is already present. The existing record is left untouched.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge with the
	// same (source, target) pair is already present.
	ErrDuplicateEdge = errors.New("duplicate edge")
)

// Graph is the canonical, deduplicated knowledge graph. Nodes and edges keep
// the order in which they were first added.
//
// Edges are not required to reference existing nodes. Such dangling edges
// are kept; see [Graph.Resolved] and [Graph.Dangling].
//
// The zero value is not usable - use New to create a valid Graph.
// Graph is not safe for concurrent use while it is being built.
type Graph struct {
	nodes    map[string]int // id -> index into order
	order    []NodeRecord
	edges    []EdgeRecord
	edgeKeys map[EdgeKey]int // key -> index into edges
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]int),
		edgeKeys: make(map[EdgeKey]int),
	}
}

// AddNode inserts n. It returns [ErrInvalidNodeID] for an empty id and
// [ErrDuplicateNodeID] when the id is already present.
func (g *Graph) AddNode(n NodeRecord) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = len(g.order)
	g.order = append(g.order, n.clone())
	return nil
}

// AddEdge inserts e. It returns [ErrDuplicateEdge] when an edge with the same
// (source, target) pair is already present. Endpoints are not checked.
func (g *Graph) AddEdge(e EdgeRecord) error {
	key := e.Key()
	if _, ok := g.edgeKeys[key]; ok {
		return ErrDuplicateEdge
	}
	g.edgeKeys[key] = len(g.edges)
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (NodeRecord, bool) {
	i, ok := g.nodes[id]
	if !ok {
		return NodeRecord{}, false
	}
	return g.order[i].clone(), true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Index returns the insertion index of the node, or -1.
func (g *Graph) Index(id string) int {
	if i, ok := g.nodes[id]; ok {
		return i
	}
	return -1
}

// Edge returns the edge stored for the given (source, target) pair.
func (g *Graph) Edge(source, target string) (EdgeRecord, bool) {
	i, ok := g.edgeKeys[EdgeKey{Source: source, Target: target}]
	if !ok {
		return EdgeRecord{}, false
	}
	return g.edges[i], true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []NodeRecord {
	out := make([]NodeRecord, len(g.order))
	for i, n := range g.order {
		out[i] = n.clone()
	}
	return out
}

// NodeIDs returns the node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	for i, n := range g.order {
		ids[i] = n.ID
	}
	return ids
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []EdgeRecord { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges, dangling ones included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Resolved reports whether both endpoints of e are nodes of the graph.
func (g *Graph) Resolved(e EdgeRecord) bool {
	return g.HasNode(e.Source) && g.HasNode(e.Target)
}

// ResolvedEdges returns the edges whose endpoints both exist, in insertion order.
func (g *Graph) ResolvedEdges() []EdgeRecord {
	out := make([]EdgeRecord, 0, len(g.edges))
	for _, e := range g.edges {
		if g.Resolved(e) {
			out = append(out, e)
		}
	}
	return out
}

// Dangling returns the edges with at least one unknown endpoint.
func (g *Graph) Dangling() []EdgeRecord {
	var out []EdgeRecord
	for _, e := range g.edges {
		if !g.Resolved(e) {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of resolved edges incident to the node.
// A self-loop counts twice.
func (g *Graph) Degree(id string) int {
	if !g.HasNode(id) {
		return 0
	}
	d := 0
	for _, e := range g.edges {
		if !g.Resolved(e) {
			continue
		}
		if e.Source == id {
			d++
		}
		if e.Target == id {
			d++
		}
	}
	return d
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:    make(map[string]int, len(g.nodes)),
		order:    make([]NodeRecord, len(g.order)),
		edges:    slices.Clone(g.edges),
		edgeKeys: make(map[EdgeKey]int, len(g.edgeKeys)),
	}
	for i, n := range g.order {
		c.order[i] = n.clone()
		c.nodes[n.ID] = i
	}
	for k, v := range g.edgeKeys {
		c.edgeKeys[k] = v
	}
	return c
}

// Whole returns the graph as a whole-graph payload, dangling edges included.
func (g *Graph) Whole() WholeGraph {
	edges := make([]EdgeRecord, len(g.edges))
	copy(edges, g.edges)
	return WholeGraph{Nodes: g.Nodes(), Edges: edges}
}
