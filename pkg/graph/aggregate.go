package graph

import "errors"

// AggregateStats counts what the aggregator saw and discarded.
type AggregateStats struct {
	Fragments      int // Fragments passed to Add
	DuplicateNodes int // Node records discarded because the id was already present
	DuplicateEdges int // Edge records discarded because the (source, target) pair was already present
	Skipped        int // Node records without an id
}

// Aggregator merges fragments into one graph incrementally.
// The first record seen for any node id or edge key wins.
//
// The zero value is not usable - use NewAggregator.
type Aggregator struct {
	g     *Graph
	stats AggregateStats
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{g: New()}
}

// Add merges one fragment. Within the fragment the focal node is considered
// before the neighbors, and neighbors before edges. Add never fails.
func (a *Aggregator) Add(f Fragment) {
	a.stats.Fragments++
	if f.This != nil {
		a.addNode(*f.This)
	}
	for _, n := range f.Neighbors {
		a.addNode(n)
	}
	for _, e := range f.Edges {
		if err := a.g.AddEdge(e); err != nil {
			a.stats.DuplicateEdges++
		}
	}
}

func (a *Aggregator) addNode(n NodeRecord) {
	switch err := a.g.AddNode(n); {
	case err == nil:
	case errors.Is(err, ErrInvalidNodeID):
		a.stats.Skipped++
	default:
		a.stats.DuplicateNodes++
	}
}

// Graph returns a snapshot of the merged graph. Later calls to Add do not
// affect a graph that was already returned.
func (a *Aggregator) Graph() *Graph { return a.g.Clone() }

// Stats returns the counters accumulated so far.
func (a *Aggregator) Stats() AggregateStats { return a.stats }

// Aggregate merges fragments in order into a new graph.
func Aggregate(fragments ...Fragment) *Graph {
	a := NewAggregator()
	for _, f := range fragments {
		a.Add(f)
	}
	return a.g
}
