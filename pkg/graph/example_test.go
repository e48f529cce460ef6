package graph_test

import (
	"fmt"

	"github.com/matzehuels/graphweave/pkg/graph"
)

func ExampleAggregate() {
	a := graph.NodeRecord{ID: "a", Label: "https://example.com/a"}
	b := graph.NodeRecord{ID: "b", Label: "https://example.com/b"}

	g := graph.Aggregate(
		graph.Fragment{This: &a, Neighbors: []graph.NodeRecord{b}, Edges: []graph.EdgeRecord{{ID: "e1", Source: "a", Target: "b"}}},
		graph.Fragment{This: &b, Neighbors: []graph.NodeRecord{a}, Edges: []graph.EdgeRecord{{ID: "e1", Source: "a", Target: "b"}}},
	)

	fmt.Println("nodes:", g.NodeIDs())
	for _, e := range g.Edges() {
		fmt.Printf("edge %s: %s -> %s\n", e.ID, e.Source, e.Target)
	}
	// Output:
	// nodes: [a b]
	// edge e1: a -> b
}

func ExampleDecodeInput() {
	payload := []byte(`{
		"nodes": [{"id": 1, "label": "one"}, {"id": 2}],
		"edges": [{"id": "e1", "source": 1, "target": 2}, {"id": "e2", "source": 2, "target": 9}]
	}`)

	fragments, err := graph.DecodeInput(payload)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	g := graph.Aggregate(fragments...)

	fmt.Println("nodes:", g.NodeIDs())
	fmt.Println("edges:", g.EdgeCount())
	fmt.Println("dangling:", len(g.Dangling()))
	// Output:
	// nodes: [1 2]
	// edges: 2
	// dangling: 1
}
