package project_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/layout/force"
	"github.com/matzehuels/graphweave/pkg/layout/project"
)

func Example() {
	a := graph.NodeRecord{ID: "a", Label: "https://example.com/a"}
	b := graph.NodeRecord{ID: "b", Label: "https://example.com/b"}
	e1 := graph.EdgeRecord{ID: "e1", Source: "a", Target: "b"}

	g := graph.Aggregate(
		graph.Fragment{This: &a, Neighbors: []graph.NodeRecord{b}, Edges: []graph.EdgeRecord{e1}},
		graph.Fragment{This: &b, Neighbors: []graph.NodeRecord{a}, Edges: []graph.EdgeRecord{e1}},
	)
	res := force.New(force.DefaultConfig()).Run(g)
	layout := project.New(project.Options{}).Project(g, res)

	finite := true
	for _, n := range layout.Nodes {
		if math.IsNaN(n.X) || math.IsInf(n.X, 0) || math.IsNaN(n.Y) || math.IsInf(n.Y, 0) {
			finite = false
		}
	}
	fmt.Println("ready:", layout.Ready)
	fmt.Println("nodes:", len(layout.Nodes))
	fmt.Println("edges:", len(layout.Edges), layout.Edges[0].ID)
	fmt.Println("finite:", finite)
	// Output:
	// ready: true
	// nodes: 2
	// edges: 1 e1
	// finite: true
}
