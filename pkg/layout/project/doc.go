// Package project turns simulation output into a render-ready layout.
//
// Every node of the graph is emitted with its simulated position multiplied
// by a uniform scale factor (3 by default). Every edge whose endpoints both
// exist is emitted with its ids as strings and a fixed [graph.EdgeStyle].
// Edges that reference unknown nodes are dropped here, which is the only
// place dangling references are discarded.
//
//	res := force.New(force.DefaultConfig()).Run(g)
//	layout := project.New(project.Options{}).Project(g, res)
//	if layout.Ready {
//	    render(layout)
//	}
package project
