package pipeline

import (
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/layout/force"
	"github.com/matzehuels/graphweave/pkg/layout/project"
)

// GenerateLayout simulates g and projects the result. It is the uncached
// layout stage; the returned layout is always ready, also for an empty graph.
func GenerateLayout(g *graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	res := force.New(opts.Simulation).Run(g)
	opts.Logger.Debug("simulation finished", "nodes", g.NodeCount(), "ticks", res.Ticks, "alpha", res.Alpha)

	l := project.New(project.Options{
		Scale:     opts.Scale,
		EdgeStyle: opts.EdgeStyle,
		Logger:    opts.Logger,
	}).Project(g, res)
	l.Seed = opts.Simulation.Seed
	return l, nil
}
