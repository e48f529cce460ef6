package project

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/layout/force"
)

// DefaultScale is the factor applied to simulated coordinates.
const DefaultScale = 3.0

// Options configures a Projector.
type Options struct {
	// Scale multiplies every coordinate. Zero means DefaultScale.
	Scale float64

	// EdgeStyle is attached to every projected edge. The zero value means
	// graph.DefaultEdgeStyle.
	EdgeStyle graph.EdgeStyle

	// Logger receives one debug line per projection. Nil discards.
	Logger *log.Logger
}

// Projector converts simulation results into layouts.
type Projector struct {
	scale  float64
	style  graph.EdgeStyle
	logger *log.Logger
}

// New returns a Projector for opts.
func New(opts Options) *Projector {
	p := &Projector{scale: opts.Scale, style: opts.EdgeStyle, logger: opts.Logger}
	if p.scale == 0 {
		p.scale = DefaultScale
	}
	if p.style == (graph.EdgeStyle{}) {
		p.style = graph.DefaultEdgeStyle
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	return p
}

// Scale returns the effective scale factor.
func (p *Projector) Scale() float64 { return p.scale }

// Project builds the layout for g from res. Nodes keep graph insertion
// order; a node without a simulated position is placed at the origin.
// Dangling edges are dropped. The returned layout is always ready.
func (p *Projector) Project(g *graph.Graph, res force.Result) graph.Layout {
	nodes := make([]graph.PositionedNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		pos := res.Positions[n.ID]
		nodes = append(nodes, graph.PositionedNode{
			ID:          n.ID,
			Label:       n.Label,
			Description: n.Description,
			Tags:        n.Tags,
			X:           pos.X * p.scale,
			Y:           pos.Y * p.scale,
		})
	}

	edges := make([]graph.ProjectedEdge, 0, g.EdgeCount())
	dropped := 0
	for _, e := range g.Edges() {
		if !g.Resolved(e) {
			dropped++
			continue
		}
		edges = append(edges, graph.ProjectedEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Style:  p.style,
		})
	}

	p.logger.Debug("projected layout", "nodes", len(nodes), "edges", len(edges), "dropped", dropped, "scale", p.scale)

	return graph.Layout{
		Nodes:  nodes,
		Edges:  edges,
		Bounds: graph.BoundsOf(nodes),
		Ready:  true,
		Ticks:  res.Ticks,
		Scale:  p.scale,
	}
}
