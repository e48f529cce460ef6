// Package nodelink renders force-directed layouts as node-link diagrams.
//
// # Overview
//
// Node positions come from the layout, not from Graphviz: [ToDOT] pins every
// node at its projected coordinate (pos="x,y!") and the neato engine only
// routes edges and draws the shapes. The y axis is flipped because Graphviz
// grows upwards while layout coordinates grow downwards.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//
// # Edge Styles
//
// Each [graph.ProjectedEdge] carries an [graph.EdgeStyle]. Stroke and
// StrokeWidth map to color and penwidth, Marker selects the arrowhead and
// animated edges are drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and PNG
// rendering. PDF conversion requires librsvg (rsvg-convert).
//
// [graph.ProjectedEdge]: github.com/matzehuels/graphweave/pkg/graph.ProjectedEdge
// [graph.EdgeStyle]: github.com/matzehuels/graphweave/pkg/graph.EdgeStyle
package nodelink
