// Package render turns computed layouts into output artifacts.
//
// # Formats
//
// A layout can be written as:
//
//   - json: the serialized [graph.Layout]
//   - dot: a Graphviz document with pinned node positions
//   - svg, png: drawn by Graphviz (see [nodelink])
//   - pdf: SVG converted with rsvg-convert
//
// [ParseFormats] validates a comma separated format list as accepted by the
// CLI and the HTTP API.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)
//
// [graph.Layout]: github.com/matzehuels/graphweave/pkg/graph.Layout
// [nodelink]: github.com/matzehuels/graphweave/pkg/render/nodelink
package render
