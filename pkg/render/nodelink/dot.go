package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the description and tags to node labels.
	// When false, only the display label is shown.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT with every node pinned at its
// layout position. The result can be rendered with [RenderSVG], [RenderPNG]
// or [RenderPDF].
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{
			"label=" + quote(fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.X), fmtCoord(-n.Y)),
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), strings.Join(fmtEdgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fmtCoord formats v with two decimals. Values that round to zero print
// as 0.00, never -0.00.
func fmtCoord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// dotEscaper escapes a string for a DOT double-quoted ID. Newlines become
// the centred line break escape.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(strings.ToValidUTF8(s, "\uFFFD")) + `"`
}

func fmtLabel(n graph.PositionedNode, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	var parts []string
	if n.Description != "" {
		parts = append(parts, n.Description)
	}
	if len(n.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(n.Tags, ", "))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtEdgeAttrs(e graph.ProjectedEdge) []string {
	s := e.Style
	if s == (graph.EdgeStyle{}) {
		s = graph.DefaultEdgeStyle
	}
	attrs := []string{"id=" + quote(e.ID)}
	if s.Stroke != "" {
		attrs = append(attrs, "color="+quote(s.Stroke))
	}
	if s.StrokeWidth > 0 {
		attrs = append(attrs, "penwidth="+strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64))
	}
	attrs = append(attrs, "arrowhead="+arrowhead(s.Marker))
	if s.Animated {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func arrowhead(marker string) string {
	switch marker {
	case "arrowclosed":
		return "normal"
	case "arrow":
		return "vee"
	case "", "none":
		return "none"
	}
	return "normal"
}

// RenderSVG renders a DOT graph to SVG using the neato engine, which keeps
// pinned node positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG. A scale of 2.0 doubles the
// resolution.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	if scale > 0 && scale != 1 {
		dot = strings.Replace(dot, "{\n", fmt.Sprintf("{\n  dpi=%s;\n", fmtCoord(72*scale)), 1)
	}
	return renderDOT(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
