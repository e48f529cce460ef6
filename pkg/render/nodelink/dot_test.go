package nodelink

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/render"
)

func testLayout() graph.Layout {
	return graph.Layout{
		Ready: true,
		Nodes: []graph.PositionedNode{
			{ID: "a", Label: "Alpha", X: 30, Y: 60},
			{ID: "b", X: -15.5, Y: -3, Description: "second", Tags: []string{"x", "y"}},
		},
		Edges: []graph.ProjectedEdge{
			{ID: "e1", Source: "a", Target: "b", Style: graph.DefaultEdgeStyle},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	for _, want := range []string{
		"digraph G",
		"layout=neato",
		"inputscale=72",
		`"a" [label="Alpha", pos="30.00,-60.00!"]`,
		`"b" [label="b", pos="-15.50,3.00!"]`,
		`"a" -> "b"`,
		`color="#94a3b8"`,
		"penwidth=1.5",
		"arrowhead=normal",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testLayout(), Options{Detailed: true})

	if !strings.Contains(dot, `label="b\nsecond\ntags: x, y"`) {
		t.Errorf("ToDOT() detailed output missing description and tags:\n%s", dot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(graph.Layout{Ready: true}, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(empty) = %q", dot)
	}
}

func TestFmtCoord(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{"zero", 0, "0.00"},
		{"negative zero", math.Copysign(0, -1), "0.00"},
		{"small negative rounds to zero", -0.001, "0.00"},
		{"small positive rounds to zero", 0.001, "0.00"},
		{"rounds to two decimals", 2.345678, "2.35"},
		{"negative", -15.5, "-15.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtCoord(tt.v); got != tt.want {
				t.Errorf("fmtCoord(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestToDOT_FlippedZero(t *testing.T) {
	tests := []struct {
		name string
		y    float64
	}{
		{"y zero", 0},
		{"y rounds to zero", 0.001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := graph.Layout{Ready: true, Nodes: []graph.PositionedNode{{ID: "n", X: 0, Y: tt.y}}}
			dot := ToDOT(l, Options{})
			if !strings.Contains(dot, `pos="0.00,0.00!"`) {
				t.Errorf("ToDOT() = %s, want pos=\"0.00,0.00!\"", dot)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "alpha", `"alpha"`},
		{"double quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `C:\dir`, `"C:\\dir"`},
		{"newline", "a\nb", `"a\nb"`},
		{"unicode kept", "café ✓", `"café ✓"`},
		{"invalid utf-8", "bad\xffbyte", "\"bad\uFFFDbyte\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quote(tt.in); got != tt.want {
				t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDOT_InvalidUTF8(t *testing.T) {
	l := graph.Layout{Ready: true, Nodes: []graph.PositionedNode{{ID: "n\xfe", Label: "x\xff"}}}
	dot := ToDOT(l, Options{})
	if strings.Contains(dot, `\x`) {
		t.Errorf("ToDOT() emitted Go byte escapes:\n%s", dot)
	}
	if !strings.Contains(dot, "\"n\uFFFD\" [label=\"x\uFFFD\"") {
		t.Errorf("ToDOT() did not replace invalid bytes:\n%s", dot)
	}
}

func TestFmtEdgeAttrs(t *testing.T) {
	tests := []struct {
		name  string
		style graph.EdgeStyle
		want  []string
	}{
		{"zero style uses default", graph.EdgeStyle{}, []string{`color="#94a3b8"`, "arrowhead=normal"}},
		{"animated", graph.EdgeStyle{Stroke: "red", Animated: true, Marker: "arrow"}, []string{`color="red"`, "arrowhead=vee", "style=dashed"}},
		{"no marker", graph.EdgeStyle{Stroke: "red", Marker: "none"}, []string{"arrowhead=none"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := strings.Join(fmtEdgeAttrs(graph.ProjectedEdge{ID: "e", Style: tt.style}), " ")
			for _, w := range tt.want {
				if !strings.Contains(joined, w) {
					t.Errorf("fmtEdgeAttrs() = %s, missing %s", joined, w)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRender(t *testing.T) {
	l := testLayout()
	ctx := context.Background()

	data, err := Render(ctx, l, render.FormatJSON, Options{})
	if err != nil {
		t.Fatalf("Render(json): %v", err)
	}
	back, err := graph.UnmarshalLayout(data)
	if err != nil || len(back.Nodes) != 2 {
		t.Errorf("Render(json) round trip = %+v, %v", back, err)
	}

	data, err = Render(ctx, l, render.FormatDOT, Options{})
	if err != nil || !strings.HasPrefix(string(data), "digraph G") {
		t.Errorf("Render(dot) = %q, %v", data, err)
	}

	if _, err := Render(ctx, l, render.Format("gif"), Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) err = %v, want INVALID_FORMAT", err)
	}
}
