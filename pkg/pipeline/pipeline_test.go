package pipeline

import (
	"slices"
	"testing"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/layout/force"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() = %v", err)
	}

	if opts.Simulation != force.DefaultConfig() {
		t.Errorf("Simulation = %+v, want defaults", opts.Simulation)
	}
	if opts.Scale != 3 {
		t.Errorf("Scale = %v, want 3", opts.Scale)
	}
	if opts.EdgeStyle != graph.DefaultEdgeStyle {
		t.Errorf("EdgeStyle = %+v, want default", opts.EdgeStyle)
	}
	if !slices.Equal(opts.Formats, []string{"json"}) {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"SVG", "dot"}}
	opts.Simulation.Seed = 7

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.LayoutKeyOpts()
	formats := slices.Clone(opts.Formats)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.LayoutKeyOpts() != first {
		t.Error("layout options changed on second call")
	}
	if !slices.Equal(opts.Formats, formats) || formats[0] != "svg" {
		t.Errorf("Formats = %v, want normalized [svg dot]", opts.Formats)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidConfig},
		{"bad collide strength", Options{Simulation: force.Config{CollideStrength: 3}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{}
	a.SetLayoutDefaults()
	b := Options{Simulation: force.Config{Seed: 1}}
	b.SetLayoutDefaults()
	c := Options{EdgeStyle: graph.EdgeStyle{Stroke: "red"}}
	c.SetLayoutDefaults()

	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("seed should change the layout key")
	}
	if a.LayoutKeyOpts() == c.LayoutKeyOpts() {
		t.Error("edge style should change the layout key")
	}
	if a.ArtifactKeyOpts("svg") == a.ArtifactKeyOpts("png") {
		t.Error("format should change the artifact key")
	}
}

func TestGenerateLayout(t *testing.T) {
	g := graph.Aggregate(
		graph.Fragment{This: &graph.NodeRecord{ID: "a"}, Edges: []graph.EdgeRecord{{ID: "e1", Source: "a", Target: "b"}}},
		graph.Fragment{This: &graph.NodeRecord{ID: "b"}, Edges: []graph.EdgeRecord{{ID: "e2", Source: "b", Target: "ghost"}}},
	)

	opts := Options{Simulation: force.Config{Seed: 3}}
	l1, err := GenerateLayout(g, opts)
	if err != nil {
		t.Fatal(err)
	}
	l2, _ := GenerateLayout(g, opts)

	if !l1.Ready || len(l1.Nodes) != 2 || len(l1.Edges) != 1 {
		t.Fatalf("layout = ready %v, %d nodes, %d edges", l1.Ready, len(l1.Nodes), len(l1.Edges))
	}
	if l1.Seed != 3 || l1.Scale != 3 || l1.Ticks != force.DefaultTicks {
		t.Errorf("metadata = seed %d scale %v ticks %d", l1.Seed, l1.Scale, l1.Ticks)
	}
	for i := range l1.Nodes {
		if l1.Nodes[i].X != l2.Nodes[i].X || l1.Nodes[i].Y != l2.Nodes[i].Y {
			t.Errorf("node %s differs between runs", l1.Nodes[i].ID)
		}
	}
}

func TestGenerateLayoutEmpty(t *testing.T) {
	l, err := GenerateLayout(graph.New(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !l.Ready || len(l.Nodes) != 0 || len(l.Edges) != 0 {
		t.Errorf("empty layout = %+v", l)
	}
}
