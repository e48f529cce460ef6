// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Aggregate: merge fragments into one deduplicated graph
//  2. Layout: run the force simulation and project it to screen space
//  3. Render: write the layout in the requested formats (json, dot, svg, png, pdf)
//
// An optional acquisition stage ([Runner.Acquire]) fetches the fragments
// from a graph service first. Layouts and artifacts are cached by content
// hash, so rerunning the pipeline on an unchanged graph is cheap.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, fragments, pipeline.Options{
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, stats := runner.Aggregate(ctx, fragments)
//	layout, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/layout/force"
	"github.com/matzehuels/graphweave/pkg/layout/project"
	"github.com/matzehuels/graphweave/pkg/render"
)

// DefaultFormats is used when no output format is requested.
var DefaultFormats = []string{string(render.FormatJSON)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Simulation force.Config    `json:"simulation"`
	Scale      float64         `json:"scale,omitempty"`
	EdgeStyle  graph.EdgeStyle `json:"edge_style,omitzero"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Description and tags in node labels

	Refresh bool `json:"refresh,omitempty"` // Ignore cached layouts and artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Graph is the aggregated graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout is the projected layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Fragments      int
	NodeCount      int
	EdgeCount      int
	DanglingCount  int
	DuplicateNodes int
	DuplicateEdges int
	Ticks          int

	AggregateTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	o.Simulation = o.Simulation.WithDefaults()
	if o.Scale == 0 {
		o.Scale = project.DefaultScale
	}
	if o.EdgeStyle == (graph.EdgeStyle{}) {
		o.EdgeStyle = graph.DefaultEdgeStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Simulation.Validate(); err != nil {
		return err
	}
	if math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) || o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive and finite, got %v", o.Scale)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering. Format names
// are normalized to lower case.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		formats = append(formats, string(parsed))
	}
	o.Formats = formats
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	s := o.Simulation
	return cache.LayoutKeyOpts{
		Seed:              s.Seed,
		Ticks:             s.Ticks,
		Alpha:             s.Alpha,
		AlphaMin:          s.AlphaMin,
		AlphaDecay:        s.AlphaDecay,
		AlphaTarget:       s.AlphaTarget,
		VelocityDecay:     s.VelocityDecay,
		LinkDistance:      s.LinkDistance,
		LinkStrength:      s.LinkStrength,
		ChargeStrength:    s.ChargeStrength,
		Theta:             s.Theta,
		DistanceMin:       s.DistanceMin,
		CenterStrength:    s.CenterStrength,
		CollideRadius:     s.CollideRadius,
		CollideStrength:   s.CollideStrength,
		CollideIterations: s.CollideIterations,
		Scale:             o.Scale,
		Stroke:            o.EdgeStyle.Stroke,
		StrokeWidth:       o.EdgeStyle.StrokeWidth,
		Animated:          o.EdgeStyle.Animated,
		Marker:            o.EdgeStyle.Marker,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
