package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// =============================================================================
// Layout - Render-Ready Output
// =============================================================================

// Layout is the render-ready result of the pipeline: every node with a
// screen-space position and every resolvable edge with its presentation style.
//
// A renderer must not draw a Layout whose Ready flag is false.
type Layout struct {
	Nodes  []PositionedNode `json:"nodes"`
	Edges  []ProjectedEdge  `json:"edges"`
	Bounds Bounds           `json:"bounds"`
	Ready  bool             `json:"ready"`

	// Parameters the layout was computed with
	Seed  uint64  `json:"seed"`
	Ticks int     `json:"ticks"`
	Scale float64 `json:"scale"`
}

// Node returns the positioned node with the given id.
func (l Layout) Node(id string) (PositionedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}

// PositionedNode is a node record with screen-space coordinates.
type PositionedNode struct {
	ID          string   `json:"id"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
}

// Record returns the node record without its position.
func (n PositionedNode) Record() NodeRecord {
	return NodeRecord{ID: n.ID, Label: n.Label, Description: n.Description, Tags: n.Tags}
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n PositionedNode) DisplayLabel() string { return n.Record().DisplayLabel() }

// ProjectedEdge is an edge ready for drawing. Both endpoints are guaranteed to
// be present in the layout's node list.
type ProjectedEdge struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Style  EdgeStyle `json:"style"`
}

// EdgeStyle is the presentation metadata attached to every projected edge.
type EdgeStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Animated    bool    `json:"animated"`
	Marker      string  `json:"marker"` // Arrowhead at the target end
}

// DefaultEdgeStyle is the style attached to edges unless overridden.
var DefaultEdgeStyle = EdgeStyle{
	Stroke:      "#94a3b8",
	StrokeWidth: 1.5,
	Animated:    false,
	Marker:      "arrowclosed",
}

// Bounds is the axis-aligned bounding box of the projected node centres.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// BoundsOf computes the bounds of the given nodes. It returns the zero
// Bounds for an empty slice.
func BoundsOf(nodes []PositionedNode) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, n := range nodes {
		b.MinX = math.Min(b.MinX, n.X)
		b.MinY = math.Min(b.MinY, n.Y)
		b.MaxX = math.Max(b.MaxX, n.X)
		b.MaxY = math.Max(b.MaxY, n.Y)
	}
	return b
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Only ready layouts with finite coordinates are accepted.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if !l.Ready {
		return Layout{}, fmt.Errorf("layout is not ready")
	}
	for _, n := range l.Nodes {
		if n.ID == "" {
			return Layout{}, fmt.Errorf("layout contains a node without id")
		}
		if math.IsNaN(n.X) || math.IsInf(n.X, 0) || math.IsNaN(n.Y) || math.IsInf(n.Y, 0) {
			return Layout{}, fmt.Errorf("node %q has a non-finite position", n.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
