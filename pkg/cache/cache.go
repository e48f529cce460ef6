// Package cache provides the key/value store the pipeline uses to skip
// repeated work.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests and --no-cache runs
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, never from raw input:
//
//	graph hash  = Hash(canonical graph JSON)
//	layout key  = LayoutKey(graph hash, simulation and projection options)
//	artifact key = ArtifactKey(layout hash, format)
//
// Identical graphs laid out with identical options therefore share one
// entry regardless of where the graph came from. [ScopedKeyer] prefixes
// every key for callers that need separate namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value. A missing or expired entry is a miss,
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLHTTP     = 24 * time.Hour      // Raw source responses
	TTLGraph    = 24 * time.Hour      // Aggregated graphs fetched from a source
	TTLLayout   = 7 * 24 * time.Hour  // Layouts; deterministic, so long-lived
	TTLArtifact = 30 * 24 * time.Hour // Rendered artifacts
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response within a namespace.
	HTTPKey(namespace, key string) string

	// GraphKey keys the aggregated graph acquired from a source.
	GraphKey(source string, opts GraphKeyOpts) string

	// LayoutKey keys a layout computed from the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts holds the acquisition options that change the fetched graph.
type GraphKeyOpts struct {
	Whole bool `json:"whole"` // Whole-graph endpoint instead of per-node fragments
}

// LayoutKeyOpts holds every option that changes the computed layout.
type LayoutKeyOpts struct {
	Seed              uint64  `json:"seed"`
	Ticks             int     `json:"ticks"`
	Alpha             float64 `json:"alpha"`
	AlphaMin          float64 `json:"alpha_min"`
	AlphaDecay        float64 `json:"alpha_decay"`
	AlphaTarget       float64 `json:"alpha_target"`
	VelocityDecay     float64 `json:"velocity_decay"`
	LinkDistance      float64 `json:"link_distance"`
	LinkStrength      float64 `json:"link_strength"`
	ChargeStrength    float64 `json:"charge_strength"`
	Theta             float64 `json:"theta"`
	DistanceMin       float64 `json:"distance_min"`
	CenterStrength    float64 `json:"center_strength"`
	CollideRadius     float64 `json:"collide_radius"`
	CollideStrength   float64 `json:"collide_strength"`
	CollideIterations int     `json:"collide_iterations"`

	Scale       float64 `json:"scale"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Animated    bool    `json:"animated"`
	Marker      string  `json:"marker"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer builds keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>". HTTP keys stay readable so
// entries for one source can be found by prefix.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey hashes the source and options.
func (DefaultKeyer) GraphKey(source string, opts GraphKeyOpts) string {
	return hashKey("graph", source, opts)
}

// LayoutKey hashes the graph hash and options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash and options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
