package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/layout/force"
	"github.com/matzehuels/graphweave/pkg/layout/project"
	"github.com/matzehuels/graphweave/pkg/source"
)

// Config is the complete file-backed configuration.
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Projection ProjectionConfig `toml:"projection"`
	Source     SourceConfig     `toml:"source"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
}

// SimulationConfig mirrors force.Config. Zero values select the engine
// defaults, so AlphaDecay = 0 derives the decay from AlphaMin.
type SimulationConfig struct {
	Seed              uint64  `toml:"seed"`
	Ticks             int     `toml:"ticks" validate:"gte=0,lte=100000"`
	Alpha             float64 `toml:"alpha" validate:"gte=0,lte=1"`
	AlphaMin          float64 `toml:"alpha_min" validate:"gte=0,lt=1"`
	AlphaDecay        float64 `toml:"alpha_decay" validate:"gte=0,lt=1"`
	AlphaTarget       float64 `toml:"alpha_target" validate:"gte=0,lt=1"`
	VelocityDecay     float64 `toml:"velocity_decay" validate:"gte=0,lte=1"`
	LinkDistance      float64 `toml:"link_distance" validate:"gte=0"`
	LinkStrength      float64 `toml:"link_strength" validate:"gte=0"`
	ChargeStrength    float64 `toml:"charge_strength"`
	Theta             float64 `toml:"theta" validate:"gte=0"`
	DistanceMin       float64 `toml:"distance_min" validate:"gte=0"`
	CenterStrength    float64 `toml:"center_strength" validate:"gte=0"`
	CollideRadius     float64 `toml:"collide_radius" validate:"gte=0"`
	CollideStrength   float64 `toml:"collide_strength" validate:"gte=0,lte=1"`
	CollideIterations int     `toml:"collide_iterations" validate:"gte=0,lte=16"`
}

// Force converts the table into engine parameters.
func (s SimulationConfig) Force() force.Config {
	return force.Config{
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
	}
}

// ProjectionConfig controls the screen-space projection and edge styling.
type ProjectionConfig struct {
	Scale       float64 `toml:"scale" validate:"gt=0,lte=1000"`
	Stroke      string  `toml:"stroke" validate:"max=64"`
	StrokeWidth float64 `toml:"stroke_width" validate:"gte=0,lte=100"`
	Animated    bool    `toml:"animated"`
	Marker      string  `toml:"marker" validate:"omitempty,oneof=arrowclosed arrow none"`
}

// EdgeStyle returns the configured style for projected edges.
func (p ProjectionConfig) EdgeStyle() graph.EdgeStyle {
	return graph.EdgeStyle{
		Stroke:      p.Stroke,
		StrokeWidth: p.StrokeWidth,
		Animated:    p.Animated,
		Marker:      p.Marker,
	}
}

// SourceConfig configures the acquisition client.
type SourceConfig struct {
	BaseURL     string            `toml:"base_url" validate:"omitempty,http_url"`
	GraphPath   string            `toml:"graph_path" validate:"omitempty,startswith=/"`
	NodesPath   string            `toml:"nodes_path" validate:"omitempty,startswith=/"`
	NodePath    string            `toml:"node_path" validate:"omitempty,startswith=/,contains={id}"`
	Concurrency int               `toml:"concurrency" validate:"gte=1,lte=256"`
	Timeout     Duration          `toml:"timeout" validate:"gt=0"`
	Attempts    int               `toml:"attempts" validate:"gte=1,lte=10"`
	Backoff     Duration          `toml:"backoff" validate:"gt=0"`
	Headers     map[string]string `toml:"headers"`
}

// Options converts the table into client options for baseURL. An empty
// baseURL falls back to BaseURL.
func (s SourceConfig) Options(baseURL string) source.Options {
	if baseURL == "" {
		baseURL = s.BaseURL
	}
	return source.Options{
		BaseURL:     baseURL,
		GraphPath:   s.GraphPath,
		NodesPath:   s.NodesPath,
		NodePath:    s.NodePath,
		Concurrency: s.Concurrency,
		Timeout:     s.Timeout.Std(),
		Attempts:    s.Attempts,
		Backoff:     s.Backoff.Std(),
		Headers:     s.Headers,
	}
}

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// CacheConfig selects where layouts, artifacts and HTTP responses are cached.
type CacheConfig struct {
	Backend  string   `toml:"backend" validate:"oneof=file redis none"`
	Dir      string   `toml:"dir"`                                     // Empty selects ~/.cache/graphweave
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"` // redis://host:port/db
	Prefix   string   `toml:"prefix" validate:"max=64"`                // Key namespace
	HTTPTTL  Duration `toml:"http_ttl" validate:"gt=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr" validate:"required,hostname_port"`
	ReadTimeout  Duration `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout Duration `toml:"write_timeout" validate:"gt=0"`
	MaxBodyBytes int64    `toml:"max_body_bytes" validate:"gt=0"`
	Metrics      bool     `toml:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	sim := force.DefaultConfig()
	return Config{
		Simulation: SimulationConfig{
			Ticks:             sim.Ticks,
			Alpha:             sim.Alpha,
			AlphaMin:          sim.AlphaMin,
			VelocityDecay:     sim.VelocityDecay,
			LinkDistance:      sim.LinkDistance,
			ChargeStrength:    sim.ChargeStrength,
			Theta:             sim.Theta,
			DistanceMin:       sim.DistanceMin,
			CenterStrength:    sim.CenterStrength,
			CollideRadius:     sim.CollideRadius,
			CollideStrength:   sim.CollideStrength,
			CollideIterations: sim.CollideIterations,
		},
		Projection: ProjectionConfig{
			Scale:       project.DefaultScale,
			Stroke:      graph.DefaultEdgeStyle.Stroke,
			StrokeWidth: graph.DefaultEdgeStyle.StrokeWidth,
			Animated:    graph.DefaultEdgeStyle.Animated,
			Marker:      graph.DefaultEdgeStyle.Marker,
		},
		Source: SourceConfig{
			GraphPath:   source.DefaultGraphPath,
			NodesPath:   source.DefaultNodesPath,
			NodePath:    source.DefaultNodePath,
			Concurrency: source.DefaultConcurrency,
			Timeout:     Duration(source.DefaultTimeout),
			Attempts:    source.DefaultAttempts,
			Backoff:     Duration(source.DefaultBackoff),
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			HTTPTTL: Duration(24 * time.Hour),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(30 * time.Second),
			WriteTimeout: Duration(2 * time.Minute),
			MaxBodyBytes: 32 << 20,
			Metrics:      true,
		},
	}
}

// DefaultPath returns ~/.config/graphweave/config.toml (or the platform
// equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "graphweave", "config.toml"), nil
}

// Load reads path on top of [Default] and validates the result. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err = Decode(f)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of [Default] and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
