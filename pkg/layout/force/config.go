package force

import (
	"math"

	"github.com/matzehuels/graphweave/pkg/errors"
)

// Default simulation parameters.
const (
	DefaultTicks             = 300
	DefaultAlpha             = 1.0
	DefaultAlphaMin          = 0.001
	DefaultAlphaTarget       = 0.0
	DefaultVelocityDecay     = 0.4
	DefaultLinkDistance      = 100.0
	DefaultChargeStrength    = -100.0
	DefaultTheta             = 0.9
	DefaultDistanceMin       = 1.0
	DefaultCenterStrength    = 0.1
	DefaultCollideRadius     = 50.0
	DefaultCollideStrength   = 1.0
	DefaultCollideIterations = 1
)

// maxTicks bounds the work a single layout may request.
const maxTicks = 100_000

// Config holds the simulation parameters. The zero value of any field is
// replaced by its default in [Config.WithDefaults].
type Config struct {
	Ticks int    `json:"ticks"` // Number of ticks to run
	Seed  uint64 `json:"seed"`  // Seed for the jiggle source

	Alpha         float64 `json:"alpha"`          // Initial alpha
	AlphaMin      float64 `json:"alpha_min"`      // Alpha reached after 300 ticks at the default decay
	AlphaDecay    float64 `json:"alpha_decay"`    // Zero derives 1 - AlphaMin^(1/300)
	AlphaTarget   float64 `json:"alpha_target"`   // Alpha converges toward this value
	VelocityDecay float64 `json:"velocity_decay"` // Fraction of velocity lost per tick

	LinkDistance float64 `json:"link_distance"`
	LinkStrength float64 `json:"link_strength"` // Zero uses 1/min(degree(source), degree(target))

	ChargeStrength float64 `json:"charge_strength"` // Negative repels
	Theta          float64 `json:"theta"`           // Barnes-Hut accuracy
	DistanceMin    float64 `json:"distance_min"`

	CenterStrength float64 `json:"center_strength"`

	CollideRadius     float64 `json:"collide_radius"`
	CollideStrength   float64 `json:"collide_strength"`
	CollideIterations int     `json:"collide_iterations"`
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
// AlphaTarget and LinkStrength keep zero as a meaningful value.
func (c Config) WithDefaults() Config {
	if c.Ticks == 0 {
		c.Ticks = DefaultTicks
	}
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = DefaultAlphaMin
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = 1 - math.Pow(c.AlphaMin, 1.0/DefaultTicks)
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = DefaultVelocityDecay
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = DefaultChargeStrength
	}
	if c.Theta == 0 {
		c.Theta = DefaultTheta
	}
	if c.DistanceMin == 0 {
		c.DistanceMin = DefaultDistanceMin
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = DefaultCenterStrength
	}
	if c.CollideRadius == 0 {
		c.CollideRadius = DefaultCollideRadius
	}
	if c.CollideStrength == 0 {
		c.CollideStrength = DefaultCollideStrength
	}
	if c.CollideIterations == 0 {
		c.CollideIterations = DefaultCollideIterations
	}
	return c
}

// Validate reports the first parameter that is non-finite or out of range.
// The returned error carries errors.ErrCodeInvalidConfig.
func (c Config) Validate() error {
	finite := []struct {
		name string
		v    float64
	}{
		{"alpha", c.Alpha},
		{"alpha_min", c.AlphaMin},
		{"alpha_decay", c.AlphaDecay},
		{"alpha_target", c.AlphaTarget},
		{"velocity_decay", c.VelocityDecay},
		{"link_distance", c.LinkDistance},
		{"link_strength", c.LinkStrength},
		{"charge_strength", c.ChargeStrength},
		{"theta", c.Theta},
		{"distance_min", c.DistanceMin},
		{"center_strength", c.CenterStrength},
		{"collide_radius", c.CollideRadius},
		{"collide_strength", c.CollideStrength},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite, got %v", f.name, f.v)
		}
	}

	switch {
	case c.Ticks < 0 || c.Ticks > maxTicks:
		return errors.New(errors.ErrCodeInvalidConfig, "ticks must be in [0, %d], got %d", maxTicks, c.Ticks)
	case c.Alpha <= 0 || c.Alpha > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "alpha must be in (0, 1], got %v", c.Alpha)
	case c.AlphaMin <= 0 || c.AlphaMin >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "alpha_min must be in (0, 1), got %v", c.AlphaMin)
	case c.AlphaDecay <= 0 || c.AlphaDecay >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "alpha_decay must be in (0, 1), got %v", c.AlphaDecay)
	case c.AlphaTarget < 0 || c.AlphaTarget >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "alpha_target must be in [0, 1), got %v", c.AlphaTarget)
	case c.VelocityDecay < 0 || c.VelocityDecay > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "velocity_decay must be in [0, 1], got %v", c.VelocityDecay)
	case c.LinkDistance <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "link_distance must be positive, got %v", c.LinkDistance)
	case c.LinkStrength < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "link_strength must not be negative, got %v", c.LinkStrength)
	case c.Theta <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "theta must be positive, got %v", c.Theta)
	case c.DistanceMin <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "distance_min must be positive, got %v", c.DistanceMin)
	case c.CenterStrength < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "center_strength must not be negative, got %v", c.CenterStrength)
	case c.CollideRadius < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "collide_radius must not be negative, got %v", c.CollideRadius)
	case c.CollideStrength < 0 || c.CollideStrength > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "collide_strength must be in [0, 1], got %v", c.CollideStrength)
	case c.CollideIterations < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "collide_iterations must not be negative, got %d", c.CollideIterations)
	}
	return nil
}
