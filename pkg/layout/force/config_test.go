package force

import (
	"math"
	"testing"

	"github.com/matzehuels/graphweave/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Ticks != 300 || cfg.LinkDistance != 100 || cfg.ChargeStrength != -100 ||
		cfg.CenterStrength != 0.1 || cfg.CollideRadius != 50 || cfg.VelocityDecay != 0.4 || cfg.Theta != 0.9 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	want := 1 - math.Pow(0.001, 1.0/300)
	if cfg.AlphaDecay != want {
		t.Errorf("AlphaDecay = %v, want %v", cfg.AlphaDecay, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Ticks: 10, LinkDistance: 30, Seed: 7}.WithDefaults()
	if cfg.Ticks != 10 || cfg.LinkDistance != 30 || cfg.Seed != 7 {
		t.Errorf("WithDefaults() overwrote explicit values: %+v", cfg)
	}
	if cfg.ChargeStrength != DefaultChargeStrength {
		t.Errorf("ChargeStrength = %v, want default", cfg.ChargeStrength)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NegativeTicks", func(c *Config) { c.Ticks = -1 }},
		{"TooManyTicks", func(c *Config) { c.Ticks = maxTicks + 1 }},
		{"NaNAlpha", func(c *Config) { c.Alpha = math.NaN() }},
		{"AlphaAboveOne", func(c *Config) { c.Alpha = 1.5 }},
		{"AlphaMinOne", func(c *Config) { c.AlphaMin = 1 }},
		{"AlphaDecayOne", func(c *Config) { c.AlphaDecay = 1 }},
		{"NegativeAlphaTarget", func(c *Config) { c.AlphaTarget = -0.1 }},
		{"VelocityDecayAboveOne", func(c *Config) { c.VelocityDecay = 2 }},
		{"InfLinkDistance", func(c *Config) { c.LinkDistance = math.Inf(1) }},
		{"NegativeLinkDistance", func(c *Config) { c.LinkDistance = -5 }},
		{"NegativeLinkStrength", func(c *Config) { c.LinkStrength = -1 }},
		{"NegativeTheta", func(c *Config) { c.Theta = -0.5 }},
		{"NegativeDistanceMin", func(c *Config) { c.DistanceMin = -1 }},
		{"NegativeCenterStrength", func(c *Config) { c.CenterStrength = -0.1 }},
		{"NegativeCollideRadius", func(c *Config) { c.CollideRadius = -1 }},
		{"CollideStrengthAboveOne", func(c *Config) { c.CollideStrength = 1.5 }},
		{"NegativeIterations", func(c *Config) { c.CollideIterations = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
