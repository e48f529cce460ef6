package force

// centerForce pulls every particle toward the origin, independently per axis.
type centerForce struct {
	strength float64
}

func newCenterForce(cfg Config) *centerForce {
	return &centerForce{strength: cfg.CenterStrength}
}

func (f *centerForce) apply(ps []*Particle, alpha float64) {
	k := f.strength * alpha
	for _, p := range ps {
		p.VX += (0 - p.X) * k
		p.VY += (0 - p.Y) * k
	}
}
