package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// chargeForce applies many-body repulsion with the Barnes-Hut approximation.
// The quadtree is rebuilt from current positions on every tick.
type chargeForce struct {
	strength     float64
	theta        float64
	distanceMin2 float64
	jig          *jiggler

	bodies []barneshut.Particle2
	seen   map[r2.Vec]struct{}
}

func newChargeForce(cfg Config, jig *jiggler) *chargeForce {
	return &chargeForce{
		strength:     cfg.ChargeStrength,
		theta:        cfg.Theta,
		distanceMin2: cfg.DistanceMin * cfg.DistanceMin,
		jig:          jig,
		seen:         make(map[r2.Vec]struct{}),
	}
}

func (f *chargeForce) apply(ps []*Particle, alpha float64) {
	if len(ps) < 2 {
		return
	}
	f.separate(ps)

	repel := f.pairForce(alpha)
	f.bodies = f.bodies[:0]
	for _, p := range ps {
		f.bodies = append(f.bodies, p)
	}
	plane, err := barneshut.NewPlane(f.bodies)
	if err != nil {
		f.applyExact(ps, repel)
		return
	}
	for _, p := range ps {
		v := plane.ForceOn(p, f.theta, repel)
		p.VX += v.X
		p.VY += v.Y
	}
}

// pairForce returns the velocity change on p1 caused by p2, or by an
// aggregate of m2 particles centred at p1 + v.
func (f *chargeForce) pairForce(alpha float64) barneshut.Force2 {
	return func(p1, p2 barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
		if p2 != nil && p1 == p2 {
			return r2.Vec{}
		}
		l := r2.Norm2(v)
		if l == 0 {
			return r2.Vec{}
		}
		if l < f.distanceMin2 {
			l = math.Sqrt(f.distanceMin2 * l)
		}
		return r2.Scale(m2*f.strength*alpha/l, v)
	}
}

// applyExact sums the repulsion over all pairs. It is used when the quadtree
// cannot be built.
func (f *chargeForce) applyExact(ps []*Particle, repel barneshut.Force2) {
	for _, p := range ps {
		var dv r2.Vec
		for _, q := range ps {
			if p == q {
				continue
			}
			dv = r2.Add(dv, repel(p, q, 1, 1, r2.Sub(q.Coord2(), p.Coord2())))
		}
		p.VX += dv.X
		p.VY += dv.Y
	}
}

// separate nudges particles that share an exact position with an earlier one,
// so the quadtree never has to split coincident points.
func (f *chargeForce) separate(ps []*Particle) {
	clear(f.seen)
	for _, p := range ps {
		pos := p.Coord2()
		for {
			if _, dup := f.seen[pos]; !dup {
				break
			}
			p.X += f.jig.next()
			p.Y += f.jig.next()
			pos = p.Coord2()
		}
		f.seen[pos] = struct{}{}
	}
}
