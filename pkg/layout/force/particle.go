package force

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// initialRadius and initialAngle define the phyllotaxis spiral used to place
// particles before the first tick.
const initialRadius = 10

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Particle is the mutable simulation state of one node.
// Particles are owned by a single [Simulation].
type Particle struct {
	ID     string
	Index  int
	X, Y   float64
	VX, VY float64
}

// Coord2 returns the particle position. It implements barneshut.Particle2.
func (p *Particle) Coord2() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Mass returns 1; every node carries the same charge.
func (p *Particle) Mass() float64 { return 1 }

// place puts the particle on the phyllotaxis spiral and clears its velocity.
func (p *Particle) place() {
	radius := initialRadius * math.Sqrt(0.5+float64(p.Index))
	angle := float64(p.Index) * initialAngle
	p.X = radius * math.Cos(angle)
	p.Y = radius * math.Sin(angle)
	p.VX, p.VY = 0, 0
}

// jiggler returns tiny random offsets used where two particles coincide.
type jiggler struct {
	rng *rand.Rand
}

func newJiggler(seed uint64) *jiggler {
	return &jiggler{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

func (j *jiggler) next() float64 {
	return (j.rng.Float64() - 0.5) * 1e-6
}

// orJiggle returns v, or a jiggle when v is exactly zero.
func (j *jiggler) orJiggle(v float64) float64 {
	if v == 0 {
		return j.next()
	}
	return v
}
