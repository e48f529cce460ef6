package force

import (
	"math"

	"github.com/matzehuels/graphweave/pkg/graph"
)

// Position is a node position in simulation space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the outcome of a simulation run.
type Result struct {
	Positions map[string]Position // Keyed by node id
	Order     []string            // Node ids in graph insertion order
	Ticks     int                 // Ticks actually run
	Alpha     float64             // Alpha after the last tick
}

// Position returns the position of the node and whether it was simulated.
func (r Result) Position(id string) (Position, bool) {
	p, ok := r.Positions[id]
	return p, ok
}

// Engine runs force simulations with a fixed configuration.
// An Engine is safe for concurrent use; every Run owns its own state.
type Engine struct {
	cfg Config
}

// New returns an engine for cfg. Zero fields take their defaults.
// Callers that accept user input should call [Config.Validate] first.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.WithDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run simulates g to completion. A graph without nodes yields an empty result.
func (e *Engine) Run(g *graph.Graph) Result {
	sim := NewSimulation(g, e.cfg)
	for sim.ticks < sim.cfg.Ticks && len(sim.particles) > 0 {
		sim.Tick()
	}
	return sim.Result()
}

// force is one term of the velocity update.
type force interface {
	apply(ps []*Particle, alpha float64)
}

// Simulation is the step-wise form of a run. It is not safe for concurrent use.
type Simulation struct {
	cfg       Config
	particles []*Particle
	forces    []force
	alpha     float64
	ticks     int
}

// NewSimulation places the nodes of g on the initial spiral and prepares the
// forces. Zero fields of cfg take their defaults.
func NewSimulation(g *graph.Graph, cfg Config) *Simulation {
	cfg = cfg.WithDefaults()
	ids := g.NodeIDs()
	particles := make([]*Particle, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		p := &Particle{ID: id, Index: i}
		p.place()
		particles[i] = p
		index[id] = i
	}

	jig := newJiggler(cfg.Seed)
	s := &Simulation{
		cfg:       cfg,
		particles: particles,
		alpha:     cfg.Alpha,
		forces: []force{
			newLinkForce(g.Edges(), index, len(particles), cfg, jig),
			newChargeForce(cfg, jig),
			newCenterForce(cfg),
			newCollideForce(cfg, jig),
		},
	}
	return s
}

// Tick advances the simulation by one step: cool alpha, apply every force,
// then integrate velocities into positions.
func (s *Simulation) Tick() {
	s.alpha += (s.cfg.AlphaTarget - s.alpha) * s.cfg.AlphaDecay
	for _, f := range s.forces {
		f.apply(s.particles, s.alpha)
	}
	keep := 1 - s.cfg.VelocityDecay
	for _, p := range s.particles {
		p.VX *= keep
		p.VY *= keep
		p.X += p.VX
		p.Y += p.VY
	}
	s.ticks++
}

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Particles returns a copy of the particle state in node insertion order.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	for i, p := range s.particles {
		out[i] = *p
	}
	return out
}

// Result returns the current positions.
func (s *Simulation) Result() Result {
	res := Result{
		Positions: make(map[string]Position, len(s.particles)),
		Order:     make([]string, len(s.particles)),
		Ticks:     s.ticks,
		Alpha:     s.alpha,
	}
	for i, p := range s.particles {
		res.Positions[p.ID] = Position{X: p.X, Y: p.Y}
		res.Order[i] = p.ID
	}
	return res
}

// Bounds returns the extent of the current particle positions.
func (s *Simulation) Bounds() (lo, hi Position) {
	if len(s.particles) == 0 {
		return Position{}, Position{}
	}
	lo = Position{X: math.Inf(1), Y: math.Inf(1)}
	hi = Position{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range s.particles {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
