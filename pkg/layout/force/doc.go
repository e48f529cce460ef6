// Package force computes node positions with a force-directed simulation.
//
// # Overview
//
// The engine treats nodes as charged particles connected by springs and lets
// the system settle for a fixed number of ticks. Each tick applies, in order:
//
//  1. Link: springs pull connected nodes toward a target distance (100)
//  2. Charge: every node repels every other node (strength -100), using a
//     Barnes-Hut quadtree with theta 0.9 so a tick costs O(n log n)
//  3. Center: weak X and Y forces (strength 0.1) pull nodes toward the origin
//  4. Collide: nodes closer than two radii (radius 50) are pushed apart;
//     candidates come from a k-d tree over predicted positions
//
// Forces accumulate into particle velocities. After all forces ran, velocity
// is damped by VelocityDecay and added to position. The cooling parameter
// alpha starts at 1 and decays geometrically toward AlphaTarget; link,
// charge and centering are scaled by alpha, collision is not.
//
// # Usage
//
//	res := force.New(force.DefaultConfig()).Run(g)
//	for _, id := range res.Order {
//	    p := res.Positions[id]
//	    fmt.Println(id, p.X, p.Y)
//	}
//
// For tests and tooling the simulation can be driven tick by tick:
//
//	sim := force.NewSimulation(g, cfg)
//	for sim.Ticks() < cfg.Ticks {
//	    sim.Tick()
//	}
//
// # Determinism
//
// Initial positions follow a phyllotaxis spiral in node insertion order.
// The only randomness is a sub-micro jiggle that separates coincident
// particles, drawn from a PCG source seeded with [Config.Seed]. The same
// graph and configuration always produce the same positions.
//
// # Dangling Edges
//
// Edges whose source or target is not a node of the graph are ignored by the
// link force. They stay in the graph; the projector drops them later.
package force
