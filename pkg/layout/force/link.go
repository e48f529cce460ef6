package force

import (
	"math"

	"github.com/matzehuels/graphweave/pkg/graph"
)

type link struct {
	source, target int
	strength       float64
	bias           float64
}

// linkForce pulls the endpoints of every resolved edge toward LinkDistance.
type linkForce struct {
	links    []link
	distance float64
	jig      *jiggler
}

func newLinkForce(edges []graph.EdgeRecord, index map[string]int, n int, cfg Config, jig *jiggler) *linkForce {
	links := make([]link, 0, len(edges))
	count := make([]int, n)
	for _, e := range edges {
		src, okS := index[e.Source]
		tgt, okT := index[e.Target]
		if !okS || !okT {
			continue
		}
		count[src]++
		count[tgt]++
		links = append(links, link{source: src, target: tgt})
	}
	for i := range links {
		l := &links[i]
		cs, ct := float64(count[l.source]), float64(count[l.target])
		l.bias = cs / (cs + ct)
		if cfg.LinkStrength > 0 {
			l.strength = cfg.LinkStrength
		} else {
			l.strength = 1 / math.Min(cs, ct)
		}
	}
	return &linkForce{links: links, distance: cfg.LinkDistance, jig: jig}
}

func (f *linkForce) apply(ps []*Particle, alpha float64) {
	for _, l := range f.links {
		src, tgt := ps[l.source], ps[l.target]
		x := f.jig.orJiggle(tgt.X + tgt.VX - src.X - src.VX)
		y := f.jig.orJiggle(tgt.Y + tgt.VY - src.Y - src.VY)
		d := math.Sqrt(x*x + y*y)
		k := (d - f.distance) / d * alpha * l.strength
		x *= k
		y *= k
		tgt.VX -= x * l.bias
		tgt.VY -= y * l.bias
		src.VX += x * (1 - l.bias)
		src.VY += y * (1 - l.bias)
	}
}
