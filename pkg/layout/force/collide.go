package force

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// collideForce pushes apart particles whose circles overlap. Neighbour
// candidates come from a k-d tree over predicted positions (x + vx),
// rebuilt before each iteration. The force is not scaled by alpha.
type collideForce struct {
	radius     float64
	strength   float64
	iterations int
	jig        *jiggler

	points     collidePoints
	candidates []int
}

func newCollideForce(cfg Config, jig *jiggler) *collideForce {
	return &collideForce{
		radius:     cfg.CollideRadius,
		strength:   cfg.CollideStrength,
		iterations: cfg.CollideIterations,
		jig:        jig,
	}
}

func (f *collideForce) apply(ps []*Particle, _ float64) {
	if len(ps) < 2 || f.radius == 0 || f.strength == 0 {
		return
	}
	for range f.iterations {
		f.iterate(ps)
	}
}

func (f *collideForce) iterate(ps []*Particle) {
	f.points = f.points[:0]
	for i, p := range ps {
		f.points = append(f.points, collidePoint{index: i, x: p.X + p.VX, y: p.Y + p.VY})
	}
	tree := kdtree.New(f.points, false)

	ri, rj := f.radius, f.radius
	r := ri + rj
	// Both radii are equal, so each side takes half of the correction.
	share := (rj * rj) / (ri*ri + rj*rj)

	for i, node := range ps {
		xi, yi := node.X+node.VX, node.Y+node.VY
		f.candidates = f.neighbours(tree, i, xi, yi, r)
		for _, j := range f.candidates {
			other := ps[j]
			x := xi - other.X - other.VX
			y := yi - other.Y - other.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = f.jig.next()
				l += x * x
			}
			if y == 0 {
				y = f.jig.next()
				l += y * y
			}
			d := math.Sqrt(l)
			k := (r - d) / d * f.strength
			x *= k
			y *= k
			node.VX += x * share
			node.VY += y * share
			other.VX -= x * (1 - share)
			other.VY -= y * (1 - share)
		}
	}
}

// neighbours returns, in ascending order, the indices greater than i whose
// tree position lies within r of (x, y).
func (f *collideForce) neighbours(tree *kdtree.Tree, i int, x, y, r float64) []int {
	keeper := kdtree.NewDistKeeper(r * r)
	tree.NearestSet(keeper, collidePoint{index: -1, x: x, y: y})
	out := f.candidates[:0]
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		if j := c.Comparable.(collidePoint).index; j > i {
			out = append(out, j)
		}
	}
	slices.Sort(out)
	return out
}

// =============================================================================
// k-d tree adapters
// =============================================================================

type collidePoint struct {
	index int
	x, y  float64
}

// Compare implements kdtree.Comparable.
func (p collidePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(collidePoint)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

// Dims implements kdtree.Comparable.
func (p collidePoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance. It implements kdtree.Comparable.
func (p collidePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(collidePoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type collidePoints []collidePoint

func (p collidePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p collidePoints) Len() int                      { return len(p) }
func (p collidePoints) Pivot(d kdtree.Dim) int {
	return collidePlane{collidePoints: p, Dim: d}.Pivot()
}
func (p collidePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// collidePlane sorts points along one dimension for median pivoting.
type collidePlane struct {
	kdtree.Dim
	collidePoints
}

func (p collidePlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.collidePoints[i].x < p.collidePoints[j].x
	}
	return p.collidePoints[i].y < p.collidePoints[j].y
}
func (p collidePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p collidePlane) Slice(start, end int) kdtree.SortSlicer {
	p.collidePoints = p.collidePoints[start:end]
	return p
}
func (p collidePlane) Swap(i, j int) {
	p.collidePoints[i], p.collidePoints[j] = p.collidePoints[j], p.collidePoints[i]
}
