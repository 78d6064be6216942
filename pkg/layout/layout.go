// Package layout places mind-map nodes in concentric rings around an anchor
// node and then relaxes overlapping pairs with a fixed number of repulsion
// passes.
package layout

import (
	"math"

	"github.com/ritzau/mindmap/pkg/geometry"
)

const (
	// DefaultMinNodeDistance is the spacing below which two nodes repel
	DefaultMinNodeDistance = 120.0

	// DefaultIterations is the number of relaxation passes
	DefaultIterations = 50

	// ringSpacing scales MinNodeDistance into the gap between rings
	ringSpacing = 1.5

	// repulsion scales the overlap correction applied per pair
	repulsion = 0.5
)

// Options configures a layout run
type Options struct {
	Anchor          string
	Center          geometry.Point // Viewport centre; the anchor is pinned here
	MinNodeDistance float64
	Iterations      int
}

func (o Options) withDefaults() Options {
	if o.MinNodeDistance <= 0 {
		o.MinNodeDistance = DefaultMinNodeDistance
	}
	if o.Iterations < 0 {
		o.Iterations = 0
	}
	return o
}

// Positions holds one world-space position per node, iterating in
// insertion order.
type Positions struct {
	order []string
	pos   map[string]geometry.Point
}

// NewPositions returns an empty position map
func NewPositions() *Positions {
	return &Positions{pos: make(map[string]geometry.Point)}
}

// Set assigns a position, appending label to the iteration order on first use
func (p *Positions) Set(label string, pt geometry.Point) {
	if _, exists := p.pos[label]; !exists {
		p.order = append(p.order, label)
	}
	p.pos[label] = pt
}

// Get returns the position of label
func (p *Positions) Get(label string) (geometry.Point, bool) {
	pt, ok := p.pos[label]
	return pt, ok
}

// Labels returns positioned labels in insertion order
func (p *Positions) Labels() []string {
	return append([]string(nil), p.order...)
}

// Len returns the number of positioned nodes
func (p *Positions) Len() int {
	return len(p.order)
}

// RingCapacity returns how many nodes fit on a ring of the given radius
func RingCapacity(radius, minDistance float64) int {
	return int(math.Floor(2 * math.Pi * radius / minDistance))
}

// PlaceRings pins the anchor at the centre and distributes the remaining
// labels, in order, over rings 1, 2, ... filling each ring to capacity.
// The anchor is positioned even if labels does not contain it.
func PlaceRings(labels []string, opts Options) *Positions {
	opts = opts.withDefaults()
	positions := NewPositions()
	positions.Set(opts.Anchor, opts.Center)

	others := make([]string, 0, len(labels))
	for _, label := range labels {
		if label != opts.Anchor {
			others = append(others, label)
		}
	}

	assigned := 0
	for ring := 1; assigned < len(others); ring++ {
		radius := float64(ring) * opts.MinNodeDistance * ringSpacing
		capacity := RingCapacity(radius, opts.MinNodeDistance)

		end := min(assigned+capacity, len(others))
		inRing := others[assigned:end]
		for i, label := range inRing {
			angle := float64(i)/float64(len(inRing))*2*math.Pi - math.Pi/2
			positions.Set(label, geometry.Point{
				X: opts.Center.X + math.Cos(angle)*radius,
				Y: opts.Center.Y + math.Sin(angle)*radius,
			})
		}

		assigned = end
	}

	return positions
}

// Relax runs the overlap relaxation. Forces are accumulated over all pairs
// and applied once per iteration; the pinned label never moves.
func Relax(positions *Positions, pinned string, minDistance float64, iterations int) {
	if minDistance <= 0 {
		minDistance = DefaultMinNodeDistance
	}

	labels := positions.order
	forces := make([]geometry.Point, len(labels))

	for iter := 0; iter < iterations; iter++ {
		for i := range forces {
			forces[i] = geometry.Point{}
		}

		for i := 0; i < len(labels); i++ {
			p1 := positions.pos[labels[i]]
			for j := i + 1; j < len(labels); j++ {
				p2 := positions.pos[labels[j]]
				dx := p2.X - p1.X
				dy := p2.Y - p1.Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist <= 0 || dist >= minDistance {
					continue
				}

				f := (minDistance - dist) / dist * repulsion
				forces[i].X -= dx * f
				forces[i].Y -= dy * f
				forces[j].X += dx * f
				forces[j].Y += dy * f
			}
		}

		for i, label := range labels {
			if label == pinned {
				continue
			}
			positions.pos[label] = positions.pos[label].Add(forces[i])
		}
	}
}

// Compute places labels in rings and relaxes them
func Compute(labels []string, opts Options) *Positions {
	opts = opts.withDefaults()
	positions := PlaceRings(labels, opts)
	Relax(positions, opts.Anchor, opts.MinNodeDistance, opts.Iterations)
	return positions
}
