package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Collide treats every node as a disc of the same radius and pushes
// overlapping pairs apart along their centre line. It looks one step ahead
// (position plus velocity) and ignores alpha.
type Collide struct {
	radius     float64
	strength   float64
	iterations int

	nodes   []*graph.Node
	jiggler Jiggler
}

func NewCollide(radius float64) *Collide {
	return &Collide{radius: radius, strength: 1, iterations: 1}
}

func (f *Collide) Name() string { return "collision" }

func (f *Collide) Radius() float64 { return f.radius }

func (f *Collide) Initialize(g *graph.Graph, j Jiggler) {
	f.nodes = g.Nodes()
	f.jiggler = j
}

func (f *Collide) Apply(float64) {
	if f.radius <= 0 || f.strength == 0 {
		return
	}
	r := 2 * f.radius
	r2 := r * r
	n := len(f.nodes)
	for k := 0; k < f.iterations; k++ {
		for i := 0; i < n; i++ {
			a := f.nodes[i]
			for j := i + 1; j < n; j++ {
				b := f.nodes[j]
				x := a.X + a.VX - b.X - b.VX
				y := a.Y + a.VY - b.Y - b.VY
				l := x*x + y*y
				if l >= r2 {
					continue
				}
				if x == 0 {
					x = f.jiggle()
					l += x * x
				}
				if y == 0 {
					y = f.jiggle()
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.strength
				x *= l
				y *= l
				// Equal radii: each node takes half the correction.
				a.VX += x * 0.5
				a.VY += y * 0.5
				b.VX -= x * 0.5
				b.VY -= y * 0.5
			}
		}
	}
}

func (f *Collide) jiggle() float64 {
	if f.jiggler == nil {
		return jiggleScale
	}
	return f.jiggler.Jiggle()
}

func (f *Collide) GetParams() map[string]float64 {
	return map[string]float64{
		"radius":     f.radius,
		"strength":   f.strength,
		"iterations": float64(f.iterations),
	}
}

func (f *Collide) SetParam(name string, value float64) error {
	if !finite(value) {
		return fmt.Errorf("collision.%s=%v: %w", name, value, ErrInvalidValue)
	}
	switch name {
	case "radius":
		if value < 0 {
			return fmt.Errorf("collision.radius must be >= 0, got %v: %w", value, ErrInvalidValue)
		}
		f.radius = value
	case "strength":
		if value < 0 || value > 1 {
			return fmt.Errorf("collision.strength must be in [0,1], got %v: %w", value, ErrInvalidValue)
		}
		f.strength = value
	case "iterations":
		if value < 1 {
			return fmt.Errorf("collision.iterations must be >= 1, got %v: %w", value, ErrInvalidValue)
		}
		f.iterations = int(value)
	default:
		return fmt.Errorf("collision.%s: %w", name, ErrUnknownProperty)
	}
	return nil
}
