package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Link is a spring force along every link. Each link's stiffness is
// 1/min(degree(source), degree(target)) and the correction is split between
// the endpoints by degree, so hubs move less than leaves.
type Link struct {
	distance   float64
	iterations int

	links    []graph.Link
	strength []float64
	bias     []float64
}

func NewLink(distance float64) *Link {
	return &Link{distance: distance, iterations: 1}
}

func (f *Link) Name() string { return "link" }

func (f *Link) Distance() float64 { return f.distance }

func (f *Link) Initialize(g *graph.Graph, _ Jiggler) {
	f.links = g.Links()
	deg := g.Degree()
	f.strength = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		s, t := float64(deg[l.Source.Index]), float64(deg[l.Target.Index])
		f.strength[i] = 1 / math.Min(s, t)
		f.bias[i] = s / (s + t)
	}
}

func (f *Link) Apply(alpha float64) {
	for k := 0; k < f.iterations; k++ {
		for i, l := range f.links {
			src, tgt := l.Source, l.Target
			x := tgt.X + tgt.VX - src.X - src.VX
			y := tgt.Y + tgt.VY - src.Y - src.VY
			d := math.Sqrt(x*x + y*y)
			// Coincident endpoints have no direction to pull along.
			if d == 0 {
				continue
			}
			d = (d - f.distance) / d * alpha * f.strength[i]
			x *= d
			y *= d

			b := f.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			src.VX += x * (1 - b)
			src.VY += y * (1 - b)
		}
	}
}

func (f *Link) GetParams() map[string]float64 {
	return map[string]float64{
		"distance":   f.distance,
		"iterations": float64(f.iterations),
	}
}

func (f *Link) SetParam(name string, value float64) error {
	if !finite(value) {
		return fmt.Errorf("link.%s=%v: %w", name, value, ErrInvalidValue)
	}
	switch name {
	case "distance":
		if value <= 0 {
			return fmt.Errorf("link.distance must be positive, got %v: %w", value, ErrInvalidValue)
		}
		f.distance = value
	case "iterations":
		if value < 1 {
			return fmt.Errorf("link.iterations must be >= 1, got %v: %w", value, ErrInvalidValue)
		}
		f.iterations = int(value)
	default:
		return fmt.Errorf("link.%s: %w", name, ErrUnknownProperty)
	}
	return nil
}
