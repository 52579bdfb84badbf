package forces

import (
	"fmt"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Center translates all nodes so the centroid moves toward (x, y). It does
// not change relative positions.
type Center struct {
	x, y     float64
	strength float64

	nodes []*graph.Node
}

func NewCenter(x, y float64) *Center {
	return &Center{x: x, y: y, strength: 1}
}

func (f *Center) Name() string { return "center" }

func (f *Center) Initialize(g *graph.Graph, _ Jiggler) {
	f.nodes = g.Nodes()
}

func (f *Center) Apply(float64) {
	n := len(f.nodes)
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, node := range f.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = (sx/float64(n) - f.x) * f.strength
	sy = (sy/float64(n) - f.y) * f.strength
	for _, node := range f.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

func (f *Center) GetParams() map[string]float64 {
	return map[string]float64{"x": f.x, "y": f.y, "strength": f.strength}
}

func (f *Center) SetParam(name string, value float64) error {
	if !finite(value) {
		return fmt.Errorf("center.%s=%v: %w", name, value, ErrInvalidValue)
	}
	switch name {
	case "x":
		f.x = value
	case "y":
		f.y = value
	case "strength":
		if value < 0 || value > 1 {
			return fmt.Errorf("center.strength must be in [0,1], got %v: %w", value, ErrInvalidValue)
		}
		f.strength = value
	default:
		return fmt.Errorf("center.%s: %w", name, ErrUnknownProperty)
	}
	return nil
}
