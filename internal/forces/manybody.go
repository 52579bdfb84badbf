package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

// ManyBody applies a pairwise charge between every node pair. The velocity
// change on each node is strength*alpha*d/|d|^2, so its magnitude falls off
// as 1/|d| and the pair always receives equal and opposite pushes.
type ManyBody struct {
	strength     float64
	distanceMin2 float64
	distanceMax2 float64

	nodes   []*graph.Node
	jiggler Jiggler
}

func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{
		strength:     strength,
		distanceMin2: 1,
		distanceMax2: math.Inf(1),
	}
}

func (f *ManyBody) Name() string { return "charge" }

func (f *ManyBody) Strength() float64 { return f.strength }

func (f *ManyBody) Initialize(g *graph.Graph, j Jiggler) {
	f.nodes = g.Nodes()
	f.jiggler = j
}

func (f *ManyBody) Apply(alpha float64) {
	if f.strength == 0 {
		return
	}
	n := len(f.nodes)
	for i := 0; i < n; i++ {
		a := f.nodes[i]
		for j := i + 1; j < n; j++ {
			b := f.nodes[j]
			x := b.X - a.X
			y := b.Y - a.Y
			l := x*x + y*y
			if l == 0 {
				x, y = f.jiggle(), f.jiggle()
				l = x*x + y*y
			}
			if l >= f.distanceMax2 {
				continue
			}
			if l < f.distanceMin2 {
				l = math.Sqrt(f.distanceMin2 * l)
			}
			w := f.strength * alpha / l
			a.VX += x * w
			a.VY += y * w
			b.VX -= x * w
			b.VY -= y * w
		}
	}
}

func (f *ManyBody) jiggle() float64 {
	if f.jiggler == nil {
		return jiggleScale
	}
	return f.jiggler.Jiggle()
}

func (f *ManyBody) GetParams() map[string]float64 {
	return map[string]float64{
		"strength":    f.strength,
		"distanceMin": math.Sqrt(f.distanceMin2),
		"distanceMax": math.Sqrt(f.distanceMax2),
	}
}

func (f *ManyBody) SetParam(name string, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("charge.%s=NaN: %w", name, ErrInvalidValue)
	}
	switch name {
	case "strength":
		if math.IsInf(value, 0) {
			return fmt.Errorf("charge.strength=%v: %w", value, ErrInvalidValue)
		}
		f.strength = value
	case "distanceMin":
		if value < 0 || math.IsInf(value, 0) {
			return fmt.Errorf("charge.distanceMin=%v: %w", value, ErrInvalidValue)
		}
		f.distanceMin2 = value * value
	case "distanceMax":
		if value <= 0 {
			return fmt.Errorf("charge.distanceMax=%v: %w", value, ErrInvalidValue)
		}
		f.distanceMax2 = value * value
	default:
		return fmt.Errorf("charge.%s: %w", name, ErrUnknownProperty)
	}
	return nil
}
