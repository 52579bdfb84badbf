package forces

import (
	"errors"
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

var (
	ErrUnknownForce    = errors.New("forces: unknown force")
	ErrUnknownProperty = errors.New("forces: unknown property")
	ErrInvalidValue    = errors.New("forces: invalid parameter value")
)

// Force contributes to node velocities for one tick.
type Force interface {
	Name() string
	Initialize(g *graph.Graph, j Jiggler)
	Apply(alpha float64)
	Configurable
}

// Configurable exposes named float parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
