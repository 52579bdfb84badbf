package forces

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Jiggler yields tiny non-zero offsets used to separate coincident nodes.
type Jiggler interface {
	Jiggle() float64
}

const jiggleScale = 1e-6

// NoiseJiggler walks a simplex noise field, so a given seed always produces
// the same sequence.
type NoiseJiggler struct {
	noise opensimplex.Noise
	t     float64
}

func NewJiggler(seed int64) *NoiseJiggler {
	return &NoiseJiggler{noise: opensimplex.New(seed)}
}

func (j *NoiseJiggler) Jiggle() float64 {
	j.t += 0.618
	v := j.noise.Eval2(j.t, 0.5)
	if v == 0 {
		v = 0.5
	}
	return v * jiggleScale
}
