// Package viewport holds the pan/zoom camera applied to the rendered graph.
package viewport

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	MinScale = 0.1
	MaxScale = 10

	// ZoomStep is the factor applied by one ZoomIn or ZoomOut.
	ZoomStep = 1.2
)

var ErrInvalidCamera = errors.New("viewport: invalid camera")

// Camera maps world coordinates to the screen: screen = world*K + (X, Y).
type Camera struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	K float64 `json:"k" yaml:"k"`
}

func Identity() Camera { return Camera{K: 1} }

func (c Camera) Validate() error {
	for _, v := range []float64{c.X, c.Y, c.K} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite component in %+v: %w", c, ErrInvalidCamera)
		}
	}
	if c.K <= 0 {
		return fmt.Errorf("scale must be positive, got %v: %w", c.K, ErrInvalidCamera)
	}
	return nil
}

func (c Camera) Pan(dx, dy float64) Camera {
	c.X += dx
	c.Y += dy
	return c
}

// ZoomAt scales by factor about the screen point (px, py), which stays
// fixed. The resulting scale is clamped to [MinScale, MaxScale].
func (c Camera) ZoomAt(factor, px, py float64) Camera {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return c
	}
	k := math.Max(MinScale, math.Min(MaxScale, c.K*factor))
	wx, wy := c.Invert(px, py)
	return Camera{X: px - wx*k, Y: py - wy*k, K: k}
}

func (c Camera) ZoomIn(px, py float64) Camera  { return c.ZoomAt(ZoomStep, px, py) }
func (c Camera) ZoomOut(px, py float64) Camera { return c.ZoomAt(1/ZoomStep, px, py) }

func (c Camera) Apply(wx, wy float64) (float64, float64) {
	return wx*c.K + c.X, wy*c.K + c.Y
}

// Invert maps a screen point back to world coordinates.
func (c Camera) Invert(px, py float64) (float64, float64) {
	return (px - c.X) / c.K, (py - c.Y) / c.K
}

// Transform renders the camera as an SVG transform attribute value.
func (c Camera) Transform() string {
	return "translate(" + ftoa(c.X) + "," + ftoa(c.Y) + ") scale(" + ftoa(c.K) + ")"
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
