package controls

import (
	"math"
	"strconv"

	"github.com/san-kum/forcegraph/internal/forces"
)

const (
	LinkDistance    = "linkDistance"
	ChargeStrength  = "chargeStrength"
	CollisionRadius = "collisionRadius"
)

// Param describes one tunable and the force property it drives.
type Param struct {
	Name    string
	Label   string
	Binding forces.Binding
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Standard returns the three physics tunables in display order.
func Standard() []Param {
	return []Param{
		{
			Name:    LinkDistance,
			Label:   "Link distance",
			Binding: forces.LinkDistanceBinding,
			Min:     1, Max: 500, Step: 1,
			Default: forces.DefaultLinkDistance,
		},
		{
			Name:    ChargeStrength,
			Label:   "Charge strength",
			Binding: forces.ChargeStrengthBinding,
			Min:     -1000, Max: 1000, Step: 1,
			Default: forces.DefaultChargeStrength,
		},
		{
			Name:    CollisionRadius,
			Label:   "Collision radius",
			Binding: forces.CollisionRadiusBinding,
			Min:     0, Max: 200, Step: 1,
			Default: forces.DefaultCollisionRadius,
		},
	}
}

func (p Param) clamp(v float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, v))
}

// snap rounds a slider value to the nearest step above Min.
func (p Param) snap(v float64) float64 {
	if p.Step <= 0 {
		return v
	}
	return p.clamp(p.Min + math.Round((v-p.Min)/p.Step)*p.Step)
}

func (p Param) accepts(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= p.Min && v <= p.Max
}

// Value is what both widgets of a parameter currently show.
type Value struct {
	Slider float64
	Field  string
}

func valueOf(v float64) Value {
	return Value{Slider: v, Field: strconv.FormatFloat(v, 'f', -1, 64)}
}

func paramsValue(p forces.Params, name string) (float64, bool) {
	switch name {
	case LinkDistance:
		return p.LinkDistance, true
	case ChargeStrength:
		return p.ChargeStrength, true
	case CollisionRadius:
		return p.CollisionRadius, true
	}
	return 0, false
}
