package forces

import (
	"fmt"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Field is the ordered set of forces applied each tick. It is not safe for
// concurrent use; the engine serialises access.
type Field struct {
	link    *Link
	charge  *ManyBody
	center  *Center
	collide *Collide

	order []Force
}

// NewField builds the four standard forces, centred on (cx, cy).
func NewField(p Params, cx, cy float64) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f := &Field{
		link:    NewLink(p.LinkDistance),
		charge:  NewManyBody(p.ChargeStrength),
		center:  NewCenter(cx, cy),
		collide: NewCollide(p.CollisionRadius),
	}
	f.order = []Force{f.link, f.charge, f.center, f.collide}
	return f, nil
}

func (f *Field) Initialize(g *graph.Graph, j Jiggler) {
	for _, force := range f.order {
		force.Initialize(g, j)
	}
}

func (f *Field) Apply(alpha float64) {
	for _, force := range f.order {
		force.Apply(alpha)
	}
}

func (f *Field) Force(name string) (Force, bool) {
	for _, force := range f.order {
		if force.Name() == name {
			return force, true
		}
	}
	return nil, false
}

func (f *Field) Names() []string {
	names := make([]string, len(f.order))
	for i, force := range f.order {
		names[i] = force.Name()
	}
	return names
}

// SetParameter changes one property of a named force. The new value is used
// from the next Apply; callers are expected to reheat the simulation.
func (f *Field) SetParameter(forceName, property string, value float64) error {
	force, ok := f.Force(forceName)
	if !ok {
		return fmt.Errorf("%q: %w", forceName, ErrUnknownForce)
	}
	return force.SetParam(property, value)
}

func (f *Field) Params() Params {
	return Params{
		LinkDistance:    f.link.Distance(),
		ChargeStrength:  f.charge.Strength(),
		CollisionRadius: f.collide.Radius(),
	}
}

// ApplyParams sets all three tunables or none of them.
func (f *Field) ApplyParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.link.distance = p.LinkDistance
	f.charge.strength = p.ChargeStrength
	f.collide.radius = p.CollisionRadius
	return nil
}

// Binding maps a Params field to its force property.
type Binding struct {
	Force    string
	Property string
}

var (
	LinkDistanceBinding    = Binding{Force: "link", Property: "distance"}
	ChargeStrengthBinding  = Binding{Force: "charge", Property: "strength"}
	CollisionRadiusBinding = Binding{Force: "collision", Property: "radius"}
)
