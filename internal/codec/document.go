package codec

import (
	"fmt"
	"math"

	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/viewport"
)

// Document is the persisted session. Physics, Camera and PopupEnabled may be
// absent on input; Encode always fills them.
type Document struct {
	Nodes        []Node           `json:"nodes" yaml:"nodes"`
	Links        []Link           `json:"links" yaml:"links"`
	Physics      *forces.Params   `json:"physics" yaml:"physics"`
	Camera       *viewport.Camera `json:"camera" yaml:"camera"`
	PopupEnabled *bool            `json:"popupEnabled" yaml:"popupEnabled"`
}

// Node is one persisted node. FX and FY are both set for a pinned node and
// both absent (or null) for a free one.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Group    string   `json:"group,omitempty" yaml:"group,omitempty"`
	X        *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	VX       *float64 `json:"vx,omitempty" yaml:"vx,omitempty"`
	VY       *float64 `json:"vy,omitempty" yaml:"vy,omitempty"`
	FX       *float64 `json:"fx,omitempty" yaml:"fx,omitempty"`
	FY       *float64 `json:"fy,omitempty" yaml:"fy,omitempty"`
	Selected bool     `json:"selected" yaml:"selected"`
}

type Link struct {
	Source Endpoint `json:"source" yaml:"source"`
	Target Endpoint `json:"target" yaml:"target"`
}

// Encode captures a live graph. Links are written from the resolved node
// references, never from the input they were loaded from. Call it with the
// engine lock held, e.g. inside Engine.Update.
func Encode(g *graph.Graph, physics forces.Params, camera viewport.Camera, popupEnabled bool) *Document {
	doc := &Document{
		Nodes:        make([]Node, 0, g.Len()),
		Links:        make([]Link, 0, len(g.Links())),
		Physics:      &physics,
		Camera:       &camera,
		PopupEnabled: &popupEnabled,
	}
	for _, n := range g.Nodes() {
		out := Node{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Type,
			Title:    n.Title,
			Group:    n.Group,
			Selected: n.Selected,
		}
		if n.Placed() {
			out.X, out.Y = ptr(n.X), ptr(n.Y)
		}
		if n.VX != 0 || n.VY != 0 {
			out.VX, out.VY = ptr(n.VX), ptr(n.VY)
		}
		if x, y, ok := n.Pin.At(); ok {
			out.FX, out.FY = ptr(x), ptr(y)
		}
		doc.Nodes = append(doc.Nodes, out)
	}
	for _, l := range g.Links() {
		doc.Links = append(doc.Links, Link{
			Source: Endpoint(l.Source.ID),
			Target: Endpoint(l.Target.ID),
		})
	}
	return doc
}

// Validate checks what a parse cannot: required sections, field pairing and
// finite numbers. Every failure wraps ErrMalformed.
func (d *Document) Validate() error {
	if d.Nodes == nil {
		return fmt.Errorf("%w: missing nodes", ErrMalformed)
	}
	if d.Links == nil {
		return fmt.Errorf("%w: missing links", ErrMalformed)
	}

	seen := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d: %w", ErrMalformed, i, graph.ErrEmptyID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: node %q: %w", ErrMalformed, n.ID, graph.ErrDuplicateID)
		}
		seen[n.ID] = struct{}{}

		for _, pair := range []struct {
			name string
			a, b *float64
		}{
			{"x/y", n.X, n.Y},
			{"vx/vy", n.VX, n.VY},
			{"fx/fy", n.FX, n.FY},
		} {
			if (pair.a == nil) != (pair.b == nil) {
				return fmt.Errorf("%w: node %q: %s must be set together", ErrMalformed, n.ID, pair.name)
			}
			if pair.a != nil && (!finite(*pair.a) || !finite(*pair.b)) {
				return fmt.Errorf("%w: node %q: non-finite %s", ErrMalformed, n.ID, pair.name)
			}
		}
	}

	for i, l := range d.Links {
		if l.Source == "" || l.Target == "" {
			return fmt.Errorf("%w: link %d: empty endpoint", ErrMalformed, i)
		}
	}

	if d.Physics != nil {
		if err := d.Physics.Validate(); err != nil {
			return fmt.Errorf("%w: physics: %w", ErrMalformed, err)
		}
	}
	if d.Camera != nil {
		if err := d.Camera.Validate(); err != nil {
			return fmt.Errorf("%w: camera: %w", ErrMalformed, err)
		}
	}
	return nil
}

// Specs converts the document into graph build input. The document must have
// passed Validate.
func (d *Document) Specs() ([]graph.NodeSpec, []graph.LinkSpec) {
	nodes := make([]graph.NodeSpec, len(d.Nodes))
	for i, n := range d.Nodes {
		spec := graph.NodeSpec{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Type,
			Title:    n.Title,
			Group:    n.Group,
			Selected: n.Selected,
		}
		if n.X != nil {
			spec.Position = &graph.Point{X: *n.X, Y: *n.Y}
		}
		if n.VX != nil {
			spec.Velocity = &graph.Point{X: *n.VX, Y: *n.VY}
		}
		if n.FX != nil {
			spec.Pin = graph.PinnedAt(*n.FX, *n.FY)
		}
		nodes[i] = spec
	}

	links := make([]graph.LinkSpec, len(d.Links))
	for i, l := range d.Links {
		links[i] = graph.LinkSpec{Source: string(l.Source), Target: string(l.Target)}
	}
	return nodes, links
}

// ExcludeTypes returns a copy without nodes of the given types and without
// links touching them.
func (d *Document) ExcludeTypes(types ...string) *Document {
	if len(types) == 0 {
		return d
	}
	skip := make(map[string]struct{}, len(types))
	for _, t := range types {
		skip[t] = struct{}{}
	}

	out := *d
	out.Nodes = make([]Node, 0, len(d.Nodes))
	dropped := make(map[string]struct{})
	for _, n := range d.Nodes {
		if _, ok := skip[n.Type]; ok {
			dropped[n.ID] = struct{}{}
			continue
		}
		out.Nodes = append(out.Nodes, n)
	}
	out.Links = make([]Link, 0, len(d.Links))
	for _, l := range d.Links {
		_, s := dropped[string(l.Source)]
		_, t := dropped[string(l.Target)]
		if !s && !t {
			out.Links = append(out.Links, l)
		}
	}
	return &out
}

func ptr(v float64) *float64 { return &v }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
