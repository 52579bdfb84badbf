package forces

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/forcegraph/internal/graph"
)

func buildGraph(t *testing.T, pos map[string]graph.Point, links ...[2]string) *graph.Graph {
	t.Helper()
	var specs []graph.NodeSpec
	for _, id := range []string{"a", "b", "c", "d"} {
		p, ok := pos[id]
		if !ok {
			continue
		}
		specs = append(specs, graph.NodeSpec{ID: id, Position: &p})
	}
	var ls []graph.LinkSpec
	for _, l := range links {
		ls = append(ls, graph.LinkSpec{Source: l[0], Target: l[1]})
	}
	g, _, err := graph.New(specs, ls)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func node(g *graph.Graph, id string) *graph.Node {
	n, _ := g.Node(id)
	return n
}

func TestLink_PullsTowardDistance(t *testing.T) {
	tests := []struct {
		name    string
		bx      float64
		wantDir float64 // sign of a's vx
	}{
		{"stretched", 200, 1},
		{"compressed", 50, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, map[string]graph.Point{"a": {X: 0}, "b": {X: tt.bx}}, [2]string{"a", "b"})
			f := NewLink(100)
			f.Initialize(g, nil)
			f.Apply(1)

			a, b := node(g, "a"), node(g, "b")
			if math.Signbit(a.VX) == (tt.wantDir > 0) {
				t.Errorf("a.VX = %v, want sign %v", a.VX, tt.wantDir)
			}
			if a.VX != -b.VX {
				t.Errorf("equal degree endpoints should move symmetrically: %v vs %v", a.VX, b.VX)
			}
			if a.VY != 0 || b.VY != 0 {
				t.Error("force should act along the x axis only")
			}
		})
	}
}

func TestLink_CoincidentEndpointsNoForce(t *testing.T) {
	g := buildGraph(t, map[string]graph.Point{"a": {X: 5, Y: 5}, "b": {X: 5, Y: 5}}, [2]string{"a", "b"})
	f := NewLink(100)
	f.Initialize(g, nil)
	f.Apply(1)

	for _, n := range g.Nodes() {
		if n.VX != 0 || n.VY != 0 || math.IsNaN(n.VX) {
			t.Errorf("node %s moved: (%v,%v)", n.ID, n.VX, n.VY)
		}
	}
}

func TestManyBody_Symmetric(t *testing.T) {
	g := buildGraph(t, map[string]graph.Point{"a": {X: 0, Y: 0}, "b": {X: 30, Y: 40}})
	f := NewManyBody(-30)
	f.Initialize(g, nil)
	f.Apply(1)

	a, b := node(g, "a"), node(g, "b")
	if a.VX != -b.VX || a.VY != -b.VY {
		t.Errorf("forces not opposite: a=(%v,%v) b=(%v,%v)", a.VX, a.VY, b.VX, b.VY)
	}
	if a.VX >= 0 || a.VY >= 0 {
		t.Errorf("negative strength should push a away from b, got (%v,%v)", a.VX, a.VY)
	}
}

func TestManyBody_DecreasesWithDistance(t *testing.T) {
	magnitude := func(d float64) float64 {
		g := buildGraph(t, map[string]graph.Point{"a": {X: 0}, "b": {X: d}})
		f := NewManyBody(-30)
		f.Initialize(g, nil)
		f.Apply(1)
		return math.Abs(node(g, "a").VX)
	}

	prev := math.Inf(1)
	for _, d := range []float64{2, 5, 10, 50, 200} {
		m := magnitude(d)
		if m >= prev {
			t.Errorf("magnitude at d=%v (%v) not below previous (%v)", d, m, prev)
		}
		prev = m
	}
}

func TestManyBody_CoincidentUsesJiggle(t *testing.T) {
	g := buildGraph(t, map[string]graph.Point{"a": {X: 1, Y: 1}, "b": {X: 1, Y: 1}})
	f := NewManyBody(-30)
	f.Initialize(g, NewJiggler(42))
	f.Apply(1)

	a := node(g, "a")
	if math.IsNaN(a.VX) || math.IsNaN(a.VY) {
		t.Fatal("coincident nodes produced NaN")
	}
	if a.VX == 0 && a.VY == 0 {
		t.Error("coincident nodes should be separated")
	}
}

func TestCenter_MovesCentroid(t *testing.T) {
	g := buildGraph(t, map[string]graph.Point{"a": {X: 0, Y: 0}, "b": {X: 10, Y: 0}, "c": {X: 5, Y: 30}})
	f := NewCenter(100, 100)
	f.Initialize(g, nil)
	f.Apply(1)

	var sx, sy float64
	for _, n := range g.Nodes() {
		sx += n.X
		sy += n.Y
	}
	if math.Abs(sx/3-100) > 1e-9 || math.Abs(sy/3-100) > 1e-9 {
		t.Errorf("centroid = (%v,%v), want (100,100)", sx/3, sy/3)
	}
	if d := node(g, "b").X - node(g, "a").X; math.Abs(d-10) > 1e-9 {
		t.Errorf("relative positions changed: %v", d)
	}
}

func TestCollide(t *testing.T) {
	tests := []struct {
		name    string
		dist    float64
		radius  float64
		pushing bool
	}{
		{"apart", 200, 75, false},
		{"touching", 150, 75, false},
		{"overlapping", 100, 75, true},
		{"zero radius", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, map[string]graph.Point{"a": {X: 0}, "b": {X: tt.dist}})
			f := NewCollide(tt.radius)
			f.Initialize(g, nil)
			f.Apply(1)

			a, b := node(g, "a"), node(g, "b")
			if !tt.pushing {
				if a.VX != 0 || b.VX != 0 {
					t.Errorf("expected no displacement, got %v %v", a.VX, b.VX)
				}
				return
			}
			if a.VX >= 0 || b.VX <= 0 {
				t.Errorf("expected a pushed left and b right, got %v %v", a.VX, b.VX)
			}
			sep := (b.X + b.VX) - (a.X + a.VX)
			if math.Abs(sep-2*tt.radius) > 1e-9 {
				t.Errorf("full-strength collide should reach 2r, got %v", sep)
			}
		})
	}
}

func TestField_SetParameter(t *testing.T) {
	f, err := NewField(DefaultParams(), 0, 0)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}

	tests := []struct {
		force, prop string
		value       float64
		want        error
	}{
		{"link", "distance", 150, nil},
		{"link", "distance", 0, ErrInvalidValue},
		{"link", "stiffness", 1, ErrUnknownProperty},
		{"charge", "strength", -300, nil},
		{"charge", "strength", math.NaN(), ErrInvalidValue},
		{"collision", "radius", 10, nil},
		{"collision", "radius", -1, ErrInvalidValue},
		{"center", "x", 400, nil},
		{"gravity", "strength", 1, ErrUnknownForce},
	}

	for _, tt := range tests {
		err := f.SetParameter(tt.force, tt.prop, tt.value)
		if tt.want == nil && err != nil {
			t.Errorf("%s.%s=%v: unexpected error %v", tt.force, tt.prop, tt.value, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s.%s=%v: expected %v, got %v", tt.force, tt.prop, tt.value, tt.want, err)
		}
	}

	want := Params{LinkDistance: 150, ChargeStrength: -300, CollisionRadius: 10}
	if got := f.Params(); got != want {
		t.Errorf("Params() = %+v, want %+v", got, want)
	}
}

func TestField_ApplyParamsAllOrNothing(t *testing.T) {
	f, _ := NewField(DefaultParams(), 0, 0)
	bad := Params{LinkDistance: 50, ChargeStrength: -5, CollisionRadius: -1}
	if err := f.ApplyParams(bad); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if f.Params() != DefaultParams() {
		t.Errorf("rejected params partially applied: %+v", f.Params())
	}
}

func TestNewField_Order(t *testing.T) {
	f, _ := NewField(DefaultParams(), 0, 0)
	names := f.Names()
	want := []string{"link", "charge", "center", "collision"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestJiggler_Deterministic(t *testing.T) {
	a, b := NewJiggler(7), NewJiggler(7)
	for i := 0; i < 10; i++ {
		va, vb := a.Jiggle(), b.Jiggle()
		if va != vb {
			t.Fatalf("step %d: %v != %v", i, va, vb)
		}
		if va == 0 || math.Abs(va) > jiggleScale {
			t.Errorf("jiggle out of range: %v", va)
		}
	}
}
