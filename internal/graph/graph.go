package graph

import "fmt"

// Point is an optional position in a NodeSpec.
type Point struct {
	X, Y float64
}

// NodeSpec describes a node to build. A nil Position leaves the node
// unplaced; the engine assigns it an initial spot.
type NodeSpec struct {
	ID       string
	Name     string
	Type     string
	Title    string
	Group    string
	Position *Point
	Velocity *Point
	Pin      Pin
	Selected bool
}

type LinkSpec struct {
	Source string
	Target string
}

type Link struct {
	Index  int
	Source *Node
	Target *Node
}

type Graph struct {
	nodes []*Node
	links []Link
	byID  map[string]*Node
}

// New builds a graph. Duplicate or empty ids fail the whole build. Links
// with an unknown endpoint are skipped and returned in dropped.
func New(nodes []NodeSpec, links []LinkSpec) (g *Graph, dropped []LinkSpec, err error) {
	g = &Graph{
		nodes: make([]*Node, 0, len(nodes)),
		links: make([]Link, 0, len(links)),
		byID:  make(map[string]*Node, len(nodes)),
	}

	for i, spec := range nodes {
		if spec.ID == "" {
			return nil, nil, fmt.Errorf("node %d: %w", i, ErrEmptyID)
		}
		if _, exists := g.byID[spec.ID]; exists {
			return nil, nil, fmt.Errorf("node %q: %w", spec.ID, ErrDuplicateID)
		}

		n := &Node{
			ID:       spec.ID,
			Name:     spec.Name,
			Type:     spec.Type,
			Title:    spec.Title,
			Group:    spec.Group,
			Index:    i,
			Selected: spec.Selected,
		}
		if x, y, ok := spec.Pin.At(); ok {
			// Pinned nodes rest on the pin; stored motion is ignored.
			if err := n.PinAt(x, y); err != nil {
				return nil, nil, fmt.Errorf("node %q pin: %w", spec.ID, err)
			}
		} else {
			if spec.Position != nil {
				if err := n.Place(spec.Position.X, spec.Position.Y); err != nil {
					return nil, nil, fmt.Errorf("node %q position: %w", spec.ID, err)
				}
			}
			if spec.Velocity != nil && finite(spec.Velocity.X) && finite(spec.Velocity.Y) {
				n.VX, n.VY = spec.Velocity.X, spec.Velocity.Y
			}
		}

		g.nodes = append(g.nodes, n)
		g.byID[n.ID] = n
	}

	for _, spec := range links {
		src, okS := g.byID[spec.Source]
		tgt, okT := g.byID[spec.Target]
		if !okS || !okT {
			dropped = append(dropped, spec)
			continue
		}
		g.links = append(g.links, Link{Index: len(g.links), Source: src, Target: tgt})
	}

	return g, dropped, nil
}

func (g *Graph) Nodes() []*Node { return g.nodes }

func (g *Graph) Links() []Link { return g.links }

func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

func (g *Graph) Len() int { return len(g.nodes) }

// Degree counts links touching each node, indexed by Node.Index.
func (g *Graph) Degree() []int {
	deg := make([]int, len(g.nodes))
	for _, l := range g.links {
		deg[l.Source.Index]++
		deg[l.Target.Index]++
	}
	return deg
}
