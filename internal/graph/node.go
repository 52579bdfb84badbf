package graph

import (
	"strconv"
)

// Node is a graph vertex plus its mutable simulation state.
type Node struct {
	ID    string
	Name  string
	Type  string
	Title string
	Group string

	Index    int
	X, Y     float64
	VX, VY   float64
	Pin      Pin
	Selected bool

	// Radius is the visual size hint from the icon table. Physics collision
	// uses the single tunable radius instead.
	Radius float64

	placed bool
}

// Place sets the position and marks the node as placed.
func (n *Node) Place(x, y float64) error {
	if !finite(x) || !finite(y) {
		return ErrInvalidCoordinate
	}
	n.X, n.Y = x, y
	n.placed = true
	return nil
}

// Placed reports whether the node has ever been given a position.
func (n *Node) Placed() bool { return n.placed }

// PinAt fixes the node at (x, y). The node moves onto the pin and stops at
// once, so a pinned node is always at rest on (fx, fy). Non-finite
// coordinates are rejected.
func (n *Node) PinAt(x, y float64) error {
	if !finite(x) || !finite(y) {
		return ErrInvalidCoordinate
	}
	n.Pin = PinnedAt(x, y)
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	n.placed = true
	return nil
}

func (n *Node) Unpin() { n.Pin = Free() }

func (n *Node) IsPinned() bool { return n.Pin.IsPinned() }

// Label is the display text: name when set, id otherwise.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Detail is the popup text: title when set, label otherwise.
func (n *Node) Detail() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Label()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
