package graph

import "math"

// Pin is either free or pinned at a fixed point. The zero value is free.
type Pin struct {
	fixed bool
	x, y  float64
}

func Free() Pin { return Pin{} }

func PinnedAt(x, y float64) Pin {
	return Pin{fixed: true, x: x, y: y}
}

func (p Pin) IsPinned() bool { return p.fixed }

// At returns the fixed point and whether the pin is set.
func (p Pin) At() (x, y float64, ok bool) {
	return p.x, p.y, p.fixed
}

func (p Pin) String() string {
	if !p.fixed {
		return "free"
	}
	return "pinned(" + ftoa(p.x) + "," + ftoa(p.y) + ")"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
