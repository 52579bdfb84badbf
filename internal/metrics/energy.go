package metrics

import "github.com/san-kum/forcegraph/internal/sim"

// Energy tracks the kinetic energy of the layout, sum(v^2)/2 over free
// nodes, with unit mass.
type Energy struct {
	name    string
	last    float64
	peak    float64
	total   float64
	samples int
	series  []float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnTick(s sim.Snapshot) {
	e.last = Kinetic(s)
	if e.last > e.peak {
		e.peak = e.last
	}
	e.total += e.last
	e.samples++
	e.series = append(e.series, e.last)
}

// Value is the energy after the latest tick.
func (e *Energy) Value() float64 { return e.last }

// Series is the energy after every tick since the last Reset.
func (e *Energy) Series() []float64 { return e.series }

func (e *Energy) Peak() float64 { return e.peak }

func (e *Energy) Mean() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	*e = Energy{name: e.name}
}

func Kinetic(s sim.Snapshot) float64 {
	var sum float64
	for _, n := range s.Nodes {
		if n.Pinned {
			continue
		}
		sum += n.VX*n.VX + n.VY*n.VY
	}
	return sum / 2
}
