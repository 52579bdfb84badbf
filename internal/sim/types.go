package sim

import (
	"fmt"
	"math"
)

// State is the engine lifecycle.
type State int

const (
	Cold State = iota
	Running
	Settled
	Stopped
)

func (s State) String() string {
	switch s {
	case Cold:
		return "cold"
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// NodeState is one node's position in a Snapshot.
type NodeState struct {
	ID       string
	X, Y     float64
	VX, VY   float64
	Pinned   bool
	Selected bool
}

// Snapshot is the node set after one tick. It is a copy and may be retained.
type Snapshot struct {
	Tick  uint64
	Alpha float64
	State State
	Nodes []NodeState
	Links [][2]int
}

type Observer interface {
	OnTick(s Snapshot)
}

// StateObserver is notified of lifecycle transitions.
type StateObserver interface {
	OnStateChange(from, to State)
}

// ReheatObserver is notified when alpha is raised.
type ReheatObserver interface {
	OnReheat(alpha float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

type Config struct {
	Width         float64 `yaml:"width" toml:"width" validate:"gt=0"`
	Height        float64 `yaml:"height" toml:"height" validate:"gt=0"`
	AlphaMin      float64 `yaml:"alpha_min" toml:"alpha_min" validate:"gt=0,lt=1"`
	AlphaDecay    float64 `yaml:"alpha_decay" toml:"alpha_decay" validate:"gt=0,lt=1"`
	VelocityDecay float64 `yaml:"velocity_decay" toml:"velocity_decay" validate:"gte=0,lte=1"`
	RestartAlpha  float64 `yaml:"restart_alpha" toml:"restart_alpha" validate:"gt=0,lte=1"`
	Seed          int64   `yaml:"seed" toml:"seed"`
}

const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultRestartAlpha  = 0.3

	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// DefaultConfig settles in about 300 ticks.
func DefaultConfig() Config {
	return Config{
		Width:         960,
		Height:        600,
		AlphaMin:      DefaultAlphaMin,
		AlphaDecay:    1 - math.Pow(DefaultAlphaMin, 1.0/300),
		VelocityDecay: DefaultVelocityDecay,
		RestartAlpha:  DefaultRestartAlpha,
		Seed:          1,
	}
}

// SimError describes a tick that produced a non-finite value.
type SimError struct {
	Tick    uint64
	NodeID  string
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d node %q: %s", e.Tick, e.NodeID, e.Message)
}
