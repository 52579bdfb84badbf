package sim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/graph"
)

// Engine integrates a force field over a graph. All methods are safe for
// concurrent use; ticks and mutations are serialised by one lock, and
// observers are called after the lock is released.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	field *forces.Field
	graph *graph.Graph

	state       State
	alpha       float64
	alphaTarget float64
	ticks       uint64

	observers []Observer
	wake      chan struct{}
	logger    *zap.Logger
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

func New(field *forces.Field, cfg Config, opts ...Option) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		field:  field,
		state:  Cold,
		wake:   make(chan struct{}, 1),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func validateConfig(cfg Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.AlphaMin <= 0 || cfg.AlphaMin >= 1 {
		return fmt.Errorf("alpha min must be in (0,1), got %f", cfg.AlphaMin)
	}
	if cfg.AlphaDecay <= 0 || cfg.AlphaDecay >= 1 {
		return fmt.Errorf("alpha decay must be in (0,1), got %f", cfg.AlphaDecay)
	}
	if cfg.VelocityDecay < 0 || cfg.VelocityDecay > 1 {
		return fmt.Errorf("velocity decay must be in [0,1], got %f", cfg.VelocityDecay)
	}
	if cfg.RestartAlpha <= cfg.AlphaMin || cfg.RestartAlpha > 1 {
		return fmt.Errorf("restart alpha must be in (alpha min,1], got %f", cfg.RestartAlpha)
	}
	return nil
}

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Start binds the graph, places unplaced nodes and moves Cold -> Running.
func (e *Engine) Start(g *graph.Graph) error {
	e.mu.Lock()
	if e.state != Cold {
		e.mu.Unlock()
		return ErrNotCold
	}
	e.graph = g
	e.placeNodes()
	e.field.Initialize(g, forces.NewJiggler(e.cfg.Seed))
	e.alpha = 1
	from := e.setState(Running)
	observers := e.observers
	e.mu.Unlock()

	e.logger.Debug("engine started",
		zap.Int("nodes", g.Len()),
		zap.Int("links", len(g.Links())))
	notifyState(observers, from, Running)
	e.signal()
	return nil
}

// placeNodes puts unplaced nodes on a phyllotaxis spiral around the canvas
// centre and snaps pinned nodes onto their pins.
func (e *Engine) placeNodes() {
	cx, cy := e.cfg.Width/2, e.cfg.Height/2
	for i, n := range e.graph.Nodes() {
		if x, y, ok := n.Pin.At(); ok {
			_ = n.Place(x, y)
			n.VX, n.VY = 0, 0
			continue
		}
		if n.Placed() {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		_ = n.Place(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
}

// Tick advances one step. It is a no-op unless the engine is Running and
// reports whether a step happened.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	if e.state != Running {
		e.mu.Unlock()
		return false
	}

	e.alpha += (e.alphaTarget - e.alpha) * e.cfg.AlphaDecay
	e.field.Apply(e.alpha)
	e.integrate()
	e.ticks++

	to := Running
	if e.alpha < e.cfg.AlphaMin {
		to = Settled
	}
	from := e.setState(to)
	snap := e.snapshotLocked()
	observers := e.observers
	e.mu.Unlock()

	for _, o := range observers {
		o.OnTick(snap)
	}
	if from != to {
		e.logger.Debug("engine settled", zap.Uint64("ticks", snap.Tick))
		notifyState(observers, from, to)
	}
	return true
}

func (e *Engine) integrate() {
	keep := 1 - e.cfg.VelocityDecay
	for _, n := range e.graph.Nodes() {
		if x, y, ok := n.Pin.At(); ok {
			n.X, n.Y = x, y
			n.VX, n.VY = 0, 0
			continue
		}
		vx, vy := n.VX*keep, n.VY*keep
		nx, ny := n.X+vx, n.Y+vy
		if !finite(vx) || !finite(vy) || !finite(nx) || !finite(ny) {
			e.logger.Warn("discarding non-finite step", zap.Error(SimError{
				Tick:    e.ticks,
				NodeID:  n.ID,
				Message: "non-finite velocity",
			}))
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX, n.VY = vx, vy
		n.X, n.Y = nx, ny
	}
}

// Reheat raises alpha to at least the restart value and resumes ticking. It
// does nothing on a Cold or Stopped engine.
func (e *Engine) Reheat() {
	e.mu.Lock()
	if e.state == Cold || e.state == Stopped {
		e.mu.Unlock()
		return
	}
	if e.alpha < e.cfg.RestartAlpha {
		e.alpha = e.cfg.RestartAlpha
	}
	alpha := e.alpha
	from := e.setState(Running)
	observers := e.observers
	e.mu.Unlock()

	for _, o := range observers {
		if ro, ok := o.(ReheatObserver); ok {
			ro.OnReheat(alpha)
		}
	}
	if from != Running {
		notifyState(observers, from, Running)
	}
	e.signal()
}

// SetAlphaTarget sets the value alpha decays toward. A target at or above
// AlphaMin keeps the engine from settling, which is how drags hold it hot.
func (e *Engine) SetAlphaTarget(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alphaTarget = math.Max(0, math.Min(1, v))
}

// Stop halts the engine for good. Later ticks do nothing and emit nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state == Stopped {
		e.mu.Unlock()
		return
	}
	from := e.setState(Stopped)
	observers := e.observers
	e.mu.Unlock()

	e.logger.Debug("engine stopped", zap.Stringer("from", from))
	notifyState(observers, from, Stopped)
	e.signal()
}

// SetParameter changes one force property under the engine lock. It does not
// reheat; callers decide when to.
func (e *Engine) SetParameter(force, property string, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.field.SetParameter(force, property, value)
}

func (e *Engine) ApplyParams(p forces.Params) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.field.ApplyParams(p)
}

func (e *Engine) Params() forces.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.field.Params()
}

// Update runs fn with exclusive access to the graph, between ticks.
func (e *Engine) Update(fn func(g *graph.Graph) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return ErrStopped
	}
	return fn(e.graph)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Alpha() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alpha
}

func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Wake fires after Start, Reheat and Stop. The runner parks on it while the
// engine is not Running.
func (e *Engine) Wake() <-chan struct{} { return e.wake }

// RunUntilSettled ticks synchronously until the engine leaves Running.
func (e *Engine) RunUntilSettled(ctx context.Context, maxTicks int) (int, error) {
	for i := 0; i < maxTicks; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		if !e.Tick() {
			return i, e.settledErr()
		}
	}
	if e.State() == Running {
		return maxTicks, ErrNotSettled
	}
	return maxTicks, nil
}

func (e *Engine) settledErr() error {
	if e.State() == Stopped {
		return ErrStopped
	}
	return nil
}

func (e *Engine) setState(to State) State {
	from := e.state
	e.state = to
	return from
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{Tick: e.ticks, Alpha: e.alpha, State: e.state}
	if e.graph == nil {
		return s
	}
	nodes := e.graph.Nodes()
	s.Nodes = make([]NodeState, len(nodes))
	for i, n := range nodes {
		s.Nodes[i] = NodeState{ID: n.ID, X: n.X, Y: n.Y, VX: n.VX, VY: n.VY, Pinned: n.IsPinned(), Selected: n.Selected}
	}
	links := e.graph.Links()
	s.Links = make([][2]int, len(links))
	for i, l := range links {
		s.Links[i] = [2]int{l.Source.Index, l.Target.Index}
	}
	return s
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func notifyState(observers []Observer, from, to State) {
	for _, o := range observers {
		if so, ok := o.(StateObserver); ok {
			so.OnStateChange(from, to)
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
