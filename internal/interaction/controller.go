package interaction

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/graph"
)

// DragAlphaTarget keeps the engine hot while a node is held.
const DragAlphaTarget = 0.3

// Engine is the slice of the simulation the controller drives.
type Engine interface {
	Update(fn func(g *graph.Graph) error) error
	Reheat()
	SetAlphaTarget(v float64)
}

type Cause int

const (
	CauseDragStart Cause = iota
	CauseDragMove
	CauseDragEnd
	CauseToggle
)

func (c Cause) String() string {
	switch c {
	case CauseDragStart:
		return "drag-start"
	case CauseDragMove:
		return "drag-move"
	case CauseDragEnd:
		return "drag-end"
	case CauseToggle:
		return "toggle"
	}
	return "unknown"
}

// PinEvent reports a node's pin state after a gesture.
type PinEvent struct {
	NodeID string
	Pinned bool
	X, Y   float64
	Cause  Cause
}

type PinListener func(PinEvent)

type Controller struct {
	engine Engine
	logger *zap.Logger

	mu        sync.Mutex
	dragging  string
	listeners []PinListener
}

func NewController(e Engine, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{engine: e, logger: logger}
}

// OnPin registers a listener called synchronously after every pin change.
// Listeners run under the controller lock and must not call back into it.
func (c *Controller) OnPin(l PinListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Dragging returns the id of the node being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging, c.dragging != ""
}

func (c *Controller) DragStart(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging != "" {
		return ErrAlreadyDragging
	}

	ev, err := c.mutate(id, CauseDragStart, func(n *graph.Node) error {
		return n.PinAt(n.X, n.Y)
	})
	if err != nil {
		return err
	}
	c.dragging = id
	c.engine.SetAlphaTarget(DragAlphaTarget)
	c.engine.Reheat()
	c.emit(ev)
	return nil
}

// DragMove makes the dragged node follow the pointer. The engine is already
// hot, so no reheat is issued.
func (c *Controller) DragMove(id string, x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging != id {
		return ErrNotDragging
	}

	ev, err := c.mutate(id, CauseDragMove, func(n *graph.Node) error {
		return n.PinAt(x, y)
	})
	if err != nil {
		return err
	}
	c.emit(ev)
	return nil
}

// DragEnd releases the gesture but keeps the node pinned where it was
// dropped.
func (c *Controller) DragEnd(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging != id {
		return ErrNotDragging
	}

	ev, err := c.mutate(id, CauseDragEnd, func(*graph.Node) error { return nil })
	c.dragging = ""
	c.engine.SetAlphaTarget(0)
	if err != nil {
		return err
	}
	c.emit(ev)
	return nil
}

// TogglePin frees a pinned node or pins a free one where it stands.
func (c *Controller) TogglePin(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging == id {
		return ErrAlreadyDragging
	}

	ev, err := c.mutate(id, CauseToggle, func(n *graph.Node) error {
		if n.IsPinned() {
			n.Unpin()
			return nil
		}
		return n.PinAt(n.X, n.Y)
	})
	if err != nil {
		return err
	}
	c.engine.Reheat()
	c.emit(ev)
	return nil
}

// Select sets a node's selection flag.
func (c *Controller) Select(id string, selected bool) error {
	return c.engine.Update(func(g *graph.Graph) error {
		n, ok := g.Node(id)
		if !ok {
			return fmt.Errorf("%q: %w", id, ErrUnknownNode)
		}
		n.Selected = selected
		return nil
	})
}

func (c *Controller) mutate(id string, cause Cause, fn func(n *graph.Node) error) (PinEvent, error) {
	var ev PinEvent
	err := c.engine.Update(func(g *graph.Graph) error {
		n, ok := g.Node(id)
		if !ok {
			return fmt.Errorf("%q: %w", id, ErrUnknownNode)
		}
		if err := fn(n); err != nil {
			return err
		}
		ev = PinEvent{NodeID: id, Pinned: n.IsPinned(), Cause: cause}
		if x, y, ok := n.Pin.At(); ok {
			ev.X, ev.Y = x, y
		} else {
			ev.X, ev.Y = n.X, n.Y
		}
		return nil
	})
	if err != nil {
		c.logger.Debug("gesture rejected",
			zap.String("node", id),
			zap.Stringer("cause", cause),
			zap.Error(err))
	}
	return ev, err
}

func (c *Controller) emit(ev PinEvent) {
	for _, l := range c.listeners {
		l(ev)
	}
}
