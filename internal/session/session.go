// Package session owns the live graph and everything bound to it.
//
// A [Session] is one loaded document: graph, force field, engine, runner,
// gesture controller, popups, control surface and camera. The [Manager]
// holds at most one live session and replaces it wholesale on load: the new
// session is built and validated first, then the old runner is stopped and
// waited for, and only then does the new engine start.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/controls"
	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/interaction"
	"github.com/san-kum/forcegraph/internal/sim"
	"github.com/san-kum/forcegraph/internal/viewport"
)

var ErrNoSession = errors.New("session: no active session")

// Config holds the running defaults a load falls back to.
type Config struct {
	Sim          sim.Config
	Physics      forces.Params
	TickInterval time.Duration
	PopupDelay   time.Duration

	// AutoRun drives the engine from a Runner. Without it the caller ticks.
	AutoRun bool
}

func DefaultConfig() Config {
	return Config{
		Sim:          sim.DefaultConfig(),
		Physics:      forces.DefaultParams(),
		TickInterval: time.Second / 60,
		PopupDelay:   interaction.DefaultHideDelay,
		AutoRun:      true,
	}
}

type Session struct {
	Graph      *graph.Graph
	Engine     *sim.Engine
	Runner     *sim.Runner
	Controller *interaction.Controller
	Popups     *interaction.Popups
	Controls   *controls.Surface

	// Dropped lists links whose endpoints were missing at load.
	Dropped []graph.LinkSpec

	mu     sync.Mutex
	camera viewport.Camera
}

func (s *Session) Camera() viewport.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

func (s *Session) SetCamera(c viewport.Camera) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
	return nil
}

func (s *Session) Pan(dx, dy float64) viewport.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.Pan(dx, dy)
	return s.camera
}

func (s *Session) ZoomAt(factor, px, py float64) viewport.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.ZoomAt(factor, px, py)
	return s.camera
}

// HoverEnter shows the popup for a node at the pointer position.
func (s *Session) HoverEnter(id string, px, py float64) error {
	var text string
	err := s.Engine.Update(func(g *graph.Graph) error {
		n, ok := g.Node(id)
		if !ok {
			return fmt.Errorf("%q: %w", id, interaction.ErrUnknownNode)
		}
		text = n.Detail()
		return nil
	})
	if err != nil {
		return err
	}
	s.Popups.Enter(id, text, px, py)
	return nil
}

func (s *Session) HoverExit(id string) {
	s.Popups.Leave(id)
}

// Document captures the session as it stands between ticks.
func (s *Session) Document() (*codec.Document, error) {
	params := s.Engine.Params()
	camera := s.Camera()
	popups := s.Popups.Enabled()

	var doc *codec.Document
	err := s.Engine.Update(func(g *graph.Graph) error {
		doc = codec.Encode(g, params, camera, popups)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// close stops ticking and clears the popup. It returns once no further tick
// can come from this session.
func (s *Session) close() {
	if s.Runner != nil {
		s.Runner.Stop()
	} else {
		s.Engine.Stop()
	}
	s.Popups.Close()
}
