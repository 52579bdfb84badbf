package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/controls"
	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/icons"
	"github.com/san-kum/forcegraph/internal/interaction"
	"github.com/san-kum/forcegraph/internal/sim"
	"github.com/san-kum/forcegraph/internal/viewport"
)

// LoadObserver is told about every successful load.
type LoadObserver interface {
	OnLoad(nodes, links, dropped int)
}

type Manager struct {
	cfg       Config
	logger    *zap.Logger
	display   interaction.Display
	clock     interaction.Clock
	styles    *icons.Table
	observers []sim.Observer

	mu      sync.Mutex
	current *Session
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDisplay sets where popups are shown.
func WithDisplay(d interaction.Display) Option {
	return func(m *Manager) { m.display = d }
}

func WithClock(c interaction.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithIcons(t *icons.Table) Option {
	return func(m *Manager) {
		if t != nil {
			m.styles = t
		}
	}
}

// WithObserver attaches o to every engine the manager builds. Observers that
// also implement LoadObserver hear about loads.
func WithObserver(o sim.Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: zap.NewNop(),
		clock:  interaction.RealClock,
		styles: icons.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Config() Config { return m.cfg }

func (m *Manager) Icons() *icons.Table { return m.styles }

func (m *Manager) Current() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != nil
}

// Load parses r with imp and replaces the live session. On any error the
// live session is left as it was.
func (m *Manager) Load(ctx context.Context, r io.Reader, imp codec.Importer) (*Session, error) {
	doc, err := imp.Parse(r)
	if err != nil {
		return nil, err
	}
	return m.LoadDocument(ctx, doc)
}

// LoadDocument replaces the live session with one built from doc. Sections
// the document omits keep the values currently in effect.
func (m *Manager) LoadDocument(ctx context.Context, doc *codec.Document) (*Session, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.build(doc, m.runningDefaults())
	if err != nil {
		return nil, err
	}

	if old := m.current; old != nil {
		old.close()
		m.logger.Debug("previous session stopped", zap.Uint64("ticks", old.Engine.Ticks()))
	}
	m.current = s

	if err := s.Engine.Start(s.Graph); err != nil {
		m.current = nil
		return nil, fmt.Errorf("start engine: %w", err)
	}
	if s.Runner != nil {
		s.Runner.Start(ctx)
	}

	m.logger.Info("session loaded",
		zap.Int("nodes", s.Graph.Len()),
		zap.Int("links", len(s.Graph.Links())),
		zap.Int("dropped_links", len(s.Dropped)))
	for _, o := range m.observers {
		if lo, ok := o.(LoadObserver); ok {
			lo.OnLoad(s.Graph.Len(), len(s.Graph.Links()), len(s.Dropped))
		}
	}
	return s, nil
}

type defaults struct {
	physics forces.Params
	camera  viewport.Camera
	popups  bool
}

func (m *Manager) runningDefaults() defaults {
	d := defaults{physics: m.cfg.Physics, camera: viewport.Identity(), popups: true}
	if s := m.current; s != nil {
		d.physics = s.Engine.Params()
		d.camera = s.Camera()
		d.popups = s.Popups.Enabled()
	}
	return d
}

func (m *Manager) build(doc *codec.Document, d defaults) (*Session, error) {
	nodes, links := doc.Specs()
	g, dropped, err := graph.New(nodes, links)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrMalformed, err)
	}
	for _, l := range dropped {
		m.logger.Warn("dropping link with unknown endpoint",
			zap.String("source", l.Source),
			zap.String("target", l.Target))
	}
	for _, n := range g.Nodes() {
		n.Radius = m.styles.Lookup(n.Type).Radius
	}

	physics := d.physics
	if doc.Physics != nil {
		physics = *doc.Physics
	}
	camera := d.camera
	if doc.Camera != nil {
		camera = *doc.Camera
	}
	popups := d.popups
	if doc.PopupEnabled != nil {
		popups = *doc.PopupEnabled
	}

	sc := m.cfg.Sim
	field, err := forces.NewField(physics, sc.Width/2, sc.Height/2)
	if err != nil {
		return nil, fmt.Errorf("%w: physics: %w", codec.ErrMalformed, err)
	}

	opts := []sim.Option{sim.WithLogger(m.logger)}
	for _, o := range m.observers {
		opts = append(opts, sim.WithObserver(o))
	}
	engine, err := sim.New(field, sc, opts...)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	s := &Session{
		Graph:      g,
		Engine:     engine,
		Controller: interaction.NewController(engine, m.logger),
		Popups:     interaction.NewPopups(m.display, m.clock, m.cfg.PopupDelay),
		Controls:   controls.New(engine, controls.Standard(), m.logger),
		Dropped:    dropped,
		camera:     camera,
	}
	if !popups {
		s.Popups.SetEnabled(false)
	}
	if m.cfg.AutoRun {
		s.Runner = sim.NewRunner(engine, m.cfg.TickInterval)
	}
	return s, nil
}

// Save writes the live session with exp.
func (m *Manager) Save(w io.Writer, exp codec.Exporter) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return exp.Export(doc, w)
}

func (m *Manager) Document() (*codec.Document, error) {
	s, ok := m.Current()
	if !ok {
		return nil, ErrNoSession
	}
	return s.Document()
}

// ExportSVG draws the live layout.
func (m *Manager) ExportSVG(w io.Writer) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	exp := codec.NewSVGExporter(m.cfg.Sim.Width, m.cfg.Sim.Height, m.styles)
	return exp.Export(doc, w)
}

// Close stops the live session, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.close()
		m.current = nil
	}
}
