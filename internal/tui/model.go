package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/controls"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/session"
	"github.com/san-kum/forcegraph/internal/sim"
	"github.com/san-kum/forcegraph/internal/viewport"
)

const (
	defaultFrame = time.Second / 30
	historyLen   = 120

	// panStep and dragStep are in screen pixels.
	panStep  = 20.0
	dragStep = 10.0
	barWidth = 20
)

type tickMsg time.Time

// Model is a bubbletea view of the manager's live session. It follows
// session replacement, so a watcher can reload the file underneath it.
type Model struct {
	mgr    *session.Manager
	logger *zap.Logger
	frame  time.Duration

	sess   *session.Session
	labels map[string]string
	snap   sim.Snapshot
	alpha  []float64

	cursor  int
	hovered string
	dragX   float64
	dragY   float64
	param   int
	editing bool
	editBuf string

	notice    string
	noticeBad bool

	width, height int
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFrameRate sets how often the view refreshes.
func WithFrameRate(fps int) Option {
	return func(m *Model) {
		if fps > 0 {
			m.frame = time.Second / time.Duration(fps)
		}
	}
}

func New(mgr *session.Manager, opts ...Option) Model {
	m := Model{
		mgr:    mgr,
		logger: zap.NewNop(),
		frame:  defaultFrame,
		cursor: -1,
		width:  100,
		height: 36,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m.refresh()
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m = m.step().refresh()
		return m, m.tick()
	}
	return m, nil
}

// step advances an engine that has no runner of its own.
func (m Model) step() Model {
	if m.sess != nil && m.sess.Runner == nil {
		m.sess.Engine.Tick()
	}
	return m
}

// refresh follows the manager to its current session and takes a snapshot.
func (m Model) refresh() Model {
	s, ok := m.mgr.Current()
	if !ok {
		m.sess = nil
		return m
	}
	if s != m.sess {
		m = m.attach(s)
	}
	m.snap = s.Engine.Snapshot()
	m.alpha = append(m.alpha, m.snap.Alpha)
	if len(m.alpha) > historyLen {
		m.alpha = m.alpha[len(m.alpha)-historyLen:]
	}
	return m
}

func (m Model) attach(s *session.Session) Model {
	m.sess = s
	m.cursor = -1
	m.hovered = ""
	m.alpha = nil
	m.labels = make(map[string]string)
	_ = s.Engine.Update(func(g *graph.Graph) error {
		for _, n := range g.Nodes() {
			m.labels[n.ID] = n.Label()
		}
		return nil
	})
	m.logger.Debug("view attached to session", zap.Int("nodes", len(m.labels)))
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if id, ok := m.dragging(); ok {
			_ = m.sess.Controller.DragEnd(id)
		}
		return m, tea.Quit
	}

	if m.sess == nil {
		return m.fail(session.ErrNoSession), nil
	}

	switch msg.String() {
	case "tab", "n":
		return m.focus(m.cursor + 1), nil
	case "shift+tab", "N":
		return m.focus(m.cursor - 1), nil
	case " ":
		return m.onFocused(func(id string) error { return m.sess.Controller.TogglePin(id) }), nil
	case "s":
		return m.onFocused(func(id string) error {
			return m.sess.Controller.Select(id, !m.snap.Nodes[m.cursor].Selected)
		}), nil
	case "d":
		return m.toggleDrag(), nil
	case "up", "k":
		return m.move(0, -1), nil
	case "down", "j":
		return m.move(0, 1), nil
	case "left", "h":
		return m.move(-1, 0), nil
	case "right", "l":
		return m.move(1, 0), nil
	case "+", "=":
		cx, cy := m.screenCentre()
		m.sess.ZoomAt(viewport.ZoomStep, cx, cy)
	case "-", "_":
		cx, cy := m.screenCentre()
		m.sess.ZoomAt(1/viewport.ZoomStep, cx, cy)
	case "0":
		_ = m.sess.SetCamera(viewport.Identity())
	case "[":
		m.param = (m.param + len(m.params()) - 1) % len(m.params())
	case "]":
		m.param = (m.param + 1) % len(m.params())
	case ",", "<":
		return m.nudge(-1), nil
	case ".", ">":
		return m.nudge(1), nil
	case "e", "enter":
		p := m.params()[m.param]
		v, _ := m.sess.Controls.Value(p.Name)
		m.editing = true
		m.editBuf = v.Field
	case "R":
		if err := m.sess.Controls.Reset(); err != nil {
			return m.fail(err), nil
		}
		return m.note("physics reset"), nil
	case "p":
		on := !m.sess.Popups.Enabled()
		m.sess.Popups.SetEnabled(on)
		if on && m.hovered != "" {
			m = m.hover(m.hovered)
		}
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		p := m.params()[m.param]
		if !m.sess.Controls.SetFromField(p.Name, m.editBuf) {
			return m.fail(fmt.Errorf("%s: %q rejected, allowed %g..%g", p.Label, m.editBuf, p.Min, p.Max)), nil
		}
		return m.note(p.Label + " set to " + m.editBuf), nil
	case tea.KeyEsc:
		m.editing = false
		m.editBuf = ""
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == 'e' {
				m.editBuf += string(r)
			}
		}
	}
	return m, nil
}

func (m Model) params() []controls.Param {
	return m.sess.Controls.Params()
}

func (m Model) nudge(dir float64) Model {
	p := m.params()[m.param]
	v, _ := m.sess.Controls.Value(p.Name)
	if _, err := m.sess.Controls.SetFromSlider(p.Name, v.Slider+dir*p.Step); err != nil {
		return m.fail(err)
	}
	return m
}

// focus moves the cursor and hands the hover from the old node to the new.
func (m Model) focus(i int) Model {
	n := len(m.snap.Nodes)
	if n == 0 {
		return m
	}
	if _, ok := m.dragging(); ok {
		return m.note("release the drag first")
	}
	m.cursor = ((i % n) + n) % n
	return m.hover(m.snap.Nodes[m.cursor].ID)
}

func (m Model) hover(id string) Model {
	if m.hovered != "" && m.hovered != id {
		m.sess.HoverExit(m.hovered)
	}
	m.hovered = id
	x, y, ok := m.position(id)
	if !ok {
		return m
	}
	px, py := m.sess.Camera().Apply(x, y)
	if err := m.sess.HoverEnter(id, px, py); err != nil {
		return m.fail(err)
	}
	return m
}

func (m Model) onFocused(fn func(id string) error) Model {
	if m.cursor < 0 || m.cursor >= len(m.snap.Nodes) {
		return m.note("no node focused, press tab")
	}
	if err := fn(m.snap.Nodes[m.cursor].ID); err != nil {
		return m.fail(err)
	}
	m.notice = ""
	return m
}

func (m Model) toggleDrag() Model {
	if id, ok := m.dragging(); ok {
		if err := m.sess.Controller.DragEnd(id); err != nil {
			return m.fail(err)
		}
		return m.note(m.label(id) + " dropped")
	}
	if m.cursor < 0 || m.cursor >= len(m.snap.Nodes) {
		return m.note("no node focused, press tab")
	}
	n := m.snap.Nodes[m.cursor]
	if err := m.sess.Controller.DragStart(n.ID); err != nil {
		return m.fail(err)
	}
	m.dragX, m.dragY = n.X, n.Y
	return m.note("dragging " + m.label(n.ID))
}

// move drags the held node, or pans when nothing is held.
func (m Model) move(dx, dy float64) Model {
	id, ok := m.dragging()
	if !ok {
		m.sess.Pan(dx*panStep, dy*panStep)
		return m
	}
	k := m.sess.Camera().K
	m.dragX += dx * dragStep / k
	m.dragY += dy * dragStep / k
	if err := m.sess.Controller.DragMove(id, m.dragX, m.dragY); err != nil {
		return m.fail(err)
	}
	return m
}

func (m Model) dragging() (string, bool) {
	if m.sess == nil {
		return "", false
	}
	return m.sess.Controller.Dragging()
}

func (m Model) position(id string) (float64, float64, bool) {
	for _, n := range m.snap.Nodes {
		if n.ID == id {
			return n.X, n.Y, true
		}
	}
	return 0, 0, false
}

func (m Model) label(id string) string {
	if l, ok := m.labels[id]; ok {
		return l
	}
	return id
}

func (m Model) screenCentre() (float64, float64) {
	sc := m.mgr.Config().Sim
	return sc.Width / 2, sc.Height / 2
}

func (m Model) note(s string) Model {
	m.notice, m.noticeBad = s, false
	return m
}

func (m Model) fail(err error) Model {
	m.notice, m.noticeBad = err.Error(), true
	if !errors.Is(err, session.ErrNoSession) {
		m.logger.Warn("action failed", zap.Error(err))
	}
	return m
}

func (m Model) View() string {
	if m.sess == nil {
		return "\n  " + title.Render("forcegraph") + "  " + dim.Render("no session loaded") +
			"\n\n" + dim.Render("  q quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.viewHeader() + "\n")
	b.WriteString(panel.Render(m.viewGraph()) + "\n")

	side := []string{m.viewParams()}
	if p, ok := m.sess.Popups.Current(); ok {
		side = append(side, popupPanel.Render(m.label(p.NodeID)+"\n"+dim.Render(p.Text)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, side...) + "\n")

	b.WriteString(" " + dim.Render("alpha ") + sparkline(m.alpha, min(60, max(10, m.width-10))) + "\n")
	if m.notice != "" {
		style := white
		if m.noticeBad {
			style = bad
		}
		b.WriteString(" " + style.Render(m.notice) + "\n")
	}
	b.WriteString(dim.Render(" tab focus  space pin  d drag  arrows move/pan  +- zoom  [] param  ,. adjust  e edit  R reset  p popups  q quit") + "\n")
	return b.String()
}

func (m Model) viewHeader() string {
	cam := m.sess.Camera()
	parts := []string{
		title.Render("forcegraph"),
		stateBadge(m.snap.State),
		white.Render(fmt.Sprintf("α %.4f", m.snap.Alpha)),
		dim.Render(fmt.Sprintf("tick %d", m.snap.Tick)),
		dim.Render(fmt.Sprintf("nodes %d  links %d", len(m.snap.Nodes), len(m.snap.Links))),
		dim.Render(fmt.Sprintf("zoom %.2f", cam.K)),
	}
	if id, ok := m.dragging(); ok {
		parts = append(parts, pinned.Render("dragging "+m.label(id)))
	}
	return " " + strings.Join(parts, "  ")
}

// viewGraph draws links and nodes under the camera, scaled so the layout
// canvas fits the terminal.
func (m Model) viewGraph() string {
	c := NewCanvas(max(20, m.width-4), max(8, m.height-14))
	dw, dh := c.Dots()
	sc := m.mgr.Config().Sim
	fit := min(float64(dw)/sc.Width, float64(dh)/sc.Height)
	cam := m.sess.Camera()

	project := func(n sim.NodeState) (int, int) {
		px, py := cam.Apply(n.X, n.Y)
		return int(px * fit), int(py * fit)
	}

	for _, l := range m.snap.Links {
		x0, y0 := project(m.snap.Nodes[l[0]])
		x1, y1 := project(m.snap.Nodes[l[1]])
		c.DrawLine(x0, y0, x1, y1)
	}
	for i, n := range m.snap.Nodes {
		x, y := project(n)
		r := 1
		if n.Pinned || i == m.cursor {
			r = 2
		}
		c.Disc(x, y, r)
	}

	rows := c.Rows()
	if m.cursor >= 0 && m.cursor < len(m.snap.Nodes) {
		n := m.snap.Nodes[m.cursor]
		x, y := project(n)
		rows = overlay(rows, x/2+2, y/4, m.label(n.ID))
	}
	for i, r := range rows {
		rows[i] = edge.Render(r)
	}
	return strings.Join(rows, "\n")
}

// overlay writes text into rows starting at cell (col, row), clipped.
func overlay(rows []string, col, row int, text string) []string {
	if row < 0 || row >= len(rows) || col < 0 {
		return rows
	}
	line := []rune(rows[row])
	for i, r := range text {
		if col+i >= len(line) {
			break
		}
		line[col+i] = r
	}
	rows[row] = string(line)
	return rows
}

func (m Model) viewParams() string {
	var b strings.Builder
	for i, p := range m.params() {
		v, _ := m.sess.Controls.Value(p.Name)
		field := v.Field
		if m.editing && i == m.param {
			field = m.editBuf + "▋"
		}
		frac := 0.0
		if p.Max > p.Min {
			frac = (v.Slider - p.Min) / (p.Max - p.Min)
		}
		filled := max(0, min(barWidth, int(frac*barWidth+0.5)))
		bar := strings.Repeat("━", filled) + "○" + strings.Repeat("─", barWidth-filled)
		line := fmt.Sprintf("%-18s %s %8s", p.Label, bar, field)
		if i == m.param {
			b.WriteString(focused.Render("▸ " + line))
		} else {
			b.WriteString(dim.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.viewFocus())
	return panel.Render(b.String())
}

func (m Model) viewFocus() string {
	if m.cursor < 0 || m.cursor >= len(m.snap.Nodes) {
		return dim.Render("no node focused")
	}
	n := m.snap.Nodes[m.cursor]
	pin := free.Render("free")
	if n.Pinned {
		pin = pinned.Render("pinned")
	}
	sel := ""
	if n.Selected {
		sel = focused.Render(" selected")
	}
	return fmt.Sprintf("%s  %s  (%.1f, %.1f)%s", white.Render(m.label(n.ID)), pin, n.X, n.Y, sel)
}

// Run drives the model until the user quits.
func Run(mgr *session.Manager, opts ...Option) error {
	_, err := tea.NewProgram(New(mgr, opts...), tea.WithAltScreen()).Run()
	return err
}
