package controls

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/forces"
)

var ErrUnknownParam = errors.New("controls: unknown parameter")

// Engine is the part of the simulation the surface tunes.
type Engine interface {
	SetParameter(force, property string, value float64) error
	ApplyParams(p forces.Params) error
	Params() forces.Params
	Reheat()
}

// ChangeListener sees every committed change. Listeners run under the
// surface lock.
type ChangeListener func(p Param, v Value)

type Surface struct {
	engine Engine
	logger *zap.Logger

	mu        sync.Mutex
	params    []Param
	values    map[string]Value
	listeners []ChangeListener
}

// New builds a surface over params, initialised from the engine's current
// values.
func New(e Engine, params []Param, logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Surface{
		engine: e,
		logger: logger,
		params: params,
		values: make(map[string]Value, len(params)),
	}
	s.syncLocked(e.Params())
	return s
}

func (s *Surface) OnChange(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Surface) Params() []Param {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

func (s *Surface) Value(name string) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// SetFromSlider clamps v to the parameter bounds, snaps it to the slider
// step and commits it. It returns the committed value.
func (s *Surface) SetFromSlider(name string, v float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownParam)
	}
	v = p.snap(v)
	if err := s.commit(p, v); err != nil {
		return 0, err
	}
	return v, nil
}

// SetFromField parses the numeric entry. Text that is not a number or lies
// outside the bounds is ignored and false is returned; nothing changes.
func (s *Surface) SetFromField(name, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(name)
	if !ok {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !p.accepts(v) {
		s.logger.Debug("numeric entry rejected",
			zap.String("param", name),
			zap.String("text", text))
		return false
	}
	return s.commit(p, v) == nil
}

// Reset restores every parameter to its default and reheats once.
func (s *Surface) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.engine.Params()
	for _, p := range s.params {
		switch p.Name {
		case LinkDistance:
			next.LinkDistance = p.Default
		case ChargeStrength:
			next.ChargeStrength = p.Default
		case CollisionRadius:
			next.CollisionRadius = p.Default
		}
	}
	if err := s.engine.ApplyParams(next); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.syncLocked(next)
	s.engine.Reheat()
	s.logger.Info("physics reset",
		zap.Float64("link_distance", next.LinkDistance),
		zap.Float64("charge_strength", next.ChargeStrength),
		zap.Float64("collision_radius", next.CollisionRadius))
	return nil
}

// Sync pulls the engine's values into both representations without
// reheating, e.g. after a session load.
func (s *Surface) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked(s.engine.Params())
}

func (s *Surface) commit(p Param, v float64) error {
	if err := s.engine.SetParameter(p.Binding.Force, p.Binding.Property, v); err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	s.set(p, v)
	s.engine.Reheat()
	return nil
}

func (s *Surface) syncLocked(fp forces.Params) {
	for _, p := range s.params {
		if v, ok := paramsValue(fp, p.Name); ok {
			s.set(p, v)
		}
	}
}

func (s *Surface) set(p Param, v float64) {
	val := valueOf(v)
	s.values[p.Name] = val
	for _, l := range s.listeners {
		l(p, val)
	}
}

func (s *Surface) lookup(name string) (Param, bool) {
	for _, p := range s.params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
