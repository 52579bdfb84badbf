package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/forcegraph/internal/forces"
)

// Presets are named physics parameter sets.
var Presets = map[string]forces.Params{
	"default": forces.DefaultParams(),
	"tight":   {LinkDistance: 50, ChargeStrength: -10, CollisionRadius: 20},
	"loose":   {LinkDistance: 220, ChargeStrength: -150, CollisionRadius: 90},
	// d3's own force defaults, without collision.
	"d3": {LinkDistance: 30, ChargeStrength: -30, CollisionRadius: 0},
	// the values of the browser page the layouts were first drawn in.
	"page": {LinkDistance: 100, ChargeStrength: -300, CollisionRadius: 50},
}

func GetPreset(name string) (forces.Params, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the physics with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := GetPreset(name)
	if !ok {
		return fmt.Errorf("unknown preset %q (have %v)", name, ListPresets())
	}
	c.Physics = p
	return nil
}
