// Package icons maps node types to their visual size and colour.
//
// The table only feeds renderers and the SVG exporter; physics uses the
// single collision radius from the force parameters.
package icons

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRadius = 10
	DefaultFill   = "#69b3a2"
	PinnedFill    = "#ff7f0e"
)

type Style struct {
	Radius float64 `yaml:"radius"`
	Fill   string  `yaml:"fill"`
	Glyph  string  `yaml:"glyph"`
}

// Table resolves a node type to its Style. Unknown types get the default.
type Table struct {
	def    Style
	byType map[string]Style
}

func NewTable(def Style) *Table {
	return &Table{def: fill(def, Style{Radius: DefaultRadius, Fill: DefaultFill, Glyph: "●"}), byType: make(map[string]Style)}
}

// Default returns the built-in table for the item types produced by the
// portal dependency exporter.
func Default() *Table {
	t := NewTable(Style{})
	t.Set("Web Map", Style{Radius: 14, Fill: "#1f77b4", Glyph: "▣"})
	t.Set("Web Scene", Style{Radius: 14, Fill: "#17becf", Glyph: "◈"})
	t.Set("Feature Service", Style{Radius: 12, Fill: "#2ca02c", Glyph: "◆"})
	t.Set("Map Service", Style{Radius: 12, Fill: "#98df8a", Glyph: "◇"})
	t.Set("Web Mapping Application", Style{Radius: 16, Fill: "#9467bd", Glyph: "★"})
	t.Set("Dashboard", Style{Radius: 16, Fill: "#8c564b", Glyph: "▤"})
	t.Set("StoryMap", Style{Radius: 16, Fill: "#e377c2", Glyph: "✦"})
	t.Set("Form", Style{Radius: 10, Fill: "#bcbd22", Glyph: "▢"})
	return t
}

func (t *Table) Set(typ string, s Style) {
	t.byType[typ] = fill(s, t.def)
}

func (t *Table) Lookup(typ string) Style {
	if s, ok := t.byType[typ]; ok {
		return s
	}
	return t.def
}

// Types lists the known types in sorted order.
func (t *Table) Types() []string {
	out := make([]string, 0, len(t.byType))
	for typ := range t.byType {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

type fileTable struct {
	Default Style            `yaml:"default"`
	Types   map[string]Style `yaml:"types"`
}

// Load reads a YAML table:
//
//	default: {radius: 10, fill: "#69b3a2"}
//	types:
//	  Web Map: {radius: 14, fill: "#1f77b4"}
func Load(r io.Reader) (*Table, error) {
	var ft fileTable
	if err := yaml.NewDecoder(r).Decode(&ft); err != nil {
		return nil, fmt.Errorf("failed to parse icon table: %w", err)
	}
	t := NewTable(ft.Default)
	for typ, s := range ft.Types {
		if s.Radius < 0 {
			return nil, fmt.Errorf("icon %q: negative radius %v", typ, s.Radius)
		}
		t.Set(typ, s)
	}
	return t, nil
}

func fill(s, def Style) Style {
	if s.Radius <= 0 {
		s.Radius = def.Radius
	}
	if s.Fill == "" {
		s.Fill = def.Fill
	}
	if s.Glyph == "" {
		s.Glyph = def.Glyph
	}
	return s
}
