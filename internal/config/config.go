package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/interaction"
	"github.com/san-kum/forcegraph/internal/session"
	"github.com/san-kum/forcegraph/internal/sim"
)

const (
	DefaultLogLevel     = "info"
	DefaultTickInterval = time.Second / 60
	DefaultStoreFile    = "forcegraph.db"
)

type Config struct {
	LogLevel     string        `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	Simulation   sim.Config    `yaml:"simulation" toml:"simulation"`
	Physics      forces.Params `yaml:"physics" toml:"physics"`
	TickInterval time.Duration `yaml:"tick_interval" toml:"tick_interval" validate:"gt=0"`
	PopupDelay   time.Duration `yaml:"popup_delay" toml:"popup_delay" validate:"gte=0"`
	IconsFile    string        `yaml:"icons_file" toml:"icons_file"`
	StorePath    string        `yaml:"store_path" toml:"store_path"`
	MetricsAddr  string        `yaml:"metrics_addr" toml:"metrics_addr" validate:"omitempty,hostname_port"`

	// ExcludeTypes drops node types on load. Empty by default so a saved
	// session reloads whole; see PortalHelperTypes.
	ExcludeTypes []string `yaml:"exclude_types" toml:"exclude_types"`
}

// PortalHelperTypes are the item types the portal graph exporter leaves out.
// Set them in exclude_types when loading a raw portal export.
var PortalHelperTypes = []string{"Service Definition", "Code Attachment"}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		Simulation:   sim.DefaultConfig(),
		Physics:      forces.DefaultParams(),
		TickInterval: DefaultTickInterval,
		PopupDelay:   interaction.DefaultHideDelay,
		StorePath:    DefaultStoreFile,
	}
}

var validate = validator.New()

// Validate checks struct tags and the physics ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads a YAML or TOML file over the defaults, picking the format from
// the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.NewEncoder(f).Encode(cfg)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Session converts the config into the running defaults of a session
// manager.
func (c *Config) Session() session.Config {
	return session.Config{
		Sim:          c.Simulation,
		Physics:      c.Physics,
		TickInterval: c.TickInterval,
		PopupDelay:   c.PopupDelay,
		AutoRun:      true,
	}
}
