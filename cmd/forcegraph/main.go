package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/icons"
	"github.com/san-kum/forcegraph/internal/session"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	fail   = color.New(color.FgRed, color.Bold)
)

var (
	configFile   string
	preset       string
	logLevel     string
	logFile      string
	excludeTypes []string
	portalTypes  bool
	noExclude    bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "forcegraph",
		Short:         "force-directed layout for item graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "physics preset (see presets)")
	pf.StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.StringSliceVar(&excludeTypes, "exclude-type", nil, "node types to drop on load (adds to config)")
	pf.BoolVar(&portalTypes, "portal", false, "drop the portal exporter's helper types on load")
	pf.BoolVar(&noExclude, "no-exclude", false, "ignore exclude_types from the config file")

	rootCmd.AddCommand(
		layoutCmd(),
		exportSVGCmd(),
		plotCmd(),
		liveCmd(),
		presetsCmd(),
		configCmd(),
		storeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			warn.Fprintln(os.Stderr, "nothing to save: no session is loaded")
		} else {
			fail.Fprint(os.Stderr, "error: ")
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.DefaultConfig()
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if noExclude {
		cfg.ExcludeTypes = nil
	}
	if portalTypes {
		cfg.ExcludeTypes = append(cfg.ExcludeTypes, config.PortalHelperTypes...)
	}
	cfg.ExcludeTypes = append(cfg.ExcludeTypes, excludeTypes...)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The live view owns the terminal, so it only logs to a file.
	if cmd.Name() == "live" && logFile == "" {
		logger = zap.NewNop()
		return nil
	}
	logger, err = newLogger(cfg.LogLevel, logFile)
	return err
}

func newLogger(level, path string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	out := "stderr"
	if path != "" {
		out = path
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}
	return zc.Build()
}

func newManager(sc session.Config, opts ...session.Option) (*session.Manager, error) {
	table := icons.Default()
	if cfg.IconsFile != "" {
		f, err := os.Open(cfg.IconsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if table, err = icons.Load(f); err != nil {
			return nil, fmt.Errorf("icons %s: %w", cfg.IconsFile, err)
		}
	}
	opts = append([]session.Option{session.WithLogger(logger), session.WithIcons(table)}, opts...)
	return session.NewManager(sc, opts...), nil
}

// readDocument parses path by extension and applies the type filter.
func readDocument(path string) (*codec.Document, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	filtered := doc.ExcludeTypes(cfg.ExcludeTypes...)
	if n := len(doc.Nodes) - len(filtered.Nodes); n > 0 {
		warn.Fprintf(os.Stderr, "excluded %d node(s) of type %s\n", n, strings.Join(cfg.ExcludeTypes, ", "))
	}
	return filtered, nil
}

func loadFile(ctx context.Context, mgr *session.Manager, path string) (*session.Session, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	s, err := mgr.LoadDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if n := len(s.Dropped); n > 0 {
		warn.Fprintf(os.Stderr, "dropped %d link(s) with unknown endpoints\n", n)
	}
	return s, nil
}

// writeOutput saves the live session to path, or to stdout as JSON when
// path is empty or "-".
func writeOutput(mgr *session.Manager, path string) error {
	if path == "" || path == "-" {
		return mgr.Save(os.Stdout, codec.NewJSONCodec())
	}
	c, err := codec.ForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mgr.Save(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// headless returns session defaults for commands that tick the engine
// themselves.
func headless() session.Config {
	sc := cfg.Session()
	sc.AutoRun = false
	return sc
}
