package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/metrics"
	"github.com/san-kum/forcegraph/internal/session"
	"github.com/san-kum/forcegraph/internal/sim"
)

const defaultMaxTicks = 5000

func layoutCmd() *cobra.Command {
	var (
		output   string
		maxTicks int
	)
	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "settle a session and write the positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(headless())
			if err != nil {
				return err
			}
			defer mgr.Close()

			s, err := loadFile(cmd.Context(), mgr, args[0])
			if err != nil {
				return err
			}
			ticks, err := s.Engine.RunUntilSettled(cmd.Context(), maxTicks)
			if err != nil {
				return err
			}
			logger.Info("layout settled", zap.Int("ticks", ticks), zap.Float64("alpha", s.Engine.Alpha()))
			return writeOutput(mgr, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .yaml), stdout when empty")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", defaultMaxTicks, "give up after this many ticks")
	return cmd
}

func exportSVGCmd() *cobra.Command {
	var (
		output   string
		settle   bool
		maxTicks int
	)
	cmd := &cobra.Command{
		Use:   "export-svg [file]",
		Short: "render a session as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(headless())
			if err != nil {
				return err
			}
			defer mgr.Close()

			s, err := loadFile(cmd.Context(), mgr, args[0])
			if err != nil {
				return err
			}
			if settle {
				if _, err := s.Engine.RunUntilSettled(cmd.Context(), maxTicks); err != nil {
					return err
				}
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := mgr.ExportSVG(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			brand.Print("✓ ")
			fmt.Println("wrote", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", codec.DefaultSVGName, "output file")
	cmd.Flags().BoolVar(&settle, "settle", true, "run the layout to rest before drawing")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", defaultMaxTicks, "give up after this many ticks")
	return cmd
}

// trace records alpha and kinetic energy per tick.
type trace struct {
	alpha  []float64
	energy *metrics.Energy
	stable *metrics.Stability
}

func (t *trace) OnTick(s sim.Snapshot) {
	t.alpha = append(t.alpha, s.Alpha)
	t.energy.OnTick(s)
	t.stable.OnTick(s)
}

func plotCmd() *cobra.Command {
	var (
		maxTicks  int
		height    int
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot alpha and kinetic energy while a session settles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := &trace{energy: metrics.NewEnergy(), stable: metrics.NewStability(threshold)}
			mgr, err := newManager(headless(), session.WithObserver(tr))
			if err != nil {
				return err
			}
			defer mgr.Close()

			s, err := loadFile(cmd.Context(), mgr, args[0])
			if err != nil {
				return err
			}
			ticks, err := s.Engine.RunUntilSettled(cmd.Context(), maxTicks)
			if err != nil {
				return err
			}
			if len(tr.alpha) == 0 {
				return fmt.Errorf("no ticks to plot")
			}

			fmt.Printf("file: %s\n", args[0])
			fmt.Printf("nodes: %d  links: %d  ticks: %d  state: %s\n\n",
				s.Graph.Len(), len(s.Graph.Links()), ticks, s.Engine.State())

			fmt.Println(asciigraph.Plot(tr.alpha,
				asciigraph.Height(height),
				asciigraph.Width(70),
				asciigraph.Caption("alpha")))
			fmt.Println()

			fmt.Println(asciigraph.Plot(tr.energy.Series(),
				asciigraph.Height(height),
				asciigraph.Width(70),
				asciigraph.Caption("kinetic energy")))
			fmt.Println()

			subtle.Printf("peak energy %.4g  mean %.4g  stability %.1f%%\n",
				tr.energy.Peak(), tr.energy.Mean(), tr.stable.Value()*100)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxTicks, "max-ticks", defaultMaxTicks, "give up after this many ticks")
	cmd.Flags().IntVar(&height, "height", 12, "plot height in rows")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "speed above which a tick counts as unstable")
	return cmd
}
