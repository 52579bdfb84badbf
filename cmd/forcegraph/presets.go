package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/config"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			brand.Println("physics presets")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLINK DISTANCE\tCHARGE\tCOLLISION")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", name, p.LinkDistance, p.ChargeStrength, p.CollisionRadius)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			subtle.Println("use with --preset NAME")
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print or write the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "/dev/stdout"
			}
			return config.Save(output, cfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file (.yaml or .toml)")
	return cmd
}
