package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/store"
)

var dbPath string

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "keep sessions in a local library",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "library database (defaults to config store_path)")
	cmd.AddCommand(storePutCmd(), storeListCmd(), storeGetCmd(), storeRmCmd())
	return cmd
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = cfg.StorePath
	}
	return store.Open(path)
}

func storePutCmd() *cobra.Command {
	var (
		name     string
		settle   bool
		maxTicks int
	)
	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "add or replace a session in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

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
			doc, err := mgr.Document()
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.Put(cmd.Context(), name, doc)
			if err != nil {
				return err
			}
			brand.Print("✓ ")
			fmt.Printf("stored %s as %s\n", name, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "library name (defaults to the file name)")
	cmd.Flags().BoolVar(&settle, "settle", false, "settle the layout before storing")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", defaultMaxTicks, "give up after this many ticks")
	return cmd
}

func storeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				subtle.Println("no sessions stored")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tNODES\tLINKS\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					e.ID, e.Name, e.Nodes, e.Links,
					e.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func storeGetCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id or name]",
		Short: "write a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			doc, _, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return codec.NewJSONCodec().Export(doc, os.Stdout)
			}
			c, err := codec.ForPath(output)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := c.Export(doc, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .yaml), stdout when empty")
	return cmd
}

func storeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id or name]",
		Short: "remove a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			brand.Print("✓ ")
			fmt.Println("removed", args[0])
			return nil
		},
	}
}
