package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/metrics"
	"github.com/san-kum/forcegraph/internal/session"
	"github.com/san-kum/forcegraph/internal/tui"
	"github.com/san-kum/forcegraph/internal/watcher"
)

func liveCmd() *cobra.Command {
	var (
		watch  bool
		output string
		fps    int
	)
	cmd := &cobra.Command{
		Use:   "live [file]",
		Short: "explore a session in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var opts []session.Option
			if cfg.MetricsAddr != "" {
				collector := metrics.NewCollector("forcegraph")
				opts = append(opts, session.WithObserver(collector))
				stop := serveMetrics(cfg.MetricsAddr, collector.Handler())
				defer stop()
			}

			mgr, err := newManager(cfg.Session(), opts...)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if _, err := loadFile(ctx, mgr, args[0]); err != nil {
				return err
			}

			if watch {
				exclude := func(d *codec.Document) *codec.Document { return d.ExcludeTypes(cfg.ExcludeTypes...) }
				w := watcher.New(args[0], watcher.Reload(ctx, mgr, logger, exclude), logger)
				go func() {
					if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Warn("watch stopped", zap.Error(err))
					}
				}()
			}

			if err := tui.Run(mgr, tui.WithLogger(logger), tui.WithFrameRate(fps)); err != nil {
				return err
			}
			if output != "" {
				return writeOutput(mgr, output)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the file changes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the session here on quit")
	cmd.Flags().IntVar(&fps, "fps", 30, "view refresh rate")
	return cmd
}

// serveMetrics exposes h on addr/metrics until the returned func is called.
func serveMetrics(addr string, h http.Handler) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
