// Package watcher reloads a session file when it changes on disk.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/session"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func(path string)
	debounce time.Duration
	logger   *zap.Logger
}

func New(path string, onChange func(path string), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// WithDebounce sets how long the file must be quiet before onChange runs.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until ctx is cancelled. onChange runs on the watching
// goroutine, once per burst of writes.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory so editors that replace the file are still seen.
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)
	if err := fw.Add(dir); err != nil {
		return err
	}
	w.logger.Info("watching for changes", zap.String("path", w.path))

	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending && !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(w.debounce)
			pending = true

		case <-debounce.C:
			pending = false
			w.logger.Debug("file changed", zap.String("path", w.path))
			w.onChange(w.path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			debounce.Stop()
			return ctx.Err()
		}
	}
}

// Filter rewrites a parsed document before it is loaded.
type Filter func(*codec.Document) *codec.Document

// Reload returns an onChange callback that loads the file into m. A file
// that fails to load leaves the live session running.
func Reload(ctx context.Context, m *session.Manager, logger *zap.Logger, filters ...Filter) func(path string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(path string) {
		c, err := codec.ForPath(path)
		if err != nil {
			logger.Warn("reload skipped", zap.Error(err))
			return
		}
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("reload failed", zap.Error(err))
			return
		}
		defer f.Close()

		doc, err := c.Parse(f)
		if err != nil {
			logger.Warn("reload rejected, keeping current session",
				zap.String("path", path),
				zap.Error(err))
			return
		}
		for _, filter := range filters {
			doc = filter(doc)
		}
		s, err := m.LoadDocument(ctx, doc)
		if err != nil {
			logger.Warn("reload rejected, keeping current session",
				zap.String("path", path),
				zap.Error(err))
			return
		}
		logger.Info("session reloaded",
			zap.String("path", path),
			zap.Int("nodes", s.Graph.Len()))
	}
}
