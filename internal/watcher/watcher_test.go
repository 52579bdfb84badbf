package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/session"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls atomic.Int32
	w := New(path, func(string) { calls.Add(1) }, nil).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{ }"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.json")

	cfg := session.DefaultConfig()
	cfg.AutoRun = false
	m := session.NewManager(cfg)
	defer m.Close()
	reload := Reload(context.Background(), m, nil)

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"a"}],"links":[]}`), 0o644))
	reload(path)
	first, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, 1, first.Graph.Len())

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":`), 0o644))
	reload(path)
	cur, _ := m.Current()
	assert.Same(t, first, cur, "broken file keeps the live session")

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"a"},{"id":"b"}],"links":[]}`), 0o644))
	reload(path)
	cur, _ = m.Current()
	assert.Equal(t, 2, cur.Graph.Len())

	reload(filepath.Join(dir, "missing.json"))
	reload(filepath.Join(dir, "s.txt"))
	cur2, _ := m.Current()
	assert.Same(t, cur, cur2)
}

func TestReload_Filters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	cfg := session.DefaultConfig()
	cfg.AutoRun = false
	m := session.NewManager(cfg)
	defer m.Close()

	drop := func(d *codec.Document) *codec.Document { return d.ExcludeTypes("Code Attachment") }
	reload := Reload(context.Background(), m, nil, drop)

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"a"},{"id":"b","type":"Code Attachment"}],
		"links":[{"source":"a","target":"b"}]}`), 0o644))
	reload(path)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, 1, cur.Graph.Len())
	assert.Empty(t, cur.Graph.Links())
	assert.Empty(t, cur.Dropped, "filtered links are not reported as dangling")
}
