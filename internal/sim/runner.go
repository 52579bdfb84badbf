package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner drives an engine from a single goroutine, one tick per interval.
// While the engine is not Running it parks until woken by a reheat.
type Runner struct {
	engine   *Engine
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(e *Engine, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Runner{engine: e, interval: interval, logger: e.logger}
}

// Start launches the driving goroutine. Calling Start twice is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.loop(ctx, r.done)
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		switch r.engine.State() {
		case Stopped:
			return
		case Running:
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.engine.Tick()
			}
		default:
			select {
			case <-ctx.Done():
				return
			case <-r.engine.Wake():
			}
		}
	}
}

// Stop halts the engine and returns once the driving goroutine has exited.
// No tick from this runner is emitted after Stop returns.
func (r *Runner) Stop() {
	r.engine.Stop()

	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.logger.Debug("runner stopped", zap.Uint64("ticks", r.engine.Ticks()))
}

// Done is closed when the driving goroutine exits.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
