// Package poller runs a refresh function on a fixed interval for as long as
// a view is alive. A task can be paused and resumed, and ends when its
// context is cancelled or Stop is called.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

var ErrInvalidInterval = errors.New("poll interval must be positive")

// Func is one refresh. Errors are logged and polling continues.
type Func func(ctx context.Context) error

type Task struct {
	name     string
	interval time.Duration
	fn       Func
	logger   logging.Logger

	mu      sync.Mutex
	paused  bool
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a stopped task. name only labels log records.
func New(name string, interval time.Duration, fn Func, logger logging.Logger) *Task {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   logger.With("poller", name),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop bound to ctx. The first refresh happens
// one interval after Start. Calling Start more than once has no effect.
// A task with a non-positive interval never starts and returns
// ErrInvalidInterval.
func (t *Task) Start(ctx context.Context) error {
	if t.interval <= 0 {
		return fmt.Errorf("%w: %s got %s", ErrInvalidInterval, t.name, t.interval)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return nil
	}
	t.started = true

	ctx, t.cancel = context.WithCancel(ctx)
	go t.loop(ctx)
	return nil
}

// Run is Start followed by waiting for the task to end. It returns the
// reason the loop ended: ctx's error, or nil after Stop.
func (t *Task) Run(ctx context.Context) error {
	if err := t.Start(ctx); err != nil {
		return err
	}
	<-t.done
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (t *Task) loop(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if t.Paused() {
				continue
			}
			if err := t.fn(ctx); err != nil && ctx.Err() == nil {
				t.logger.Warn(ctx, "refresh failed", "error", err)
			}
		case <-ctx.Done():
			t.logger.Debug(context.Background(), "poller stopped")
			return
		}
	}
}

// Pause skips ticks until Resume.
func (t *Task) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

func (t *Task) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
}

func (t *Task) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Stop ends the loop and waits for an in-flight refresh to return.
// It is safe to call on a task that was never started.
func (t *Task) Stop() {
	t.mu.Lock()
	started, cancel := t.started, t.cancel
	t.mu.Unlock()
	if !started {
		return
	}
	cancel()
	<-t.done
}

// Done is closed once the loop has ended.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Name() string {
	return t.name
}
