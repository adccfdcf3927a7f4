package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic wraps a value recovered from a panicking task.
var ErrPanic = errors.New("goroutine panicked")

// Stats is a snapshot of task counters.
type Stats struct {
	Started  int64
	Failed   int64
	Canceled int64
	Running  int64
}

// Manager runs tasks in goroutines, at most max at a time.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	sema chan struct{}

	started  atomic.Int64
	failed   atomic.Int64
	canceled atomic.Int64
	running  atomic.Int64
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go blocks until a slot is free or pCtx ends, then runs f in a goroutine.
// A task whose context ends before it starts is counted as canceled and
// never runs.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}:
	case <-pCtx.Done():
		g.canceled.Add(1)
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		return
	}

	g.wg.Add(1)
	g.started.Add(1)
	g.running.Add(1)

	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "panic", rvr, "stack", string(debug.Stack()))
				g.fail(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}

			g.running.Add(-1)
			<-g.sema
			g.wg.Done()
		}()

		if err := pCtx.Err(); err != nil {
			g.canceled.Add(1)
			slog.WarnContext(pCtx, "goroutine canceled", "because", err)
			return
		}

		if err := f(pCtx); err != nil {
			g.fail(err)
		}
	}()
}

func (g *Manager) fail(err error) {
	g.failed.Add(1)

	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Stats returns the current counters.
func (g *Manager) Stats() Stats {
	return Stats{
		Started:  g.started.Load(),
		Failed:   g.failed.Load(),
		Canceled: g.canceled.Load(),
		Running:  g.running.Load(),
	}
}

// Wait blocks until every started task returns and joins their errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
