package event

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

const defaultDedupWindow = 4096

type Handler interface {
	Handle(ctx context.Context, event entity.IngestionEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	// DedupWindow is how many recent event IDs are remembered.
	DedupWindow int
}

// ConsumerStats counts what happened to consumed events.
type ConsumerStats struct {
	Recorded   int64
	Failed     int64
	Duplicates int64
	Abandoned  int64
}

// IngestionConsumer moves events from the bus into the ingestion log with a
// fixed pool of workers. A failed write is retried with doubling backoff; an
// event ID seen recently is skipped. Stopping cancels the context every
// handler call and backoff wait runs under.
type IngestionConsumer struct {
	bus     *Bus
	handler Handler
	cfg     ConsumerConfig
	seen    *recentIDs

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	start  sync.Once

	recorded   atomic.Int64
	failed     atomic.Int64
	duplicates atomic.Int64
	abandoned  atomic.Int64
}

func NewIngestionConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *IngestionConsumer {
	if cfg.Workers < 1 {
		cfg.Workers = 2
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.DedupWindow < 1 {
		cfg.DedupWindow = defaultDedupWindow
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &IngestionConsumer{
		bus:     bus,
		handler: handler,
		cfg:     cfg,
		seen:    newRecentIDs(cfg.DedupWindow),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (c *IngestionConsumer) Start() {
	c.start.Do(func() {
		for i := 0; i < c.cfg.Workers; i++ {
			c.wg.Add(1)
			go c.run()
		}
	})
}

// Stop closes the bus and lets workers drain it. If ctx ends first, pending
// retries and queued events are abandoned and ctx's error is returned.
func (c *IngestionConsumer) Stop(ctx context.Context) error {
	c.bus.Close()

	drained := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		c.cancel()
		return nil
	case <-ctx.Done():
		c.cancel()
		slog.WarnContext(ctx, "ingestion consumer stopped before draining", "pending", c.bus.Pending())
		return ctx.Err()
	}
}

func (c *IngestionConsumer) Stats() ConsumerStats {
	return ConsumerStats{
		Recorded:   c.recorded.Load(),
		Failed:     c.failed.Load(),
		Duplicates: c.duplicates.Load(),
		Abandoned:  c.abandoned.Load(),
	}
}

func (c *IngestionConsumer) run() {
	defer c.wg.Done()

	for {
		if c.ctx.Err() != nil {
			return
		}

		event, ok := c.bus.next()
		if !ok {
			return
		}
		c.consume(event)
	}
}

func (c *IngestionConsumer) consume(event entity.IngestionEvent) {
	if c.handler == nil {
		return
	}

	meta := event.Meta
	if event.EventID != "" && !c.seen.add(event.EventID) {
		c.duplicates.Add(1)
		slog.InfoContext(c.ctx, "skip duplicate ingestion event", "event_id", event.EventID, "dashboard_id", meta.DashboardID)
		return
	}

	backoff := c.cfg.BaseBackoff
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(c.ctx, event)
		if err == nil {
			c.recorded.Add(1)
			return
		}

		if attempt > c.cfg.MaxRetries {
			c.failed.Add(1)
			// a later redelivery may still succeed
			c.seen.forget(event.EventID)
			slog.ErrorContext(c.ctx, "ingestion event not recorded",
				"event_id", event.EventID,
				"dashboard_id", meta.DashboardID,
				"file_name", meta.FileName,
				"status", meta.Status,
				"attempts", attempt,
				"error", err,
			)
			return
		}

		slog.WarnContext(c.ctx, "retrying ingestion event", "event_id", event.EventID, "attempt", attempt, "backoff", backoff.String(), "error", err)
		if !c.wait(backoff) {
			c.abandoned.Add(1)
			slog.WarnContext(context.Background(), "ingestion event abandoned on shutdown", "event_id", event.EventID, "dashboard_id", meta.DashboardID)
			return
		}
		backoff *= 2
	}
}

// wait sleeps for d unless the consumer is stopped first.
func (c *IngestionConsumer) wait(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}
