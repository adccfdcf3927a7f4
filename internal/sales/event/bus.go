package event

import (
	"context"
	"errors"
	"sync"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus carries ingestion events from the upload path to the recorder.
//
// Close never closes the event channel itself: publishers racing with Close
// get ErrBusClosed instead of a panic, and whatever is already queued is
// still handed out by next until the queue is empty.
type Bus struct {
	queue  chan entity.IngestionEvent
	closed chan struct{}
	once   sync.Once
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		queue:  make(chan entity.IngestionEvent, buffer),
		closed: make(chan struct{}),
	}
}

// Publish queues event, waiting for room until ctx ends or the bus closes.
func (b *Bus) Publish(ctx context.Context, event entity.IngestionEvent) error {
	select {
	case <-b.closed:
		return ErrBusClosed
	default:
	}

	select {
	case b.queue <- event:
		return nil
	case <-b.closed:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports how many events wait in the queue.
func (b *Bus) Pending() int {
	return len(b.queue)
}

func (b *Bus) Close() {
	b.once.Do(func() { close(b.closed) })
}

// next blocks for the next event. It reports false once the bus is closed
// and drained.
func (b *Bus) next() (entity.IngestionEvent, bool) {
	select {
	case event := <-b.queue:
		return event, true
	case <-b.closed:
	}

	select {
	case event := <-b.queue:
		return event, true
	default:
		return entity.IngestionEvent{}, false
	}
}
