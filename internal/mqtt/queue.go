package mqtt

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/wuclock/internal/logic"
)

// DefaultQueueSize is the number of events a Queue holds before dropping.
const DefaultQueueSize = 64

// queued is one pending publish.
type queued struct {
	event  *logic.Event
	system *SystemEvent
}

// Queue is a Publisher that never blocks: events are stored and a worker
// started with Run hands them to the wrapped Publisher. When full the oldest
// event is dropped.
type Queue struct {
	pub Publisher

	mu      sync.Mutex
	pending *ringBuffer[queued]
	wake    chan struct{}
}

// NewQueue wraps pub.
func NewQueue(pub Publisher, size int) *Queue {
	return &Queue{
		pub:     pub,
		pending: newRingBuffer[queued]("queue", size),
		wake:    make(chan struct{}, 1),
	}
}

// Publish queues a clock event. It always returns nil.
func (q *Queue) Publish(event logic.Event) error {
	q.enqueue(queued{event: &event})
	return nil
}

// PublishSystem queues a system event. It always returns nil.
func (q *Queue) PublishSystem(event SystemEvent) error {
	q.enqueue(queued{system: &event})
	return nil
}

func (q *Queue) enqueue(item queued) {
	q.mu.Lock()
	q.pending.push(item)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of events waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.len()
}

// Run publishes queued events until ctx is done, then publishes whatever is
// left and returns nil.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.Flush()
			return nil
		case <-q.wake:
			q.Flush()
		}
	}
}

// Flush publishes every queued event now, in order.
func (q *Queue) Flush() {
	q.mu.Lock()
	items := q.pending.drainAll()
	q.mu.Unlock()

	for _, it := range items {
		var err error
		switch {
		case it.event != nil:
			err = q.pub.Publish(*it.event)
		case it.system != nil:
			err = q.pub.PublishSystem(*it.system)
		}
		if err != nil {
			log.Warn().Err(err).Msg("mqtt: publish failed")
		}
	}
}

// IsConnected reports the wrapped publisher's connection state, or false if
// it does not report one.
func (q *Queue) IsConnected() bool {
	if cs, ok := q.pub.(ConnectionStatus); ok {
		return cs.IsConnected()
	}
	return false
}

// Close flushes pending events and closes the wrapped publisher.
func (q *Queue) Close() error {
	q.Flush()
	return q.pub.Close()
}
