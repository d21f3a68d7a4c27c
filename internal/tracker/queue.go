package tracker

import (
	"sync"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
)

// deliveryQueue is a thread-safe FIFO queue of decoded channel events.
//
// The queue is unbounded: the platform can burst step completions
// faster than the loop applies them, and applying is cheap enough that
// backpressure would only complicate the transport adapter.
//
// Enqueue is safe from any goroutine (transport callbacks); the
// tracker's Run loop is the only dequeuer. A buffered signal channel of
// size one coalesces wakeups so the loop can wait on it together with
// context cancellation.
type deliveryQueue struct {
	mu     sync.Mutex
	events []event.Event
	closed bool
	signal chan struct{}
}

func newDeliveryQueue() *deliveryQueue {
	return &deliveryQueue{
		events: make([]event.Event, 0, 32),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. Returns false if the queue is closed.
func (q *deliveryQueue) Enqueue(ev event.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, ev)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front event without blocking.
func (q *deliveryQueue) TryDequeue() (event.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil, false
	}

	ev := q.events[0]
	// Nil the slot so the backing array does not pin the event.
	q.events[0] = nil
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return ev, true
}

// Wait returns the wakeup channel. It closes when the queue closes.
func (q *deliveryQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending events.
func (q *deliveryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close stops further enqueues and wakes any waiter.
func (q *deliveryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
