package event

import (
	"log/slog"
	"sync"
)

const defaultQueueLimit = 64

// Queue buffers discrete input events between the goroutine that produces them
// and the simulation tick that consumes them. Events are only ever observed by
// the tick through Drain, never delivered as callbacks.
type Queue struct {
	mu      sync.Mutex
	pending []Kind
	limit   int
	dropped int
}

func NewQueue() *Queue {
	return NewQueueWithLimit(defaultQueueLimit)
}

func NewQueueWithLimit(limit int) *Queue {
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	return &Queue{
		pending: make([]Kind, 0, limit),
		limit:   limit,
	}
}

func (q *Queue) Push(kind Kind) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= q.limit {
		q.dropped++
		slog.Warn("Input event dropped", "event", kind, "pending", len(q.pending))
		return
	}
	q.pending = append(q.pending, kind)
}

// Drain returns every pending event in arrival order and empties the queue.
func (q *Queue) Drain() []Kind {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := make([]Kind, len(q.pending))
	copy(out, q.pending)
	q.pending = q.pending[:0]
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Contains reports whether kind is present in a drained batch.
func Contains(events []Kind, kind Kind) bool {
	for _, e := range events {
		if e == kind {
			return true
		}
	}
	return false
}
