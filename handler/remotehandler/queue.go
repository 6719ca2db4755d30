package remotehandler

import "github.com/tzlog/tzlog/core"

// Entry is one serialized log line pending delivery. The id correlates
// drop and abandon diagnostics with a specific entry.
type Entry struct {
	ID    string
	Level core.Level
	Line  string
}

// Queue is a bounded FIFO of pending entries with a fixed capacity.
// Any number of producers may enqueue; exactly one consumer dequeues.
// TryEnqueue never blocks: a full queue rejects the entry, which the
// caller records as a drop. Dequeue blocks until an entry arrives or
// the stop channel closes.
type Queue struct {
	ch chan *Entry
}

// NewQueue creates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan *Entry, capacity)}
}

// TryEnqueue appends an entry without blocking. It returns false when
// the queue is full; the entry is then considered dropped.
func (q *Queue) TryEnqueue(e *Entry) bool {
	select {
	case q.ch <- e:
		return true
	default:
		return false
	}
}

// Dequeue removes the oldest entry, blocking until one is available.
// It returns false as soon as stop closes, even with entries still
// buffered: those stay in the queue for TryDequeue, so shutdown can
// drain them under its own deadline.
func (q *Queue) Dequeue(stop <-chan struct{}) (*Entry, bool) {
	select {
	case <-stop:
		return nil, false
	default:
	}
	select {
	case e := <-q.ch:
		return e, true
	case <-stop:
		return nil, false
	}
}

// TryDequeue removes the oldest entry without blocking.
func (q *Queue) TryDequeue() (*Entry, bool) {
	select {
	case e := <-q.ch:
		return e, true
	default:
		return nil, false
	}
}

// Len returns the number of buffered entries.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}
