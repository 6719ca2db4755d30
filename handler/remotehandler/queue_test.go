package remotehandler

import (
	"testing"
	"time"

	"github.com/tzlog/tzlog/core"
)

func TestQueue_CapacityBound(t *testing.T) {
	q := NewQueue(3)

	for i := 0; i < 3; i++ {
		if !q.TryEnqueue(&Entry{Line: "x"}) {
			t.Fatalf("enqueue %d should succeed", i)
		}
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}

	// The (N+1)-th enqueue on a full N-capacity queue is rejected, not blocked
	done := make(chan bool, 1)
	go func() {
		done <- q.TryEnqueue(&Entry{Line: "overflow"})
	}()
	select {
	case ok := <-done:
		if ok {
			t.Error("enqueue on full queue should be rejected")
		}
	case <-time.After(time.Second):
		t.Fatal("TryEnqueue blocked on a full queue")
	}

	if q.Len() != 3 {
		t.Errorf("Len() = %d after rejected enqueue, want 3", q.Len())
	}
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue(8)
	for _, line := range []string{"a", "b", "c"} {
		q.TryEnqueue(&Entry{Line: line})
	}

	for _, want := range []string{"a", "b", "c"} {
		e, ok := q.TryDequeue()
		if !ok {
			t.Fatal("expected an entry")
		}
		if e.Line != want {
			t.Errorf("dequeued %q, want %q", e.Line, want)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("queue should be empty")
	}
}

func TestQueue_DequeueBlocksUntilEntry(t *testing.T) {
	q := NewQueue(1)
	stop := make(chan struct{})

	result := make(chan *Entry, 1)
	go func() {
		e, ok := q.Dequeue(stop)
		if ok {
			result <- e
		}
	}()

	// Give the consumer a moment to block
	time.Sleep(20 * time.Millisecond)
	q.TryEnqueue(&Entry{Line: "late", Level: core.InfoLevel})

	select {
	case e := <-result:
		if e.Line != "late" {
			t.Errorf("got %q", e.Line)
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not wake on enqueue")
	}
}

func TestQueue_DequeueStops(t *testing.T) {
	q := NewQueue(1)
	stop := make(chan struct{})

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue(stop)
		done <- ok
	}()

	close(stop)
	select {
	case ok := <-done:
		if ok {
			t.Error("Dequeue should report stop on an empty queue")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not observe stop")
	}
}

func TestQueue_DequeueYieldsToStopWithBufferedEntries(t *testing.T) {
	q := NewQueue(2)
	q.TryEnqueue(&Entry{Line: "pending"})

	stop := make(chan struct{})
	close(stop)

	// Stop wins even with entries buffered; they stay available for
	// the non-blocking drain path.
	if _, ok := q.Dequeue(stop); ok {
		t.Error("Dequeue should yield to stop")
	}
	e, ok := q.TryDequeue()
	if !ok || e.Line != "pending" {
		t.Errorf("buffered entry lost: ok=%v", ok)
	}
}
