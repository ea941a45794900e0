package sched

import (
	"sync"
	"testing"
	"time"
)

func TestLoop_FIFOOrder(t *testing.T) {
	l := NewLoop(32)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 20; i++ {
		i := i
		if !l.Schedule(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}) {
			t.Fatalf("Schedule(%d) refused", i)
		}
	}

	l.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 20 {
		t.Fatalf("ran %d callbacks, want 20", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
}

func TestLoop_ScheduleAfterClose(t *testing.T) {
	l := NewLoop(4)
	l.Close()

	if l.Schedule(func() { t.Error("callback ran after close") }) {
		t.Error("Schedule should refuse after Close")
	}
}

func TestLoop_CloseIdempotent(t *testing.T) {
	l := NewLoop(4)
	l.Close()
	l.Close()
}

func TestLoop_FullQueueDrops(t *testing.T) {
	l := NewLoop(1)
	defer l.Close()

	// Park the executor so queued work cannot drain.
	gate := make(chan struct{})
	blocked := make(chan struct{})
	if !l.Schedule(func() { close(blocked); <-gate }) {
		t.Fatal("first Schedule refused")
	}
	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("executor never picked up the blocking callback")
	}

	// One slot in the queue, then overflow.
	if !l.Schedule(func() {}) {
		t.Fatal("second Schedule should fill the queue")
	}
	if l.Schedule(func() { t.Error("overflow callback ran") }) {
		t.Error("Schedule should refuse when the queue is full")
	}
	if l.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", l.Dropped())
	}

	close(gate)
}

func TestLoop_ClosePendingCallbacksRun(t *testing.T) {
	l := NewLoop(8)

	gate := make(chan struct{})
	done := make(chan struct{})
	l.Schedule(func() { <-gate })
	l.Schedule(func() { close(done) })

	close(gate)
	l.Close()

	select {
	case <-done:
	default:
		t.Error("queued callback did not run before Close returned")
	}
}
