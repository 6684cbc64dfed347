package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(zap.NewNop())
	t.Cleanup(s.Stop)
	return s
}

func TestPastDeadlineFiresImmediately(t *testing.T) {
	s := newScheduler(t)
	done := make(chan struct{})
	s.Schedule(time.Now().Add(-time.Second), func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not fire")
	}
}

func TestFiresInDeadlineOrder(t *testing.T) {
	s := newScheduler(t)
	var order []int
	done := make(chan struct{})
	now := time.Now()

	// Submit out of order; the heap must fire them by deadline.
	s.Schedule(now.Add(300*time.Millisecond), func() {
		order = append(order, 3)
		close(done)
	})
	s.Schedule(now.Add(100*time.Millisecond), func() { order = append(order, 1) })
	s.Schedule(now.Add(200*time.Millisecond), func() { order = append(order, 2) })

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("tasks did not fire")
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v", order)
	}
}

func TestEarlierSubmissionPreemptsTimer(t *testing.T) {
	s := newScheduler(t)
	fired := make(chan int, 2)
	s.Schedule(time.Now().Add(time.Hour), func() { fired <- 2 })
	s.Schedule(time.Now().Add(100*time.Millisecond), func() { fired <- 1 })

	select {
	case got := <-fired:
		if got != 1 {
			t.Fatalf("fired %d first", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("near task blocked behind far deadline")
	}
}

func TestCancel(t *testing.T) {
	s := newScheduler(t)
	var fired atomic.Bool
	task := s.Schedule(time.Now().Add(200*time.Millisecond), func() { fired.Store(true) })
	task.Cancel()
	task.Cancel() // idempotent

	time.Sleep(500 * time.Millisecond)
	if fired.Load() {
		t.Fatal("cancelled task fired")
	}
}

func TestCancelAfterFire(t *testing.T) {
	s := newScheduler(t)
	done := make(chan struct{})
	task := s.Schedule(time.Now(), func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not fire")
	}
	task.Cancel()
}

func TestStopDropsPending(t *testing.T) {
	s := New(zap.NewNop())
	var fired atomic.Bool
	s.Schedule(time.Now().Add(200*time.Millisecond), func() { fired.Store(true) })
	s.Stop()
	s.Stop() // idempotent

	time.Sleep(500 * time.Millisecond)
	if fired.Load() {
		t.Fatal("task fired after Stop")
	}
}
