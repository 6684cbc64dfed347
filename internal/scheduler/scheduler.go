// Package scheduler runs deferred work at deadlines: send-later deliveries
// and standup closes. One goroutine owns a min-heap of tasks and sleeps on a
// timer until the earliest deadline; submissions and cancellations wake it.
// There is no polling. Callers re-validate their own preconditions inside
// the task function, which runs as close to the deadline as the runtime
// allows.
package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a handle to scheduled work. Cancel is safe to call at any time,
// including after the task has fired, and is idempotent.
type Task struct {
	at        time.Time
	fn        func()
	index     int // heap index, -1 once removed
	cancelled bool
	sched     *Scheduler
}

// Cancel removes the task from the queue if it has not fired yet.
func (t *Task) Cancel() {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.cancelled || t.index < 0 {
		t.cancelled = true
		return
	}
	t.cancelled = true
	heap.Remove(&t.sched.queue, t.index)
	t.sched.kick()
}

// Scheduler dispatches tasks in deadline order. Tasks run on the scheduler
// goroutine; they are expected to be short (one store critical section).
type Scheduler struct {
	mu     sync.Mutex
	queue  taskQueue
	wake   chan struct{}
	done   chan struct{}
	closed bool
	logger *zap.Logger
}

// New returns a started scheduler.
func New(logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go s.run()
	return s
}

// Schedule enqueues fn to run at the given time. A time in the past fires
// immediately.
func (s *Scheduler) Schedule(at time.Time, fn func()) *Task {
	t := &Task{at: at, fn: fn, sched: s}
	s.mu.Lock()
	heap.Push(&s.queue, t)
	s.kick()
	s.mu.Unlock()
	return t
}

// Stop shuts the dispatch goroutine down. Pending tasks never fire.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.done)
}

// kick wakes the run loop; callers hold s.mu.
func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		var wait time.Duration
		if len(s.queue) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(s.queue[0].at)
		}
		s.mu.Unlock()

		if wait > 0 {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(wait)
			select {
			case <-timer.C:
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 || s.queue[0].at.After(time.Now()) {
				s.mu.Unlock()
				break
			}
			t := heap.Pop(&s.queue).(*Task)
			cancelled := t.cancelled
			s.mu.Unlock()
			if !cancelled {
				t.fn()
			}
		}

		select {
		case <-s.done:
			return
		default:
		}
	}
}

type taskQueue []*Task

func (q taskQueue) Len() int            { return len(q) }
func (q taskQueue) Less(i, j int) bool  { return q[i].at.Before(q[j].at) }
func (q taskQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *taskQueue) Push(x any) { t := x.(*Task); t.index = len(*q); *q = append(*q, t) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
