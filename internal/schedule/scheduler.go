// Package schedule provides the virtual clock that drives a game session.
//
// A Scheduler never spawns goroutines. Callbacks run synchronously inside
// Advance, on whatever goroutine owns the session (a Nakama match loop, a
// websocket connection loop, a bubbletea Update or a test).
package schedule

import (
	"container/heap"
	"time"
)

// Scheduler runs one-shot and periodic callbacks against a manually advanced clock.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

// Handle cancels a scheduled callback.
type Handle struct {
	task *task
}

// Cancel stops the callback from firing again. Safe to call more than once
// and on a nil Handle.
func (h *Handle) Cancel() {
	if h == nil || h.task == nil {
		return
	}
	h.task.cancelled = true
}

// Active reports whether the callback may still fire.
func (h *Handle) Active() bool {
	return h != nil && h.task != nil && !h.task.cancelled && !h.task.done
}

type task struct {
	due       time.Duration
	period    time.Duration // zero for one-shot tasks
	seq       uint64
	fn        func()
	cancelled bool
	done      bool
}

// New returns a Scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after the current virtual time.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	return s.push(d, 0, fn)
}

// Every runs fn each period, the first time one period from now.
// A non-positive period is treated as one nanosecond.
func (s *Scheduler) Every(period time.Duration, fn func()) *Handle {
	if period <= 0 {
		period = time.Nanosecond
	}
	return s.push(period, period, fn)
}

func (s *Scheduler) push(d, period time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &task{due: s.now + d, period: period, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	return &Handle{task: t}
}

// Pending returns the number of callbacks that may still fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every callback that falls
// due, in due-time order and, for equal times, in scheduling order.
// Callbacks may schedule or cancel other callbacks; newly scheduled work
// that falls inside the window runs in the same call.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := s.now + d
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.due > target {
			break
		}
		heap.Pop(&s.queue)
		if next.cancelled {
			continue
		}
		s.now = next.due
		if next.period > 0 {
			next.due += next.period
			s.seq++
			next.seq = s.seq
			heap.Push(&s.queue, next)
		} else {
			next.done = true
		}
		next.fn()
	}
	s.now = target
}

// taskQueue is a min-heap ordered by (due, seq).
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
