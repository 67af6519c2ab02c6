// Package scheduler owns the delayed and repeating tasks of a single session.
package scheduler

import (
	"sync"
	"time"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/clock"
)

// Group is a set of cancellable tasks sharing one lifetime. Once a task is
// cancelled, directly or through CancelAll, its function is never invoked again.
type Group struct {
	clock clock.Clock

	mu     sync.Mutex
	tasks  map[*Task]struct{}
	closed bool
}

type Task struct {
	group  *Group
	period time.Duration
	fn     func()

	mu        sync.Mutex
	timer     clock.Timer
	cancelled bool
}

func NewGroup(c clock.Clock) *Group {
	return &Group{
		clock: c,
		tasks: make(map[*Task]struct{}),
	}
}

// After runs fn once, d from now.
func (g *Group) After(d time.Duration, fn func()) *Task {
	return g.schedule(d, 0, fn)
}

// Every runs fn every period. The next run is armed before fn is invoked, so
// the period does not drift with fn's duration.
func (g *Group) Every(period time.Duration, fn func()) *Task {
	return g.schedule(period, period, fn)
}

func (g *Group) schedule(delay, period time.Duration, fn func()) *Task {
	t := &Task{group: g, period: period, fn: fn}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		t.cancelled = true
		return t
	}
	g.tasks[t] = struct{}{}
	g.mu.Unlock()

	t.arm(delay)
	return t
}

// CancelAll cancels every task and refuses new ones.
func (g *Group) CancelAll() {
	g.mu.Lock()
	tasks := make([]*Task, 0, len(g.tasks))
	for t := range g.tasks {
		tasks = append(tasks, t)
	}
	g.tasks = make(map[*Task]struct{})
	g.closed = true
	g.mu.Unlock()

	for _, t := range tasks {
		t.stop()
	}
}

// Len is the number of live tasks.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

func (g *Group) remove(t *Task) {
	g.mu.Lock()
	delete(g.tasks, t)
	g.mu.Unlock()
}

// Cancel stops the task. It is safe to call more than once and on a nil task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.stop()
	t.group.remove(t)
}

func (t *Task) Cancelled() bool {
	if t == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

func (t *Task) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Task) arm(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled {
		return
	}
	t.timer = t.group.clock.AfterFunc(d, t.fire)
}

func (t *Task) fire() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	if t.period > 0 {
		t.arm(t.period)
	} else {
		t.group.remove(t)
		t.mu.Lock()
		t.cancelled = true
		t.mu.Unlock()
	}

	t.fn()
}
