package interaction

import "time"

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc.
var RealClock Clock = realClock{}

// Task is a scheduled callback. A task fires at most once and never after it
// has been cancelled or superseded.
type Task struct {
	key   string
	timer Timer
	done  bool
}

func (t *Task) Key() string { return t.key }

// Scheduler keeps at most one pending task per key. It has no lock of its
// own: the owner serialises Schedule, Cancel and Claim, including from the
// fire callback.
type Scheduler struct {
	clock Clock
	tasks map[string]*Task
}

func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock
	}
	return &Scheduler{clock: clock, tasks: make(map[string]*Task)}
}

// Schedule replaces any pending task for key. When the delay elapses fire is
// called with the task; fire must Claim it before acting.
func (s *Scheduler) Schedule(key string, d time.Duration, fire func(*Task)) *Task {
	s.Cancel(key)
	t := &Task{key: key}
	s.tasks[key] = t
	t.timer = s.clock.AfterFunc(d, func() { fire(t) })
	return t
}

// Claim marks t as fired. It returns false when t was cancelled, superseded
// or already claimed.
func (s *Scheduler) Claim(t *Task) bool {
	if t.done || s.tasks[t.key] != t {
		return false
	}
	t.done = true
	delete(s.tasks, t.key)
	return true
}

// Cancel stops the pending task for key. Cancelling nothing is not an error.
func (s *Scheduler) Cancel(key string) bool {
	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
	delete(s.tasks, key)
	return true
}

func (s *Scheduler) CancelAll() int {
	n := 0
	for key := range s.tasks {
		if s.Cancel(key) {
			n++
		}
	}
	return n
}

func (s *Scheduler) Pending(key string) bool {
	_, ok := s.tasks[key]
	return ok
}

func (s *Scheduler) Len() int { return len(s.tasks) }
