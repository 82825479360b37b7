package timer

import (
	"sync"
	"time"
)

// Manual is a virtual clock. Tasks run only from Advance, on the caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	m       *Manual
	due     time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d and runs every task falling due, earliest
// first. Tasks scheduled by a running task fire in the same call if due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		if next.due.After(m.now) {
			m.now = next.due
		}
		next.fired = true
		m.mu.Unlock()
		next.fn()
	}
}

// Pending counts tasks that are neither fired nor stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (m *Manual) popDueLocked(target time.Time) *manualTask {
	idx := -1
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if t.stopped || t.fired {
			continue
		}
		live = append(live, t)
	}
	m.tasks = live
	for i, t := range m.tasks {
		if t.due.After(target) {
			continue
		}
		if idx < 0 || t.due.Before(m.tasks[idx].due) ||
			(t.due.Equal(m.tasks[idx].due) && t.seq < m.tasks[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := m.tasks[idx]
	m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
	return t
}
