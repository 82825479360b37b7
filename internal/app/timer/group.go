package timer

import "time"

// Ticket identifies one scheduled task and the epoch it was created in.
type Ticket struct {
	id    uint64
	epoch uint64
}

func (t Ticket) Epoch() uint64 { return t.epoch }

// Group is not safe for concurrent use; the owner serializes access,
// including the Claim made from inside a fired callback.
type Group struct {
	sched   Scheduler
	epoch   uint64
	seq     uint64
	pending map[uint64]Task
}

func NewGroup(sched Scheduler) *Group {
	return &Group{
		sched:   sched,
		pending: make(map[uint64]Task),
	}
}

func (g *Group) Now() time.Time { return g.sched.Now() }

func (g *Group) Epoch() uint64 { return g.epoch }

func (g *Group) Pending() int { return len(g.pending) }

// Schedule arranges for fire to run after d with the ticket of the new task.
// fire must Claim the ticket before applying any effect.
func (g *Group) Schedule(d time.Duration, fire func(Ticket)) Ticket {
	g.seq++
	tk := Ticket{id: g.seq, epoch: g.epoch}
	g.pending[tk.id] = g.sched.AfterFunc(d, func() { fire(tk) })
	return tk
}

// Claim retires tk and reports whether it still belongs to the current epoch.
func (g *Group) Claim(tk Ticket) bool {
	if _, ok := g.pending[tk.id]; !ok {
		return false
	}
	delete(g.pending, tk.id)
	return tk.epoch == g.epoch
}

// Advance starts a new epoch. Outstanding timers are stopped; any that already
// fired will fail their Claim.
func (g *Group) Advance() uint64 {
	g.epoch++
	for id, t := range g.pending {
		t.Stop()
		delete(g.pending, id)
	}
	return g.epoch
}
