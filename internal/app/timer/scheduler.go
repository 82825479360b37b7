// Package timer provides cancelable deferred tasks. Every task belongs to the
// epoch of the Group that scheduled it; advancing the epoch retires them all.
package timer

import "time"

type Task interface {
	Stop() bool
}

type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
}

// Clock schedules on the runtime timer wheel.
type Clock struct{}

func (Clock) Now() time.Time { return time.Now() }

func (Clock) AfterFunc(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}

// Rand is satisfied by *math/rand/v2.Rand.
type Rand interface {
	Float64() float64
}

// Uniform samples a duration from [lo, hi].
func Uniform(r Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Float64()*float64(hi-lo+1))
}
