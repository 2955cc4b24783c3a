// internal/game/schedule.go
//
// Deferred callbacks for two-phase transitions.
//
// The controller never sleeps. A transition that has to wait (for example
// the win notification's exit animation) is begun immediately and its
// completion is handed to a Scheduler. Tests plug in a manual scheduler.

package game

import (
	"sync"
	"time"
)

// Timer is a pending deferred callback.
type Timer interface {
	// Stop cancels the callback; it reports false if it already ran.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules on the wall clock via time.AfterFunc.
// When Locker is set the callback runs while holding it, so completions
// are serialised with every other controller call made under that lock.
type ClockScheduler struct {
	Locker sync.Locker
}

// AfterFunc implements Scheduler.
func (s ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		if s.Locker != nil {
			s.Locker.Lock()
			defer s.Locker.Unlock()
		}
		f()
	})
}
