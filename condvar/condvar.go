// Package condvar implements a condition variable paired with a held
// xmutex.Mutex: Wait atomically releases the mutex and blocks until
// signalled, reacquiring the mutex before returning; Signal wakes one
// waiter; Broadcast wakes all. Spurious wakeups are permitted — callers
// must recheck their predicate in a loop, exactly as spec.md §4.5 and the
// original library's pcondvariable-posix.c (a direct pthread_cond_wait
// pass-through, which inherits pthread's spurious-wakeup allowance)
// document.
package condvar

import (
	"sync"

	"github.com/nbtaylor/sysrt/internal/telemetry"
	"github.com/nbtaylor/sysrt/xmutex"
)

// lockerAdapter adapts xmutex.Mutex's bool-returning Lock/Unlock to the
// void-returning sync.Locker interface sync.Cond requires.
type lockerAdapter struct{ m *xmutex.Mutex }

func (l lockerAdapter) Lock()   { l.m.Lock() }
func (l lockerAdapter) Unlock() { l.m.Unlock() }

// Cond is a condition variable bound to a single xmutex.Mutex for its
// entire lifetime, matching pthread_cond_t's documented requirement that
// all waiters on one condition variable use the same mutex. The zero
// value is not usable; construct with New.
type Cond struct {
	cond      *sync.Cond
	waitersMu sync.Mutex
	waiters   int
}

// New returns a Cond paired with mx. Every Wait call on the returned Cond
// must be made with mx already locked.
func New(mx *xmutex.Mutex) *Cond {
	return &Cond{cond: sync.NewCond(lockerAdapter{m: mx})}
}

// Wait releases the paired mutex, blocks until Signal or Broadcast wakes
// it (or a spurious wakeup occurs), then reacquires the mutex before
// returning. The caller must hold the mutex when calling Wait.
func (c *Cond) Wait() bool {
	if c == nil {
		return false
	}
	c.waitersMu.Lock()
	c.waiters++
	c.waitersMu.Unlock()

	c.cond.Wait()

	c.waitersMu.Lock()
	c.waiters--
	c.waitersMu.Unlock()
	return true
}

// Signal wakes one waiter; FIFO order is not guaranteed.
func (c *Cond) Signal() bool {
	if c == nil {
		return false
	}
	c.cond.Signal()
	return true
}

// Broadcast wakes every waiter.
func (c *Cond) Broadcast() bool {
	if c == nil {
		return false
	}
	c.cond.Broadcast()
	return true
}

// Free reports, via the shared telemetry logger, a warning if waiters are
// still queued, per spec.md §4.5's "destroying a condvar while a waiter is
// present must emit a warning; correct callers drain before destruction."
// It otherwise does nothing — Go's GC reclaims the Cond.
func (c *Cond) Free() {
	if c == nil {
		return
	}
	c.waitersMu.Lock()
	n := c.waiters
	c.waitersMu.Unlock()
	if n > 0 {
		telemetry.Log().Warn().Int("waiters", n).Msg("condvar: Free called with waiters still queued")
	}
}
