// Package spinlock implements a short-critical-section lock: on a lock-free
// xatomic backend it holds a single-word atomic flag and spins with
// compare-and-exchange, yielding the CPU between attempts (the same
// register-CAS-retry shape as dijkstracula's ilock.Mutex.registerX, just
// with two states — unlocked/locked — instead of four). When atomics are
// simulated it degrades to a plain xmutex.Mutex, per spec.md §4.4.
package spinlock

import (
	"runtime"

	"github.com/nbtaylor/sysrt/xatomic"
	"github.com/nbtaylor/sysrt/xmutex"
)

const (
	unlocked = 0
	locked   = 1
)

// SpinLock is a CAS-spin lock when backed by real atomics, degrading to a
// mutex when the atomic backend is simulated (see NewSimulated).
type SpinLock struct {
	flag     *xatomic.Int
	fallback *xmutex.Mutex // non-nil only in the simulated-degrade case
}

// New returns a lock-free spinning SpinLock.
func New() *SpinLock {
	return &SpinLock{flag: xatomic.NewInt(unlocked)}
}

// NewSimulated returns a SpinLock that degrades to a plain mutex, for hosts
// where xatomic.IsLockFree() would report false. lock()/unlock() then
// behave exactly like the underlying mutex, including the prohibition on
// unlocking an unlocked instance (spec.md §4.4).
func NewSimulated() *SpinLock {
	return &SpinLock{fallback: xmutex.New()}
}

// IsLockFree reports which backend this SpinLock is using.
func (s *SpinLock) IsLockFree() bool { return s.fallback == nil }

// Lock blocks until the lock is acquired. Returns false only on a nil
// handle.
func (s *SpinLock) Lock() bool {
	if s == nil {
		return false
	}
	if s.fallback != nil {
		return s.fallback.Lock()
	}
	for !s.flag.CompareAndExchange(unlocked, locked) {
		runtime.Gosched()
	}
	return true
}

// TryLock attempts to acquire the lock without blocking.
func (s *SpinLock) TryLock() bool {
	if s == nil {
		return false
	}
	if s.fallback != nil {
		return s.fallback.TryLock()
	}
	return s.flag.CompareAndExchange(unlocked, locked)
}

// Unlock releases the lock. On the simulated backend, unlocking an already
// unlocked lock panics (delegated to xmutex); on the lock-free backend it
// is a plain store and is a caller error to call without holding the lock.
func (s *SpinLock) Unlock() bool {
	if s == nil {
		return false
	}
	if s.fallback != nil {
		return s.fallback.Unlock()
	}
	s.flag.Set(unlocked)
	return true
}

// Free is a no-op retained for API parity.
func (s *SpinLock) Free() {}
