// Package xmutex implements the mutual-exclusion primitive for
// intra-process threads: new/lock/trylock/unlock/free, with blocking and
// non-blocking acquisition. Recursive acquisition by the same goroutine is
// undefined behavior — do not do this, exactly as spec.md §4.3 and the
// original library's pmutex-posix.c (a thin pthread_mutex_lock wrapper,
// which is itself undefined on recursive relock for the default mutex
// attribute) document.
package xmutex

import "sync"

// Mutex wraps sync.Mutex to match the five-operation API (new/lock/
// trylock/unlock/free) spec.md §6 names, rather than exposing Go's
// Lock/Unlock/TryLock directly — fail-returning operations on a nil *Mutex
// return false rather than panicking, per spec.md §4.3's "fail on a null
// handle" contract.
type Mutex struct {
	mu sync.Mutex
}

// New returns a new, unlocked Mutex.
func New() *Mutex { return &Mutex{} }

// Lock blocks until the mutex is acquired. Returns false only when called
// on a nil handle.
func (m *Mutex) Lock() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	return true
}

// TryLock attempts to acquire the mutex without blocking, returning whether
// it succeeded.
func (m *Mutex) TryLock() bool {
	if m == nil {
		return false
	}
	return m.mu.TryLock()
}

// Unlock releases the mutex. Returns false only when called on a nil
// handle; unlocking an already-unlocked mutex panics, matching Go's own
// sync.Mutex and the original library's documented undefined behavior for
// the same misuse.
func (m *Mutex) Unlock() bool {
	if m == nil {
		return false
	}
	m.mu.Unlock()
	return true
}

// Free is a no-op retained for API parity; a Mutex with no goroutines
// holding or waiting on it needs no explicit teardown in Go.
func (m *Mutex) Free() {}
