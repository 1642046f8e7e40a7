// Package rwlock implements a reader/writer lock with writer preference:
// a reader that arrives while a writer is active or waiting queues behind
// it, so writers cannot starve under a steady stream of readers. Two
// backends are provided. New returns the native backend, a thin wrapper
// over sync.RWMutex. NewGeneric returns a hand-built backend atop a mutex
// and two condition variables, packing active/waiting reader and writer
// counts into a single word exactly the way prwlock-general.c does — kept
// because it is the backend whose transition rules (wake one writer vs.
// broadcast all readers, waiting-count bookkeeping under the same lock)
// spec.md's data model describes directly, independent of whatever a given
// host's native rwlock implementation happens to do internally.
package rwlock

import (
	"sync"
	"time"

	"github.com/nbtaylor/sysrt/condvar"
	"github.com/nbtaylor/sysrt/internal/telemetry"
	"github.com/nbtaylor/sysrt/xmutex"
)

// RWLock is the common interface both backends satisfy.
type RWLock interface {
	ReaderLock() bool
	ReaderTryLock() bool
	ReaderUnlock() bool
	WriterLock() bool
	WriterTryLock() bool
	WriterUnlock() bool
	Free()
}

// New returns the native backend (sync.RWMutex). This is the right choice
// for ordinary callers: the host runtime's own rwlock is at least as fast
// as anything built atop it.
func New() RWLock { return &native{} }

type native struct {
	mu sync.RWMutex
}

func (n *native) ReaderLock() bool {
	if n == nil {
		return false
	}
	n.mu.RLock()
	return true
}

func (n *native) ReaderTryLock() bool {
	if n == nil {
		return false
	}
	return n.mu.TryRLock()
}

func (n *native) ReaderUnlock() bool {
	if n == nil {
		return false
	}
	n.mu.RUnlock()
	return true
}

func (n *native) WriterLock() bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	return true
}

func (n *native) WriterTryLock() bool {
	if n == nil {
		return false
	}
	return n.mu.TryLock()
}

func (n *native) WriterUnlock() bool {
	if n == nil {
		return false
	}
	n.mu.Unlock()
	return true
}

func (n *native) Free() {}

// Packed layout of the active/waiting count words, mirroring
// P_RWLOCK_SET_READERS/P_RWLOCK_READER_COUNT/P_RWLOCK_SET_WRITERS/
// P_RWLOCK_WRITER_COUNT: low 15 bits are the reader count, next 15 bits
// the writer count (0 or 1 in practice, since only one writer is ever
// active or queued to go next).
const (
	readerMask  = 0x00007FFF
	writerMask  = 0x3FFF8000
	writerShift = 15
)

func setReaders(word, readers uint32) uint32 {
	return (word &^ readerMask) | (readers & readerMask)
}

func readerCount(word uint32) uint32 { return word & readerMask }

func setWriters(word, writers uint32) uint32 {
	return (word &^ writerMask) | ((writers << writerShift) & writerMask)
}

func writerCount(word uint32) uint32 { return (word & writerMask) >> writerShift }

// generic is the bitfield-over-mutex-and-two-condvars backend.
type generic struct {
	mu      *xmutex.Mutex
	readCV  *condvar.Cond
	writeCV *condvar.Cond

	active  uint32 // packed reader/writer counts currently holding the lock
	waiting uint32 // packed reader/writer counts blocked waiting
}

// NewGeneric returns the packed-word backend. Most callers want New();
// this constructor exists for hosts/tests that want the documented
// transition rules exercised directly rather than delegated to the
// runtime's own rwlock.
func NewGeneric() RWLock {
	mu := xmutex.New()
	return &generic{
		mu:      mu,
		readCV:  condvar.New(mu),
		writeCV: condvar.New(mu),
	}
}

func (g *generic) ReaderLock() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	ok := true
	if writerCount(g.active) != 0 || writerCount(g.waiting) != 0 {
		g.waiting = setReaders(g.waiting, readerCount(g.waiting)+1)
		for writerCount(g.active) != 0 || writerCount(g.waiting) != 0 {
			if !g.readCV.Wait() {
				ok = false
				break
			}
		}
		g.waiting = setReaders(g.waiting, readerCount(g.waiting)-1)
	}
	if ok {
		g.active = setReaders(g.active, readerCount(g.active)+1)
	}
	return ok
}

func (g *generic) ReaderTryLock() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if writerCount(g.active) != 0 {
		return false
	}
	g.active = setReaders(g.active, readerCount(g.active)+1)
	return true
}

func (g *generic) ReaderUnlock() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	readers := readerCount(g.active)
	if readers == 0 {
		telemetry.Log().Warn().Msg("rwlock: ReaderUnlock called with no active readers")
		return true
	}
	g.active = setReaders(g.active, readers-1)

	if readers == 1 && writerCount(g.waiting) != 0 {
		return g.writeCV.Signal()
	}
	return true
}

func (g *generic) WriterLock() bool {
	if g == nil {
		return false
	}
	start := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()

	ok := true
	if g.active != 0 {
		g.waiting = setWriters(g.waiting, writerCount(g.waiting)+1)
		for g.active != 0 {
			if !g.writeCV.Wait() {
				ok = false
				break
			}
		}
		g.waiting = setWriters(g.waiting, writerCount(g.waiting)-1)
	}
	if ok {
		g.active = setWriters(g.active, 1)
	}
	telemetry.Default().RWLockWriterWaitSeconds.Observe(time.Since(start).Seconds())
	return ok
}

func (g *generic) WriterTryLock() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active != 0 {
		return false
	}
	g.active = setWriters(g.active, 1)
	return true
}

func (g *generic) WriterUnlock() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.active = setWriters(g.active, 0)

	switch {
	case writerCount(g.waiting) != 0:
		return g.writeCV.Signal()
	case readerCount(g.waiting) != 0:
		return g.readCV.Broadcast()
	}
	return true
}

// Free warns if the lock is destroyed while active or waiting threads are
// still present, matching p_rwlock_free's two P_WARNING calls.
func (g *generic) Free() {
	if g == nil {
		return
	}
	if g.active != 0 {
		telemetry.Log().Warn().Msg("rwlock: Free called with active holders present")
	}
	if g.waiting != 0 {
		telemetry.Log().Warn().Msg("rwlock: Free called with waiting threads present")
	}
}
