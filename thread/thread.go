// Package thread implements the user-thread runtime: creation, join,
// priority mapping, yield, sleep, reference counting, ideal processor
// count, and thread-local storage. A Thread created by Create/CreateFull
// owns a real OS thread for its whole lifetime (runtime.LockOSThread is
// called from inside the goroutine before the entry function runs, and is
// never unlocked — the OS thread is torn down along with the goroutine on
// exit), which is what makes per-thread priority, grounded on
// puthread-posix.c/puthread-win.c, meaningful at all: a goroutine with no
// pinned OS thread has no stable native priority to set.
package thread

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/nbtaylor/sysrt/internal/runtimetune"
	"github.com/nbtaylor/sysrt/internal/telemetry"
)

// Priority is the eight-level abstract scheduling priority: Inherit is a
// sentinel meaning "leave the host default untouched", the other seven
// are real levels saturating at the extremes spec.md §4.6 names.
type Priority int32

const (
	PriorityInherit Priority = iota
	PriorityIdle
	PriorityLowest
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
	PriorityTimeCritical
)

// Func is a thread entry point. Its return value becomes the thread's
// return code unless the thread calls Exit first.
type Func func(data any) int

// Thread is a reference-counted handle to either a thread created by this
// package ("ours") or a synthetic handle representing a foreign goroutine
// that called Current() first ("adopted"). Adopted handles
// must not be joined.
type Thread struct {
	id       uint64
	refCount int32
	ours     bool
	joinable bool
	priority int32
	retCode  int32
	done     chan struct{}

	tlsMu sync.Mutex
	tls   map[*Key]any

	native nativeThreadRef // platform-specific identity captured at startup, used for priority
}

var (
	registry sync.Map // goroutine id (uint64) -> *Thread

	newSpin sync.Mutex // serializes handle construction in CreateFull, mirroring pp_uthread_new_spin; registry insertion happens later, on the new goroutine
)

func init() {
	runtimetune.Init()
}

// Create starts fn(data) on a new thread and returns its handle
// immediately; the thread runs concurrently. Equivalent to
// CreateFull(fn, data, joinable, PriorityInherit, 0).
func Create(fn Func, data any, joinable bool) *Thread {
	return CreateFull(fn, data, joinable, PriorityInherit, 0)
}

// CreateFull starts fn(data) on a new thread with the requested joinable
// flag, priority, and stack size hint (stackSize is advisory only — Go
// goroutine stacks grow on demand, so it is recorded but not pre-allocated).
func CreateFull(fn Func, data any, joinable bool, prio Priority, stackSize int64) *Thread {
	if fn == nil {
		return nil
	}

	newSpin.Lock()
	t := &Thread{
		refCount: 2, // one for the caller, one the thread drops on exit
		ours:     true,
		joinable: joinable,
		priority: int32(prio),
		done:     make(chan struct{}),
		tls:      make(map[*Key]any),
	}
	newSpin.Unlock()

	telemetry.Default().ThreadsCreated.Inc()
	telemetry.Default().ActiveThreads.Inc()

	started := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		t.id = goroutineID()
		captureNativeThread(t)
		registry.Store(t.id, t)
		applyInitialPriority(t, prio)
		close(started)

		defer func() {
			runTLSDestructors(t)
			registry.Delete(t.id)
			telemetry.Default().ActiveThreads.Dec()
			close(t.done)
			t.Unref()
		}()

		atomic.StoreInt32(&t.retCode, int32(fn(data)))
	}()
	<-started

	return t
}

// Ref increments the reference count and returns t for chaining.
func (t *Thread) Ref() *Thread {
	if t == nil {
		return nil
	}
	atomic.AddInt32(&t.refCount, 1)
	return t
}

// Unref decrements the reference count. Go's GC reclaims the handle once
// nothing references it; Unref exists for API parity and to let callers
// reason about handle lifetime the way spec.md's data model describes.
func (t *Thread) Unref() {
	if t == nil {
		return
	}
	atomic.AddInt32(&t.refCount, -1)
}

// Ours reports whether this handle was created by Create/CreateFull
// (true) or represents an adopted foreign goroutine (false).
func (t *Thread) Ours() bool {
	if t == nil {
		return false
	}
	return t.ours
}

// Join blocks until t finishes and returns the value passed to Exit, or
// fn's return value if Exit was never called. Returns (0, false) for a
// nil, non-joinable, or adopted handle.
func Join(t *Thread) (int, bool) {
	if t == nil || !t.ours || !t.joinable {
		return 0, false
	}
	<-t.done
	return int(atomic.LoadInt32(&t.retCode)), true
}

// Exit terminates the calling thread immediately, running TLS destructors
// before control returns to the host scheduler. Calling Exit from a
// thread not created by this package is a caller error: it is ignored and
// logged, matching spec.md §4.6's "exit called from a foreign/adopted
// thread is ignored with a warning."
func Exit(code int) {
	t := Current()
	if t == nil {
		return
	}
	if !t.ours {
		telemetry.Log().Warn().Msg("thread: Exit called from an adopted/foreign thread, ignoring")
		return
	}
	atomic.StoreInt32(&t.retCode, int32(code))
	runtime.Goexit()
}

// Current returns the handle for the calling goroutine, creating a
// refcount-1 adopted handle the first time a foreign goroutine calls it —
// mirroring puthread-amiga.c's find-or-create-thread-info pattern, the one
// backend in the original with no compiler-assisted TLS to rely on, which
// is exactly Go's situation too.
func Current() *Thread {
	id := goroutineID()
	if v, ok := registry.Load(id); ok {
		return v.(*Thread)
	}
	adopted := &Thread{id: id, refCount: 1, tls: make(map[*Key]any)}
	actual, _ := registry.LoadOrStore(id, adopted)
	return actual.(*Thread)
}

// CurrentID returns a stable identifier for the calling goroutine, usable
// as a map key or log field; it carries no ordering or magnitude meaning.
func CurrentID() uint64 { return goroutineID() }

// Yield hints the scheduler to run other goroutines before resuming the
// caller. Never blocks.
func Yield() { runtime.Gosched() }

// IdealCount returns the number of logical processors available to the
// process, the Go analogue of sysconf(_SC_NPROCESSORS_ONLN) /
// GetNativeSystemInfo. It reports runtime.NumCPU, which the GOMAXPROCS
// adjustment automaxprocs makes in this package's init does not change.
func IdealCount() int { return runtime.NumCPU() }

// SetPriority requests a new scheduling priority for t. Returns whether
// the host actually has a priority mechanism to apply; platforms/backends
// without one record the request (visible to a later caller only via
// diagnostics) and return false, per spec.md §4.6.
func (t *Thread) SetPriority(prio Priority) bool {
	if t == nil {
		return false
	}
	atomic.StoreInt32(&t.priority, int32(prio))
	if !t.ours {
		return false
	}
	return setNativePriority(t, prio)
}

func applyInitialPriority(t *Thread, prio Priority) {
	if prio == PriorityInherit {
		return
	}
	if !setNativePriority(t, prio) {
		telemetry.Log().Debug().Msg("thread: host has no priority mechanism, request recorded only")
	}
}
