// Package sysrt is a portable systems-programming runtime: the same
// concurrency and IPC primitives — atomics, mutexes, condition variables,
// read-write locks, spinlocks, user threads with thread-local storage and
// priorities, named system semaphores, named shared-memory segments, and a
// high-resolution time profiler — with identical semantics regardless of
// host OS.
//
// This is an umbrella doc package; the actual API lives in the per-concern
// subpackages, one per component:
//
//	errs         portable error taxonomy (I/O and IPC kinds)
//	xatomic      lock-free (or simulated) atomic int/pointer cells
//	xmutex       mutual exclusion
//	spinlock     short-critical-section lock
//	condvar      condition variables
//	rwlock       multi-reader / single-writer locks
//	thread       thread creation, join, priorities, thread-local storage
//	ipckey       derivation of platform-legal IPC object names
//	semaphore    named, inter-process counting semaphores
//	shm          named, inter-process shared-memory segments
//	timeprofiler monotonic elapsed-microseconds reporter
//
// Components are consumed leaf-first: ipckey feeds semaphore and shm;
// semaphore is used internally by shm for mutual exclusion; condvar is
// paired with xmutex; spinlock consumes xatomic (or falls back to xmutex);
// rwlock's generic backend (NewGeneric) is built on xmutex and condvar,
// while rwlock.New wraps sync.RWMutex. thread keeps its registry and
// thread-local-storage tables with the standard sync package.
//
// None of these packages introduce cooperative scheduling, an event loop,
// or fibers: every blocking call suspends the calling goroutine exactly as
// a blocking OS-thread call would, through Go's own runtime scheduler.
package sysrt
