// Package semaphore implements a named counting semaphore usable across
// process boundaries: open-or-create a logical name, acquire (block until
// count>0, then decrement), release (increment), and optional ownership
// so only the process that created the object unlinks it on Free.
// Grounded on psemaphore-posix.c/psemaphore-sysv.c/psemaphore-win.c.
package semaphore

import (
	"github.com/nbtaylor/sysrt/errs"
	"github.com/nbtaylor/sysrt/internal/telemetry"
	"github.com/nbtaylor/sysrt/ipckey"
)

// AccessMode controls what New does when an object under the same name
// already exists.
type AccessMode int

const (
	// AccessOpenOrCreate opens the existing object if present, otherwise
	// creates it with the given initial value. An existing object's
	// current count is left untouched.
	AccessOpenOrCreate AccessMode = iota
	// AccessCreateForce (re)creates the object and resets it to the given
	// initial value even if it already existed, matching p_semaphore_new's
	// P_SEM_ACCESS_CREATE mode.
	AccessCreateForce
)

// Semaphore is a handle to a named counting semaphore. The zero value is
// not usable; construct with New.
type Semaphore struct {
	name    string
	initVal int
	mode    AccessMode

	created bool // true once this handle owns the OS object (unlinks on Free)

	native nativeSemaphore
}

// New opens or creates a named semaphore. name is a logical identifier
// shared by every process that wants the same object; initVal must be >= 0.
func New(name string, initVal int, mode AccessMode) (*Semaphore, error) {
	if name == "" || initVal < 0 {
		return nil, errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "semaphore: invalid name or initial value")
	}

	path, err := ipckey.TempFileName(name, ipckey.SemaphoreSuffix)
	if err != nil {
		return nil, errs.NewWithIPCCode(errs.IPCFailed, 0, "semaphore: failed to derive platform key: "+err.Error())
	}

	s := &Semaphore{name: name, initVal: initVal, mode: mode}
	if err := createHandle(s, path); err != nil {
		return nil, err
	}
	return s, nil
}

// TakeOwnership marks the handle as the object's owner, so Free unlinks the
// underlying OS object instead of merely closing this handle.
func (s *Semaphore) TakeOwnership() {
	if s == nil {
		return
	}
	s.created = true
}

// Acquire blocks until the semaphore's count is greater than zero, then
// decrements it. This does not serialize on a Go-side lock: the native
// layer already arbitrates concurrent access to the counter itself (flock
// on unix, the kernel object on Windows), and holding a handle-local mutex
// across the blocking wait below would let one blocked Acquire starve
// every Release on the same handle forever, since only Release can make
// the count positive again.
func (s *Semaphore) Acquire() error {
	if s == nil {
		return errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "semaphore: invalid handle")
	}

	blocked := false
	for {
		ok, err := s.native.tryAcquire()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !blocked {
			telemetry.Default().SemaphoreContention.Inc()
			blocked = true
		}
		s.native.waitForPost()
	}
}

// Release increments the semaphore's count, waking a blocked acquirer if
// any.
func (s *Semaphore) Release() error {
	if s == nil {
		return errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "semaphore: invalid handle")
	}
	return s.native.release()
}

// Free closes this handle, unlinking the underlying OS object first if
// this handle owns it (created via New without an existing object, or
// TakeOwnership was called). Callers must not call Free concurrently with
// Acquire/Release on the same handle, same as closing any other handle
// still in use.
func (s *Semaphore) Free() {
	if s == nil {
		return
	}
	s.native.close(s.created)
}
