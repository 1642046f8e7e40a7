// Package shm implements named shared memory: a byte segment identified by
// a logical name, mapped into this process's address space, with an
// internal named semaphore providing Lock/Unlock around access to it.
// Grounded on pshm-posix.c/pshm-sysv.c/pshm-win.c.
package shm

import (
	"github.com/pbnjay/memory"

	"github.com/nbtaylor/sysrt/errs"
	"github.com/nbtaylor/sysrt/internal/telemetry"
	"github.com/nbtaylor/sysrt/ipckey"
	"github.com/nbtaylor/sysrt/semaphore"
)

// AccessPerms controls the protection the segment is mapped with.
type AccessPerms int

const (
	AccessReadWrite AccessPerms = iota
	AccessReadOnly
)

// Shm is a handle to a named shared memory segment. The zero value is not
// usable; construct with New.
type Shm struct {
	name    string
	size    uint64
	perms   AccessPerms
	created bool // true once this handle owns the segment (unlinks on Free)
	sem     *semaphore.Semaphore

	native nativeShm
}

// New creates or opens a named shared memory segment. size is the
// requested length in bytes; 0 means "open an existing segment only; fail
// if it does not exist." An existing segment's actual size always wins
// over a different requested size: Size() reports the size of the segment
// as mapped, never the request.
func New(name string, size uint64, perms AccessPerms) (*Shm, error) {
	if name == "" {
		return nil, errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "shm: invalid name")
	}
	if total := memory.TotalMemory(); total > 0 && size > total {
		telemetry.Log().Warn().
			Uint64("requested_bytes", size).
			Uint64("host_total_bytes", total).
			Msg("shm: requested segment size exceeds total host memory")
	}

	key, err := ipckey.POSIXName(name, ipckey.SharedMemSuffix)
	if err != nil {
		return nil, errs.NewWithIPCCode(errs.IPCFailed, 0, "shm: failed to derive platform key: "+err.Error())
	}

	s := &Shm{name: name, size: size, perms: perms}
	if err := createHandle(s, key); err != nil {
		return nil, err
	}

	semMode := semaphore.AccessOpenOrCreate
	if s.created {
		semMode = semaphore.AccessCreateForce
	}
	sem, err := semaphore.New(name, 1, semMode)
	if err != nil {
		cleanHandle(s)
		return nil, err
	}
	if s.created {
		sem.TakeOwnership()
	}
	s.sem = sem

	return s, nil
}

// TakeOwnership marks the handle (and its internal semaphore) as the
// owner, so Free unlinks the underlying OS objects instead of merely
// detaching from them.
func (s *Shm) TakeOwnership() {
	if s == nil {
		return
	}
	s.created = true
	if s.sem != nil {
		s.sem.TakeOwnership()
	}
}

// Lock acquires the segment's internal semaphore.
func (s *Shm) Lock() error {
	if s == nil || s.sem == nil {
		return errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "shm: invalid handle")
	}
	return s.sem.Acquire()
}

// Unlock releases the segment's internal semaphore.
func (s *Shm) Unlock() error {
	if s == nil || s.sem == nil {
		return errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "shm: invalid handle")
	}
	return s.sem.Release()
}

// Address returns the mapped segment as a byte slice of length Size().
// Writes through it are visible to every process mapping the same
// segment; callers are responsible for calling Lock/Unlock around
// concurrent access.
func (s *Shm) Address() []byte {
	if s == nil {
		return nil
	}
	return s.native.addr
}

// Size returns the segment's actual mapped size in bytes.
func (s *Shm) Size() uint64 {
	if s == nil {
		return 0
	}
	return s.size
}

// Free unmaps the segment, releases the internal semaphore, and — if this
// handle owns the segment — unlinks the underlying OS object.
func (s *Shm) Free() {
	if s == nil {
		return
	}
	if s.sem != nil {
		s.sem.Free()
	}
	cleanHandle(s)
}
