//go:build unix

package semaphore

import (
	"encoding/binary"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/nbtaylor/sysrt/errs"
	"github.com/nbtaylor/sysrt/internal/runtimetune"
	"github.com/nbtaylor/sysrt/internal/telemetry"
)

// nativeSemaphore backs a named semaphore with a regular file holding an
// 8-byte little-endian counter at offset zero, guarded by flock(2).
//
// golang.org/x/sys/unix does not expose sem_open/sem_wait/sem_post, and
// this module avoids reaching for SysV semget/semop's exact per-arch
// Sembuf layout without being able to confirm it against a real build —
// the same caution applied to the Windows thread-priority calls in the
// thread package. A flock-guarded counter file gives the same observable
// acquire/release semantics using only Open/Flock/Pread/Pwrite, functions
// confirmed stable across x/sys/unix's supported platforms. The one thing
// it does not reproduce is SEM_UNDO: a process that crashes mid-Acquire
// does not automatically give back the count the way psemaphore-sysv.c's
// SEM_UNDO sembuf does.
type nativeSemaphore struct {
	fd   int
	path string
}

const counterSize = 8

// createHandle opens or creates the counter file. Between our O_CREAT|
// O_EXCL racing EEXIST and the follow-up open of the (apparently)
// existing file, another handle's Free() can unlink the object out from
// under us, turning the reopen into ENOENT — the closest this backend
// gets to the original System-V code's object-destroyed-out-from-under-us
// EIDRM case. It is retried the same bounded number of times
// runtimetune.Config.SemaphoreEIDRMRetries documents for that case,
// logging each retry at Warn.
func createHandle(s *Semaphore, path string) error {
	retries := runtimetune.Defaults().SemaphoreEIDRMRetries

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0660)
		createdNew := err == nil
		if err != nil {
			if err != unix.EEXIST {
				return ipcErrorFromErrno(err, "semaphore: failed to create object")
			}
			fd, err = unix.Open(path, unix.O_RDWR, 0660)
			if err != nil {
				if err == unix.ENOENT && attempt < retries {
					lastErr = ipcErrorFromErrno(err, "semaphore: object vanished between create and open")
					telemetry.Log().Warn().
						Str("path", path).
						Int("attempt", attempt+1).
						Msg("semaphore: retrying create after concurrent unlink")
					continue
				}
				return ipcErrorFromErrno(err, "semaphore: failed to open existing object")
			}
		}

		s.native = nativeSemaphore{fd: fd, path: path}
		s.created = createdNew

		if createdNew || s.mode == AccessCreateForce {
			if err := s.native.writeCounter(int64(s.initVal)); err != nil {
				unix.Close(fd)
				return err
			}
		}
		return nil
	}
	return lastErr
}

func (n *nativeSemaphore) readCounter() (int64, error) {
	var buf [counterSize]byte
	if _, err := unix.Pread(n.fd, buf[:], 0); err != nil {
		return 0, ipcErrorFromErrno(err, "semaphore: failed to read counter")
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

func (n *nativeSemaphore) writeCounter(v int64) error {
	var buf [counterSize]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	if _, err := unix.Pwrite(n.fd, buf[:], 0); err != nil {
		return ipcErrorFromErrno(err, "semaphore: failed to write counter")
	}
	return nil
}

// tryAcquire decrements the counter and returns true if it was greater
// than zero, or false (no error) if it was already zero.
func (n *nativeSemaphore) tryAcquire() (bool, error) {
	if err := unix.Flock(n.fd, unix.LOCK_EX); err != nil {
		return false, ipcErrorFromErrno(err, "semaphore: flock failed")
	}
	defer unix.Flock(n.fd, unix.LOCK_UN)

	count, err := n.readCounter()
	if err != nil {
		return false, err
	}
	if count <= 0 {
		return false, nil
	}
	return true, n.writeCounter(count - 1)
}

func (n *nativeSemaphore) release() error {
	if err := unix.Flock(n.fd, unix.LOCK_EX); err != nil {
		return ipcErrorFromErrno(err, "semaphore: flock failed")
	}
	defer unix.Flock(n.fd, unix.LOCK_UN)

	count, err := n.readCounter()
	if err != nil {
		return err
	}
	return n.writeCounter(count + 1)
}

// waitForPost polls for another holder's Release. There is no blocking
// wait primitive available on a flock-guarded file, so this backs off the
// way a spinlock's bounded retry does rather than busy-spinning the CPU.
func (n *nativeSemaphore) waitForPost() {
	time.Sleep(time.Millisecond)
}

func (n *nativeSemaphore) close(unlink bool) {
	unix.Close(n.fd)
	if unlink {
		unix.Unlink(n.path)
	}
}

func ipcErrorFromErrno(err error, msg string) error {
	errno, _ := err.(unix.Errno)
	wrapped := pkgerrors.Wrap(err, msg)
	return errs.NewWithIPCCode(errs.IPCFromSystem(int(errno)), int(errno), wrapped.Error())
}
