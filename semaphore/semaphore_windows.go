//go:build windows

package semaphore

import (
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/nbtaylor/sysrt/errs"
	"github.com/nbtaylor/sysrt/internal/telemetry"
)

// nativeSemaphore wraps a named kernel Semaphore object, matching the
// original library's Windows backend (CreateSemaphoreA / ReleaseSemaphore /
// WaitForSingleObject), grounded on the same named-kernel-object pattern
// pmutex-win.c and pcondvariable-win.c use elsewhere in the original.
type nativeSemaphore struct {
	handle windows.Handle
}

const maxCount = 1 << 30

func createHandle(s *Semaphore, path string) error {
	// Windows kernel object names live in a single flat namespace; the key
	// file path's base name is already the platform key this object
	// should share across processes opening the same logical name.
	namePtr, err := windows.UTF16PtrFromString(filepath.Base(path))
	if err != nil {
		return errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "semaphore: invalid name")
	}

	// CreateSemaphore opens the existing object under this name if one
	// exists (ignoring initialCount in that case) rather than failing,
	// setting ERROR_ALREADY_EXISTS as its last error either way; this is
	// the documented Win32 idiom for "open or create" and avoids needing
	// a separate OpenSemaphore call.
	h, err := windows.CreateSemaphore(nil, int32(s.initVal), maxCount, namePtr)
	if err != nil {
		return errs.NewWithIPCCode(errs.IPCFailed, 0, "semaphore: CreateSemaphore failed: "+errString(err))
	}
	preexisted := windows.GetLastError() == windows.ERROR_ALREADY_EXISTS
	s.native = nativeSemaphore{handle: h}
	s.created = !preexisted

	if preexisted && s.mode == AccessCreateForce {
		// Win32 has no "reset an existing named semaphore's count"
		// primitive; AccessCreateForce therefore behaves like
		// AccessOpenOrCreate on this backend.
		telemetry.Log().Debug().Msg("semaphore: AccessCreateForce cannot reset an existing Windows semaphore's count")
	}
	return nil
}

func (n *nativeSemaphore) tryAcquire() (bool, error) {
	event, err := windows.WaitForSingleObject(n.handle, 0)
	switch event {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, nil
	default:
		return false, errs.NewWithIPCCode(errs.IPCFailed, 0, "semaphore: WaitForSingleObject failed: "+errString(err))
	}
}

func (n *nativeSemaphore) release() error {
	if err := windows.ReleaseSemaphore(n.handle, 1, nil); err != nil {
		return errs.NewWithIPCCode(errs.IPCFailed, 0, "semaphore: ReleaseSemaphore failed: "+errString(err))
	}
	return nil
}

func (n *nativeSemaphore) waitForPost() {
	windows.WaitForSingleObject(n.handle, 50)
}

func (n *nativeSemaphore) close(unlink bool) {
	// Windows kernel objects are reference counted by the OS itself; the
	// last handle close destroys the object, so "unlink" has no separate
	// action beyond closing this handle.
	windows.CloseHandle(n.handle)
	_ = unlink
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
