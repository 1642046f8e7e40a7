//go:build windows

package errs

// Win32 error codes from WinError.h. Defined locally rather than imported
// from golang.org/x/sys/windows because that package only exports the
// subset of codes its own syscall wrappers need, and several of the
// semaphore-specific ones below (ERROR_SEM_USER_LIMIT and friends) are not
// among them.
const (
	errorFileNotFound         = 2
	errorPathNotFound         = 3
	errorTooManyOpenFiles     = 4
	errorAccessDenied         = 5
	errorInvalidHandle        = 6
	errorNotEnoughMemory      = 8
	errorOutOfMemory          = 14
	errorNoMoreFiles          = 18
	errorTooManySemaphores    = 100
	errorExclSemAlreadyOwned  = 101
	errorTooManySemRequests   = 103
	errorSemOwnerDied         = 105
	errorSemUserLimit         = 106
	errorFileExists           = 80
	errorInvalidParameter     = 87
	errorNotSupported         = 50
	errorAlreadyExists        = 183
	errorSemNotFound          = 187
	errorTooManyPosts         = 298
	errorInvalidAddress       = 487
)

// IOFromSystem classifies a Win32 error code into a portable IOKind,
// exhaustive over the codes the original library's Windows branch of
// p_error_get_io_from_system switches on.
func IOFromSystem(code int) IOKind {
	switch code {
	case 0:
		return IONone
	case errorAlreadyExists, errorFileExists:
		return IOExists
	case errorFileNotFound, errorPathNotFound:
		return IONotExists
	case errorNoMoreFiles:
		return IONoMore
	case errorAccessDenied:
		return IOAccessDenied
	case errorOutOfMemory, errorNotEnoughMemory, errorTooManyOpenFiles:
		return IONoResources
	case errorInvalidHandle, errorInvalidParameter, errorInvalidAddress:
		return IOInvalidArgument
	case errorNotSupported:
		return IONotSupported
	default:
		return IOFailed
	}
}

// IPCFromSystem classifies a Win32 error code into a portable IPCKind,
// exhaustive over the codes the original library's Windows branch of
// p_error_get_ipc_from_system switches on.
func IPCFromSystem(code int) IPCKind {
	switch code {
	case 0:
		return IPCNone
	case errorAlreadyExists:
		return IPCExists
	case errorSemOwnerDied, errorSemNotFound:
		return IPCNotExists
	case errorSemUserLimit, errorTooManySemaphores,
		errorTooManySemRequests, errorTooManyPosts,
		errorOutOfMemory, errorNotEnoughMemory:
		return IPCNoResources
	case errorAccessDenied, errorExclSemAlreadyOwned:
		return IPCAccess
	case errorInvalidHandle, errorInvalidParameter:
		return IPCInvalidArgument
	case errorNotSupported:
		return IPCNotImplemented
	default:
		return IPCFailed
	}
}
