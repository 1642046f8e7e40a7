//go:build unix

package errs

import "golang.org/x/sys/unix"

// IOFromSystem classifies a POSIX errno into a portable IOKind, exhaustive
// over the error numbers the original library's p_error_get_io_from_system
// switches on; anything unmatched collapses to IOFailed.
func IOFromSystem(errno int) IOKind {
	switch unix.Errno(errno) {
	case 0:
		return IONone
	case unix.EACCES, unix.EPERM:
		return IOAccessDenied
	case unix.ENOMEM, unix.ENOBUFS, unix.ENFILE, unix.ENOSPC, unix.EMFILE:
		return IONoResources
	case unix.EINVAL, unix.EBADF, unix.ENOTSOCK, unix.EFAULT, unix.EPROTOTYPE:
		return IOInvalidArgument
	case unix.ENOTSUP, unix.ENOPROTOOPT, unix.EPROTONOSUPPORT, unix.EAFNOSUPPORT:
		return IONotSupported
	case unix.EADDRNOTAVAIL, unix.ENETUNREACH, unix.ENETDOWN, unix.EHOSTUNREACH:
		return IONotAvailable
	case unix.EINPROGRESS, unix.EALREADY:
		return IOInProgress
	case unix.EISCONN:
		return IOConnected
	case unix.ECONNREFUSED:
		return IOConnectionRefused
	case unix.ENOTCONN:
		return IONotConnected
	case unix.ECONNABORTED:
		return IOAborted
	case unix.EADDRINUSE:
		return IOAddressInUse
	case unix.ETIMEDOUT:
		return IOTimedOut
	case unix.EDQUOT:
		return IOQuota
	case unix.EISDIR:
		return IOIsDirectory
	case unix.ENOTDIR:
		return IONotDirectory
	case unix.EEXIST:
		return IOExists
	case unix.ENOENT:
		return IONotExists
	case unix.ENAMETOOLONG:
		return IONameTooLong
	case unix.ENOSYS:
		return IONotImplemented
	case unix.EAGAIN: // EWOULDBLOCK aliases EAGAIN on Linux
		return IOWouldBlock
	default:
		return IOFailed
	}
}

// IPCFromSystem classifies a POSIX errno into a portable IPCKind, exhaustive
// over p_error_get_ipc_from_system's non-Windows branch.
func IPCFromSystem(errno int) IPCKind {
	switch unix.Errno(errno) {
	case 0:
		return IPCNone
	case unix.EACCES, unix.EPERM:
		return IPCAccess
	case unix.EEXIST:
		return IPCExists
	case unix.E2BIG, unix.EFAULT, unix.EFBIG, unix.EINVAL, unix.ELOOP, unix.ERANGE:
		return IPCInvalidArgument
	case unix.ENOMEM, unix.EMFILE, unix.ENFILE, unix.ENOSPC:
		return IPCNoResources
	case unix.EIDRM, unix.ENOENT:
		return IPCNotExists
	case unix.EOVERFLOW:
		return IPCOverflow
	case unix.ENOSYS:
		return IPCNotImplemented
	case unix.EDEADLK:
		return IPCDeadlock
	case unix.ENAMETOOLONG:
		return IPCNameTooLong
	default:
		return IPCFailed
	}
}
