// Package errs is the portable error taxonomy every other sysrt component
// reports through: two small enums (I/O kind, IPC kind) plus a caller-owned
// object carrying (kind, native error code, message).
package errs

import "fmt"

// Domain groups a Kind into the subsystem it belongs to.
type Domain int

const (
	DomainNone Domain = iota
	DomainIO
	DomainIPC
)

func (d Domain) String() string {
	switch d {
	case DomainIO:
		return "io"
	case DomainIPC:
		return "ipc"
	default:
		return "none"
	}
}

// IOKind enumerates the portable I/O error kinds. Values intentionally
// start at a non-zero base so a zero Kind reliably means "none" regardless
// of domain, mirroring the original library's non-overlapping numeric
// ranges for each domain.
type IOKind int

const (
	IONone IOKind = 500 + iota
	IONoResources
	IONotAvailable
	IOAccessDenied
	IOConnected
	IOInProgress
	IOAborted
	IOInvalidArgument
	IONotSupported
	IOTimedOut
	IOWouldBlock
	IOAddressInUse
	IOConnectionRefused
	IONotConnected
	IOQuota
	IOIsDirectory
	IONotDirectory
	IONameTooLong
	IOExists
	IONotExists
	IONoMore
	IONotImplemented
	IOFailed
)

var ioNames = map[IOKind]string{
	IONone: "none", IONoResources: "no-resources", IONotAvailable: "not-available",
	IOAccessDenied: "access-denied", IOConnected: "connected", IOInProgress: "in-progress",
	IOAborted: "aborted", IOInvalidArgument: "invalid-argument", IONotSupported: "not-supported",
	IOTimedOut: "timed-out", IOWouldBlock: "would-block", IOAddressInUse: "address-in-use",
	IOConnectionRefused: "connection-refused", IONotConnected: "not-connected", IOQuota: "quota",
	IOIsDirectory: "is-directory", IONotDirectory: "not-directory", IONameTooLong: "name-too-long",
	IOExists: "exists", IONotExists: "not-exists", IONoMore: "no-more",
	IONotImplemented: "not-implemented", IOFailed: "failed",
}

func (k IOKind) String() string {
	if s, ok := ioNames[k]; ok {
		return s
	}
	return fmt.Sprintf("IOKind(%d)", int(k))
}

// IPCKind enumerates the portable IPC error kinds.
type IPCKind int

const (
	IPCNone IPCKind = 600 + iota
	IPCAccess
	IPCExists
	IPCNotExists
	IPCNoResources
	IPCOverflow
	IPCNameTooLong
	IPCInvalidArgument
	IPCNotImplemented
	IPCDeadlock
	IPCFailed
)

var ipcNames = map[IPCKind]string{
	IPCNone: "none", IPCAccess: "access", IPCExists: "exists", IPCNotExists: "not-exists",
	IPCNoResources: "no-resources", IPCOverflow: "overflow", IPCNameTooLong: "name-too-long",
	IPCInvalidArgument: "invalid-argument", IPCNotImplemented: "not-implemented",
	IPCDeadlock: "deadlock", IPCFailed: "failed",
}

func (k IPCKind) String() string {
	if s, ok := ipcNames[k]; ok {
		return s
	}
	return fmt.Sprintf("IPCKind(%d)", int(k))
}

// Error is the caller-owned (kind, native_code, message) triple every
// fallible sysrt operation populates. The zero value is the empty error
// (kind 0, domain None) spec.md's "construct empty" operation describes.
type Error struct {
	kind       int
	nativeCode int
	message    string
}

// New constructs an empty error object.
func New() *Error { return &Error{} }

// NewWithCode constructs an error carrying an IOKind.
func NewWithCode(kind IOKind, native int, message string) *Error {
	return &Error{kind: int(kind), nativeCode: native, message: message}
}

// NewWithIPCCode constructs an error carrying an IPCKind.
func NewWithIPCCode(kind IPCKind, native int, message string) *Error {
	return &Error{kind: int(kind), nativeCode: native, message: message}
}

// NewLiteral constructs an error from a raw kind int, for ports of code that
// classify against one of the two Kind enums without knowing ahead of time
// which domain applies (mirrors the original's p_error_new_literal).
func NewLiteral(kind, native int, message string) *Error {
	return &Error{kind: kind, nativeCode: native, message: message}
}

// Copy returns a deep copy, so destroying or mutating the original cannot
// affect a caller that retained a copy.
func (e *Error) Copy() *Error {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// Kind returns the raw kind value. Callers that know the domain should cast
// to IOKind or IPCKind; see Domain.
func (e *Error) Kind() int {
	if e == nil {
		return 0
	}
	return e.kind
}

// IOKind returns the kind as an IOKind, valid only when Domain() == DomainIO.
func (e *Error) IOKind() IOKind { return IOKind(e.Kind()) }

// IPCKind returns the kind as an IPCKind, valid only when Domain() == DomainIPC.
func (e *Error) IPCKind() IPCKind { return IPCKind(e.Kind()) }

// NativeCode returns the underlying host error code (errno, GetLastError(),
// etc) that produced this error, or 0 if none was recorded.
func (e *Error) NativeCode() int {
	if e == nil {
		return 0
	}
	return e.nativeCode
}

// Message returns the human-readable message, or "" if none was set.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Domain derives the error's domain from its kind range: [500,600) is I/O,
// [600,700) is IPC, anything else (including the zero value) is DomainNone.
func (e *Error) Domain() Domain {
	if e == nil {
		return DomainNone
	}
	switch {
	case e.kind >= 500 && e.kind < 600:
		return DomainIO
	case e.kind >= 600 && e.kind < 700:
		return DomainIPC
	default:
		return DomainNone
	}
}

// SetKind overwrites the kind field.
func (e *Error) SetKind(kind int) {
	if e != nil {
		e.kind = kind
	}
}

// SetNativeCode overwrites the native code field.
func (e *Error) SetNativeCode(code int) {
	if e != nil {
		e.nativeCode = code
	}
}

// SetMessage overwrites the message field.
func (e *Error) SetMessage(msg string) {
	if e != nil {
		e.message = msg
	}
}

// Clear resets kind and native code to 0 and frees the message, leaving an
// empty error object (reusable, not deallocated — Go has no destructor
// beyond this).
func (e *Error) Clear() {
	if e == nil {
		return
	}
	e.kind = 0
	e.nativeCode = 0
	e.message = ""
}

// Free is a no-op retained for API parity with the spec's free() operation;
// Go's garbage collector reclaims the object once unreferenced.
func (e *Error) Free() {}

// Error implements the standard error interface so an *Error can be passed
// anywhere a Go error is expected.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.message != "" {
		return fmt.Sprintf("%s: %s (kind=%d native=%d)", e.Domain(), e.message, e.kind, e.nativeCode)
	}
	return fmt.Sprintf("%s error kind=%d native=%d", e.Domain(), e.kind, e.nativeCode)
}
