//go:build unix

package errs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestIOFromSystemUnix(t *testing.T) {
	assert.Equal(t, IONone, IOFromSystem(0))
	assert.Equal(t, IOAccessDenied, IOFromSystem(int(unix.EACCES)))
	assert.Equal(t, IOExists, IOFromSystem(int(unix.EEXIST)))
	assert.Equal(t, IONotExists, IOFromSystem(int(unix.ENOENT)))
	assert.Equal(t, IOWouldBlock, IOFromSystem(int(unix.EAGAIN)))
	assert.Equal(t, IOFailed, IOFromSystem(-999999))
}

func TestIPCFromSystemUnix(t *testing.T) {
	assert.Equal(t, IPCNone, IPCFromSystem(0))
	assert.Equal(t, IPCExists, IPCFromSystem(int(unix.EEXIST)))
	assert.Equal(t, IPCNotExists, IPCFromSystem(int(unix.EIDRM)))
	assert.Equal(t, IPCDeadlock, IPCFromSystem(int(unix.EDEADLK)))
	assert.Equal(t, IPCFailed, IPCFromSystem(-999999))
}
