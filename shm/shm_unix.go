//go:build unix

package shm

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/nbtaylor/sysrt/errs"
)

// nativeShm holds the mapped region and the path the backing object was
// opened under, so Free can unlink it.
type nativeShm struct {
	addr []byte
	path string
}

// shmDir is where named shared memory objects live: /dev/shm on Linux,
// where shm_open is itself implemented as a thin wrapper around exactly
// this open(2)-on-a-tmpfs-path pattern. Hosts without /dev/shm (e.g.
// non-Linux unix) fall back to the same temp directory the System-V key
// file helper uses, trading the tmpfs backing for an ordinary disk file —
// still a shared, named, persistent-until-unlinked segment, just not
// necessarily memory-backed.
func shmDir() string {
	if st, err := os.Stat("/dev/shm"); err == nil && st.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

func createHandle(s *Shm, key string) error {
	path := filepath.Join(shmDir(), filepath.Base(key))

	// size == 0 means "open an existing segment only" — never create one.
	if s.size == 0 {
		fd, err := unix.Open(path, unix.O_RDWR, 0660)
		if err != nil {
			return ipcErrorFromErrno(err, "shm: open-existing-only requested a zero size but no segment exists under this name")
		}
		return mapOpenHandle(s, fd, path, true)
	}

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0660)
	existed := false
	if err != nil {
		if err != unix.EEXIST {
			return ipcErrorFromErrno(err, "shm: failed to create segment")
		}
		existed = true
		fd, err = unix.Open(path, unix.O_RDWR, 0660)
		if err != nil {
			return ipcErrorFromErrno(err, "shm: failed to open existing segment")
		}
	} else {
		s.created = true
	}
	return mapOpenHandle(s, fd, path, existed)
}

func mapOpenHandle(s *Shm, fd int, path string, existed bool) error {
	defer unix.Close(fd)

	if existed {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			return ipcErrorFromErrno(err, "shm: fstat failed")
		}
		s.size = uint64(st.Size)
	} else {
		if err := unix.Ftruncate(fd, int64(s.size)); err != nil {
			return ipcErrorFromErrno(err, "shm: ftruncate failed")
		}
	}

	prot := unix.PROT_READ
	if s.perms == AccessReadWrite {
		prot |= unix.PROT_WRITE
	}

	addr, err := unix.Mmap(fd, 0, int(s.size), prot, unix.MAP_SHARED)
	if err != nil {
		return ipcErrorFromErrno(err, "shm: mmap failed")
	}

	s.native = nativeShm{addr: addr, path: path}
	return nil
}

func cleanHandle(s *Shm) {
	if s.native.addr != nil {
		unix.Munmap(s.native.addr)
		s.native.addr = nil
	}
	if s.created && s.native.path != "" {
		unix.Unlink(s.native.path)
	}
}

func ipcErrorFromErrno(err error, msg string) error {
	errno, _ := err.(unix.Errno)
	wrapped := pkgerrors.Wrap(err, msg)
	return errs.NewWithIPCCode(errs.IPCFromSystem(int(errno)), int(errno), wrapped.Error())
}
