//go:build windows

package shm

import (
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/nbtaylor/sysrt/errs"
)

// nativeShm holds the mapped view and the handles needed to tear it down.
type nativeShm struct {
	addr      []byte
	mapHandle windows.Handle
	baseAddr  uintptr
}

const (
	pageReadonly  = 0x02
	pageReadwrite = 0x04
	fileMapRead   = 0x0004
	fileMapWrite  = 0x0002
	invalidHandle = ^windows.Handle(0)
)

func createHandle(s *Shm, key string) error {
	namePtr, err := windows.UTF16PtrFromString(filepath.Base(key))
	if err != nil {
		return errs.NewWithIPCCode(errs.IPCInvalidArgument, 0, "shm: invalid name")
	}

	protect := uint32(pageReadonly)
	access := uint32(fileMapRead)
	if s.perms == AccessReadWrite {
		protect = pageReadwrite
		access = fileMapRead | fileMapWrite
	}

	sizeHigh := uint32(s.size >> 32)
	sizeLow := uint32(s.size & 0xffffffff)

	// size == 0 means "open an existing segment only" — never create one.
	// CreateFileMapping refuses a brand new page-file-backed section with
	// a zero maximum size, so requesting one here fails unless the name
	// already exists.
	h, err := windows.CreateFileMapping(invalidHandle, nil, protect, sizeHigh, sizeLow, namePtr)
	if err != nil {
		if s.size == 0 {
			return errs.NewWithIPCCode(errs.IPCNotExists, 0, "shm: open-existing-only requested a zero size but no segment exists under this name")
		}
		return errs.NewWithIPCCode(errs.IPCFailed, 0, "shm: CreateFileMapping failed: "+err.Error())
	}
	existed := windows.GetLastError() == windows.ERROR_ALREADY_EXISTS
	if s.size == 0 && !existed {
		windows.CloseHandle(h)
		return errs.NewWithIPCCode(errs.IPCNotExists, 0, "shm: open-existing-only requested a zero size but no segment exists under this name")
	}
	s.created = !existed

	// When reusing an existing section, map the whole thing regardless of
	// what was requested (0 asks MapViewOfFile for "to the end") and read
	// its real size back with VirtualQuery, so an existing segment's
	// actual size always wins over a smaller requested size.
	mapLen := uintptr(s.size)
	if existed {
		mapLen = 0
	}
	base, err := windows.MapViewOfFile(h, access, 0, 0, mapLen)
	if err != nil {
		windows.CloseHandle(h)
		return errs.NewWithIPCCode(errs.IPCFailed, 0, "shm: MapViewOfFile failed: "+err.Error())
	}

	if existed {
		var mbi windows.MemoryBasicInformation
		if err := windows.VirtualQuery(base, &mbi, unsafe.Sizeof(mbi)); err != nil {
			windows.UnmapViewOfFile(base)
			windows.CloseHandle(h)
			return errs.NewWithIPCCode(errs.IPCFailed, 0, "shm: VirtualQuery failed: "+err.Error())
		}
		s.size = uint64(mbi.RegionSize)
	}

	s.native = nativeShm{
		mapHandle: h,
		baseAddr:  base,
		addr:      unsafe.Slice((*byte)(unsafe.Pointer(base)), int(s.size)),
	}
	return nil
}

func cleanHandle(s *Shm) {
	if s.native.baseAddr != 0 {
		windows.UnmapViewOfFile(s.native.baseAddr)
		s.native.baseAddr = 0
		s.native.addr = nil
	}
	if s.native.mapHandle != 0 {
		windows.CloseHandle(s.native.mapHandle)
		s.native.mapHandle = 0
	}
	// Windows file mapping objects, like semaphores, are destroyed by the
	// OS once the last handle closes; there is no separate unlink step.
}
