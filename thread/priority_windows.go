//go:build windows

package thread

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// nativeThreadRef on Windows is a real (non-pseudo) thread handle obtained
// by duplicating GetCurrentThread()'s pseudo-handle, so it stays valid
// when used from a goroutine other than the one it names — a pseudo
// handle is only meaningful to the thread that asked for it.
type nativeThreadRef struct {
	handle windows.Handle
}

var (
	kernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procGetCurrentThread    = kernel32.NewProc("GetCurrentThread")
	procSetThreadPriority   = kernel32.NewProc("SetThreadPriority")
	procDuplicateHandle     = kernel32.NewProc("DuplicateHandle")
	procGetCurrentProcess   = kernel32.NewProc("GetCurrentProcess")
)

const (
	duplicateSameAccess   = 0x00000002
	threadPriorityIdle    = -15
	threadPriorityLowest  = -2
	threadPriorityBelowNormal = -1
	threadPriorityNormal  = 0
	threadPriorityAboveNormal = 1
	threadPriorityHighest = 2
	threadPriorityTimeCritical = 15
)

func captureNativeThread(t *Thread) {
	pseudo, _, _ := procGetCurrentThread.Call()
	proc, _, _ := procGetCurrentProcess.Call()

	var real windows.Handle
	ok, _, _ := procDuplicateHandle.Call(
		proc, pseudo, proc, uintptr(unsafe.Pointer(&real)),
		0, 0, duplicateSameAccess,
	)
	if ok != 0 {
		t.native.handle = real
	}
}

func niceForWindows(p Priority) int32 {
	switch p {
	case PriorityIdle:
		return threadPriorityIdle
	case PriorityLowest:
		return threadPriorityLowest
	case PriorityLow:
		return threadPriorityBelowNormal
	case PriorityNormal:
		return threadPriorityNormal
	case PriorityHigh:
		return threadPriorityAboveNormal
	case PriorityHighest:
		return threadPriorityHighest
	case PriorityTimeCritical:
		return threadPriorityTimeCritical
	default:
		return threadPriorityNormal
	}
}

func setNativePriority(t *Thread, prio Priority) bool {
	if prio == PriorityInherit {
		return true
	}
	if t.native.handle == 0 {
		return false
	}
	ok, _, _ := procSetThreadPriority.Call(uintptr(t.native.handle), uintptr(niceForWindows(prio)))
	return ok != 0
}
