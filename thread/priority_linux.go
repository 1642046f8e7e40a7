//go:build linux

package thread

import (
	"golang.org/x/sys/unix"
)

// nativeThreadRef on Linux is the kernel thread id (tid), valid for the
// lifetime of the pinned OS thread and usable from any goroutine via
// setpriority(2)'s PRIO_PROCESS target, which accepts a tid as well as a
// pid on Linux's one-thread-group-per-process model.
type nativeThreadRef struct {
	tid int32
}

func captureNativeThread(t *Thread) {
	t.native.tid = int32(unix.Gettid())
}

// niceFor maps the abstract priority to a Linux nice value, saturating at
// the kernel's [-20, 19] range, grounded on puthread-posix.c's documented
// priority intent even though that specific file left priority as a TODO —
// the mapping direction (lower nice = higher priority) follows setpriority(2).
func niceFor(p Priority) int {
	switch p {
	case PriorityIdle:
		return 19
	case PriorityLowest:
		return 15
	case PriorityLow:
		return 8
	case PriorityNormal:
		return 0
	case PriorityHigh:
		return -8
	case PriorityHighest:
		return -15
	case PriorityTimeCritical:
		return -20
	default:
		return 0
	}
}

func setNativePriority(t *Thread, prio Priority) bool {
	if prio == PriorityInherit {
		return true
	}
	return unix.Setpriority(unix.PRIO_PROCESS, int(t.native.tid), niceFor(prio)) == nil
}
