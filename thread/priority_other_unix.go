//go:build unix && !linux

package thread

// nativeThreadRef is empty on non-Linux Unixes: darwin/bsd expose
// per-thread scheduling priority only through pthread_setschedparam,
// which golang.org/x/sys/unix does not wrap, so there is no portable
// syscall-level handle to capture here.
type nativeThreadRef struct{}

func captureNativeThread(*Thread) {}

// setNativePriority always reports no host mechanism on these platforms,
// matching spec.md §4.6's "host offers no priority mechanism" case exactly
// rather than guessing at an unsupported syscall.
func setNativePriority(*Thread, Priority) bool { return false }
