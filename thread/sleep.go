package thread

import "time"

// Sleep pauses the calling thread for at least d. spec.md §9 documents
// that the POSIX backend retries nanosleep on EINTR until the full
// duration has elapsed; Go's runtime does not deliver POSIX signals to
// user code as EINTR the way a blocking syscall does (signal.Notify
// delivers them asynchronously to a channel, never by unwinding a sleeping
// goroutine), so time.Sleep already satisfies "slept for the full
// requested duration regardless of interruption" with no retry loop
// needed on top of it.
func Sleep(d time.Duration) {
	time.Sleep(d)
}
