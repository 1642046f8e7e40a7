package thread

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the runtime's own goroutine identifier by parsing
// the "goroutine N [running]:" header runtime.Stack always produces. Go
// deliberately has no public API for this — goroutines are not meant to
// have an externally visible identity — but this package's entire reason
// for existing is puthread-amiga.c's find-or-create-thread-info pattern,
// which needs exactly this: a stable key for "the execution context I'm
// running in right now" to drive the registry and TLS tables the same way
// AmigaOS's lack of compiler-assisted TLS drove that backend.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if i := bytes.Index(b, []byte(prefix)); i >= 0 {
		b = b[i+len(prefix):]
	}
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}

	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
