package thread

import (
	"sync"

	"github.com/nbtaylor/sysrt/internal/runtimetune"
	"github.com/nbtaylor/sysrt/internal/telemetry"
)

// Key is a thread-local storage slot identifier, optionally paired with a
// destructor run on thread exit for any thread whose slot still holds a
// non-nil value.
type Key struct {
	destructor func(any)
}

var (
	keysMu sync.Mutex
	keys   []*Key // live keys with a destructor, for the exit-time sweep
)

// NewLocal allocates a new TLS key. destructor may be nil, in which case
// no cleanup runs for it at thread exit.
func NewLocal(destructor func(any)) *Key {
	k := &Key{destructor: destructor}
	if destructor != nil {
		keysMu.Lock()
		keys = append(keys, k)
		keysMu.Unlock()
	}
	return k
}

// FreeLocal releases a TLS key. It does not run destructors for values
// still stored under it — callers that want that must let the owning
// threads exit first, matching the original's plain free() on the key
// struct.
func FreeLocal(k *Key) {
	if k == nil {
		return
	}
	keysMu.Lock()
	for i, kk := range keys {
		if kk == k {
			keys = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	keysMu.Unlock()
}

// GetLocal returns the calling thread's value for k, or nil if unset.
func GetLocal(k *Key) any {
	if k == nil {
		return nil
	}
	t := Current()
	t.tlsMu.Lock()
	defer t.tlsMu.Unlock()
	return t.tls[k]
}

// SetLocal stores value for k on the calling thread, without running any
// destructor for a previously stored value (matching p_uthread_set_local).
func SetLocal(k *Key, value any) {
	if k == nil {
		return
	}
	t := Current()
	t.tlsMu.Lock()
	defer t.tlsMu.Unlock()
	t.tls[k] = value
}

// ReplaceLocal stores value for k on the calling thread, running k's
// destructor on whatever value was previously stored there first
// (matching p_uthread_replace_local).
func ReplaceLocal(k *Key, value any) {
	if k == nil {
		return
	}
	t := Current()
	t.tlsMu.Lock()
	old, had := t.tls[k]
	t.tls[k] = value
	t.tlsMu.Unlock()
	if had && old != nil && k.destructor != nil {
		k.destructor(old)
	}
}

// runTLSDestructors performs the bounded repeated-pass sweep spec.md §4.7
// describes: for every live key with a destructor, any non-nil slot on t
// is atomically cleared and passed to the destructor; repeat until a pass
// clears nothing or the configured bound is reached. Clearing before
// invoking the destructor is what lets a destructor call SetLocal/
// ReplaceLocal on the very key being destroyed without looping forever.
func runTLSDestructors(t *Thread) {
	cfg := runtimetune.Defaults()
	for pass := 0; pass < cfg.TLSDestructorPasses; pass++ {
		ran := false

		keysMu.Lock()
		snapshot := append([]*Key(nil), keys...)
		keysMu.Unlock()

		for _, k := range snapshot {
			t.tlsMu.Lock()
			val, ok := t.tls[k]
			if ok && val != nil {
				delete(t.tls, k)
			}
			t.tlsMu.Unlock()

			if ok && val != nil {
				ran = true
				func() {
					defer func() {
						if r := recover(); r != nil {
							telemetry.Log().Warn().Interface("panic", r).Msg("thread: TLS destructor panicked, swallowing")
						}
					}()
					k.destructor(val)
				}()
			}
		}

		if !ran {
			return
		}
	}
	telemetry.Log().Warn().Msg("thread: TLS destructor sweep reached its pass bound with work still pending")
}
