package xatomic

import "sync/atomic"

// int64Backend is the real, lock-free backend: a thin wrapper over
// sync/atomic.Int64, which on every Go-supported architecture compiles to
// the hardware CAS/LL-SC instruction spec.md calls out as the non-simulated
// case.
type int64Backend struct {
	v atomic.Int64
}

func (b *int64Backend) get() int64        { return b.v.Load() }
func (b *int64Backend) set(val int64)     { b.v.Store(val) }
func (b *int64Backend) add(delta int64) int64 {
	return b.v.Add(delta)
}
func (b *int64Backend) cas(oldVal, newVal int64) bool {
	return b.v.CompareAndSwap(oldVal, newVal)
}
func (b *int64Backend) isLockFree() bool { return true }

func (b *int64Backend) and(mask uint64) uint64 {
	for {
		cur := uint64(b.v.Load())
		if b.v.CompareAndSwap(int64(cur), int64(cur&mask)) {
			return cur
		}
	}
}

func (b *int64Backend) or(mask uint64) uint64 {
	for {
		cur := uint64(b.v.Load())
		if b.v.CompareAndSwap(int64(cur), int64(cur|mask)) {
			return cur
		}
	}
}

func (b *int64Backend) xor(mask uint64) uint64 {
	for {
		cur := uint64(b.v.Load())
		if b.v.CompareAndSwap(int64(cur), int64(cur^mask)) {
			return cur
		}
	}
}
