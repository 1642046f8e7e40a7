// Package xatomic implements sequentially-consistent atomic operations on
// machine-word integer cells, plus a runtime flag advertising whether the
// backend is real lock-free hardware atomics or a process-global-mutex
// simulation.
//
// The real backend (backend.go) wraps sync/atomic directly — on every
// platform Go targets, that is hardware CAS/LL-SC, exactly the "hardware
// CAS, LL/SC, intrinsic CAS" family spec.md §4.2 documents. The simulated
// backend (sim.go) is kept for parity with hosts that have no hardware
// atomics at all; IsLockFree on Int, Word and SimInt reports which one a
// given cell is using. Ptr has no IsLockFree; it always uses sync/atomic.
package xatomic

// Int is an atomic cell of machine-word signed integer width. The zero
// value is a valid, usable cell initialized to 0, same as a plain int64.
type Int struct {
	real int64Backend
}

// NewInt returns a new Int initialized to v.
func NewInt(v int64) *Int {
	i := &Int{}
	i.real.set(v)
	return i
}

// Get performs a sequentially-consistent load.
func (i *Int) Get() int64 { return i.real.get() }

// Set performs a sequentially-consistent store.
func (i *Int) Set(v int64) { i.real.set(v) }

// Inc atomically increments the cell by one.
func (i *Int) Inc() { i.real.add(1) }

// DecAndTest atomically decrements the cell by one and reports whether the
// new value is zero (spec.md: "return previous==1", i.e. new==0).
func (i *Int) DecAndTest() bool { return i.real.add(-1) == 0 }

// Add atomically adds v, returning the value immediately before the add.
func (i *Int) Add(v int64) int64 { return i.real.add(v) - v }

// CompareAndExchange sets the cell to newVal iff its current value is
// oldVal, returning whether the exchange took place.
func (i *Int) CompareAndExchange(oldVal, newVal int64) bool {
	return i.real.cas(oldVal, newVal)
}

// And atomically ANDs v into the cell's unsigned view, returning the value
// immediately before the operation.
func (i *Int) And(v uint64) uint64 { return i.real.and(v) }

// Or atomically ORs v into the cell's unsigned view, returning the value
// immediately before the operation.
func (i *Int) Or(v uint64) uint64 { return i.real.or(v) }

// Xor atomically XORs v into the cell's unsigned view, returning the value
// immediately before the operation.
func (i *Int) Xor(v uint64) uint64 { return i.real.xor(v) }

// IsLockFree reports whether this Int is backed by real hardware atomics
// (always true for this package's default backend — see sim.go for the
// simulated alternative, SimInt, constructed with NewSimInt).
func (i *Int) IsLockFree() bool { return i.real.isLockFree() }
