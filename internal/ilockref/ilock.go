// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package ilockref implements a four-state intention lock (IS/IX/S/X) kept
// around as a second, independently-coded oracle for the rwlock package's
// reader/writer exclusion invariant: rwlock's generic backend packs its
// reader and writer counts into one word and decides compatibility with a
// two-state (S/X) subset of the same transition matrix this lock
// implements for all four states, so cross-checking one against the other
// under concurrent load catches a bug that a single implementation testing
// itself would not.
//
//	Request/Holding  Unlocked  X  S  IX  IS
//	X                Yes       No No No  No
//	S                Yes       No Yes No Yes
//	IX               Yes       No No Yes Yes
//	IS               Yes       No Yes Yes Yes
//
// Every state transition registers itself in a single packed uint64 with a
// compare-and-swap retry loop, then reports whether the state it observed
// before registering was compatible with the request; an incompatible
// caller parks on a condvar until a later Unlock broadcasts.
package ilockref

import (
	"sync"
	"sync/atomic"
)

// Mutex is the four-state intention lock.
type Mutex struct {
	mtx   sync.Mutex
	c     *sync.Cond
	state uint64
}

const xOffset uint64 = 0
const xMask uint64 = (1 << 16) - 1

const sOffset uint64 = 16
const sMask uint64 = ((1 << 32) - 1) & ^((1 << 16) - 1)

const isOffset uint64 = 32
const isMask uint64 = ((1 << 48) - 1) & ^((1 << 32) - 1)

const ixOffset uint64 = 48
const ixMask uint64 = 0xffffffffffffffff & ^((1 << 48) - 1)

const maxHolders = (1 << 16) - 1

func extractX(state uint64) uint64 { return (state & xMask) >> xOffset }

func setX(state, val uint64) uint64 { return (state &^ xMask) | (val << xOffset) }

func compatibleWithX(state uint64) bool { return state == 0 }

func extractS(state uint64) uint64 { return (state & sMask) >> sOffset }

func setS(state, val uint64) uint64 { return (state &^ sMask) | (val << sOffset) }

func compatibleWithS(state uint64) bool { return extractX(state) == 0 && extractIX(state) == 0 }

func extractIX(state uint64) uint64 { return (state & ixMask) >> ixOffset }

func setIX(state, val uint64) uint64 { return (state &^ ixMask) | (val << ixOffset) }

func compatibleWithIX(state uint64) bool { return extractX(state) == 0 && extractS(state) == 0 }

func extractIS(state uint64) uint64 { return (state & isMask) >> isOffset }

func setIS(state, val uint64) uint64 { return (state &^ isMask) | (val << isOffset) }

func compatibleWithIS(state uint64) bool { return extractX(state) == 0 }

// New returns a new Mutex.
func New() *Mutex {
	var m Mutex
	m.c = sync.NewCond(&m.mtx)
	return &m
}

func (m *Mutex) registerIS() bool {
	for {
		state := atomic.LoadUint64(&m.state)
		newState := setIS(state, extractIS(state)+1)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			return compatibleWithIS(state)
		}
	}
}

func (m *Mutex) registerIX() bool {
	for {
		state := atomic.LoadUint64(&m.state)
		newState := setIX(state, extractIX(state)+1)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			return compatibleWithIX(state)
		}
	}
}

func (m *Mutex) registerS() bool {
	for {
		state := atomic.LoadUint64(&m.state)
		newState := setS(state, extractS(state)+1)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			return compatibleWithS(state)
		}
	}
}

func (m *Mutex) registerX() bool {
	for {
		state := atomic.LoadUint64(&m.state)
		newState := setX(state, extractX(state)+1)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			return compatibleWithX(state)
		}
	}
}

// ISLock blocks until compatible with X, then registers an IS holder.
func (m *Mutex) ISLock() {
	m.mtx.Lock()
	for !compatibleWithIS(atomic.LoadUint64(&m.state)) {
		m.c.Wait()
	}
	m.registerIS()
	m.mtx.Unlock()
}

// ISUnlock removes one IS holder and wakes waiters once the count reaches zero.
func (m *Mutex) ISUnlock() {
	var val uint64
	for {
		state := atomic.LoadUint64(&m.state)
		val = extractIS(state) - 1
		newState := setIS(state, val)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			break
		}
	}
	if val == 0 {
		m.c.Broadcast()
	}
}

// IXLock blocks until compatible with X and S, then registers an IX holder.
func (m *Mutex) IXLock() {
	m.mtx.Lock()
	for !compatibleWithIX(atomic.LoadUint64(&m.state)) {
		m.c.Wait()
	}
	m.registerIX()
	m.mtx.Unlock()
}

// IXUnlock removes one IX holder and wakes waiters once the count reaches zero.
func (m *Mutex) IXUnlock() {
	var val uint64
	for {
		state := atomic.LoadUint64(&m.state)
		val = extractIX(state) - 1
		newState := setIX(state, val)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			break
		}
	}
	if val == 0 {
		m.c.Broadcast()
	}
}

// SLock blocks until compatible with X and IX, then registers an S holder.
func (m *Mutex) SLock() {
	m.mtx.Lock()
	for !compatibleWithS(atomic.LoadUint64(&m.state)) {
		m.c.Wait()
	}
	m.registerS()
	m.mtx.Unlock()
}

// SUnlock removes one S holder and wakes waiters once the count reaches zero.
func (m *Mutex) SUnlock() {
	var val uint64
	for {
		state := atomic.LoadUint64(&m.state)
		val = extractS(state) - 1
		newState := setS(state, val)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			break
		}
	}
	if val == 0 {
		m.c.Broadcast()
	}
}

// XLock blocks until every other state is empty, then registers the sole X holder.
func (m *Mutex) XLock() {
	m.mtx.Lock()
	for !compatibleWithX(atomic.LoadUint64(&m.state)) {
		m.c.Wait()
	}
	m.registerX()
	m.mtx.Unlock()
}

// XUnlock removes the X holder and wakes waiters.
func (m *Mutex) XUnlock() {
	var val uint64
	for {
		state := atomic.LoadUint64(&m.state)
		val = extractX(state) - 1
		newState := setX(state, val)
		if atomic.CompareAndSwapUint64(&m.state, state, newState) {
			break
		}
	}
	if val == 0 {
		m.c.Broadcast()
	}
}
