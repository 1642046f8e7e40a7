package rwlock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func backends() map[string]func() RWLock {
	return map[string]func() RWLock{
		"native":  New,
		"generic": NewGeneric,
	}
}

func TestNilHandleFailsSilently(t *testing.T) {
	for name, ctor := range backends() {
		t.Run(name, func(t *testing.T) {
			var l RWLock
			switch name {
			case "native":
				l = (*native)(nil)
			case "generic":
				l = (*generic)(nil)
			}
			assert.False(t, l.ReaderLock())
			assert.False(t, l.ReaderTryLock())
			assert.False(t, l.ReaderUnlock())
			assert.False(t, l.WriterLock())
			assert.False(t, l.WriterTryLock())
			assert.False(t, l.WriterUnlock())
			l.Free()
			_ = ctor
		})
	}
}

func TestMultipleReadersConcurrent(t *testing.T) {
	for name, ctor := range backends() {
		t.Run(name, func(t *testing.T) {
			l := ctor()
			const n = 8
			var wg sync.WaitGroup
			var inFlight int32
			var maxSeen int32
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func() {
					defer wg.Done()
					assert.True(t, l.ReaderLock())
					cur := atomic.AddInt32(&inFlight, 1)
					for {
						m := atomic.LoadInt32(&maxSeen)
						if cur <= m || atomic.CompareAndSwapInt32(&maxSeen, m, cur) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&inFlight, -1)
					assert.True(t, l.ReaderUnlock())
				}()
			}
			wg.Wait()
			assert.Greater(t, atomic.LoadInt32(&maxSeen), int32(1), "readers never overlapped")
		})
	}
}

// RW-1: the lock never reports both an active writer and active readers at
// once.
func TestRW1MutualExclusionBetweenReadersAndWriter(t *testing.T) {
	for name, ctor := range backends() {
		t.Run(name, func(t *testing.T) {
			l := ctor()
			var state int32 // 0 = idle, 1 = readers active, 2 = writer active
			var violated int32

			const readers, writers, iterations = 6, 2, 50
			var wg sync.WaitGroup
			wg.Add(readers + writers)

			for i := 0; i < readers; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < iterations; j++ {
						l.ReaderLock()
						if atomic.LoadInt32(&state) == 2 {
							atomic.StoreInt32(&violated, 1)
						}
						atomic.StoreInt32(&state, 1)
						atomic.StoreInt32(&state, 0)
						l.ReaderUnlock()
					}
				}()
			}
			for i := 0; i < writers; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < iterations; j++ {
						l.WriterLock()
						if atomic.LoadInt32(&state) == 1 {
							atomic.StoreInt32(&violated, 1)
						}
						atomic.StoreInt32(&state, 2)
						atomic.StoreInt32(&state, 0)
						l.WriterUnlock()
					}
				}()
			}
			wg.Wait()
			assert.Zero(t, atomic.LoadInt32(&violated), "RW-1 violated: reader/writer overlap observed")
		})
	}
}

// RW-2: a writer queued behind active readers is not starved by a steady
// stream of new readers arriving after it — the generic backend enforces
// this by making new readers wait behind a pending writer. This test only
// exercises the generic backend directly, since it is the one whose
// writer-preference transition rule this package documents explicitly; the
// native sync.RWMutex backend is documented by the standard library as
// writer-preferring too, so the same property holds there by inheritance.
func TestRW2WriterPreferenceGeneric(t *testing.T) {
	l := NewGeneric()

	assert.True(t, l.ReaderLock()) // first reader takes the lock

	writerDone := make(chan struct{})
	go func() {
		assert.True(t, l.WriterLock())
		close(writerDone)
		l.WriterUnlock()
	}()

	time.Sleep(20 * time.Millisecond) // let the writer queue

	newReaderBlocked := make(chan struct{})
	go func() {
		l.ReaderLock() // must queue behind the writer, not jump ahead
		close(newReaderBlocked)
		l.ReaderUnlock()
	}()

	select {
	case <-writerDone:
		t.Fatal("writer acquired the lock while the first reader was still active")
	case <-time.After(30 * time.Millisecond):
	}

	assert.True(t, l.ReaderUnlock()) // release the original reader

	select {
	case <-writerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("RW-2 violated: writer starved")
	}
	<-newReaderBlocked
}

func TestTryLockBackends(t *testing.T) {
	for name, ctor := range backends() {
		t.Run(name, func(t *testing.T) {
			l := ctor()
			assert.True(t, l.WriterTryLock())
			assert.False(t, l.ReaderTryLock())
			assert.False(t, l.WriterTryLock())
			assert.True(t, l.WriterUnlock())

			assert.True(t, l.ReaderTryLock())
			assert.True(t, l.ReaderTryLock())
			assert.False(t, l.WriterTryLock())
			assert.True(t, l.ReaderUnlock())
			assert.True(t, l.ReaderUnlock())
		})
	}
}
