package spinlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockUnlockRoundTrip(t *testing.T) {
	for _, s := range []*SpinLock{New(), NewSimulated()} {
		for i := 0; i < 100; i++ {
			assert.True(t, s.Lock())
			assert.True(t, s.Unlock())
		}
	}
}

func TestTryLock(t *testing.T) {
	for _, s := range []*SpinLock{New(), NewSimulated()} {
		assert.True(t, s.TryLock())
		assert.False(t, s.TryLock())
		assert.True(t, s.Unlock())
	}
}

func TestIsLockFree(t *testing.T) {
	assert.True(t, New().IsLockFree())
	assert.False(t, NewSimulated().IsLockFree())
}

func TestNilHandleFailsSilently(t *testing.T) {
	var s *SpinLock
	assert.False(t, s.Lock())
	assert.False(t, s.TryLock())
	assert.False(t, s.Unlock())
}

func TestMutualExclusionBothBackends(t *testing.T) {
	for _, s := range []*SpinLock{New(), NewSimulated()} {
		counter := 0
		var wg sync.WaitGroup
		const n, iterations = 32, 300
		wg.Add(n)
		for g := 0; g < n; g++ {
			go func() {
				defer wg.Done()
				for i := 0; i < iterations; i++ {
					s.Lock()
					counter++
					s.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, n*iterations, counter)
	}
}
