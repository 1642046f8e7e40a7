package thread

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilCreateFailsSilently(t *testing.T) {
	assert.Nil(t, Create(nil, nil, true))
}

// THR-1: join returns exactly the value passed to exit by the thread, or
// the return value of the entry function.
func TestTHR1JoinReturnsEntryFunctionResult(t *testing.T) {
	th := Create(func(data any) int {
		return data.(int) * 2
	}, 21, true)
	code, ok := Join(th)
	assert.True(t, ok)
	assert.Equal(t, 42, code)
}

func TestTHR1JoinReturnsExitCode(t *testing.T) {
	th := Create(func(data any) int {
		Exit(99)
		return 1 // unreachable
	}, nil, true)
	code, ok := Join(th)
	assert.True(t, ok)
	assert.Equal(t, 99, code)
}

func TestJoinNonJoinableFails(t *testing.T) {
	var ran int32
	th := Create(func(any) int {
		atomic.StoreInt32(&ran, 1)
		return 0
	}, nil, false)
	_, ok := Join(th)
	assert.False(t, ok)
	// give the detached thread a moment to actually run
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestCurrentAdoptsForeignGoroutine(t *testing.T) {
	done := make(chan bool, 1)
	go func() {
		cur := Current()
		done <- !cur.Ours()
	}()
	select {
	case wasAdopted := <-done:
		assert.True(t, wasAdopted)
	case <-time.After(time.Second):
		t.Fatal("Current() never returned")
	}
}

func TestCurrentInsideCreatedThreadIsOurs(t *testing.T) {
	result := make(chan bool, 1)
	th := Create(func(any) int {
		result <- Current().Ours()
		return 0
	}, nil, true)
	Join(th)
	assert.True(t, <-result)
}

func TestRefUnref(t *testing.T) {
	th := Create(func(any) int { return 0 }, nil, true)
	th.Ref()
	th.Unref()
	th.Unref()
	Join(th)
}

func TestIdealCountPositive(t *testing.T) {
	assert.Greater(t, IdealCount(), 0)
}

func TestYieldDoesNotPanic(t *testing.T) {
	Yield()
}

func TestSetPriorityOnNilHandle(t *testing.T) {
	var th *Thread
	assert.False(t, th.SetPriority(PriorityHigh))
}

func TestSetPriorityOnAdoptedHandleFails(t *testing.T) {
	result := make(chan bool, 1)
	go func() {
		result <- Current().SetPriority(PriorityHigh)
	}()
	assert.False(t, <-result)
}

// TLS-1: for every (thread, key) pair with a non-null destructor and
// non-null stored value at the moment the thread exits, the destructor is
// invoked with that value exactly once.
func TestTLS1DestructorRunsExactlyOnceOnExit(t *testing.T) {
	var destroyed []any
	var mu sync.Mutex
	key := NewLocal(func(v any) {
		mu.Lock()
		destroyed = append(destroyed, v)
		mu.Unlock()
	})
	defer FreeLocal(key)

	p := new(int)
	*p = 7

	th := Create(func(any) int {
		SetLocal(key, p)
		return 0
	}, nil, true)
	Join(th)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, destroyed, 1)
	assert.Same(t, p, destroyed[0])
}

func TestTLSDestructorCanReenterSetLocalWithoutLooping(t *testing.T) {
	var calls int32
	var key *Key
	key = NewLocal(func(v any) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			// Reentrant set: the bounded-pass sweep must still terminate.
			SetLocal(key, "second-pass-value")
		}
	})
	defer FreeLocal(key)

	th := Create(func(any) int {
		SetLocal(key, "first-value")
		return 0
	}, nil, true)
	Join(th)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetSetReplaceLocal(t *testing.T) {
	var replaced []any
	key := NewLocal(func(v any) { replaced = append(replaced, v) })
	defer FreeLocal(key)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Nil(t, GetLocal(key))
		SetLocal(key, "a")
		assert.Equal(t, "a", GetLocal(key))
		ReplaceLocal(key, "b")
		assert.Equal(t, "b", GetLocal(key))
	}()
	<-done
	assert.Equal(t, []any{"a"}, replaced)
}
