package timeprofiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilHandleMethodsFailSafely(t *testing.T) {
	var p *Profiler
	assert.EqualValues(t, 0, p.ElapsedUsecs())
	p.Reset()
	p.Free()
}

// TP-1: elapsed time is non-decreasing across successive reads and
// reflects at least the real time slept between them.
func TestTP1ElapsedIsNonDecreasingAndReflectsSleep(t *testing.T) {
	p := New()

	first := p.ElapsedUsecs()
	time.Sleep(20 * time.Millisecond)
	second := p.ElapsedUsecs()
	time.Sleep(20 * time.Millisecond)
	third := p.ElapsedUsecs()

	assert.LessOrEqual(t, first, second)
	assert.LessOrEqual(t, second, third)
	assert.GreaterOrEqual(t, third, uint64(35*time.Millisecond/time.Microsecond))
}

func TestResetRestartsTheClock(t *testing.T) {
	p := New()
	time.Sleep(15 * time.Millisecond)
	beforeReset := p.ElapsedUsecs()
	assert.Greater(t, beforeReset, uint64(0))

	p.Reset()
	afterReset := p.ElapsedUsecs()
	assert.Less(t, afterReset, beforeReset)
}
