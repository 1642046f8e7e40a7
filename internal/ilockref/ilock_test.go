package ilockref

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractIXIdempotency(t *testing.T) {
	seed := time.Now().UTC().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 100; i++ {
		state := rng.Uint64()
		val := rng.Uint64() & maxHolders
		newState := setIX(state, val)

		assert.Equal(t, val, extractIX(newState), "expected %016x; got %016x", val, extractIX(newState))
		assert.Equal(t, extractIS(newState), extractIS(state), "expected %016x; got %016x", extractIS(state), extractIS(newState))
		assert.Equal(t, extractS(newState), extractS(state), "expected %016x; got %016x", extractS(state), extractS(newState))
		assert.Equal(t, extractX(newState), extractX(state), "expected %016x; got %016x", extractX(state), extractX(newState))
	}
}

func TestExtractISIdempotency(t *testing.T) {
	seed := time.Now().UTC().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 100; i++ {
		state := rng.Uint64()
		val := rng.Uint64() & maxHolders

		newState := setIS(state, val)
		assert.Equal(t, extractIS(newState), val, "expected %016x; got %016x", val, extractIS(newState))
		assert.Equal(t, extractIX(newState), extractIX(state), "expected %016x; got %016x", extractIX(state), extractIX(newState))
		assert.Equal(t, extractS(newState), extractS(state), "expected %016x; got %016x", extractS(state), extractS(newState))
		assert.Equal(t, extractX(newState), extractX(state), "expected %016x; got %016x", extractX(state), extractX(newState))
	}
}

func TestExtractSIdempotency(t *testing.T) {
	seed := time.Now().UTC().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 100; i++ {
		state := rng.Uint64()
		val := rng.Uint64() & maxHolders

		newState := setS(state, val)
		assert.Equal(t, extractS(newState), val, "expected %016x; got %016x", val, extractS(newState))
		assert.Equal(t, extractIX(newState), extractIX(state), "expected %016x; got %016x", extractIX(state), extractIX(newState))
		assert.Equal(t, extractIS(newState), extractIS(state), "expected %016x; got %016x", extractIS(state), extractIS(newState))
		assert.Equal(t, extractX(newState), extractX(state), "expected %016x; got %016x", extractX(state), extractX(newState))
	}
}

func TestExtractXIdempotency(t *testing.T) {
	seed := time.Now().UTC().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 100; i++ {
		state := rng.Uint64()
		val := rng.Uint64() & maxHolders

		newState := setX(state, val)
		assert.Equal(t, extractX(newState), val, "expected %016x; got %016x", val, extractX(newState))
		assert.Equal(t, extractS(newState), extractS(state), "expected %016x; got %016x", extractS(state), extractS(newState))
		assert.Equal(t, extractIX(newState), extractIX(state), "expected %016x; got %016x", extractIX(state), extractIX(newState))
		assert.Equal(t, extractIS(newState), extractIS(state), "expected %016x; got %016x", extractIS(state), extractIS(newState))
	}
}

func TestRegisterX(t *testing.T) {
	var m *Mutex

	// X -> X
	m = New()
	assert.True(t, m.registerX(), "Failure to register X state from nascent Mutex")
	assert.False(t, m.registerX(), "Failure to ensure mutual writer exclusion")

	// X -> S
	m = New()
	assert.True(t, m.registerX(), "Failure to register X state from nascent Mutex")
	assert.False(t, m.registerS(), "Failure to ensure mutual writer exclusion")

	// X -> IS
	m = New()
	assert.True(t, m.registerX(), "Failure to register X state from nascent Mutex")
	assert.False(t, m.registerIS(), "Failure to ensure mutual writer exclusion")

	// X -> IX
	m = New()
	assert.True(t, m.registerX(), "Failure to register X state from nascent Mutex")
	assert.False(t, m.registerIX(), "Failure to ensure mutual writer exclusion")
}

func TestRegisterS(t *testing.T) {
	var m *Mutex

	// S -> X
	m = New()
	assert.True(t, m.registerS(), "Failure to register S state from nascent Mutex")
	assert.False(t, m.registerX(), "Failure to ensure mutual writer exclusion")

	// S -> S
	m = New()
	assert.True(t, m.registerS(), "Failure to register S state from nascent Mutex")
	assert.True(t, m.registerS(), "Failure to allow simultaneous S states")

	// S -> IS
	m = New()
	assert.True(t, m.registerS(), "Failure to register S state from nascent Mutex")
	assert.True(t, m.registerIS(), "Failure to allow simultaneous S and IS states")

	// S -> IX
	m = New()
	assert.True(t, m.registerS(), "Failure to register S state from nascent Mutex")
	assert.False(t, m.registerIX(), "Allows simultaneous S and IX states")
}

func TestRegisterIS(t *testing.T) {
	var m *Mutex

	// IS -> X
	m = New()
	assert.True(t, m.registerIS(), "Failure to register IS state from nascent Mutex")
	assert.False(t, m.registerX(), "Failure to ensure mutual writer exclusion")

	// IS -> S
	m = New()
	assert.True(t, m.registerIS(), "Failure to register IS state from nascent Mutex")
	assert.True(t, m.registerS(), "Failure to allow simultaneous S and IS states")

	// IS -> IS
	m = New()
	assert.True(t, m.registerIS(), "Failure to register IS state from nascent Mutex")
	assert.True(t, m.registerIS(), "Failure to allow simultaneous IS states")

	// IS -> IX
	m = New()
	assert.True(t, m.registerIS(), "Failure to register IS state from nascent Mutex")
	assert.True(t, m.registerIX(), "Failure to allow simultaneous IS and IX states")
}

func TestRegisterIX(t *testing.T) {
	var m *Mutex

	// IX -> X
	m = New()
	assert.True(t, m.registerIX(), "Failure to register IX state from nascent Mutex")
	assert.False(t, m.registerX(), "Failure to ensure mutual writer exclusion")

	// IX -> S
	m = New()
	assert.True(t, m.registerIX(), "Failure to register IX state from nascent Mutex")
	assert.False(t, m.registerS(), "Holding IX and S states simultaneously")

	// IX -> IS
	m = New()
	assert.True(t, m.registerIX(), "Failure to register IX state from nascent Mutex")
	assert.True(t, m.registerIS(), "Failure to allow simultaneous IS and IX states")

	// IX -> IX
	m = New()
	assert.True(t, m.registerIX(), "Failure to register IX state from nascent Mutex")
	assert.True(t, m.registerIX(), "Failure to allow simultaneous IX states")
}
