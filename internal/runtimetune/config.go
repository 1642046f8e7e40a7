package runtimetune

import (
	"github.com/BurntSushi/toml"
)

// Config holds the build/runtime-tunable defaults the spec documents as
// implementation constants (spin bounds, destructor pass limits, default
// stack size). A zero-value Config is invalid; callers start from Defaults()
// and override only what they need, or load a TOML file with LoadConfig.
type Config struct {
	// DefaultStackSizeBytes records a default stack size hint. 0 means
	// "let the host decide". No code reads it: thread.Create always passes
	// 0 to CreateFull (Go goroutines grow their stacks on demand).
	DefaultStackSizeBytes int64 `toml:"default_stack_size_bytes"`

	// RWLockSpinIterations records the original's pre-Vista-Windows writer
	// spin bound (~4000, spec.md §4.6). No code reads it: the generic
	// rwlock backend parks on its condvar without spinning first.
	RWLockSpinIterations int `toml:"rwlock_spin_iterations"`

	// TLSDestructorPasses bounds the repeated destructor sweep on thread
	// exit. spec.md's Thread-local-storage Data Model entity requires
	// "at least four" passes.
	TLSDestructorPasses int `toml:"tls_destructor_passes"`

	// SemaphoreEIDRMRetries caps the System-V recreate-on-EIDRM retry,
	// per spec.md §9's "cap retries to 1 as the source does".
	SemaphoreEIDRMRetries int `toml:"semaphore_eidrm_retries"`
}

// Defaults returns the spec-documented defaults.
func Defaults() Config {
	return Config{
		DefaultStackSizeBytes: 0,
		RWLockSpinIterations:  4000,
		TLSDestructorPasses:   4,
		SemaphoreEIDRMRetries: 1,
	}
}

// LoadConfig reads a TOML file at path, overlaying any present keys on top
// of Defaults(). A missing file is not an error; Defaults() is returned.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if isNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, err
	}
	_ = meta
	return cfg, nil
}
