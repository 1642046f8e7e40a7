// Package runtimetune performs the one-time process tuning a cloud-native
// Go systems service does before anything else runs: adjust GOMAXPROCS to
// the host's real (cgroup-aware) CPU quota. thread.IdealCount reports
// runtime.NumCPU and is not affected by this adjustment.
package runtimetune

import (
	"sync"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/nbtaylor/sysrt/internal/telemetry"
)

var once sync.Once

// Init runs automaxprocs exactly once per process. It is called from the
// thread package's init and may also be called eagerly by a caller's main().
func Init() {
	once.Do(func() {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			telemetry.Log().Debug().Msgf(format, args...)
		})); err != nil {
			telemetry.Log().Warn().Err(err).Msg("runtimetune: automaxprocs set failed, leaving GOMAXPROCS untouched")
		}
	})
}
