package cryptoutils

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"go.uber.org/atomic"
)

// runtimeRefs counts InitRuntime calls that have not been balanced by
// ShutdownRuntime. The runtime is live while the count is positive.
var runtimeRefs atomic.Int64

// InitRuntime prepares the process-wide crypto state. It probes the
// CSPRNG once so later failures surface at startup rather than in the
// middle of an encrypt operation. Safe to call concurrently and more
// than once; each call must be balanced by ShutdownRuntime.
func InitRuntime() error {
	if runtimeRefs.Inc() > 1 {
		return nil
	}

	var probe [16]byte
	if _, err := io.ReadFull(rand.Reader, probe[:]); err != nil {
		runtimeRefs.Dec()
		return fmt.Errorf("%w: system entropy source unavailable: %v", interfaces.ErrSetupFailure, err)
	}
	return nil
}

// ShutdownRuntime releases one InitRuntime reference. Extra calls after
// the count reaches zero are no-ops.
func ShutdownRuntime() {
	for {
		n := runtimeRefs.Load()
		if n <= 0 {
			return
		}
		if runtimeRefs.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// runtimeInitialized reports whether the runtime is currently live.
func runtimeInitialized() bool {
	return runtimeRefs.Load() > 0
}
