package cryptoutils

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// RandomSource produces cryptographically secure bytes. The default
// implementation reads the process CSPRNG and requires InitRuntime to
// have been called.
type RandomSource interface {
	// GetBytes returns n fresh random bytes, or an error and no partial
	// output.
	GetBytes(n int) ([]byte, error)
}

type systemRandom struct{}

// NewRandomSource returns the CSPRNG-backed source shared by the package.
func NewRandomSource() RandomSource {
	return systemRandom{}
}

func (systemRandom) GetBytes(n int) ([]byte, error) {
	if !runtimeInitialized() {
		return nil, fmt.Errorf("%w: crypto runtime not initialized", interfaces.ErrSetupFailure)
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: reading random bytes: %v", interfaces.ErrSetupFailure, err)
	}
	return b, nil
}
