package cryptoutils

import (
	"crypto/rand"
	"fmt"
	"io"
)

// randReader is the random source for every generated value in this package.
var randReader io.Reader = rand.Reader

// RandomBytes returns n bytes from the secure random source.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := readRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

func readRandom(dst []byte) error {
	if _, err := io.ReadFull(randReader, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	return nil
}

// entropyReader remembers the first failure of the random source so that a
// provider error caused by it can be reported as ErrEntropy.
type entropyReader struct {
	r   io.Reader
	err error
}

func newEntropyReader() *entropyReader {
	return &entropyReader{r: randReader}
}

func (e *entropyReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && e.err == nil {
		e.err = err
	}
	return n, err
}

// wrap classifies err, returned by a provider that consumed e.
func (e *entropyReader) wrap(err error) error {
	if e.err != nil {
		return fmt.Errorf("%w: %w", ErrEntropy, e.err)
	}
	return fmt.Errorf("%w: %w", ErrProvider, err)
}

// SetRandReaderForTesting replaces the random source and returns a function
// restoring the previous one. It must not be used concurrently with other
// calls into this package.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}
