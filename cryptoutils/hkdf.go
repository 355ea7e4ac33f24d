package cryptoutils

import (
	"crypto"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF derives length bytes from ikm, salt and info according to RFC 5869,
// running extract and then expand with the given digest.
func HKDF(alg crypto.Hash, ikm, salt, info []byte, length int) ([]byte, error) {
	if !alg.Available() {
		return nil, fmt.Errorf("%w: digest %s is not available", ErrProvider, alg)
	}
	if length <= 0 || length > 255*alg.Size() {
		return nil, fmt.Errorf("%w: HKDF-%s cannot produce %d bytes", ErrDerivation, alg, length)
	}

	reader := hkdf.New(alg.New, ikm, salt, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	return out, nil
}
