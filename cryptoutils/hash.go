package cryptoutils

import (
	"crypto"
	// digests selectable through crypto.Hash
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"hash"

	_ "golang.org/x/crypto/blake2b"
	_ "golang.org/x/crypto/sha3"
)

// Hash computes the digest of data.
func Hash(alg crypto.Hash, data []byte) ([]byte, error) {
	h, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}

func newHash(alg crypto.Hash) (hash.Hash, error) {
	if !alg.Available() {
		return nil, fmt.Errorf("%w: digest %s is not available", ErrProvider, alg)
	}
	return alg.New(), nil
}
