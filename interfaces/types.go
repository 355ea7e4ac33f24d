package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// RequestTagSize is the size of an add-secret request tag in bytes.
const RequestTagSize = 16

// SecretStoreHashSize is the size of a secret store hash (SHA-512) in bytes.
const SecretStoreHashSize = 64

// RequestTag identifies an add-secret request. It is the request's AES-GCM
// authentication tag.
type RequestTag [RequestTagSize]byte

// NewRequestTagFromBytes copies a 16-byte tag.
func NewRequestTagFromBytes(source []byte) (RequestTag, error) {
	if len(source) != RequestTagSize {
		return RequestTag{}, fmt.Errorf("invalid request tag length: expected %d bytes, got %d", RequestTagSize, len(source))
	}

	var tag RequestTag
	copy(tag[:], source)
	return tag, nil
}

// String returns the hex string representation of the tag.
func (t RequestTag) String() string {
	return hex.EncodeToString(t[:])
}

// SecretStoreHash is the SHA-512 digest committing to the ordered set of
// add-secret requests applied to a secret store and its locked state.
type SecretStoreHash [SecretStoreHashSize]byte

// NewSecretStoreHashFromBytes copies a 64-byte hash.
func NewSecretStoreHashFromBytes(source []byte) (SecretStoreHash, error) {
	if len(source) != SecretStoreHashSize {
		return SecretStoreHash{}, errors.New("invalid secret store hash conversion from bytes: incorrect length")
	}

	var hash SecretStoreHash
	copy(hash[:], source)
	return hash, nil
}

// NewSecretStoreHashFromHex parses a hex encoded hash, with or without a 0x
// prefix.
func NewSecretStoreHashFromHex(source string) (SecretStoreHash, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 2*SecretStoreHashSize {
		return SecretStoreHash{}, fmt.Errorf("invalid secret store hash length: hex string must be %d characters", 2*SecretStoreHashSize)
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return SecretStoreHash{}, fmt.Errorf("invalid hex format: %w", err)
	}
	return NewSecretStoreHashFromBytes(hashBytes)
}

// String returns the hex string representation of the hash.
func (h SecretStoreHash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the raw 64-byte hash.
func (h SecretStoreHash) Bytes() []byte {
	return h[:]
}
