package cryptoutils

import (
	"crypto"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/secret"
)

// derivationSuffix is appended to the raw shared secret before hashing.
var derivationSuffix = [4]byte{0x00, 0x00, 0x00, 0x01}

// DeriveKey derives an AES-256 key from a private and a public key.
//
// The raw Diffie-Hellman shared secret of the two keys is suffixed with the
// big-endian counter 0x00000001 and hashed with SHA-256; the digest is the key.
// Both keys must belong to the same group. Because the agreement is
// commutative, DeriveKey(a, B) equals DeriveKey(b, A) for key pairs (a, A)
// and (b, B).
//
// Supported keys are *ecdh.PrivateKey/*ecdh.PublicKey,
// *ecdsa.PrivateKey/*ecdsa.PublicKey on P-256, P-384 and P-521, and
// *X448PrivateKey/*X448PublicKey.
//
// Parameters:
//   - private: Local private key
//   - public: Peer public key in the same group as private
//
// Returns:
//   - AES-256 key; the caller must Destroy it
//   - ErrProvider if the keys are unsupported, mismatched or the agreement fails
func DeriveKey(private crypto.PrivateKey, public crypto.PublicKey) (*SymKey, error) {
	// Raw shared secret; it lives on the heap only until copied below
	shared, err := sharedSecret(private, public)
	if err != nil {
		return nil, err
	}
	return keyFromSharedSecret(shared)
}

// keyFromSharedSecret hashes shared || 00000001 into an AES-256 key. shared
// is zeroed.
func keyFromSharedSecret(shared []byte) (*SymKey, error) {
	defer secret.Zero(shared)

	// shared || 00000001 in protected memory
	input, err := secret.Make(len(shared) + len(derivationSuffix))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer input.Destroy()
	copy(input.Value(), shared)
	copy(input.Value()[len(shared):], derivationSuffix[:])

	// SHA-256 digest becomes the key; the heap digest is zeroed on move
	digest, err := Hash(crypto.SHA256, input.Value())
	if err != nil {
		return nil, err
	}
	return aes256KeyFromDigest(digest)
}

func sharedSecret(private crypto.PrivateKey, public crypto.PublicKey) ([]byte, error) {
	if priv, ok := private.(*X448PrivateKey); ok {
		pub, ok := public.(*X448PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: cannot agree X448 key with %T", ErrProvider, public)
		}
		return priv.sharedSecret(pub)
	}

	priv, err := toECDHPrivateKey(private)
	if err != nil {
		return nil, err
	}
	pub, err := toECDHPublicKey(public)
	if err != nil {
		return nil, err
	}
	shared, err := priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return shared, nil
}
