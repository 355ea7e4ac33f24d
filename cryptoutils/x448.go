package cryptoutils

import (
	"fmt"

	"github.com/cloudflare/circl/dh/x448"
	"github.com/ruteri/pv-attest-crypto/secret"
)

// X448KeySize is the size of X448 private keys, public keys and shared secrets.
const X448KeySize = x448.Size

// X448PrivateKey is an X448 key agreement private key.
type X448PrivateKey struct {
	scalar x448.Key
	public x448.Key
}

// X448PublicKey is an X448 key agreement public key.
type X448PublicKey struct {
	point x448.Key
}

// GenerateX448Key generates a new X448 private key.
func GenerateX448Key() (*X448PrivateKey, error) {
	k := &X448PrivateKey{}
	if err := readRandom(k.scalar[:]); err != nil {
		return nil, err
	}
	x448.KeyGen(&k.public, &k.scalar)
	return k, nil
}

// NewX448PrivateKey imports a raw 56-byte X448 private key.
func NewX448PrivateKey(b []byte) (*X448PrivateKey, error) {
	if len(b) != X448KeySize {
		return nil, fmt.Errorf("%w: X448 private key needs %d bytes, got %d", ErrInvalidKeyLength, X448KeySize, len(b))
	}
	k := &X448PrivateKey{}
	copy(k.scalar[:], b)
	x448.KeyGen(&k.public, &k.scalar)
	return k, nil
}

// NewX448PublicKey imports a raw 56-byte X448 public key.
func NewX448PublicKey(b []byte) (*X448PublicKey, error) {
	if len(b) != X448KeySize {
		return nil, fmt.Errorf("%w: X448 public key needs %d bytes, got %d", ErrInvalidKeyLength, X448KeySize, len(b))
	}
	k := &X448PublicKey{}
	copy(k.point[:], b)
	return k, nil
}

// PublicKey returns the public half of k.
func (k *X448PrivateKey) PublicKey() *X448PublicKey {
	return &X448PublicKey{point: k.public}
}

// Destroy zeroes the private scalar.
func (k *X448PrivateKey) Destroy() {
	secret.Zero(k.scalar[:])
}

func (k *X448PrivateKey) sharedSecret(pub *X448PublicKey) ([]byte, error) {
	var shared x448.Key
	if !x448.Shared(&shared, &k.scalar, &pub.point) {
		return nil, fmt.Errorf("%w: X448 public key is a low order point", ErrProvider)
	}
	out := make([]byte, X448KeySize)
	copy(out, shared[:])
	secret.Zero(shared[:])
	return out, nil
}

// Bytes returns the raw public key.
func (k *X448PublicKey) Bytes() []byte {
	out := make([]byte, X448KeySize)
	copy(out, k.point[:])
	return out
}
