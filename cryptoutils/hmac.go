package cryptoutils

import (
	"crypto"
	"crypto/hmac"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/secret"
)

// HMACKey is a key explicitly meant for HMAC computation.
type HMACKey struct {
	key *secret.Buffer
}

// NewHMACKey copies value into a new HMAC key. value stays owned by the
// caller.
func NewHMACKey(value []byte) (*HMACKey, error) {
	buf, err := secret.Copy(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return &HMACKey{key: buf}, nil
}

// RandomHMACKey generates a random HMAC key of size bytes.
func RandomHMACKey(size int) (*HMACKey, error) {
	buf, err := secret.Make(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if err := readRandom(buf.Value()); err != nil {
		buf.Destroy()
		return nil, err
	}
	return &HMACKey{key: buf}, nil
}

// Value returns a read-only view of the key bytes.
func (k *HMACKey) Value() []byte {
	return k.key.Value()
}

// Destroy zeroes the key material.
func (k *HMACKey) Destroy() {
	if k == nil {
		return
	}
	k.key.Destroy()
}

// HMAC computes the keyed hash of msg. key must be an *HMACKey; anything
// else fails with ErrUnsupportedSigningKey.
func HMAC(key crypto.PrivateKey, alg crypto.Hash, msg []byte) ([]byte, error) {
	k, ok := key.(*HMACKey)
	if !ok || k == nil {
		return nil, fmt.Errorf("%w: %T is not an HMAC key", ErrUnsupportedSigningKey, key)
	}
	if !alg.Available() {
		return nil, fmt.Errorf("%w: digest %s is not available", ErrProvider, alg)
	}

	mac := hmac.New(alg.New, k.Value())
	mac.Write(msg)
	return mac.Sum(nil), nil
}

// VerifyHMAC recomputes the keyed hash of msg and compares it with tag in
// constant time.
func VerifyHMAC(key crypto.PrivateKey, alg crypto.Hash, msg, tag []byte) (bool, error) {
	expected, err := HMAC(key, alg, msg)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, tag), nil
}
