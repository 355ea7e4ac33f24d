package cryptoutils

import (
	"fmt"

	"github.com/ruteri/pv-attest-crypto/secret"
)

// SymKeyType selects a symmetric key variant.
type SymKeyType uint8

const (
	// SymKeyTypeAes256 is a 32-byte AES-256 key used with GCM.
	SymKeyTypeAes256 SymKeyType = iota + 1
	// SymKeyTypeAes256Xts is a 64-byte AES-256-XTS key (two AES-256 keys).
	SymKeyTypeAes256Xts
)

const (
	// Aes256KeySize is the size of an AES-256 key in bytes.
	Aes256KeySize = 32
	// Aes256XtsKeySize is the size of an AES-256-XTS key in bytes.
	Aes256XtsKeySize = 64
)

// KeySize returns the key length in bytes for the variant.
func (t SymKeyType) KeySize() int {
	switch t {
	case SymKeyTypeAes256:
		return Aes256KeySize
	case SymKeyTypeAes256Xts:
		return Aes256XtsKeySize
	default:
		panic(fmt.Sprintf("cryptoutils: unknown symmetric key type %d", uint8(t)))
	}
}

// IsAead reports whether keys of this variant can be used for AEAD.
func (t SymKeyType) IsAead() bool {
	return t == SymKeyTypeAes256
}

func (t SymKeyType) String() string {
	switch t {
	case SymKeyTypeAes256:
		return "AES-256"
	case SymKeyTypeAes256Xts:
		return "AES-256-XTS"
	default:
		return fmt.Sprintf("SymKeyType(%d)", uint8(t))
	}
}

// SymKey is a symmetric key whose bytes are held in a secret.Buffer. The
// buffer length always equals Type().KeySize().
type SymKey struct {
	tp  SymKeyType
	key *secret.Buffer
}

// RandomSymKey generates a random key of the given variant.
func RandomSymKey(tp SymKeyType) (*SymKey, error) {
	buf, err := secret.Make(tp.KeySize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if err := readRandom(buf.Value()); err != nil {
		buf.Destroy()
		return nil, err
	}
	return &SymKey{tp: tp, key: buf}, nil
}

// NewSymKey imports raw key bytes. The bytes are copied; value stays owned by
// the caller.
func NewSymKey(tp SymKeyType, value []byte) (*SymKey, error) {
	if len(value) != tp.KeySize() {
		return nil, fmt.Errorf("%w: %s key needs %d bytes, got %d", ErrInvalidKeyLength, tp, tp.KeySize(), len(value))
	}
	buf, err := secret.Copy(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return &SymKey{tp: tp, key: buf}, nil
}

// aes256KeyFromDigest moves a SHA-256 digest into an AES-256 key. digest is
// zeroed.
func aes256KeyFromDigest(digest []byte) (*SymKey, error) {
	if len(digest) != Aes256KeySize {
		panic("cryptoutils: SHA-256 digest is not 32 bytes long")
	}
	buf, err := secret.New(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return &SymKey{tp: SymKeyTypeAes256, key: buf}, nil
}

// Type returns the key variant.
func (k *SymKey) Type() SymKeyType {
	return k.tp
}

// Value returns a read-only view of the key bytes.
func (k *SymKey) Value() []byte {
	return k.key.Value()
}

// Equal compares two keys in constant time. Intended for tests.
func (k *SymKey) Equal(other *SymKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.tp == other.tp && k.key.Equal(other.key)
}

// Destroy zeroes the key material.
func (k *SymKey) Destroy() {
	if k == nil {
		return
	}
	k.key.Destroy()
}

func (k *SymKey) String() string {
	return fmt.Sprintf("SymKey(%s)", k.tp)
}
