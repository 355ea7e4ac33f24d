package cryptoutils

import (
	"crypto/aes"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/secret"
	"golang.org/x/crypto/xts"
)

// XtsBlockSize is the data unit granularity of AES-XTS.
const XtsBlockSize = aes.BlockSize

// EncryptXTS encrypts one sector with AES-256-XTS. data must be a non-empty
// multiple of XtsBlockSize. key must be an XTS key; other variants fail with
// ErrNoXtsKey.
func EncryptXTS(key *SymKey, sector uint64, data []byte) ([]byte, error) {
	c, err := newAesXts(key, data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	c.Encrypt(out, data, sector)
	return out, nil
}

// DecryptXTS decrypts one sector encrypted by EncryptXTS. XTS is not
// authenticated; a wrong key or sector yields garbage, not an error.
func DecryptXTS(key *SymKey, sector uint64, data []byte) (*secret.Buffer, error) {
	c, err := newAesXts(key, data)
	if err != nil {
		return nil, err
	}
	out, err := secret.Make(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	c.Decrypt(out.Value(), data, sector)
	return out, nil
}

func newAesXts(key *SymKey, data []byte) (*xts.Cipher, error) {
	if key == nil {
		return nil, ErrNoXtsKey
	}
	switch key.Type() {
	case SymKeyTypeAes256Xts:
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoXtsKey, key.Type())
	}
	if len(data) == 0 || len(data)%XtsBlockSize != 0 {
		return nil, fmt.Errorf("%w: XTS data length %d is not a positive multiple of %d", ErrProvider, len(data), XtsBlockSize)
	}

	c, err := xts.NewCipher(aes.NewCipher, key.Value())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return c, nil
}
