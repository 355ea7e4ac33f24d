package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/secret"
)

const (
	// AesGcmTagSize is the size of an AES-GCM authentication tag in bytes.
	AesGcmTagSize = 16
	// AesGcmIVSize is the recommended AES-GCM IV size in bytes.
	AesGcmIVSize = 12
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns End - Start.
func (r Range) Len() int {
	return r.End - r.Start
}

// AeadEncryptionResult is the output of EncryptAEAD: one buffer laid out as
// aad || ciphertext || tag, plus the range of each segment. The buffer can be
// sent as-is; the segments are slices into it.
type AeadEncryptionResult struct {
	buf  []byte
	aad  Range
	encr Range
	tag  Range
}

func newAeadEncryptionResult(buf []byte, aadLen, encrLen int) *AeadEncryptionResult {
	res := &AeadEncryptionResult{
		buf:  buf,
		aad:  Range{Start: 0, End: aadLen},
		encr: Range{Start: aadLen, End: aadLen + encrLen},
		tag:  Range{Start: aadLen + encrLen, End: len(buf)},
	}
	if res.aad.End != res.encr.Start || res.encr.End != res.tag.Start ||
		res.tag.End != len(res.buf) || res.tag.Len() != AesGcmTagSize {
		panic(fmt.Sprintf("cryptoutils: inconsistent AEAD framing %v %v %v for %d bytes", res.aad, res.encr, res.tag, len(buf)))
	}
	return res
}

// Buf returns the whole aad || ciphertext || tag buffer.
func (r *AeadEncryptionResult) Buf() []byte { return r.buf }

// AAD returns the additional authenticated data segment.
func (r *AeadEncryptionResult) AAD() []byte { return r.buf[r.aad.Start:r.aad.End] }

// Ciphertext returns the ciphertext segment.
func (r *AeadEncryptionResult) Ciphertext() []byte { return r.buf[r.encr.Start:r.encr.End] }

// Tag returns the authentication tag segment.
func (r *AeadEncryptionResult) Tag() []byte { return r.buf[r.tag.Start:r.tag.End] }

// AADRange returns the range of the AAD segment.
func (r *AeadEncryptionResult) AADRange() Range { return r.aad }

// CiphertextRange returns the range of the ciphertext segment.
func (r *AeadEncryptionResult) CiphertextRange() Range { return r.encr }

// TagRange returns the range of the tag segment.
func (r *AeadEncryptionResult) TagRange() Range { return r.tag }

// Destroy zeroes the buffer. Accessors return zeroed segments afterwards.
func (r *AeadEncryptionResult) Destroy() {
	if r == nil {
		return
	}
	secret.Zero(r.buf)
}

// EncryptAEAD encrypts plaintext with AES-256-GCM. The tag authenticates both
// aad and the ciphertext. key must be an AEAD key; other variants fail with
// ErrNoAeadKey.
func EncryptAEAD(key *SymKey, iv, aad, plaintext []byte) (*AeadEncryptionResult, error) {
	gcm, err := newAesGcm(key, iv)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, len(aad), len(aad)+len(plaintext)+AesGcmTagSize)
	copy(buf, aad)
	buf = gcm.Seal(buf, iv, plaintext, aad)

	return newAeadEncryptionResult(buf, len(aad), len(plaintext)), nil
}

// DecryptAEAD decrypts and authenticates ciphertext produced by EncryptAEAD.
//
// If the tag does not verify, ErrGcmTagMismatch is returned and no plaintext
// is produced. The returned buffer holds the plaintext and must be destroyed
// by the caller.
func DecryptAEAD(key *SymKey, iv, aad, ciphertext, tag []byte) (*secret.Buffer, error) {
	gcm, err := newAesGcm(key, iv)
	if err != nil {
		return nil, err
	}
	if len(tag) != AesGcmTagSize {
		return nil, fmt.Errorf("%w: GCM tag must be %d bytes, got %d", ErrProvider, AesGcmTagSize, len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := secret.Make(len(ciphertext))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	// Open writes straight into the protected buffer. It only fails when
	// authentication fails; key and IV problems are reported by newAesGcm.
	if _, err := gcm.Open(plaintext.Value()[:0], iv, sealed, aad); err != nil {
		plaintext.Destroy()
		return nil, ErrGcmTagMismatch
	}
	return plaintext, nil
}

func newAesGcm(key *SymKey, iv []byte) (cipher.AEAD, error) {
	if key == nil {
		return nil, ErrNoAeadKey
	}
	if !key.Type().IsAead() {
		return nil, fmt.Errorf("%w: %s", ErrNoAeadKey, key.Type())
	}

	block, err := aes.NewCipher(key.Value())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	var gcm cipher.AEAD
	if len(iv) == AesGcmIVSize {
		gcm, err = cipher.NewGCM(block)
	} else {
		gcm, err = cipher.NewGCMWithNonceSize(block, len(iv))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return gcm, nil
}
