package cryptoutils

import (
	"crypto/ecdh"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/secret"
	"golang.org/x/crypto/cryptobyte"
)

// EncryptWithPublicKey seals data to the holder of the private key matching
// publicKeyPEM. It is an ECIES construction: a fresh ephemeral key is
// generated per call and agreed with the recipient key through DeriveKey, and
// the plaintext is encrypted with EncryptAEAD using the encoded ephemeral key
// as AAD. A sealed box can therefore only be opened by the recipient, and
// compromise of the recipient key later does not reveal the ephemeral secret.
//
// Parameters:
//   - publicKeyPEM: PKIX PEM of an EC (P-256, P-384, P-521) or X25519 key
//   - data: Plaintext; may be empty
//
// Returns:
//   - Sealed box laid out as
//     [ephemeral key length (uint16 BE)][ephemeral key][iv (12 bytes)][ciphertext][tag (16 bytes)]
//   - ErrInvalidKeyEncoding if the PEM cannot be parsed
//   - ErrProvider if the key cannot be used for key agreement
//   - ErrEntropy if the random source fails
func EncryptWithPublicKey(publicKeyPEM []byte, data []byte) ([]byte, error) {
	// Parse recipient key
	parsed, err := ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}
	recipient, err := toECDHPublicKey(parsed)
	if err != nil {
		return nil, err
	}

	// Generate ephemeral key on the recipient's curve and agree on a key
	ephemeral, err := GenerateECDHKey(recipient.Curve())
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(ephemeral, recipient)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	// Encrypt, authenticating the ephemeral public key
	iv, err := RandomBytes(AesGcmIVSize)
	if err != nil {
		return nil, err
	}
	sealed, err := EncryptAEAD(key, iv, ephemeral.PublicKey().Bytes(), data)
	if err != nil {
		return nil, err
	}

	// Format: [ephemeral key length (2 bytes)][ephemeral key][iv][ciphertext][tag]
	var b cryptobyte.Builder
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(sealed.AAD())
	})
	b.AddBytes(iv)
	b.AddBytes(sealed.Ciphertext())
	b.AddBytes(sealed.Tag())
	return b.Bytes()
}

// DecryptWithPrivateKey opens data sealed by EncryptWithPublicKey.
//
// A truncated box, or an ephemeral key that is not a valid point on the
// recipient's curve (including low order X25519 points), fails with
// ErrMalformedSealedData. A wrong private key or any other modification of
// the box fails with ErrGcmTagMismatch. The returned buffer must be destroyed
// by the caller.
func DecryptWithPrivateKey(privateKeyPEM []byte, sealed []byte) (*secret.Buffer, error) {
	// Parse recipient key
	parsed, err := ParsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	recipient, err := toECDHPrivateKey(parsed)
	if err != nil {
		return nil, err
	}

	// Split the box
	var (
		input          = cryptobyte.String(sealed)
		ephemeralBytes cryptobyte.String
		iv             []byte
	)
	if !input.ReadUint16LengthPrefixed(&ephemeralBytes) ||
		!input.ReadBytes(&iv, AesGcmIVSize) ||
		len(input) < AesGcmTagSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrMalformedSealedData, len(sealed))
	}
	ciphertext := input[:len(input)-AesGcmTagSize]
	tag := input[len(input)-AesGcmTagSize:]

	ephemeral, err := recipient.Curve().NewPublicKey(ephemeralBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: ephemeral key: %w", ErrMalformedSealedData, err)
	}
	return openSealed(recipient, ephemeral, iv, ciphertext, tag)
}

func openSealed(recipient *ecdh.PrivateKey, ephemeral *ecdh.PublicKey, iv, ciphertext, tag []byte) (*secret.Buffer, error) {
	// Low order X25519 points pass NewPublicKey but fail here
	shared, err := recipient.ECDH(ephemeral)
	if err != nil {
		return nil, fmt.Errorf("%w: ephemeral key: %w", ErrMalformedSealedData, err)
	}
	key, err := keyFromSharedSecret(shared)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	return DecryptAEAD(key, iv, ephemeral.Bytes(), ciphertext, tag)
}
