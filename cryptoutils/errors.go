package cryptoutils

import "errors"

var (
	// ErrProvider is returned when the underlying cryptographic primitive
	// fails or rejects its input. The provider's own error is wrapped as well.
	ErrProvider = errors.New("cryptographic provider error")

	// ErrUnsupportedSigningKey is returned when a signing or HMAC key is not
	// an EC, RSA or HMAC key respectively.
	ErrUnsupportedSigningKey = errors.New("unsupported signing key")

	// ErrUnsupportedVerificationKey is returned when a verification key is
	// neither an EC nor an RSA key.
	ErrUnsupportedVerificationKey = errors.New("unsupported verification key")

	// ErrNoAeadKey is returned when an AEAD operation gets a key variant that
	// is not AEAD capable.
	ErrNoAeadKey = errors.New("key is not an AEAD key")

	// ErrNoXtsKey is returned when an XTS operation gets a key variant that
	// is not an XTS key.
	ErrNoXtsKey = errors.New("key is not an XTS key")

	// ErrGcmTagMismatch is returned when authenticated decryption fails the
	// integrity check.
	ErrGcmTagMismatch = errors.New("GCM tag mismatch")

	// ErrEntropy is returned when the random source fails.
	ErrEntropy = errors.New("entropy source failure")

	// ErrDerivation is returned when a key derivation cannot produce the
	// requested output.
	ErrDerivation = errors.New("key derivation failed")

	// ErrInvalidKeyLength is returned when raw key bytes do not match the
	// length of the requested key variant.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidKeyEncoding is returned when PEM or DER key material cannot
	// be decoded.
	ErrInvalidKeyEncoding = errors.New("invalid key encoding")

	// ErrMalformedSealedData is returned when a sealed box is truncated or
	// its header is inconsistent.
	ErrMalformedSealedData = errors.New("malformed sealed data")
)
