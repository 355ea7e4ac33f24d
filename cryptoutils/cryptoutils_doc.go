// Package cryptoutils provides the cryptographic primitives used by the
// attestation toolchain: symmetric keys, framed AEAD encryption, key
// derivation, signatures, keyed hashing and digests.
//
// All operations are synchronous and keep no state between calls, so they
// are safe for concurrent use. Key material and decrypted plaintext are held
// in secret.Buffer values that callers destroy when done.
//
// # Symmetric keys
//
// A SymKey is one of a closed set of variants:
//
//   - SymKeyTypeAes256: 32 bytes, used with AES-256-GCM
//   - SymKeyTypeAes256Xts: 64 bytes, used with AES-256-XTS
//
// Keys are generated with RandomSymKey, imported with NewSymKey or produced
// by DeriveKey.
//
// # Authenticated encryption
//
// EncryptAEAD returns a single buffer laid out as
//
//	[aad][ciphertext][tag (16 bytes)]
//
// with the range of every segment, so the buffer can be transmitted as-is.
// DecryptAEAD takes the segments back and fails with ErrGcmTagMismatch when
// the tag does not authenticate them.
//
// # Key derivation
//
// DeriveKey agrees a raw shared secret between a private and a public key,
// appends the counter 00 00 00 01 and hashes the result with SHA-256. HKDF
// implements RFC 5869 for any registered digest.
//
// # Signatures
//
// SignMsg and VerifySignature dispatch on the key type: ECDSA keys produce
// ASN.1 DER signatures and RSA keys produce PSS signatures. HMAC and
// VerifyHMAC only accept an *HMACKey.
//
// # Sealed boxes
//
// EncryptWithPublicKey and DecryptWithPrivateKey combine an ephemeral key,
// DeriveKey and EncryptAEAD into a public-key encryption format:
//
//	[ephemeral key length (2 bytes)][ephemeral key][iv (12 bytes)][ciphertext][tag (16 bytes)]
//
// The ephemeral key is the uncompressed point (or X25519 u-coordinate) and
// is authenticated as AAD.
//
// # Usage Example
//
//	key, err := cryptoutils.RandomSymKey(cryptoutils.SymKeyTypeAes256)
//	if err != nil {
//	    return err
//	}
//	defer key.Destroy()
//
//	iv, err := cryptoutils.RandomBytes(cryptoutils.AesGcmIVSize)
//	if err != nil {
//	    return err
//	}
//	res, err := cryptoutils.EncryptAEAD(key, iv, header, payload)
//	if err != nil {
//	    return err
//	}
//	send(iv, res.Buf())
//
// Errors are sentinel values (ErrProvider, ErrGcmTagMismatch, ...) wrapped
// with context; test for them with errors.Is.
package cryptoutils
