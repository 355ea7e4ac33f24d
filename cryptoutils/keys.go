package cryptoutils

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

const (
	pemTypePrivateKey    = "PRIVATE KEY"
	pemTypeECPrivateKey  = "EC PRIVATE KEY"
	pemTypeRSAPrivateKey = "RSA PRIVATE KEY"
	pemTypePublicKey     = "PUBLIC KEY"
	pemTypeRSAPublicKey  = "RSA PUBLIC KEY"
)

// GenECKey generates a new secp521r1 signing key.
func GenECKey() (*ecdsa.PrivateKey, error) {
	return GenerateECKey(elliptic.P521())
}

// GenerateECKey generates a new ECDSA key on curve.
func GenerateECKey(curve elliptic.Curve) (*ecdsa.PrivateKey, error) {
	rnd := newEntropyReader()
	key, err := ecdsa.GenerateKey(curve, rnd)
	if err != nil {
		return nil, rnd.wrap(err)
	}
	return key, nil
}

// GenerateRSAKey generates a new RSA key with a modulus of bits bits.
func GenerateRSAKey(bits int) (*rsa.PrivateKey, error) {
	rnd := newEntropyReader()
	key, err := rsa.GenerateKey(rnd, bits)
	if err != nil {
		return nil, rnd.wrap(err)
	}
	return key, nil
}

// GenerateECDHKey generates a new key agreement key on curve.
func GenerateECDHKey(curve ecdh.Curve) (*ecdh.PrivateKey, error) {
	rnd := newEntropyReader()
	key, err := curve.GenerateKey(rnd)
	if err != nil {
		return nil, rnd.wrap(err)
	}
	return key, nil
}

// ParsePrivateKeyPEM decodes the first PEM block of data as a private key.
// PKCS#8 ("PRIVATE KEY"), SEC 1 ("EC PRIVATE KEY") and PKCS#1
// ("RSA PRIVATE KEY") blocks are accepted.
func ParsePrivateKeyPEM(data []byte) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKeyEncoding)
	}

	var (
		key crypto.PrivateKey
		err error
	)
	switch block.Type {
	case pemTypePrivateKey:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	case pemTypeECPrivateKey:
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case pemTypeRSAPrivateKey:
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrInvalidKeyEncoding, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
	}
	return key, nil
}

// ParsePublicKeyPEM decodes the first PEM block of data as a public key.
// PKIX ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") blocks are accepted.
func ParsePublicKeyPEM(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKeyEncoding)
	}

	var (
		key crypto.PublicKey
		err error
	)
	switch block.Type {
	case pemTypePublicKey:
		key, err = x509.ParsePKIXPublicKey(block.Bytes)
	case pemTypeRSAPublicKey:
		key, err = x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrInvalidKeyEncoding, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
	}
	return key, nil
}

// MarshalPrivateKeyPEM encodes key as a PKCS#8 PEM block.
func MarshalPrivateKeyPEM(key crypto.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der}), nil
}

// MarshalPublicKeyPEM encodes key as a PKIX PEM block.
func MarshalPublicKeyPEM(key crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// PublicKeyOf returns the public half of a private key.
func PublicKeyOf(key crypto.PrivateKey) (crypto.PublicKey, error) {
	switch k := key.(type) {
	case *X448PrivateKey:
		return k.PublicKey(), nil
	case interface{ Public() crypto.PublicKey }:
		return k.Public(), nil
	default:
		return nil, fmt.Errorf("%w: %T has no public key", ErrInvalidKeyEncoding, key)
	}
}

// PublicKeyHash returns the SHA-256 of the PKIX PEM encoding of key.
func PublicKeyHash(key crypto.PublicKey) ([]byte, error) {
	encoded, err := MarshalPublicKeyPEM(key)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(encoded)
	return digest[:], nil
}

// toECDHPublicKey converts agreement-capable public keys to *ecdh.PublicKey.
func toECDHPublicKey(key crypto.PublicKey) (*ecdh.PublicKey, error) {
	switch k := key.(type) {
	case *ecdh.PublicKey:
		return k, nil
	case *ecdsa.PublicKey:
		pub, err := k.ECDH()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProvider, err)
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("%w: %T cannot be used for key agreement", ErrProvider, key)
	}
}

// toECDHPrivateKey converts agreement-capable private keys to *ecdh.PrivateKey.
func toECDHPrivateKey(key crypto.PrivateKey) (*ecdh.PrivateKey, error) {
	switch k := key.(type) {
	case *ecdh.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		priv, err := k.ECDH()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProvider, err)
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("%w: %T cannot be used for key agreement", ErrProvider, key)
	}
}
