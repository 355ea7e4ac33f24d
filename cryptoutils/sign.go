package cryptoutils

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// pssOptions matches OpenSSL's PSS defaults: maximal salt when signing,
// salt length recovered from the signature when verifying.
var pssOptions = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto}

// SignMsg signs msg with key, hashing it with alg first.
//
// EC keys produce an ASN.1 DER encoded ECDSA signature, whose length varies
// from call to call. RSA keys produce a PSS signature of the modulus size.
//
// Parameters:
//   - key: *ecdsa.PrivateKey or *rsa.PrivateKey
//   - alg: Digest applied to msg before signing
//   - msg: Message to sign
//
// Returns:
//   - Signature bytes
//   - ErrUnsupportedSigningKey for any other key type
//   - ErrEntropy if the random source fails, ErrProvider on other failures
func SignMsg(key crypto.PrivateKey, alg crypto.Hash, msg []byte) ([]byte, error) {
	rnd := newEntropyReader()
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		digest, err := Hash(alg, msg)
		if err != nil {
			return nil, err
		}
		sig, err := ecdsa.SignASN1(rnd, k, digest)
		if err != nil {
			return nil, rnd.wrap(err)
		}
		return sig, nil
	case *rsa.PrivateKey:
		digest, err := Hash(alg, msg)
		if err != nil {
			return nil, err
		}
		sig, err := rsa.SignPSS(rnd, k, alg, digest, pssOptions)
		if err != nil {
			return nil, rnd.wrap(err)
		}
		return sig, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSigningKey, key)
	}
}

// VerifySignature verifies sig over msg. key may be a public key or the
// matching private key.
//
// A false result with a nil error means the signature does not match. An
// error means the verification could not be carried out at all, for example
// because an ECDSA signature is not a DER SEQUENCE of two INTEGERs.
func VerifySignature(key crypto.PublicKey, alg crypto.Hash, msg, sig []byte) (bool, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		return verifyEC(&k.PublicKey, alg, msg, sig)
	case *ecdsa.PublicKey:
		return verifyEC(k, alg, msg, sig)
	case *rsa.PrivateKey:
		return verifyRSA(&k.PublicKey, alg, msg, sig)
	case *rsa.PublicKey:
		return verifyRSA(k, alg, msg, sig)
	default:
		return false, fmt.Errorf("%w: %T", ErrUnsupportedVerificationKey, key)
	}
}

func verifyEC(pub *ecdsa.PublicKey, alg crypto.Hash, msg, sig []byte) (bool, error) {
	if !wellFormedECDSASignature(sig) {
		return false, fmt.Errorf("%w: malformed ECDSA signature", ErrProvider)
	}
	h, err := newHash(alg)
	if err != nil {
		return false, err
	}
	h.Write(msg)
	return ecdsa.VerifyASN1(pub, h.Sum(nil), sig), nil
}

// wellFormedECDSASignature reports whether sig is SEQUENCE { r INTEGER,
// s INTEGER } with nothing trailing. Range checks on r and s are left to
// verification.
func wellFormedECDSASignature(sig []byte) bool {
	var (
		inner cryptobyte.String
		r, s  cryptobyte.String
	)
	input := cryptobyte.String(sig)
	return input.ReadASN1(&inner, asn1.SEQUENCE) &&
		input.Empty() &&
		inner.ReadASN1(&r, asn1.INTEGER) &&
		inner.ReadASN1(&s, asn1.INTEGER) &&
		inner.Empty()
}

func verifyRSA(pub *rsa.PublicKey, alg crypto.Hash, msg, sig []byte) (bool, error) {
	digest, err := Hash(alg, msg)
	if err != nil {
		return false, err
	}
	err = rsa.VerifyPSS(pub, alg, digest, sig, pssOptions)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rsa.ErrVerification):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrProvider, err)
	}
}
