// Package secretstore computes and checks the secret store hash: the SHA-512
// commitment over the tags of the add-secret requests applied to a secret
// store, followed by its locked state.
package secretstore

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/cryptoutils"
	"github.com/ruteri/pv-attest-crypto/interfaces"
)

var (
	// ErrNoSecretStoreHash is returned by Check when the attestation result
	// does not report a secret store hash.
	ErrNoSecretStoreHash = errors.New("attestation result contains no secret store hash")

	// ErrSecretStoreHashMismatch is returned by Check when the calculated
	// hash differs from the attested one.
	ErrSecretStoreHashMismatch = errors.New("calculated secret store hash does not match the attested hash")

	// ErrRequestTooShort is returned by AddSecretRequestTag for blobs that
	// cannot hold a tag.
	ErrRequestTooShort = errors.New("add-secret request is shorter than its tag")
)

// AddSecretRequestTag extracts the tag of an add-secret request. Requests are
// framed AEAD buffers, so the tag is their trailing 16 bytes.
var AddSecretRequestTag interfaces.RequestTagExtractor = interfaces.RequestTagExtractorFunc(trailingTag)

func trailingTag(request []byte) (interfaces.RequestTag, error) {
	if len(request) < cryptoutils.AesGcmTagSize {
		return interfaces.RequestTag{}, fmt.Errorf("%w: %d bytes", ErrRequestTooShort, len(request))
	}
	return interfaces.NewRequestTagFromBytes(request[len(request)-cryptoutils.AesGcmTagSize:])
}

// Hash returns SHA-512(tag_1 || ... || tag_n || locked), where tag_i is the
// tag of requests[i] and locked is a single 0x01 or 0x00 byte. A nil extract
// uses AddSecretRequestTag.
func Hash(requests [][]byte, locked bool, extract interfaces.RequestTagExtractor) ([]byte, error) {
	if extract == nil {
		extract = AddSecretRequestTag
	}

	input := make([]byte, 0, len(requests)*interfaces.RequestTagSize+1)
	for i, request := range requests {
		tag, err := extract.RequestTag(request)
		if err != nil {
			return nil, fmt.Errorf("add-secret request %d: %w", i, err)
		}
		input = append(input, tag[:]...)
	}
	if locked {
		input = append(input, 1)
	} else {
		input = append(input, 0)
	}

	return cryptoutils.Hash(crypto.SHA512, input)
}

// Check recalculates the secret store hash of requests and compares it with
// the one reported by result.
func Check(result interfaces.AttestationResult, requests [][]byte, locked bool, extract interfaces.RequestTagExtractor) error {
	attested, ok := result.SecretStoreHash()
	if !ok {
		return ErrNoSecretStoreHash
	}

	calculated, err := Hash(requests, locked, extract)
	if err != nil {
		return err
	}
	if !bytes.Equal(calculated, attested) {
		return ErrSecretStoreHashMismatch
	}
	return nil
}
