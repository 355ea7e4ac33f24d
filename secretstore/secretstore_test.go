package secretstore

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ruteri/pv-attest-crypto/cryptoutils"
	"github.com/ruteri/pv-attest-crypto/interfaces"
	"github.com/stretchr/testify/require"
)

type attestationResult struct {
	hash []byte
}

func (r attestationResult) SecretStoreHash() ([]byte, bool) {
	return r.hash, r.hash != nil
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// addSecretRequest builds a framed AEAD buffer standing in for an add-secret
// request.
func addSecretRequest(t *testing.T, payload string) []byte {
	t.Helper()
	key, err := cryptoutils.RandomSymKey(cryptoutils.SymKeyTypeAes256)
	require.NoError(t, err)
	defer key.Destroy()

	iv, err := cryptoutils.RandomBytes(cryptoutils.AesGcmIVSize)
	require.NoError(t, err)
	res, err := cryptoutils.EncryptAEAD(key, iv, []byte("request header"), []byte(payload))
	require.NoError(t, err)
	return res.Buf()
}

func TestHashEmpty(t *testing.T) {
	locked, err := Hash(nil, true, nil)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "7b54b66836c1fbdd13d2441d9e1434dc62ca677fb68f5fe66a464baadecdbd00"+
		"576f8d6b5ac3bcc80844b7d50b1cc6603444bbe7cfcf8fc0aa1ee3c636d9e339"), locked)

	unlocked, err := Hash(nil, false, nil)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "b8244d028981d693af7b456af8efa4cad63d282e19ff14942c246e50d9351d22"+
		"704a802a71c3580b6370de4ceb293c324a8423342557d4e5c38438f0e36910ee"), unlocked)

	require.NotEqual(t, locked, unlocked)
}

func TestHashConcatenatesTagsInOrder(t *testing.T) {
	first := addSecretRequest(t, "first secret")
	second := addSecretRequest(t, "second secret")

	hash, err := Hash([][]byte{first, second}, true, nil)
	require.NoError(t, err)

	input := append([]byte{}, first[len(first)-16:]...)
	input = append(input, second[len(second)-16:]...)
	input = append(input, 1)
	expected := sha512.Sum512(input)
	require.Equal(t, expected[:], hash)

	swapped, err := Hash([][]byte{second, first}, true, nil)
	require.NoError(t, err)
	require.NotEqual(t, hash, swapped)

	unlocked, err := Hash([][]byte{first, second}, false, nil)
	require.NoError(t, err)
	require.NotEqual(t, hash, unlocked)
}

func TestHashCustomExtractor(t *testing.T) {
	leading := interfaces.RequestTagExtractorFunc(func(request []byte) (interfaces.RequestTag, error) {
		return interfaces.NewRequestTagFromBytes(request[:interfaces.RequestTagSize])
	})
	request := []byte("0123456789abcdef and the rest of the request")

	hash, err := Hash([][]byte{request}, false, leading)
	require.NoError(t, err)

	expected := sha512.Sum512(append([]byte("0123456789abcdef"), 0))
	require.Equal(t, expected[:], hash)
}

func TestHashExtractorErrors(t *testing.T) {
	_, err := Hash([][]byte{addSecretRequest(t, "ok"), []byte("short")}, true, nil)
	require.ErrorIs(t, err, ErrRequestTooShort)
	require.ErrorContains(t, err, "add-secret request 1")

	boom := errors.New("unparsable request")
	failing := interfaces.RequestTagExtractorFunc(func([]byte) (interfaces.RequestTag, error) {
		return interfaces.RequestTag{}, boom
	})
	_, err = Hash([][]byte{[]byte("request")}, true, failing)
	require.ErrorIs(t, err, boom)
}

func TestCheck(t *testing.T) {
	requests := [][]byte{addSecretRequest(t, "a"), addSecretRequest(t, "b")}
	hash, err := Hash(requests, true, nil)
	require.NoError(t, err)

	require.NoError(t, Check(attestationResult{hash: hash}, requests, true, nil))

	err = Check(attestationResult{hash: hash}, requests, false, nil)
	require.ErrorIs(t, err, ErrSecretStoreHashMismatch)

	err = Check(attestationResult{hash: hash}, requests[:1], true, nil)
	require.ErrorIs(t, err, ErrSecretStoreHashMismatch)

	err = Check(attestationResult{}, requests, true, nil)
	require.ErrorIs(t, err, ErrNoSecretStoreHash)

	err = Check(attestationResult{hash: hash}, [][]byte{[]byte("x")}, true, nil)
	require.ErrorIs(t, err, ErrRequestTooShort)
}
