package interfaces

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretStoreHashFromHex(t *testing.T) {
	hexHash := strings.Repeat("ab", SecretStoreHashSize)

	hash, err := NewSecretStoreHashFromHex(hexHash)
	require.NoError(t, err)
	require.Equal(t, hexHash, hash.String())

	prefixed, err := NewSecretStoreHashFromHex("0x" + hexHash)
	require.NoError(t, err)
	require.Equal(t, hash, prefixed)

	_, err = NewSecretStoreHashFromHex(hexHash[:10])
	require.Error(t, err)

	_, err = NewSecretStoreHashFromHex(strings.Repeat("zz", SecretStoreHashSize))
	require.Error(t, err)
}

func TestSecretStoreHashFromBytes(t *testing.T) {
	raw := make([]byte, SecretStoreHashSize)
	raw[0] = 0x7b

	hash, err := NewSecretStoreHashFromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, raw, hash.Bytes())

	_, err = NewSecretStoreHashFromBytes(raw[:32])
	require.Error(t, err)
}

func TestRequestTag(t *testing.T) {
	tag, err := NewRequestTagFromBytes([]byte("0123456789abcdef"))
	require.NoError(t, err)
	require.Equal(t, "30313233343536373839616263646566", tag.String())

	_, err = NewRequestTagFromBytes([]byte("short"))
	require.Error(t, err)

	extractor := RequestTagExtractorFunc(func(request []byte) (RequestTag, error) {
		return NewRequestTagFromBytes(request[len(request)-RequestTagSize:])
	})
	got, err := extractor.RequestTag([]byte("header0123456789abcdef"))
	require.NoError(t, err)
	require.Equal(t, tag, got)
}
