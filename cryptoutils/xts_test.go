package cryptoutils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXTSRoundTrip(t *testing.T) {
	key, err := RandomSymKey(SymKeyTypeAes256Xts)
	require.NoError(t, err)
	defer key.Destroy()

	sector := bytes.Repeat([]byte("disk sector data"), 32)

	encrypted, err := EncryptXTS(key, 7, sector)
	require.NoError(t, err)
	require.Len(t, encrypted, len(sector))
	require.NotEqual(t, sector, encrypted)

	otherSector, err := EncryptXTS(key, 8, sector)
	require.NoError(t, err)
	require.NotEqual(t, encrypted, otherSector)

	decrypted, err := DecryptXTS(key, 7, encrypted)
	require.NoError(t, err)
	defer decrypted.Destroy()
	require.Equal(t, sector, decrypted.Value())

	wrongSector, err := DecryptXTS(key, 8, encrypted)
	require.NoError(t, err)
	require.NotEqual(t, sector, wrongSector.Value())
}

func TestXTSRejectsAeadKey(t *testing.T) {
	key, err := RandomSymKey(SymKeyTypeAes256)
	require.NoError(t, err)
	defer key.Destroy()

	_, err = EncryptXTS(key, 0, make([]byte, XtsBlockSize))
	require.ErrorIs(t, err, ErrNoXtsKey)
	_, err = DecryptXTS(key, 0, make([]byte, XtsBlockSize))
	require.ErrorIs(t, err, ErrNoXtsKey)
}

func TestXTSDataLength(t *testing.T) {
	key, err := RandomSymKey(SymKeyTypeAes256Xts)
	require.NoError(t, err)
	defer key.Destroy()

	for _, n := range []int{0, 1, 15, 17, 31} {
		_, err := EncryptXTS(key, 0, make([]byte, n))
		require.ErrorIs(t, err, ErrProvider, "length %d", n)
	}
}
