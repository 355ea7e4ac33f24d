package cryptoutils

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}

func byteRange(from, to int) []byte {
	out := make([]byte, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, byte(i))
	}
	return out
}

// failRandom makes every read from the package random source fail until the
// test ends.
func failRandom(t *testing.T) {
	t.Helper()
	restore := SetRandReaderForTesting(iotest.ErrReader(errors.New("entropy pool drained")))
	t.Cleanup(restore)
}
