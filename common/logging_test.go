package common

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLoggerJSON(t *testing.T) {
	var out bytes.Buffer
	log := SetupLogger(&LoggingOpts{
		JSON:    true,
		Service: "pvcrypto",
		Version: "v1.2.3",
		Output:  &out,
	})

	log.Debug("hidden")
	log.Info("hashed", "alg", "SHA-512")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	require.Equal(t, "INFO", record["level"])
	require.Equal(t, "hashed", record["msg"])
	require.Equal(t, "pvcrypto", record["service"])
	require.Equal(t, "v1.2.3", record["version"])
	require.Equal(t, "SHA-512", record["alg"])
}

func TestSetupLoggerTextDebug(t *testing.T) {
	var out bytes.Buffer
	log := SetupLogger(&LoggingOpts{Debug: true, Output: &out})

	log.Debug("visible")
	require.Contains(t, out.String(), "level=DEBUG")
	require.Contains(t, out.String(), "msg=visible")
	require.NotContains(t, out.String(), "service=")
}
