package main

import (
	"bytes"
	"crypto/elliptic"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruteri/pv-attest-crypto/cryptoutils"
	"github.com/ruteri/pv-attest-crypto/secretstore"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"pvcrypto"}, args...))
	return strings.TrimSpace(stdout.String()), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, stdin, args...)
	require.NoError(t, err)
	return out
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestHashCommand(t *testing.T) {
	out := mustRun(t, "abc", "hash", "--alg", "sha256")
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", out)

	_, err := run(t, "abc", "hash", "--alg", "md5")
	require.Error(t, err)
}

func TestHKDFCommand(t *testing.T) {
	out := mustRun(t, "", "hkdf",
		"--ikm-hex", "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b",
		"--salt-hex", "000102030405060708090a0b0c",
		"--info-hex", "f0f1f2f3f4f5f6f7f8f9",
		"--length", "42")
	require.Equal(t, "3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865", out)
}

func TestHMACCommand(t *testing.T) {
	out := mustRun(t, "Hi There", "hmac", "--key-hex", strings.Repeat("0b", 20), "--alg", "sha256")
	require.Equal(t, "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7", out)
}

func TestSignVerifyCommands(t *testing.T) {
	for _, keyType := range []string{"ec", "rsa"} {
		t.Run(keyType, func(t *testing.T) {
			dir := t.TempDir()
			priv := filepath.Join(dir, "key.pem")
			pub := filepath.Join(dir, "key.pub.pem")
			pubkeyHash := mustRun(t, "", "genkey", "--type", keyType, "--bits", "2048",
				"--privkey-file", priv, "--pubkey-file", pub)
			require.Len(t, pubkeyHash, 64)

			sig := mustRun(t, "report data", "sign", "--privkey-file", priv, "--alg", "sha512")
			out := mustRun(t, "report data", "verify", "--pubkey-file", pub, "--alg", "sha512", "--sig-hex", sig)
			require.Equal(t, "OK", out)

			_, err := run(t, "other data", "verify", "--pubkey-file", pub, "--alg", "sha512", "--sig-hex", sig)
			require.ErrorIs(t, err, errSignatureInvalid)
		})
	}
}

func TestDeriveKeyCommand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		mustRun(t, "", "genkey", "--type", "x25519",
			"--privkey-file", filepath.Join(dir, name+".pem"),
			"--pubkey-file", filepath.Join(dir, name+".pub.pem"))
	}

	ab := mustRun(t, "", "derive-key", "--privkey-file", filepath.Join(dir, "a.pem"), "--pubkey-file", filepath.Join(dir, "b.pub.pem"))
	ba := mustRun(t, "", "derive-key", "--privkey-file", filepath.Join(dir, "b.pem"), "--pubkey-file", filepath.Join(dir, "a.pub.pem"))
	require.Equal(t, ab, ba)
	require.Len(t, ab, 64)
}

func TestParsePrivateKeyZeroesPEM(t *testing.T) {
	key, err := cryptoutils.GenerateECKey(elliptic.P256())
	require.NoError(t, err)
	privateKeyPEM, err := cryptoutils.MarshalPrivateKeyPEM(key)
	require.NoError(t, err)

	parsed, err := parsePrivateKey(privateKeyPEM)
	require.NoError(t, err)
	require.True(t, key.Equal(parsed))
	require.Equal(t, make([]byte, len(privateKeyPEM)), privateKeyPEM)

	garbage := []byte("not a key")
	_, err = parsePrivateKey(garbage)
	require.ErrorIs(t, err, cryptoutils.ErrInvalidKeyEncoding)
	require.Equal(t, make([]byte, len("not a key")), garbage)
}

func TestEncryptDecryptCommands(t *testing.T) {
	dir := t.TempDir()
	key := "eebc1f57487f51921c0465665f8ae6d1658bb26de6f8a069a3520293a572078f"
	iv := "99aa3e68ed8173a0eed06684"
	aad := writeFile(t, dir, "aad", mustDecode(t, "4d23c3cec334b49bdb370c437fec78de"))
	plaintext := writeFile(t, dir, "plaintext", mustDecode(t, "f56e87055bc32d0eeb31b2eacc2bf2a5"))
	framed := filepath.Join(dir, "framed")

	mustRun(t, "", "encrypt", "--key-hex", key, "--iv-hex", iv, "--aad-file", aad, "--in", plaintext, "--out", framed)
	buf, err := os.ReadFile(framed)
	require.NoError(t, err)
	require.Equal(t, "4d23c3cec334b49bdb370c437fec78de"+
		"f7264413a84c0e7cd536867eb9f21736"+
		"67ba0510262ae487d737ee6298f77e0c", hex.EncodeToString(buf))

	out := mustRun(t, "", "decrypt", "--key-hex", key, "--iv-hex", iv, "--aad-len", "16", "--in", framed)
	require.Equal(t, "f56e87055bc32d0eeb31b2eacc2bf2a5", out)

	buf[20] ^= 0x01
	tampered := writeFile(t, dir, "tampered", buf)
	_, err = run(t, "", "decrypt", "--key-hex", key, "--iv-hex", iv, "--aad-len", "16", "--in", tampered)
	require.ErrorIs(t, err, cryptoutils.ErrGcmTagMismatch)
}

func TestXTSCommand(t *testing.T) {
	dir := t.TempDir()
	key := strings.Repeat("01", 32) + strings.Repeat("02", 32)
	sector := bytes.Repeat([]byte("sixteen byte blk"), 4)
	in := writeFile(t, dir, "sector", sector)
	encrypted := filepath.Join(dir, "encrypted")

	mustRun(t, "", "xts", "--key-hex", key, "--sector", "3", "--in", in, "--out", encrypted)
	out := mustRun(t, "", "xts", "--key-hex", key, "--sector", "3", "--decrypt", "--in", encrypted)
	require.Equal(t, hex.EncodeToString(sector), out)

	_, err := run(t, "", "xts", "--key-hex", key[:64], "--in", in)
	require.ErrorIs(t, err, cryptoutils.ErrInvalidKeyLength)
}

func TestSealUnsealCommands(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "key.pem")
	pub := filepath.Join(dir, "key.pub.pem")
	mustRun(t, "", "genkey", "--type", "ec", "--curve", "p384", "--privkey-file", priv, "--pubkey-file", pub)

	sealed := filepath.Join(dir, "sealed")
	mustRun(t, `{"password":"secret123"}`, "seal", "--pubkey-file", pub, "--out", sealed)

	out := mustRun(t, "", "unseal", "--privkey-file", priv, "--in", sealed)
	require.Equal(t, hex.EncodeToString([]byte(`{"password":"secret123"}`)), out)
}

func TestSecretStoreHashCommand(t *testing.T) {
	const emptyLocked = "7b54b66836c1fbdd13d2441d9e1434dc62ca677fb68f5fe66a464baadecdbd00" +
		"576f8d6b5ac3bcc80844b7d50b1cc6603444bbe7cfcf8fc0aa1ee3c636d9e339"

	out := mustRun(t, "", "secret-store-hash", "--locked")
	require.Equal(t, emptyLocked, out)

	out = mustRun(t, "", "secret-store-hash", "--locked", "--expected-hex", emptyLocked)
	require.Equal(t, "OK", out)

	_, err := run(t, "", "secret-store-hash", "--expected-hex", emptyLocked)
	require.ErrorIs(t, err, secretstore.ErrSecretStoreHashMismatch)

	dir := t.TempDir()
	first := writeFile(t, dir, "first", bytes.Repeat([]byte{0x11}, 48))
	second := writeFile(t, dir, "second", bytes.Repeat([]byte{0x22}, 48))
	ordered := mustRun(t, "", "secret-store-hash", "--request", first, "--request", second)
	reversed := mustRun(t, "", "secret-store-hash", "--request", second, "--request", first)
	require.NotEqual(t, ordered, reversed)

	expected, err := secretstore.Hash([][]byte{bytes.Repeat([]byte{0x11}, 48), bytes.Repeat([]byte{0x22}, 48)}, false, nil)
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(expected), ordered)
}

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
