package main

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ruteri/pv-attest-crypto/cmd/flags"
	"github.com/ruteri/pv-attest-crypto/cryptoutils"
	"github.com/ruteri/pv-attest-crypto/interfaces"
	"github.com/ruteri/pv-attest-crypto/secret"
	"github.com/ruteri/pv-attest-crypto/secretstore"
	"github.com/urfave/cli/v2"
)

var errSignatureInvalid = errors.New("signature does not verify")

var hashCommand = &cli.Command{
	Name:  "hash",
	Usage: "print the digest of the input",
	Flags: []cli.Flag{flags.HashAlgFlag, flagIn},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		alg, err := flags.HashAlgorithm(cCtx.String(flags.HashAlgFlag.Name))
		if err != nil {
			return err
		}

		data, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			logger.Error("Failed to read input", "err", err)
			return err
		}

		digest, err := cryptoutils.Hash(alg, data)
		if err != nil {
			logger.Error("Failed to hash input", "alg", alg.String(), "err", err)
			return err
		}
		return writeOutput(cCtx, "", digest)
	},
}

var hkdfCommand = &cli.Command{
	Name:  "hkdf",
	Usage: "derive key material with HKDF (RFC 5869)",
	Flags: []cli.Flag{
		flags.HashAlgFlag,
		&cli.StringFlag{Name: "ikm-hex", Required: true, Usage: "hex encoded input keying material"},
		&cli.StringFlag{Name: "salt-hex", Usage: "hex encoded salt"},
		&cli.StringFlag{Name: "info-hex", Usage: "hex encoded context info"},
		&cli.IntFlag{Name: "length", Value: 32, Usage: "number of bytes to derive"},
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		alg, err := flags.HashAlgorithm(cCtx.String(flags.HashAlgFlag.Name))
		if err != nil {
			return err
		}

		ikm, err := decodeHexFlag(cCtx, "ikm-hex")
		if err != nil {
			return err
		}
		defer secret.Zero(ikm)
		salt, err := decodeHexFlag(cCtx, "salt-hex")
		if err != nil {
			return err
		}
		info, err := decodeHexFlag(cCtx, "info-hex")
		if err != nil {
			return err
		}

		okm, err := cryptoutils.HKDF(alg, ikm, salt, info, cCtx.Int("length"))
		if err != nil {
			logger.Error("Failed to derive key material", "err", err)
			return err
		}
		return writeOutput(cCtx, "", okm)
	},
}

var genkeyCommand = &cli.Command{
	Name:  "genkey",
	Usage: "generate a key pair and store it as PEM files",
	Flags: []cli.Flag{
		flagPrivkey,
		flagPubkey,
		&cli.StringFlag{Name: "type", Value: "ec", Usage: "key type: ec, rsa or x25519"},
		&cli.StringFlag{Name: "curve", Value: "p521", Usage: "EC curve: p256, p384 or p521"},
		&cli.IntFlag{Name: "bits", Value: 4096, Usage: "RSA modulus size"},
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)

		var privateKey any
		switch keyType := cCtx.String("type"); keyType {
		case "ec":
			curve, err := ellipticCurve(cCtx.String("curve"))
			if err != nil {
				return err
			}
			key, err := cryptoutils.GenerateECKey(curve)
			if err != nil {
				logger.Error("Failed to generate EC key", "err", err)
				return err
			}
			privateKey = key
		case "rsa":
			key, err := cryptoutils.GenerateRSAKey(cCtx.Int("bits"))
			if err != nil {
				logger.Error("Failed to generate RSA key", "err", err)
				return err
			}
			privateKey = key
		case "x25519":
			key, err := cryptoutils.GenerateECDHKey(ecdh.X25519())
			if err != nil {
				logger.Error("Failed to generate X25519 key", "err", err)
				return err
			}
			privateKey = key
		default:
			return fmt.Errorf("unknown key type %q", keyType)
		}

		publicKey, err := cryptoutils.PublicKeyOf(privateKey)
		if err != nil {
			return err
		}

		privateKeyPEM, err := cryptoutils.MarshalPrivateKeyPEM(privateKey)
		if err != nil {
			return err
		}
		defer secret.Zero(privateKeyPEM)
		publicKeyPEM, err := cryptoutils.MarshalPublicKeyPEM(publicKey)
		if err != nil {
			return err
		}
		if err := writeOutput(cCtx, cCtx.String(flagPrivkey.Name), privateKeyPEM); err != nil {
			return err
		}
		if err := writeOutput(cCtx, cCtx.String(flagPubkey.Name), publicKeyPEM); err != nil {
			return err
		}

		pubkeyHash, err := cryptoutils.PublicKeyHash(publicKey)
		if err != nil {
			return err
		}
		logger.Info("Generated key pair", "type", cCtx.String("type"), "pubkey_hash", hex.EncodeToString(pubkeyHash))
		return writeOutput(cCtx, "", pubkeyHash)
	},
}

func ellipticCurve(name string) (elliptic.Curve, error) {
	switch name {
	case "p256":
		return elliptic.P256(), nil
	case "p384":
		return elliptic.P384(), nil
	case "p521":
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("unknown curve %q", name)
	}
}

var deriveKeyCommand = &cli.Command{
	Name:  "derive-key",
	Usage: "derive the AES-256 key shared by a private and a public key",
	Flags: []cli.Flag{flagPrivkey, flagPubkey, flagOut},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		privateKey, publicKey, err := readKeyPair(cCtx)
		if err != nil {
			logger.Error("Failed to load keys", "err", err)
			return err
		}

		key, err := cryptoutils.DeriveKey(privateKey, publicKey)
		if err != nil {
			logger.Error("Failed to derive key", "err", err)
			return err
		}
		defer key.Destroy()
		return writeOutput(cCtx, cCtx.String(flagOut.Name), key.Value())
	},
}

func readKeyPair(cCtx *cli.Context) (any, any, error) {
	privateKeyPEM, err := readInput(cCtx, cCtx.String(flagPrivkey.Name))
	if err != nil {
		return nil, nil, err
	}
	privateKey, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, nil, err
	}
	publicKeyPEM, err := readInput(cCtx, cCtx.String(flagPubkey.Name))
	if err != nil {
		return nil, nil, err
	}
	publicKey, err := cryptoutils.ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return nil, nil, err
	}
	return privateKey, publicKey, nil
}

// parsePrivateKey parses a private key PEM and zeroes it.
func parsePrivateKey(privateKeyPEM []byte) (any, error) {
	defer secret.Zero(privateKeyPEM)
	return cryptoutils.ParsePrivateKeyPEM(privateKeyPEM)
}

func symKeyFromFlag(cCtx *cli.Context, tp cryptoutils.SymKeyType) (*cryptoutils.SymKey, error) {
	raw, err := decodeHexFlag(cCtx, flagKeyHex.Name)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(raw)
	return cryptoutils.NewSymKey(tp, raw)
}

var encryptCommand = &cli.Command{
	Name:  "encrypt",
	Usage: "encrypt the input with AES-256-GCM into an aad || ciphertext || tag buffer",
	Flags: []cli.Flag{
		flagKeyHex,
		&cli.StringFlag{Name: flagIVHex.Name, Required: true, Usage: flagIVHex.Usage},
		&cli.StringFlag{Name: "aad-file", Usage: "additional authenticated data"},
		flagIn,
		flagOut,
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		key, err := symKeyFromFlag(cCtx, cryptoutils.SymKeyTypeAes256)
		if err != nil {
			return err
		}
		defer key.Destroy()
		iv, err := decodeHexFlag(cCtx, flagIVHex.Name)
		if err != nil {
			return err
		}

		var aad []byte
		if path := cCtx.String("aad-file"); path != "" {
			if aad, err = readInput(cCtx, path); err != nil {
				return err
			}
		}
		plaintext, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}
		defer secret.Zero(plaintext)

		res, err := cryptoutils.EncryptAEAD(key, iv, aad, plaintext)
		if err != nil {
			logger.Error("Failed to encrypt", "err", err)
			return err
		}
		logger.Debug("Encrypted input",
			"aad", fmt.Sprint(res.AADRange()),
			"ciphertext", fmt.Sprint(res.CiphertextRange()),
			"tag", fmt.Sprint(res.TagRange()))
		return writeOutput(cCtx, cCtx.String(flagOut.Name), res.Buf())
	},
}

var decryptCommand = &cli.Command{
	Name:  "decrypt",
	Usage: "decrypt an aad || ciphertext || tag buffer produced by encrypt",
	Flags: []cli.Flag{
		flagKeyHex,
		&cli.StringFlag{Name: flagIVHex.Name, Required: true, Usage: flagIVHex.Usage},
		&cli.IntFlag{Name: "aad-len", Usage: "length of the aad segment"},
		flagIn,
		flagOut,
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		key, err := symKeyFromFlag(cCtx, cryptoutils.SymKeyTypeAes256)
		if err != nil {
			return err
		}
		defer key.Destroy()
		iv, err := decodeHexFlag(cCtx, flagIVHex.Name)
		if err != nil {
			return err
		}

		buf, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}
		aadLen := cCtx.Int("aad-len")
		if aadLen < 0 || len(buf) < aadLen+cryptoutils.AesGcmTagSize {
			return fmt.Errorf("input of %d bytes cannot hold %d bytes of aad and a tag", len(buf), aadLen)
		}
		tagStart := len(buf) - cryptoutils.AesGcmTagSize

		plaintext, err := cryptoutils.DecryptAEAD(key, iv, buf[:aadLen], buf[aadLen:tagStart], buf[tagStart:])
		if err != nil {
			logger.Error("Failed to decrypt", "err", err)
			return err
		}
		defer plaintext.Destroy()
		return writeOutput(cCtx, cCtx.String(flagOut.Name), plaintext.Value())
	},
}

var xtsCommand = &cli.Command{
	Name:  "xts",
	Usage: "encrypt or decrypt one sector with AES-256-XTS",
	Flags: []cli.Flag{
		flagKeyHex,
		&cli.Uint64Flag{Name: "sector", Usage: "sector number used as tweak"},
		&cli.BoolFlag{Name: "decrypt", Usage: "decrypt instead of encrypt"},
		flagIn,
		flagOut,
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		key, err := symKeyFromFlag(cCtx, cryptoutils.SymKeyTypeAes256Xts)
		if err != nil {
			return err
		}
		defer key.Destroy()

		data, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}
		sector := cCtx.Uint64("sector")

		if cCtx.Bool("decrypt") {
			plaintext, err := cryptoutils.DecryptXTS(key, sector, data)
			if err != nil {
				logger.Error("Failed to decrypt sector", "sector", sector, "err", err)
				return err
			}
			defer plaintext.Destroy()
			return writeOutput(cCtx, cCtx.String(flagOut.Name), plaintext.Value())
		}

		ciphertext, err := cryptoutils.EncryptXTS(key, sector, data)
		if err != nil {
			logger.Error("Failed to encrypt sector", "sector", sector, "err", err)
			return err
		}
		return writeOutput(cCtx, cCtx.String(flagOut.Name), ciphertext)
	},
}

var signCommand = &cli.Command{
	Name:  "sign",
	Usage: "sign the input with an EC (ECDSA, DER) or RSA (PSS) key",
	Flags: []cli.Flag{flagPrivkey, flags.HashAlgFlag, flagIn, flagOut},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		alg, err := flags.HashAlgorithm(cCtx.String(flags.HashAlgFlag.Name))
		if err != nil {
			return err
		}
		privateKeyPEM, err := readInput(cCtx, cCtx.String(flagPrivkey.Name))
		if err != nil {
			return err
		}
		privateKey, err := parsePrivateKey(privateKeyPEM)
		if err != nil {
			logger.Error("Failed to parse private key", "err", err)
			return err
		}
		msg, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}

		sig, err := cryptoutils.SignMsg(privateKey, alg, msg)
		if err != nil {
			logger.Error("Failed to sign", "err", err)
			return err
		}
		return writeOutput(cCtx, cCtx.String(flagOut.Name), sig)
	},
}

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "verify a signature produced by sign",
	Flags: []cli.Flag{
		flagPubkey,
		flags.HashAlgFlag,
		flagIn,
		&cli.StringFlag{Name: "sig-hex", Required: true, Usage: "hex encoded signature"},
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		alg, err := flags.HashAlgorithm(cCtx.String(flags.HashAlgFlag.Name))
		if err != nil {
			return err
		}
		publicKeyPEM, err := readInput(cCtx, cCtx.String(flagPubkey.Name))
		if err != nil {
			return err
		}
		publicKey, err := cryptoutils.ParsePublicKeyPEM(publicKeyPEM)
		if err != nil {
			logger.Error("Failed to parse public key", "err", err)
			return err
		}
		sig, err := decodeHexFlag(cCtx, "sig-hex")
		if err != nil {
			return err
		}
		msg, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}

		ok, err := cryptoutils.VerifySignature(publicKey, alg, msg, sig)
		if err != nil {
			logger.Error("Failed to verify signature", "err", err)
			return err
		}
		if !ok {
			logger.Error("Signature does not verify")
			return errSignatureInvalid
		}
		_, err = fmt.Fprintln(cCtx.App.Writer, "OK")
		return err
	},
}

var hmacCommand = &cli.Command{
	Name:  "hmac",
	Usage: "print the HMAC of the input",
	Flags: []cli.Flag{flagKeyHex, flags.HashAlgFlag, flagIn},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		alg, err := flags.HashAlgorithm(cCtx.String(flags.HashAlgFlag.Name))
		if err != nil {
			return err
		}
		raw, err := decodeHexFlag(cCtx, flagKeyHex.Name)
		if err != nil {
			return err
		}
		key, err := cryptoutils.NewHMACKey(raw)
		secret.Zero(raw)
		if err != nil {
			return err
		}
		defer key.Destroy()

		msg, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}
		tag, err := cryptoutils.HMAC(key, alg, msg)
		if err != nil {
			logger.Error("Failed to compute HMAC", "err", err)
			return err
		}
		return writeOutput(cCtx, "", tag)
	},
}

var sealCommand = &cli.Command{
	Name:  "seal",
	Usage: "encrypt the input to the holder of a public key",
	Flags: []cli.Flag{flagPubkey, flagIn, flagOut},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		publicKeyPEM, err := readInput(cCtx, cCtx.String(flagPubkey.Name))
		if err != nil {
			return err
		}
		data, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}
		defer secret.Zero(data)

		sealed, err := cryptoutils.EncryptWithPublicKey(publicKeyPEM, data)
		if err != nil {
			logger.Error("Failed to seal", "err", err)
			return err
		}
		return writeOutput(cCtx, cCtx.String(flagOut.Name), sealed)
	},
}

var unsealCommand = &cli.Command{
	Name:  "unseal",
	Usage: "decrypt data sealed to a public key with its private key",
	Flags: []cli.Flag{flagPrivkey, flagIn, flagOut},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)
		privateKeyPEM, err := readInput(cCtx, cCtx.String(flagPrivkey.Name))
		if err != nil {
			return err
		}
		defer secret.Zero(privateKeyPEM)
		sealed, err := readInput(cCtx, cCtx.String(flagIn.Name))
		if err != nil {
			return err
		}

		data, err := cryptoutils.DecryptWithPrivateKey(privateKeyPEM, sealed)
		if err != nil {
			logger.Error("Failed to unseal", "err", err)
			return err
		}
		defer data.Destroy()
		return writeOutput(cCtx, cCtx.String(flagOut.Name), data.Value())
	},
}

// attestedHash is an attestation result reduced to the hash given on the
// command line.
type attestedHash struct {
	hash []byte
}

func (a attestedHash) SecretStoreHash() ([]byte, bool) {
	return a.hash, len(a.hash) > 0
}

var _ interfaces.AttestationResult = attestedHash{}

var secretStoreHashCommand = &cli.Command{
	Name:  "secret-store-hash",
	Usage: "compute the secret store hash of add-secret requests, or check it against an attested hash",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{Name: "request", Usage: "add-secret request file, in the order applied"},
		&cli.BoolFlag{Name: "locked", Usage: "the secret store is locked"},
		&cli.StringFlag{Name: "expected-hex", Usage: "attested secret store hash to check against"},
	},
	Action: func(cCtx *cli.Context) error {
		logger := flags.SetupLogger(cCtx)

		paths := cCtx.StringSlice("request")
		requests := make([][]byte, 0, len(paths))
		for _, path := range paths {
			request, err := readInput(cCtx, path)
			if err != nil {
				logger.Error("Failed to read add-secret request", "file", path, "err", err)
				return err
			}
			requests = append(requests, request)
		}
		locked := cCtx.Bool("locked")

		if cCtx.IsSet("expected-hex") {
			expected, err := interfaces.NewSecretStoreHashFromHex(cCtx.String("expected-hex"))
			if err != nil {
				return err
			}
			if err := secretstore.Check(attestedHash{hash: expected.Bytes()}, requests, locked, secretstore.AddSecretRequestTag); err != nil {
				logger.Error("Secret store hash check failed", "err", err)
				return err
			}
			logger.Info("Secret store hash matches", "requests", len(requests), "locked", locked)
			_, err = fmt.Fprintln(cCtx.App.Writer, "OK")
			return err
		}

		hash, err := secretstore.Hash(requests, locked, secretstore.AddSecretRequestTag)
		if err != nil {
			logger.Error("Failed to compute secret store hash", "err", err)
			return err
		}
		return writeOutput(cCtx, "", hash)
	},
}
