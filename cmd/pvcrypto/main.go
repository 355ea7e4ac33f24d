package main

import (
	"io"
	"log"
	"os"

	"github.com/ruteri/pv-attest-crypto/cmd/flags"
	"github.com/ruteri/pv-attest-crypto/common"
	"github.com/urfave/cli/v2"
)

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "pvcrypto",
		Usage:     "Cryptographic primitives of the attestation toolchain",
		Version:   common.Version,
		Flags:     flags.CommonFlags("pvcrypto"),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			hashCommand,
			hkdfCommand,
			genkeyCommand,
			deriveKeyCommand,
			encryptCommand,
			decryptCommand,
			xtsCommand,
			signCommand,
			verifyCommand,
			hmacCommand,
			sealCommand,
			unsealCommand,
			secretStoreHashCommand,
		},
	}
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
