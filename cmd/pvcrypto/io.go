package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

var flagIn = &cli.StringFlag{
	Name:    "in",
	Aliases: []string{"i"},
	Value:   "-",
	Usage:   "input file, '-' for stdin",
}

var flagOut = &cli.StringFlag{
	Name:    "out",
	Aliases: []string{"o"},
	Usage:   "output file; hex is printed to stdout when empty",
}

var flagKeyHex = &cli.StringFlag{
	Name:     "key-hex",
	Required: true,
	Usage:    "hex encoded symmetric key",
	EnvVars:  []string{"PVCRYPTO_KEY_HEX"},
}

var flagIVHex = &cli.StringFlag{
	Name:  "iv-hex",
	Usage: "hex encoded initialization vector",
}

var flagPrivkey = &cli.StringFlag{
	Name:     "privkey-file",
	Required: true,
	Usage:    "PEM encoded private key",
}

var flagPubkey = &cli.StringFlag{
	Name:     "pubkey-file",
	Required: true,
	Usage:    "PEM encoded public key",
}

func readInput(cCtx *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cCtx.App.Reader)
	}
	return os.ReadFile(path)
}

// writeOutput stores data in path, or prints it as hex when path is empty.
func writeOutput(cCtx *cli.Context, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(cCtx.App.Writer, hex.EncodeToString(data))
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func decodeHexFlag(cCtx *cli.Context, name string) ([]byte, error) {
	value := strings.TrimPrefix(cCtx.String(name), "0x")
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return b, nil
}
