// Package main (cmd/pvcrypto) is a command line front end to the
// cryptographic primitives of the attestation toolchain.
//
// Commands:
//
//	hash               - Print the digest of the input
//	hkdf               - Derive key material with HKDF (RFC 5869)
//	genkey             - Generate an EC, RSA or X25519 key pair as PEM files
//	derive-key         - Derive the AES-256 key shared by a private and a public key
//	encrypt            - AES-256-GCM encrypt into an aad || ciphertext || tag buffer
//	decrypt            - Decrypt a buffer produced by encrypt
//	xts                - Encrypt or decrypt one sector with AES-256-XTS
//	sign               - Sign with ECDSA (DER) or RSA-PSS
//	verify             - Verify a signature
//	hmac               - Print the HMAC of the input
//	seal               - Encrypt to the holder of a public key
//	unseal             - Decrypt sealed data with the private key
//	secret-store-hash  - Compute or check the secret store hash of add-secret requests
//
// Inputs are read from files, or from stdin when --in is '-'. Binary results
// are written to --out when given and printed as hex otherwise.
//
// Example workflow:
//
//  1. Generate a recipient key pair:
//     pvcrypto genkey --type ec --curve p384 --privkey-file recipient.pem --pubkey-file recipient.pub.pem
//
//  2. Seal a secret to the recipient:
//     pvcrypto seal --pubkey-file recipient.pub.pem --in secret.json --out secret.sealed
//
//  3. Open it on the recipient side:
//     pvcrypto unseal --privkey-file recipient.pem --in secret.sealed --out secret.json
//
//  4. Check the secret store hash reported by an attestation:
//     pvcrypto secret-store-hash --request req1.bin --request req2.bin --locked --expected-hex <hash>
//
// Logging is controlled by --log-json, --log-debug, --log-uid and
// --log-service, or the matching LOG_* environment variables.
package main
