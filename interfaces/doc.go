// Package interfaces defines the narrow contracts between the cryptographic
// primitives and the attestation verification workflow that consumes them.
//
// # Workflow Interfaces
//
// AttestationResult: the verified attestation as seen by the checks in this
// repository. Only the secret store hash is consumed.
//
// RequestTagExtractor: pulls the 16-byte tag out of an add-secret request
// blob. The workflow owns the request format; the default extractor lives in
// the secretstore package.
//
// # Types
//
//   - RequestTag: 16-byte add-secret request tag
//   - SecretStoreHash: 64-byte SHA-512 secret store hash
package interfaces
