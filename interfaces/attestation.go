package interfaces

// AttestationResult is the verified outcome of an attestation request as
// produced by the verification workflow.
type AttestationResult interface {
	// SecretStoreHash returns the secret store hash reported in the
	// attestation's additional data. ok is false when the attestation
	// carries none.
	SecretStoreHash() (hash []byte, ok bool)
}

// RequestTagExtractor extracts the tag of an add-secret request blob.
type RequestTagExtractor interface {
	RequestTag(request []byte) (RequestTag, error)
}

// RequestTagExtractorFunc adapts a function to RequestTagExtractor.
type RequestTagExtractorFunc func(request []byte) (RequestTag, error)

// RequestTag calls f(request).
func (f RequestTagExtractorFunc) RequestTag(request []byte) (RequestTag, error) {
	return f(request)
}
