package gost

// SignatureFormatter produces encoded signatures (s ‖ r) with a private key
// it holds.
type SignatureFormatter interface {
	// SignDigest signs a digest read as a big-endian integer.
	SignDigest(digest []byte) ([]byte, error)

	// SignHash signs a GOST R 34.11 hash output, whose bytes are the
	// little-endian rendering of the hash vector.
	SignHash(hash []byte) ([]byte, error)
}

// SignatureDeformatter checks encoded signatures against a public key it
// holds. A signature that does not verify yields false and a nil error.
type SignatureDeformatter interface {
	VerifyDigest(digest, sig []byte) (bool, error)
	VerifyHash(hash, sig []byte) (bool, error)
}

// KeyAgreement derives a secret shared with the holder of a peer key.
type KeyAgreement interface {
	DeriveSharedSecret(peer *PublicKey) ([]byte, error)
}

var (
	_ SignatureFormatter   = (*Signer)(nil)
	_ SignatureDeformatter = (*PublicKey)(nil)
	_ KeyAgreement         = (*PrivateKey)(nil)
)
