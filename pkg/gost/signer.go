package gost

import (
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/signature"
)

// DefaultMaxRetries is the number of nonces a Signer draws before giving up.
const DefaultMaxRetries = signature.DefaultMaxAttempts

// Signature is a decoded (r, s) pair with both components in [1, q-1].
// Values are built by NewSignature, ParseSignature or a Signer.
type Signature struct {
	r, s   *big.Int
	params *DomainParameters
}

// NewSignature checks r and s against the order of params.
func NewSignature(params *DomainParameters, r, s *big.Int) (*Signature, error) {
	sig := &signature.Signature{R: r, S: s}
	if _, err := sig.Encode(params); err != nil {
		return nil, wrapErr("new signature", params, err)
	}
	return &Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s), params: params}, nil
}

// ParseSignature reads s ‖ r. A buffer of the wrong length fails with
// ErrMalformedEncoding, a component outside [1, q-1] with
// ErrInvalidSignatureEncoding.
func ParseSignature(params *DomainParameters, b []byte) (*Signature, error) {
	sig, err := signature.Decode(params, b)
	if err != nil {
		return nil, wrapErr("parse signature", params, err)
	}
	return &Signature{r: sig.R, s: sig.S, params: params}, nil
}

// R returns a copy of r, or nil for the zero Signature.
func (s *Signature) R() *big.Int { return copyInt(s.r) }

// S returns a copy of s, or nil for the zero Signature.
func (s *Signature) S() *big.Int { return copyInt(s.s) }

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// Bytes returns s ‖ r, each component big-endian and ScalarSize bytes wide.
// The zero Signature has no encoding and yields nil.
func (s *Signature) Bytes() []byte {
	if s == nil || s.params == nil {
		return nil
	}
	b, _ := s.raw().Encode(s.params)
	return b
}

func (s *Signature) raw() *signature.Signature {
	return &signature.Signature{R: s.r, S: s.s}
}

// Option configures a Signer.
type Option func(*signerOptions)

type signerOptions struct {
	rand       io.Reader
	logger     *zap.Logger
	maxRetries int
}

// WithRand sets the nonce source. The default is crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(o *signerOptions) {
		o.rand = r
	}
}

// WithLogger attaches a logger. Retries and rejected inputs are logged at
// debug level; secrets never are.
func WithLogger(l *zap.Logger) Option {
	return func(o *signerOptions) {
		o.logger = l
	}
}

// WithMaxRetries bounds the nonce loop. Values below one are raised to one.
func WithMaxRetries(n int) Option {
	return func(o *signerOptions) {
		if n < 1 {
			n = 1
		}
		o.maxRetries = n
	}
}

// Signer signs with one private key. It is safe for concurrent use as long
// as its random source is.
type Signer struct {
	key    *PrivateKey
	engine *signature.Signer
}

// NewSigner returns a Signer for key.
func NewSigner(key *PrivateKey, opts ...Option) *Signer {
	o := signerOptions{
		rand:       defaultRand(),
		logger:     zap.NewNop(),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Signer{
		key: key,
		engine: &signature.Signer{
			Params:      key.params,
			Rand:        o.rand,
			MaxAttempts: o.maxRetries,
			Logger:      o.logger,
		},
	}
}

// Public returns the public key of the signing key.
func (s *Signer) Public() *PublicKey {
	return s.key.pub
}

// Sign signs a digest read as a big-endian integer.
func (s *Signer) Sign(digest []byte) (*Signature, error) {
	return s.sign("sign", digest)
}

func (s *Signer) sign(op string, digest []byte) (*Signature, error) {
	sig, err := s.engine.Sign(s.key.d, digest)
	if err != nil {
		return nil, wrapErr(op, s.key.params, err)
	}
	return &Signature{r: sig.R, s: sig.S, params: s.key.params}, nil
}

// SignDigest signs a digest read as a big-endian integer and returns s ‖ r.
func (s *Signer) SignDigest(digest []byte) ([]byte, error) {
	sig, err := s.sign("sign digest", digest)
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

// SignHash signs the output of a GOST R 34.11 hash.
func (s *Signer) SignHash(hash []byte) ([]byte, error) {
	sig, err := s.sign("sign hash", codec.Reverse(hash))
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

// HashAndSign hashes msg with the hash matching the key size and signs the
// result.
func (s *Signer) HashAndSign(msg []byte) ([]byte, error) {
	h := HashFor(s.key.params)
	h.Write(msg)
	return s.SignHash(h.Sum(nil))
}

// SignBatch signs each digest with the same key and returns the encoded
// signatures in order.
func (s *Signer) SignBatch(digests [][]byte) ([][]byte, error) {
	sigs, err := s.engine.SignBatch(s.key.d, digests)
	if err != nil {
		return nil, wrapErr("sign batch", s.key.params, err)
	}
	out := make([][]byte, len(sigs))
	for i, sig := range sigs {
		out[i], _ = sig.Encode(s.key.params)
	}
	return out, nil
}

// Sign signs digest with prv, drawing nonces from rand. A nil rand selects
// crypto/rand.Reader.
func Sign(prv *PrivateKey, digest []byte, rand io.Reader) (*Signature, error) {
	if prv == nil {
		return nil, wrapErr("sign", nil, ErrInvalidOperand)
	}
	if rand == nil {
		rand = defaultRand()
	}
	return NewSigner(prv, WithRand(rand)).Sign(digest)
}

// Verify checks sig over digest. A signature that does not match yields
// false and a nil error.
func Verify(pub *PublicKey, digest []byte, sig *Signature) (bool, error) {
	if pub == nil {
		return false, wrapErr("verify", nil, ErrInvalidPoint)
	}
	if sig == nil || sig.params == nil {
		return false, wrapErr("verify", pub.params, ErrInvalidSignatureEncoding)
	}
	if sig.params.Name != pub.params.Name {
		return false, wrapErr("verify", pub.params, ErrParamSetMismatch)
	}
	ok, err := signature.VerifyPoint(pub.params, pub.point, digest, sig.raw())
	return ok, wrapErr("verify", pub.params, err)
}

// VerifyDigest checks an encoded signature over a big-endian digest.
func (k *PublicKey) VerifyDigest(digest, sig []byte) (bool, error) {
	return k.verify("verify digest", digest, sig)
}

// VerifyHash checks an encoded signature over the output of a GOST R 34.11
// hash.
func (k *PublicKey) VerifyHash(hash, sig []byte) (bool, error) {
	return k.verify("verify hash", codec.Reverse(hash), sig)
}

// HashAndVerify hashes msg as HashAndSign does and checks sig.
func (k *PublicKey) HashAndVerify(msg, sig []byte) (bool, error) {
	h := HashFor(k.params)
	h.Write(msg)
	return k.VerifyHash(h.Sum(nil), sig)
}

func (k *PublicKey) verify(op string, digest, sig []byte) (bool, error) {
	parsed, err := signature.Decode(k.params, sig)
	if err != nil {
		return false, wrapErr(op, k.params, err)
	}
	ok, err := signature.VerifyPoint(k.params, k.point, digest, parsed)
	return ok, wrapErr(op, k.params, err)
}
