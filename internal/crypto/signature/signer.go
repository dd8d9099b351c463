package signature

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/smallyu/go-gost/internal/crypto/curves"
	"github.com/smallyu/go-gost/internal/crypto/field"
)

// DefaultMaxAttempts bounds the nonce retry loop of Sign.
const DefaultMaxAttempts = 32

// Signer produces signatures for one parameter set. The zero values of the
// optional fields select crypto/rand, DefaultMaxAttempts and a no-op logger.
type Signer struct {
	Params      *curves.DomainParameters
	Rand        io.Reader
	MaxAttempts int
	Logger      *zap.Logger
}

func (s *Signer) rand() io.Reader {
	if s.Rand == nil {
		return rand.Reader
	}
	return s.Rand
}

func (s *Signer) maxAttempts() int {
	if s.MaxAttempts < 1 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}

func (s *Signer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Sign signs digest with the private scalar d.
func Sign(params *curves.DomainParameters, d *big.Int, digest []byte, rand io.Reader) (*Signature, error) {
	s := &Signer{Params: params, Rand: rand}
	return s.Sign(d, digest)
}

// Sign signs digest with the private scalar d, which must be in [1, q-1].
func (s *Signer) Sign(d *big.Int, digest []byte) (*Signature, error) {
	params := s.Params
	log := s.logger().With(zap.String("paramset", params.Name))

	fq := params.ScalarField()
	de, err := fq.FromBig(d)
	if err != nil || de.IsZero() {
		log.Debug("private scalar rejected", zap.String("reason", "out of range"))
		return nil, fmt.Errorf("signature: private scalar: %w", field.ErrInvalidOperand)
	}

	// 1. e = int(digest) mod q, or 1 when that is zero
	e, err := digestScalar(params, digest)
	if err != nil {
		log.Debug("digest rejected", zap.Int("len", len(digest)))
		return nil, err
	}

	// 2. Draw nonces until both r and s are non-zero.
	for attempt := 1; attempt <= s.maxAttempts(); attempt++ {
		k, err := params.RandomScalar(s.rand())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSignatureGenerationFailed, err)
		}
		sig, reason := signWithNonce(params, de, e, k)
		if sig != nil {
			return sig, nil
		}
		log.Debug("nonce rejected", zap.Int("attempt", attempt), zap.String("reason", reason))
	}
	log.Debug("retry budget exhausted", zap.Int("attempts", s.maxAttempts()))
	return nil, ErrSignatureGenerationFailed
}

// SignBatch signs each digest in turn with the same key.
func (s *Signer) SignBatch(d *big.Int, digests [][]byte) ([]*Signature, error) {
	out := make([]*Signature, 0, len(digests))
	for i, digest := range digests {
		sig, err := s.Sign(d, digest)
		if err != nil {
			return nil, fmt.Errorf("digest %d: %w", i, err)
		}
		out = append(out, sig)
	}
	return out, nil
}

// signWithNonce runs one attempt with nonce k. It returns nil and the
// reason when k has to be discarded.
func signWithNonce(params *curves.DomainParameters, d, e *field.Element, k *big.Int) (*Signature, string) {
	fq := params.ScalarField()

	// C = k·G, r = x_C mod q
	cx, _, err := params.Affine(params.ScalarBaseMult(k))
	if err != nil {
		return nil, "k·G is infinity"
	}
	r := fq.Reduce(cx.Bytes())
	if r.IsZero() {
		return nil, "r = 0"
	}

	// s = (r·d + k·e) mod q
	ke := fq.Mul(fq.Reduce(k.Bytes()), e)
	sv := fq.Add(fq.Mul(r, d), ke)
	if sv.IsZero() {
		return nil, "s = 0"
	}
	return &Signature{R: r.Big(), S: sv.Big()}, ""
}
