// Package signature implements GOST R 34.10-2001/2012 signature generation
// and verification over the curves of package curves.
//
// Digests are interpreted as big-endian integers. Callers holding a GOST R
// 34.11 hash output, which is the little-endian rendering of the hash
// vector, reverse it first.
package signature

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/curves"
	"github.com/smallyu/go-gost/internal/crypto/field"
)

var (
	// ErrInvalidSignatureEncoding is returned for r or s outside [1, q-1].
	ErrInvalidSignatureEncoding = errors.New("signature: component out of range")
	// ErrSignatureGenerationFailed is returned when every nonce drawn within
	// the retry budget produced r = 0 or s = 0.
	ErrSignatureGenerationFailed = errors.New("signature: generation failed")
	// ErrMalformedDigest is returned for empty digests and digests wider than
	// the curve allows.
	ErrMalformedDigest = errors.New("signature: malformed digest")
)

// Signature is the pair (r, s).
type Signature struct {
	R *big.Int
	S *big.Int
}

// Encode renders the signature as s ‖ r, each component big-endian and
// ScalarSize bytes wide.
func (sig *Signature) Encode(params *curves.DomainParameters) ([]byte, error) {
	if err := checkRange(params, sig); err != nil {
		return nil, err
	}
	return codec.EncodePair(sig.S, sig.R, params.ScalarSize)
}

// Decode parses s ‖ r. A buffer of the wrong length fails with
// codec.ErrMalformedEncoding, a component outside [1, q-1] with
// ErrInvalidSignatureEncoding.
func Decode(params *curves.DomainParameters, b []byte) (*Signature, error) {
	s, r, err := codec.DecodePair(b, params.ScalarSize, nil)
	if err != nil {
		return nil, err
	}
	sig := &Signature{R: r, S: s}
	if err := checkRange(params, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

func checkRange(params *curves.DomainParameters, sig *Signature) error {
	if sig == nil || sig.R == nil || sig.S == nil {
		return ErrInvalidSignatureEncoding
	}
	for _, v := range []*big.Int{sig.R, sig.S} {
		if v.Sign() <= 0 || v.Cmp(params.Q) >= 0 {
			return ErrInvalidSignatureEncoding
		}
	}
	return nil
}

// digestScalar maps a digest to e = int(digest) mod q, replacing zero by one.
func digestScalar(params *curves.DomainParameters, digest []byte) (*field.Element, error) {
	if len(digest) == 0 || len(digest) > params.PointSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedDigest, len(digest))
	}
	fq := params.ScalarField()
	e := fq.Reduce(digest)
	if e.IsZero() {
		e = fq.One()
	}
	return e, nil
}

// Verify checks sig over digest against the public key (x, y). A signature
// that does not match is reported as false with a nil error; errors are
// reserved for malformed input: ErrMalformedDigest,
// ErrInvalidSignatureEncoding and curves.ErrInvalidPoint for a public key
// off the curve.
func Verify(params *curves.DomainParameters, x, y *big.Int, digest []byte, sig *Signature) (bool, error) {
	pub, err := params.NewPoint(x, y)
	if err != nil {
		return false, err
	}
	return VerifyPoint(params, pub, digest, sig)
}

// VerifyPoint is Verify for a public key that is already a curve point.
func VerifyPoint(params *curves.DomainParameters, pub *curves.Point, digest []byte, sig *Signature) (bool, error) {
	if pub == nil || pub.IsInfinity() {
		return false, curves.ErrInvalidPoint
	}
	if err := checkRange(params, sig); err != nil {
		return false, err
	}
	e, err := digestScalar(params, digest)
	if err != nil {
		return false, err
	}
	fq := params.ScalarField()

	// 1. v = e⁻¹ mod q
	v, err := fq.Inv(e)
	if err != nil {
		return false, err
	}
	r, _ := fq.FromBig(sig.R)
	s, _ := fq.FromBig(sig.S)

	// 2. z1 = s·v, z2 = -r·v
	z1 := fq.Mul(s, v)
	z2 := fq.Neg(fq.Mul(r, v))

	// 3. C = z1·G + z2·Q
	c := params.Add(params.ScalarBaseMult(z1.Big()), params.ScalarMult(z2.Big(), pub))
	if c.IsInfinity() {
		return false, nil
	}
	cx, _, err := params.Affine(c)
	if err != nil {
		return false, nil
	}

	// 4. R = x_C mod q
	R := fq.Reduce(cx.Bytes())
	return R.Equal(r), nil
}
