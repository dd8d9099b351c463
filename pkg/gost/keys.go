package gost

import (
	"crypto/rand"
	"io"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/curves"
)

// PrivateKey is a scalar d in [1, q-1] together with its public key.
type PrivateKey struct {
	params *DomainParameters
	d      *big.Int
	pub    *PublicKey
}

// PublicKey is the point Q = d·G.
type PublicKey struct {
	params *DomainParameters
	x, y   *big.Int
	point  *curves.Point
}

// GenerateKey draws a new key pair from rand. A nil rand selects
// crypto/rand.Reader.
func GenerateKey(params *DomainParameters, rand io.Reader) (*PrivateKey, error) {
	if rand == nil {
		rand = defaultRand()
	}
	d, err := params.RandomScalar(rand)
	if err != nil {
		return nil, wrapErr("generate key", params, err)
	}
	k, err := newPrivateKey(params, d)
	return k, wrapErr("generate key", params, err)
}

// NewPrivateKey wraps an existing scalar. d must lie in [1, q-1].
func NewPrivateKey(params *DomainParameters, d *big.Int) (*PrivateKey, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(params.Q) >= 0 {
		return nil, wrapErr("new private key", params, ErrInvalidOperand)
	}
	k, err := newPrivateKey(params, d)
	return k, wrapErr("new private key", params, err)
}

func newPrivateKey(params *DomainParameters, d *big.Int) (*PrivateKey, error) {
	q := params.ScalarBaseMult(d)
	x, y, err := params.Affine(q)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		params: params,
		d:      new(big.Int).Set(d),
		pub:    &PublicKey{params: params, x: x, y: y, point: q},
	}, nil
}

// NewPublicKey validates (x, y) against the curve.
func NewPublicKey(params *DomainParameters, x, y *big.Int) (*PublicKey, error) {
	if x == nil || y == nil {
		return nil, wrapErr("new public key", params, ErrInvalidPoint)
	}
	p, err := params.NewPoint(x, y)
	if err != nil {
		return nil, wrapErr("new public key", params, err)
	}
	return &PublicKey{params: params, x: new(big.Int).Set(x), y: new(big.Int).Set(y), point: p}, nil
}

func defaultRand() io.Reader {
	return rand.Reader
}

// Params returns the parameter set the key belongs to.
func (k *PrivateKey) Params() *DomainParameters { return k.params }

// Public returns the matching public key.
func (k *PrivateKey) Public() *PublicKey { return k.pub }

// D returns a copy of the private scalar.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// Equal reports whether both keys hold the same scalar on the same curve.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	return other != nil && k.params.Name == other.params.Name && k.d.Cmp(other.d) == 0
}

// Zeroize clears the private scalar. The key is unusable afterwards.
func (k *PrivateKey) Zeroize() {
	words := k.d.Bits()
	for i := range words {
		words[i] = 0
	}
	k.d.SetInt64(0)
}

// Bytes returns d big-endian, ScalarSize bytes wide.
func (k *PrivateKey) Bytes() []byte {
	b, _ := codec.EncodeInt(k.d, k.params.ScalarSize)
	return b
}

// Raw returns d little-endian, the layout of GOST key blobs.
func (k *PrivateKey) Raw() []byte {
	return codec.Reverse(k.Bytes())
}

// ParsePrivateKey reads the output of PrivateKey.Bytes.
func ParsePrivateKey(params *DomainParameters, b []byte) (*PrivateKey, error) {
	d, err := codec.DecodeInt(b, params.ScalarSize, params.Q)
	if err != nil {
		return nil, wrapErr("parse private key", params, err)
	}
	if d.Sign() == 0 {
		return nil, wrapErr("parse private key", params, ErrMalformedEncoding)
	}
	k, err := newPrivateKey(params, d)
	return k, wrapErr("parse private key", params, err)
}

// NewPrivateKeyRaw reads the output of PrivateKey.Raw.
func NewPrivateKeyRaw(params *DomainParameters, raw []byte) (*PrivateKey, error) {
	if len(raw) != params.ScalarSize {
		return nil, wrapErr("parse raw private key", params, ErrMalformedEncoding)
	}
	return ParsePrivateKey(params, codec.Reverse(raw))
}

// MarshalASN1 returns the raw scalar as a DER OCTET STRING.
func (k *PrivateKey) MarshalASN1() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1OctetString(k.Raw())
	out, err := b.Bytes()
	return out, wrapErr("marshal private key", k.params, err)
}

// ParsePrivateKeyASN1 reads a DER OCTET STRING holding the raw scalar.
// A DER INTEGER holding d is accepted as well.
func ParsePrivateKeyASN1(params *DomainParameters, der []byte) (*PrivateKey, error) {
	input := cryptobyte.String(der)
	if input.PeekASN1Tag(cbasn1.INTEGER) {
		d := new(big.Int)
		if !input.ReadASN1Integer(d) || !input.Empty() {
			return nil, wrapErr("parse private key", params, ErrMalformedEncoding)
		}
		if d.Sign() <= 0 || d.Cmp(params.Q) >= 0 {
			return nil, wrapErr("parse private key", params, ErrMalformedEncoding)
		}
		k, err := newPrivateKey(params, d)
		return k, wrapErr("parse private key", params, err)
	}
	var raw []byte
	if !input.ReadASN1Bytes(&raw, cbasn1.OCTET_STRING) || !input.Empty() {
		return nil, wrapErr("parse private key", params, ErrMalformedEncoding)
	}
	return NewPrivateKeyRaw(params, raw)
}

// Params returns the parameter set the key belongs to.
func (k *PublicKey) Params() *DomainParameters { return k.params }

// X returns a copy of the affine x coordinate.
func (k *PublicKey) X() *big.Int { return new(big.Int).Set(k.x) }

// Y returns a copy of the affine y coordinate.
func (k *PublicKey) Y() *big.Int { return new(big.Int).Set(k.y) }

// Equal reports whether both keys are the same point on the same curve.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && k.params.Name == other.params.Name &&
		k.x.Cmp(other.x) == 0 && k.y.Cmp(other.y) == 0
}

// Bytes returns x ‖ y, each coordinate big-endian and PointSize bytes wide.
func (k *PublicKey) Bytes() []byte {
	b, _ := k.params.EncodePoint(k.point)
	return b
}

// Raw returns x ‖ y with each coordinate little-endian, as carried in the
// OCTET STRING of RFC 4491 public keys.
func (k *PublicKey) Raw() []byte {
	x, _ := codec.EncodeIntLE(k.x, k.params.PointSize)
	y, _ := codec.EncodeIntLE(k.y, k.params.PointSize)
	return append(x, y...)
}

// ParsePublicKey reads the output of PublicKey.Bytes. Any failure,
// including a point off the curve, is reported as ErrMalformedEncoding.
func ParsePublicKey(params *DomainParameters, b []byte) (*PublicKey, error) {
	p, err := params.DecodePoint(b)
	if err != nil {
		return nil, wrapErr("parse public key", params, err)
	}
	x, y, err := params.Affine(p)
	if err != nil {
		return nil, wrapErr("parse public key", params, err)
	}
	return &PublicKey{params: params, x: x, y: y, point: p}, nil
}

// NewPublicKeyRaw reads the output of PublicKey.Raw.
func NewPublicKeyRaw(params *DomainParameters, raw []byte) (*PublicKey, error) {
	n := params.PointSize
	if len(raw) != 2*n {
		return nil, wrapErr("parse raw public key", params, ErrMalformedEncoding)
	}
	be := append(codec.Reverse(raw[:n]), codec.Reverse(raw[n:])...)
	return ParsePublicKey(params, be)
}

// MarshalASN1 returns the raw point as a DER OCTET STRING, the content of
// the subjectPublicKey BIT STRING of RFC 4491.
func (k *PublicKey) MarshalASN1() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1OctetString(k.Raw())
	out, err := b.Bytes()
	return out, wrapErr("marshal public key", k.params, err)
}

// ParsePublicKeyASN1 reads the output of PublicKey.MarshalASN1.
func ParsePublicKeyASN1(params *DomainParameters, der []byte) (*PublicKey, error) {
	input := cryptobyte.String(der)
	var raw []byte
	if !input.ReadASN1Bytes(&raw, cbasn1.OCTET_STRING) || !input.Empty() {
		return nil, wrapErr("parse public key", params, ErrMalformedEncoding)
	}
	return NewPublicKeyRaw(params, raw)
}
