// Package curves implements the group of points of a short Weierstrass curve
// y² = x³ + ax + b and the GOST R 34.10 parameter sets that use it.
//
// Points are kept in projective coordinates (X:Y:Z) and added with the
// complete formulas of Renes, Costello and Batina for arbitrary a, so there
// are no exceptional cases: the point at infinity (0:1:0), doubling and
// P + (-P) all go through the same code.
package curves

import (
	"errors"
	"math/big"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/field"
)

// ErrInvalidPoint is returned for coordinates that are not on the curve.
var ErrInvalidPoint = errors.New("curves: point is not on the curve")

// Point is an element of the curve group. The zero value is not valid; use
// the constructors on DomainParameters.
type Point struct {
	x, y, z *field.Element
}

// Infinity returns the identity element (0:1:0).
func (d *DomainParameters) Infinity() *Point {
	return &Point{x: d.fp.Zero(), y: d.fp.One(), z: d.fp.Zero()}
}

// IsOnCurve reports whether the affine pair (x, y) satisfies the curve
// equation with both coordinates in [0, p).
func (d *DomainParameters) IsOnCurve(x, y *big.Int) bool {
	fx, err := d.fp.FromBig(x)
	if err != nil {
		return false
	}
	fy, err := d.fp.FromBig(y)
	if err != nil {
		return false
	}
	return d.onCurve(fx, fy)
}

func (d *DomainParameters) onCurve(x, y *field.Element) bool {
	f := d.fp
	lhs := f.Square(y)
	rhs := f.Add(f.Mul(f.Square(x), x), f.Mul(d.a, x))
	rhs = f.Add(rhs, d.b)
	return lhs.Equal(rhs)
}

// NewPoint returns the affine point (x, y). It fails with ErrInvalidPoint
// when the coordinates are out of range or off the curve.
func (d *DomainParameters) NewPoint(x, y *big.Int) (*Point, error) {
	fx, err := d.fp.FromBig(x)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	fy, err := d.fp.FromBig(y)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	if !d.onCurve(fx, fy) {
		return nil, ErrInvalidPoint
	}
	return &Point{x: fx, y: fy, z: d.fp.One()}, nil
}

// IsInfinity reports whether p is the identity element.
func (p *Point) IsInfinity() bool {
	return p.z.IsZero()
}

// Affine returns the affine coordinates of p. The point at infinity has no
// affine form and yields ErrInvalidPoint.
func (d *DomainParameters) Affine(p *Point) (x, y *big.Int, err error) {
	zinv, err := d.fp.Inv(p.z)
	if err != nil {
		return nil, nil, ErrInvalidPoint
	}
	return d.fp.Mul(p.x, zinv).Big(), d.fp.Mul(p.y, zinv).Big(), nil
}

// Equal reports whether p and q are the same group element.
func (d *DomainParameters) Equal(p, q *Point) bool {
	f := d.fp
	return f.Mul(p.x, q.z).Equal(f.Mul(q.x, p.z)) &&
		f.Mul(p.y, q.z).Equal(f.Mul(q.y, p.z))
}

// Neg returns -p.
func (d *DomainParameters) Neg(p *Point) *Point {
	return &Point{x: p.x, y: d.fp.Neg(p.y), z: p.z}
}

// Add returns p + q.
func (d *DomainParameters) Add(p, q *Point) *Point {
	f := d.fp
	a, b3 := d.a, d.b3

	t0 := f.Mul(p.x, q.x)
	t1 := f.Mul(p.y, q.y)
	t2 := f.Mul(p.z, q.z)
	t3 := f.Add(p.x, p.y)
	t4 := f.Add(q.x, q.y)
	t3 = f.Mul(t3, t4)
	t4 = f.Add(t0, t1)
	t3 = f.Sub(t3, t4)
	t4 = f.Add(p.x, p.z)
	t5 := f.Add(q.x, q.z)
	t4 = f.Mul(t4, t5)
	t5 = f.Add(t0, t2)
	t4 = f.Sub(t4, t5)
	t5 = f.Add(p.y, p.z)
	x3 := f.Add(q.y, q.z)
	t5 = f.Mul(t5, x3)
	x3 = f.Add(t1, t2)
	t5 = f.Sub(t5, x3)
	z3 := f.Mul(a, t4)
	x3 = f.Mul(b3, t2)
	z3 = f.Add(x3, z3)
	x3 = f.Sub(t1, z3)
	z3 = f.Add(t1, z3)
	y3 := f.Mul(x3, z3)
	t1 = f.Add(t0, t0)
	t1 = f.Add(t1, t0)
	t2 = f.Mul(a, t2)
	t4 = f.Mul(b3, t4)
	t1 = f.Add(t1, t2)
	t2 = f.Sub(t0, t2)
	t2 = f.Mul(a, t2)
	t4 = f.Add(t4, t2)
	t0 = f.Mul(t1, t4)
	y3 = f.Add(y3, t0)
	t0 = f.Mul(t5, t4)
	x3 = f.Mul(t3, x3)
	x3 = f.Sub(x3, t0)
	t0 = f.Mul(t3, t1)
	z3 = f.Mul(t5, z3)
	z3 = f.Add(z3, t0)

	return &Point{x: x3, y: y3, z: z3}
}

// Double returns 2p.
func (d *DomainParameters) Double(p *Point) *Point {
	return d.Add(p, p)
}

func (d *DomainParameters) selectPoint(cond int, a, b *Point) *Point {
	return &Point{
		x: d.fp.Select(cond, a.x, b.x),
		y: d.fp.Select(cond, a.y, b.y),
		z: d.fp.Select(cond, a.z, b.z),
	}
}

// ScalarMult returns k·p. The loop runs over a fixed number of bits (the
// width of q, or of k when k is wider) and always performs both the double
// and the add, so its shape does not depend on the bits of k. Negative k is
// reduced mod q first.
func (d *DomainParameters) ScalarMult(k *big.Int, p *Point) *Point {
	if k.Sign() < 0 {
		k = new(big.Int).Mod(k, d.Q)
	}
	nbits := d.ScalarSize * 8
	if k.BitLen() > nbits {
		nbits = k.BitLen()
	}

	acc := d.Infinity()
	for i := nbits - 1; i >= 0; i-- {
		acc = d.Double(acc)
		sum := d.Add(acc, p)
		acc = d.selectPoint(int(k.Bit(i)), acc, sum)
	}
	return acc
}

// ScalarBaseMult returns k·G.
func (d *DomainParameters) ScalarBaseMult(k *big.Int) *Point {
	return d.ScalarMult(k, d.g)
}

// EncodePoint renders p as x ‖ y, each coordinate big-endian and PointSize
// bytes wide. The point at infinity has no encoding.
func (d *DomainParameters) EncodePoint(p *Point) ([]byte, error) {
	x, y, err := d.Affine(p)
	if err != nil {
		return nil, err
	}
	return codec.EncodePair(x, y, d.PointSize)
}

// DecodePoint parses x ‖ y as produced by EncodePoint. Wrong lengths,
// coordinates outside [0, p), the all-zero buffer and pairs that do not
// satisfy the curve equation fail with codec.ErrMalformedEncoding.
func (d *DomainParameters) DecodePoint(b []byte) (*Point, error) {
	if codec.IsZero(b) {
		return nil, codec.ErrMalformedEncoding
	}
	x, y, err := codec.DecodePair(b, d.PointSize, d.P)
	if err != nil {
		return nil, err
	}
	p, err := d.NewPoint(x, y)
	if err != nil {
		return nil, codec.ErrMalformedEncoding
	}
	return p, nil
}
