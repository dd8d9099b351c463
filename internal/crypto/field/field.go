// Package field implements arithmetic modulo an odd prime.
//
// Elements are immutable: every operation returns a fresh value reduced into
// [0, p). Multiplication, inversion and selection are constant time with
// respect to the operand values, which lets the same code serve both curve
// coordinates (mod p) and secret scalars (mod q).
package field

import (
	"errors"
	"math/big"

	"github.com/cronokirby/safenum"
)

// ErrInvalidOperand is returned for out-of-range inputs and for inverting zero.
var ErrInvalidOperand = errors.New("field: invalid operand")

// Field is the prime field Z/pZ.
type Field struct {
	m    *safenum.Modulus
	p    *big.Int
	size int // byte width of p
}

// Element is a value in [0, p) of the Field that created it.
type Element struct {
	n *safenum.Nat
}

// New returns the field of integers modulo p. p must be an odd integer
// greater than 2; primality is the caller's responsibility.
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Sign() <= 0 || p.Bit(0) == 0 || p.Cmp(big.NewInt(3)) < 0 {
		return nil, errors.New("field: modulus must be an odd integer > 2")
	}
	return &Field{
		m:    safenum.ModulusFromBytes(p.Bytes()),
		p:    new(big.Int).Set(p),
		size: (p.BitLen() + 7) / 8,
	}, nil
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// BitLen returns the bit length of p.
func (f *Field) BitLen() int {
	return f.p.BitLen()
}

// Size returns the byte width of an encoded element.
func (f *Field) Size() int {
	return f.size
}

func (f *Field) wrap(n *safenum.Nat) *Element {
	return &Element{n: n}
}

// Zero returns the additive identity.
func (f *Field) Zero() *Element {
	return f.wrap(new(safenum.Nat).Mod(new(safenum.Nat).SetUint64(0), f.m))
}

// One returns the multiplicative identity.
func (f *Field) One() *Element {
	return f.wrap(new(safenum.Nat).Mod(new(safenum.Nat).SetUint64(1), f.m))
}

// FromUint64 returns x mod p.
func (f *Field) FromUint64(x uint64) *Element {
	return f.wrap(new(safenum.Nat).Mod(new(safenum.Nat).SetUint64(x), f.m))
}

// SetBytes interprets b as a big-endian integer. Values >= p are rejected
// with ErrInvalidOperand rather than reduced.
func (f *Field) SetBytes(b []byte) (*Element, error) {
	x := new(safenum.Nat).SetBytes(b)
	if _, _, lt := x.CmpMod(f.m); lt != 1 {
		return nil, ErrInvalidOperand
	}
	return f.wrap(new(safenum.Nat).Mod(x, f.m)), nil
}

// FromBig converts x in [0, p) to an element.
func (f *Field) FromBig(x *big.Int) (*Element, error) {
	if x == nil || x.Sign() < 0 || x.Cmp(f.p) >= 0 {
		return nil, ErrInvalidOperand
	}
	return f.SetBytes(x.Bytes())
}

// Reduce interprets b as a big-endian integer of any length and reduces it
// modulo p.
func (f *Field) Reduce(b []byte) *Element {
	return f.wrap(new(safenum.Nat).Mod(new(safenum.Nat).SetBytes(b), f.m))
}

// ReduceBig reduces a non-negative x modulo p.
func (f *Field) ReduceBig(x *big.Int) (*Element, error) {
	if x == nil || x.Sign() < 0 {
		return nil, ErrInvalidOperand
	}
	return f.Reduce(x.Bytes()), nil
}

// Add returns x + y mod p.
func (f *Field) Add(x, y *Element) *Element {
	return f.wrap(new(safenum.Nat).ModAdd(x.n, y.n, f.m))
}

// Sub returns x - y mod p.
func (f *Field) Sub(x, y *Element) *Element {
	return f.wrap(new(safenum.Nat).ModSub(x.n, y.n, f.m))
}

// Neg returns -x mod p.
func (f *Field) Neg(x *Element) *Element {
	return f.wrap(new(safenum.Nat).ModNeg(x.n, f.m))
}

// Mul returns x * y mod p.
func (f *Field) Mul(x, y *Element) *Element {
	return f.wrap(new(safenum.Nat).ModMul(x.n, y.n, f.m))
}

// Square returns x² mod p.
func (f *Field) Square(x *Element) *Element {
	return f.Mul(x, x)
}

// Inv returns x⁻¹ mod p. Inverting zero fails with ErrInvalidOperand.
func (f *Field) Inv(x *Element) (*Element, error) {
	if x.n.EqZero() == 1 {
		return nil, ErrInvalidOperand
	}
	return f.wrap(new(safenum.Nat).ModInverse(x.n, f.m)), nil
}

// Select returns b when cond is 1 and a when cond is 0, without branching
// on cond.
func (f *Field) Select(cond int, a, b *Element) *Element {
	z := a.n.Clone()
	z.CondAssign(safenum.Choice(cond&1), b.n)
	return f.wrap(z)
}

// Bytes returns the fixed-width big-endian encoding of x.
func (f *Field) Bytes(x *Element) []byte {
	return x.n.FillBytes(make([]byte, f.size))
}

// Equal reports whether x == y.
func (x *Element) Equal(y *Element) bool {
	return x.n.Eq(y.n) == 1
}

// IsZero reports whether x == 0.
func (x *Element) IsZero() bool {
	return x.n.EqZero() == 1
}

// Big returns x as a big integer.
func (x *Element) Big() *big.Int {
	return x.n.Big()
}

// String returns the hexadecimal value of x.
func (x *Element) String() string {
	return x.n.Big().Text(16)
}
