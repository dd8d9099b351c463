// Package codec holds the fixed-width byte layouts shared by every GOST
// component: big-endian integers padded to the curve width, concatenated
// pairs, and the little-endian forms used by RFC 4491 key blobs.
package codec

import (
	"errors"
	"math/big"
)

// ErrMalformedEncoding is returned when a buffer has the wrong length or
// carries a value outside its allowed range.
var ErrMalformedEncoding = errors.New("codec: malformed encoding")

// EncodeInt writes v as a big-endian integer of exactly size bytes.
// v must be non-negative and fit into size bytes.
func EncodeInt(v *big.Int, size int) ([]byte, error) {
	if v == nil || v.Sign() < 0 || (v.BitLen()+7)/8 > size {
		return nil, ErrMalformedEncoding
	}
	return v.FillBytes(make([]byte, size)), nil
}

// DecodeInt reads a big-endian integer of exactly size bytes and checks that
// it is below max. A nil max disables the range check.
func DecodeInt(b []byte, size int, max *big.Int) (*big.Int, error) {
	if len(b) != size {
		return nil, ErrMalformedEncoding
	}
	v := new(big.Int).SetBytes(b)
	if max != nil && v.Cmp(max) >= 0 {
		return nil, ErrMalformedEncoding
	}
	return v, nil
}

// EncodePair concatenates two fixed-width big-endian integers, hi first.
func EncodePair(hi, lo *big.Int, size int) ([]byte, error) {
	a, err := EncodeInt(hi, size)
	if err != nil {
		return nil, err
	}
	b, err := EncodeInt(lo, size)
	if err != nil {
		return nil, err
	}
	return append(a, b...), nil
}

// DecodePair splits a buffer of 2*size bytes into two big-endian integers,
// each checked against max.
func DecodePair(b []byte, size int, max *big.Int) (hi, lo *big.Int, err error) {
	if len(b) != 2*size {
		return nil, nil, ErrMalformedEncoding
	}
	if hi, err = DecodeInt(b[:size], size, max); err != nil {
		return nil, nil, err
	}
	if lo, err = DecodeInt(b[size:], size, max); err != nil {
		return nil, nil, err
	}
	return hi, lo, nil
}

// Reverse returns a reversed copy of b. It converts between the big-endian
// layouts of this package and the little-endian layouts of GOST key blobs
// and hash vectors.
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

// EncodeIntLE writes v as a little-endian integer of exactly size bytes.
func EncodeIntLE(v *big.Int, size int) ([]byte, error) {
	b, err := EncodeInt(v, size)
	if err != nil {
		return nil, err
	}
	return Reverse(b), nil
}

// DecodeIntLE reads a little-endian integer of exactly size bytes.
func DecodeIntLE(b []byte, size int, max *big.Int) (*big.Int, error) {
	if len(b) != size {
		return nil, ErrMalformedEncoding
	}
	return DecodeInt(Reverse(b), size, max)
}

// IsZero reports whether every byte of b is zero.
func IsZero(b []byte) bool {
	var acc byte
	for _, c := range b {
		acc |= c
	}
	return acc == 0
}

// Zeroize overwrites b with zeros.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
