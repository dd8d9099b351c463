// Package vko implements the VKO GOST R 34.10 key agreement functions of
// RFC 4357 (VKO GOST R 34.10-2001) and RFC 7836 (VKO GOST R 34.10-2012
// with 256- and 512-bit outputs).
package vko

import (
	"errors"
	"fmt"
	"hash"
	"math/big"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/curves"
	"github.com/smallyu/go-gost/internal/crypto/field"
	"github.com/smallyu/go-gost/internal/crypto/hash/gost341194"
	"github.com/smallyu/go-gost/internal/crypto/hash/streebog"
)

// ErrDegenerateSharedSecret is returned when the shared point is the point
// at infinity.
var ErrDegenerateSharedSecret = errors.New("vko: shared point is the point at infinity")

// UKM decodes user keying material: a little-endian integer, with zero
// (and the empty string) replaced by one.
func UKM(ukm []byte) *big.Int {
	u := new(big.Int).SetBytes(codec.Reverse(ukm))
	if u.Sign() == 0 {
		u.SetInt64(1)
	}
	return u
}

// KEK computes K = ((h · ukm · d) mod q) · P for the private scalar d and
// the peer public key P = (x, y), and returns x_K ‖ y_K with each coordinate
// little-endian and PointSize bytes wide. This is the value hashed by the
// VKO functions.
func KEK(params *curves.DomainParameters, d, x, y *big.Int, ukm []byte) ([]byte, error) {
	peer, err := params.NewPoint(x, y)
	if err != nil {
		return nil, err
	}
	fq := params.ScalarField()
	de, err := fq.FromBig(d)
	if err != nil || de.IsZero() {
		return nil, fmt.Errorf("vko: private scalar: %w", field.ErrInvalidOperand)
	}

	// 1. t = h · ukm · d mod q
	u, _ := fq.ReduceBig(UKM(ukm))
	h, _ := fq.ReduceBig(params.Cofactor)
	t := fq.Mul(fq.Mul(h, u), de)

	// 2. K = t · P
	k := params.ScalarMult(t.Big(), peer)
	if k.IsInfinity() {
		return nil, ErrDegenerateSharedSecret
	}
	kx, ky, err := params.Affine(k)
	if err != nil {
		return nil, ErrDegenerateSharedSecret
	}

	// 3. x ‖ y, little-endian
	out, err := codec.EncodeIntLE(kx, params.PointSize)
	if err != nil {
		return nil, err
	}
	yb, err := codec.EncodeIntLE(ky, params.PointSize)
	if err != nil {
		return nil, err
	}
	return append(out, yb...), nil
}

func derive(newHash func() hash.Hash, params *curves.DomainParameters, d, x, y *big.Int, ukm []byte) ([]byte, error) {
	kek, err := KEK(params, d, x, y, ukm)
	if err != nil {
		return nil, err
	}
	defer codec.Zeroize(kek)
	h := newHash()
	h.Write(kek)
	return h.Sum(nil), nil
}

// VKO2001 hashes the KEK with GOST R 34.11-94 (CryptoPro parameters) and
// returns 32 bytes.
func VKO2001(params *curves.DomainParameters, d, x, y *big.Int, ukm []byte) ([]byte, error) {
	return derive(gost341194.New, params, d, x, y, ukm)
}

// VKO2012256 hashes the KEK with Streebog-256.
func VKO2012256(params *curves.DomainParameters, d, x, y *big.Int, ukm []byte) ([]byte, error) {
	return derive(streebog.New256, params, d, x, y, ukm)
}

// VKO2012512 hashes the KEK with Streebog-512.
func VKO2012512(params *curves.DomainParameters, d, x, y *big.Int, ukm []byte) ([]byte, error) {
	return derive(streebog.New512, params, d, x, y, ukm)
}
