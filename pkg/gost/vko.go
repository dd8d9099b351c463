package gost

import (
	"math/big"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/kdf"
	"github.com/smallyu/go-gost/internal/crypto/vko"
)

// ErrInvalidLength is returned by DeriveKeyTree for unsupported output
// lengths.
var ErrInvalidLength = kdf.ErrInvalidLength

type vkoFunc func(params *DomainParameters, d, x, y *big.Int, ukm []byte) ([]byte, error)

func agree(op string, fn vkoFunc, prv *PrivateKey, peer *PublicKey, ukm []byte) ([]byte, error) {
	if prv == nil || peer == nil {
		return nil, wrapErr(op, nil, ErrInvalidPoint)
	}
	if prv.params.Name != peer.params.Name {
		return nil, wrapErr(op, prv.params, ErrParamSetMismatch)
	}
	out, err := fn(prv.params, prv.d, peer.x, peer.y, ukm)
	return out, wrapErr(op, prv.params, err)
}

// DeriveSharedSecret returns the 32-byte VKO GOST R 34.10-2012 secret of
// prv and peer with UKM 1. Both sides obtain the same value.
func DeriveSharedSecret(prv *PrivateKey, peer *PublicKey) ([]byte, error) {
	return KEK2012256(prv, peer, []byte{1})
}

// DeriveSharedSecret agrees a secret with the holder of peer.
func (k *PrivateKey) DeriveSharedSecret(peer *PublicKey) ([]byte, error) {
	return DeriveSharedSecret(k, peer)
}

// KEK2001 runs VKO GOST R 34.10-2001 (RFC 4357) and returns 32 bytes.
func KEK2001(prv *PrivateKey, peer *PublicKey, ukm []byte) ([]byte, error) {
	return agree("vko 2001", vko.VKO2001, prv, peer, ukm)
}

// KEK2012256 runs VKO GOST R 34.10-2012 with a 256-bit output (RFC 7836).
func KEK2012256(prv *PrivateKey, peer *PublicKey, ukm []byte) ([]byte, error) {
	return agree("vko 2012 256", vko.VKO2012256, prv, peer, ukm)
}

// KEK2012512 runs VKO GOST R 34.10-2012 with a 512-bit output (RFC 7836).
func KEK2012512(prv *PrivateKey, peer *PublicKey, ukm []byte) ([]byte, error) {
	return agree("vko 2012 512", vko.VKO2012512, prv, peer, ukm)
}

// DeriveKey agrees a secret with peer under ukm and expands it with
// KDF_GOSTR3411_2012_256 into a 32-byte key bound to label and seed.
func DeriveKey(prv *PrivateKey, peer *PublicKey, ukm, label, seed []byte) ([]byte, error) {
	kek, err := KEK2012256(prv, peer, ukm)
	if err != nil {
		return nil, err
	}
	defer codec.Zeroize(kek)
	return kdf.KDF256(kek, label, seed), nil
}

// DeriveKeyTree is DeriveKey with KDF_TREE_GOSTR3411_2012_256, producing
// length bytes with an r-byte counter.
func DeriveKeyTree(prv *PrivateKey, peer *PublicKey, ukm, label, seed []byte, r, length int) ([]byte, error) {
	kek, err := KEK2012256(prv, peer, ukm)
	if err != nil {
		return nil, err
	}
	defer codec.Zeroize(kek)
	out, err := kdf.Tree(kek, label, seed, r, length)
	return out, wrapErr("derive key tree", prv.params, err)
}
