// Package kdf implements the Streebog-based key derivation functions of
// RFC 7836: KDF_GOSTR3411_2012_256 and KDF_TREE_GOSTR3411_2012_256.
package kdf

import (
	"crypto/hmac"
	"errors"
	"math/big"

	"github.com/smallyu/go-gost/internal/crypto/hash/streebog"
)

// ErrInvalidLength is returned by Tree for output lengths it cannot encode.
var ErrInvalidLength = errors.New("kdf: invalid output length")

// KDF256 derives a 32-byte key:
// HMAC_256(key, 0x01 ‖ label ‖ 0x00 ‖ seed ‖ 0x01 ‖ 0x00).
func KDF256(key, label, seed []byte) []byte {
	mac := hmac.New(streebog.New256, key)
	mac.Write([]byte{0x01})
	mac.Write(label)
	mac.Write([]byte{0x00})
	mac.Write(seed)
	mac.Write([]byte{0x01, 0x00})
	return mac.Sum(nil)
}

// Tree derives length bytes with KDF_TREE. Each 32-byte chunk i is
// HMAC_256(key, [i]_r ‖ label ‖ 0x00 ‖ seed ‖ [L]), where [i]_r is the
// counter as r big-endian bytes and [L] is the output length in bits as a
// minimal big-endian integer.
func Tree(key, label, seed []byte, r, length int) ([]byte, error) {
	if r < 1 || r > 4 || length <= 0 {
		return nil, ErrInvalidLength
	}
	blocks := (length + streebog.Size256 - 1) / streebog.Size256
	if r < 4 && blocks >= 1<<(8*r) {
		return nil, ErrInvalidLength
	}

	// 1. Encode L once.
	bitLen := new(big.Int).Lsh(big.NewInt(int64(length)), 3).Bytes()

	// 2. Concatenate the chunks and truncate.
	out := make([]byte, 0, blocks*streebog.Size256)
	counter := make([]byte, r)
	for i := 1; i <= blocks; i++ {
		for j := 0; j < r; j++ {
			counter[r-1-j] = byte(i >> (8 * j))
		}
		mac := hmac.New(streebog.New256, key)
		mac.Write(counter)
		mac.Write(label)
		mac.Write([]byte{0x00})
		mac.Write(seed)
		mac.Write(bitLen)
		out = mac.Sum(out)
	}
	return out[:length], nil
}
