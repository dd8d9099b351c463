// Package gost28147 implements the GOST 28147-89 64-bit block cipher in
// simple-substitution (ECB) mode. It exists to drive the GOST R 34.11-94
// compression function; it is not meant as a general-purpose cipher.
package gost28147

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"math/bits"
)

const (
	BlockSize = 8
	KeySize   = 32
)

// ErrKeySize is returned by NewCipher for keys that are not 32 bytes long.
var ErrKeySize = errors.New("gost28147: key must be 32 bytes")

// SBox holds the eight 4-bit substitution tables K1..K8. Row i maps the
// i-th nibble (counting from the least significant) of the round input.
type SBox [8][16]byte

// SBoxTest is the test parameter set of GOST R 34.11-94
// (id-GostR3411-94-TestParamSet).
var SBoxTest = SBox{
	{4, 10, 9, 2, 13, 8, 0, 14, 6, 11, 1, 12, 7, 15, 5, 3},
	{14, 11, 4, 12, 6, 13, 15, 10, 2, 3, 8, 1, 0, 7, 5, 9},
	{5, 8, 1, 13, 10, 3, 4, 2, 14, 15, 12, 7, 6, 0, 9, 11},
	{7, 13, 10, 1, 0, 8, 9, 15, 14, 4, 6, 12, 11, 2, 5, 3},
	{6, 12, 7, 1, 5, 15, 13, 8, 4, 10, 9, 14, 0, 3, 11, 2},
	{4, 11, 10, 0, 7, 2, 1, 13, 3, 6, 8, 5, 9, 12, 15, 14},
	{13, 11, 4, 1, 3, 15, 5, 9, 0, 10, 14, 7, 6, 8, 2, 12},
	{1, 15, 13, 0, 5, 7, 10, 4, 9, 2, 3, 14, 6, 11, 8, 12},
}

// SBoxCryptoPro3411 is id-GostR3411-94-CryptoProParamSet (RFC 4357).
var SBoxCryptoPro3411 = SBox{
	{10, 4, 5, 6, 8, 1, 3, 7, 13, 12, 14, 0, 9, 2, 11, 15},
	{5, 15, 4, 0, 2, 13, 11, 9, 1, 7, 6, 3, 12, 14, 10, 8},
	{7, 15, 12, 14, 9, 4, 1, 0, 3, 11, 5, 2, 6, 10, 8, 13},
	{4, 10, 7, 12, 0, 15, 2, 8, 14, 1, 6, 5, 13, 11, 9, 3},
	{7, 6, 4, 11, 9, 12, 2, 10, 1, 8, 0, 14, 15, 13, 3, 5},
	{7, 6, 2, 4, 13, 9, 15, 0, 10, 1, 5, 11, 8, 14, 12, 3},
	{13, 14, 4, 1, 7, 0, 5, 10, 3, 12, 8, 15, 6, 2, 9, 11},
	{1, 3, 10, 9, 5, 11, 4, 15, 8, 6, 7, 14, 13, 0, 2, 12},
}

// expanded merges pairs of 4-bit tables into byte tables, shifted and
// rotated into their final position, so a round costs four lookups.
type expanded [4][256]uint32

func (s *SBox) expand() *expanded {
	var e expanded
	for i := 0; i < 4; i++ {
		for v := 0; v < 256; v++ {
			lo := uint32(s[2*i][v&0x0F])
			hi := uint32(s[2*i+1][v>>4])
			e[i][v] = bits.RotateLeft32((hi<<4|lo)<<(8*i), 11)
		}
	}
	return &e
}

func (e *expanded) f(x uint32) uint32 {
	return e[0][x&0xFF] ^ e[1][x>>8&0xFF] ^ e[2][x>>16&0xFF] ^ e[3][x>>24]
}

// Cipher is a GOST 28147-89 instance bound to a key and an S-box.
// It implements cipher.Block.
type Cipher struct {
	k   [8]uint32
	box *expanded
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher returns a cipher for the 32-byte key. Key words are read
// little-endian.
func NewCipher(key []byte, box *SBox) (*Cipher, error) {
	c := &Cipher{box: box.expand()}
	if err := c.SetKey(key); err != nil {
		return nil, err
	}
	return c, nil
}

// SetKey replaces the key while keeping the expanded S-box, which is the
// costly part of NewCipher.
func (c *Cipher) SetKey(key []byte) error {
	if len(key) != KeySize {
		return ErrKeySize
	}
	for i := range c.k {
		c.k[i] = binary.LittleEndian.Uint32(key[4*i:])
	}
	return nil
}

func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt uses the key order K0..K7 three times, then K7..K0.
func (c *Cipher) Encrypt(dst, src []byte) {
	n1 := binary.LittleEndian.Uint32(src[0:])
	n2 := binary.LittleEndian.Uint32(src[4:])
	for r := 0; r < 3; r++ {
		for i := 0; i < 8; i += 2 {
			n2 ^= c.box.f(n1 + c.k[i])
			n1 ^= c.box.f(n2 + c.k[i+1])
		}
	}
	for i := 7; i > 0; i -= 2 {
		n2 ^= c.box.f(n1 + c.k[i])
		n1 ^= c.box.f(n2 + c.k[i-1])
	}
	binary.LittleEndian.PutUint32(dst[0:], n2)
	binary.LittleEndian.PutUint32(dst[4:], n1)
}

// Decrypt uses the key order K0..K7 once, then K7..K0 three times.
func (c *Cipher) Decrypt(dst, src []byte) {
	n1 := binary.LittleEndian.Uint32(src[0:])
	n2 := binary.LittleEndian.Uint32(src[4:])
	for i := 0; i < 8; i += 2 {
		n2 ^= c.box.f(n1 + c.k[i])
		n1 ^= c.box.f(n2 + c.k[i+1])
	}
	for r := 0; r < 3; r++ {
		for i := 7; i > 0; i -= 2 {
			n2 ^= c.box.f(n1 + c.k[i])
			n1 ^= c.box.f(n2 + c.k[i-1])
		}
	}
	binary.LittleEndian.PutUint32(dst[0:], n2)
	binary.LittleEndian.PutUint32(dst[4:], n1)
}
