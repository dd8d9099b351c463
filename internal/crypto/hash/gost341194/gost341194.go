// Package gost341194 implements the GOST R 34.11-94 hash function with the
// test and CryptoPro S-box parameter sets. Digests are 32 bytes in the
// little-endian order used by RFC 5831 and RFC 4357.
package gost341194

import (
	"hash"

	"github.com/smallyu/go-gost/internal/crypto/gost28147"
)

const (
	Size      = 32
	BlockSize = 32
)

// c3 is the constant C₃ of the key generation step, little-endian.
var c3 = [32]byte{
	0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff,
	0xff, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00,
	0x00, 0xff, 0xff, 0x00, 0xff, 0x00, 0x00, 0xff,
	0xff, 0x00, 0x00, 0x00, 0xff, 0xff, 0x00, 0xff,
}

// blockBits is 256, the bit length of one block, little-endian.
var blockBits = [32]byte{1: 0x01}

type digest struct {
	c     *gost28147.Cipher
	h     [32]byte
	sigma [32]byte
	bits  [32]byte // message length in bits, little-endian
	buf   [BlockSize]byte
	nx    int
}

// New returns a hash.Hash using id-GostR3411-94-CryptoProParamSet.
func New() hash.Hash {
	return NewWithSBox(&gost28147.SBoxCryptoPro3411)
}

// NewTest returns a hash.Hash using id-GostR3411-94-TestParamSet.
func NewTest() hash.Hash {
	return NewWithSBox(&gost28147.SBoxTest)
}

// NewWithSBox returns a hash.Hash using an arbitrary S-box.
func NewWithSBox(box *gost28147.SBox) hash.Hash {
	c, _ := gost28147.NewCipher(make([]byte, gost28147.KeySize), box)
	return &digest{c: c}
}

func (d *digest) Reset() {
	d.h = [32]byte{}
	d.sigma = [32]byte{}
	d.bits = [32]byte{}
	d.nx = 0
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return BlockSize }

func xor32(a, b *[32]byte) (out [32]byte) {
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// addMod256 sets a = a + b mod 2^256, both little-endian.
func addMod256(a *[32]byte, b []byte) {
	var carry uint16
	for i := range a {
		s := uint16(a[i]) + uint16(b[i]) + carry
		a[i] = byte(s)
		carry = s >> 8
	}
}

func transformA(y [32]byte) (out [32]byte) {
	copy(out[0:24], y[8:32])
	for i := 0; i < 8; i++ {
		out[24+i] = y[i] ^ y[8+i]
	}
	return out
}

func transformP(y [32]byte) (out [32]byte) {
	for i := 0; i < 4; i++ {
		for k := 0; k < 8; k++ {
			out[i+4*k] = y[8*i+k]
		}
	}
	return out
}

// psi is the linear feedback shuffle over sixteen 16-bit words.
func psi(y *[32]byte) {
	var lo, hi byte
	for _, w := range [...]int{0, 1, 2, 3, 12, 15} {
		lo ^= y[2*w]
		hi ^= y[2*w+1]
	}
	copy(y[:30], y[2:])
	y[30], y[31] = lo, hi
}

func (d *digest) step(h *[32]byte, m *[32]byte) {
	// 1. Key generation.
	var keys [4][32]byte
	u, v := *h, *m
	w := xor32(&u, &v)
	keys[0] = transformP(w)
	for j := 1; j < 4; j++ {
		u = transformA(u)
		if j == 2 {
			u = xor32(&u, &c3)
		}
		v = transformA(transformA(v))
		w = xor32(&u, &v)
		keys[j] = transformP(w)
	}

	// 2. Encryption of the four 64-bit words of h.
	var s [32]byte
	for i := 0; i < 4; i++ {
		_ = d.c.SetKey(keys[i][:])
		d.c.Encrypt(s[8*i:8*i+8], h[8*i:8*i+8])
	}

	// 3. Mixing.
	for i := 0; i < 12; i++ {
		psi(&s)
	}
	s = xor32(m, &s)
	psi(&s)
	s = xor32(h, &s)
	for i := 0; i < 61; i++ {
		psi(&s)
	}
	*h = s
}

func (d *digest) block(b []byte) {
	var m [32]byte
	copy(m[:], b)
	d.step(&d.h, &m)
	addMod256(&d.sigma, m[:])
	addMod256(&d.bits, blockBits[:])
}

func (d *digest) Write(p []byte) (int, error) {
	written := len(p)
	if d.nx > 0 {
		n := copy(d.buf[d.nx:], p)
		d.nx += n
		p = p[n:]
		if d.nx == BlockSize {
			d.block(d.buf[:])
			d.nx = 0
		}
	}
	for len(p) >= BlockSize {
		d.block(p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.nx = copy(d.buf[:], p)
	}
	return written, nil
}

// Sum appends the digest to in without changing the running state.
func (d *digest) Sum(in []byte) []byte {
	c := *d
	if c.nx > 0 {
		var m [32]byte
		copy(m[:], c.buf[:c.nx])
		c.step(&c.h, &m)
		addMod256(&c.sigma, m[:])
		var length [32]byte
		n := uint16(c.nx) * 8
		length[0], length[1] = byte(n), byte(n>>8)
		addMod256(&c.bits, length[:])
	}
	c.step(&c.h, &c.bits)
	c.step(&c.h, &c.sigma)
	return append(in, c.h[:]...)
}

// Sum returns the CryptoPro digest of data.
func Sum(data []byte) [Size]byte {
	d := New()
	d.Write(data)
	var out [Size]byte
	copy(out[:], d.Sum(nil))
	return out
}
