// Package streebog implements the GOST R 34.11-2012 hash function
// (Streebog) with 256- and 512-bit outputs.
//
// Digests are returned as the byte strings published in the standard's
// examples and in RFC 6986.
package streebog

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

const (
	// BlockSize is the compression block size in bytes.
	BlockSize = 64
	Size256   = 32
	Size512   = 64
)

// lpsTable combines the s, p and l transforms: entry [k][v] is the l image
// of byte v placed at position k after the s and p steps.
var lpsTable = func() (t [8][256]uint64) {
	for k := 0; k < 8; k++ {
		for v := 0; v < 256; v++ {
			in := uint64(pi[v]) << (8 * k)
			var r uint64
			for b := 0; b < 64; b++ {
				if in>>b&1 == 1 {
					r ^= linear[63-b]
				}
			}
			t[k][v] = r
		}
	}
	return t
}()

type block = [8]uint64

// lpsx computes LPS(x ⊕ y).
func lpsx(x, y *block) block {
	var t, out block
	for i := range t {
		t[i] = x[i] ^ y[i]
	}
	for i := 0; i < 8; i++ {
		sh := 8 * uint(i)
		out[i] = lpsTable[0][byte(t[0]>>sh)] ^
			lpsTable[1][byte(t[1]>>sh)] ^
			lpsTable[2][byte(t[2]>>sh)] ^
			lpsTable[3][byte(t[3]>>sh)] ^
			lpsTable[4][byte(t[4]>>sh)] ^
			lpsTable[5][byte(t[5]>>sh)] ^
			lpsTable[6][byte(t[6]>>sh)] ^
			lpsTable[7][byte(t[7]>>sh)]
	}
	return out
}

// compress is g_N(h, m) = E(LPS(h ⊕ N), m) ⊕ h ⊕ m.
func compress(h *block, n, m *block) {
	k := lpsx(h, n)
	t := *m
	for i := 0; i < 12; i++ {
		t = lpsx(&k, &t)
		k = lpsx(&k, &roundConstants[i])
	}
	for i := range h {
		h[i] ^= k[i] ^ t[i] ^ m[i]
	}
}

// add512 sets a = a + b mod 2^512.
func add512(a, b *block) {
	var carry uint64
	for i := range a {
		a[i], carry = bits.Add64(a[i], b[i], carry)
	}
}

func load(b []byte) block {
	var m block
	for i := range m {
		m[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	return m
}

type digest struct {
	size  int
	h     block
	n     block // processed length in bits
	sigma block // sum of processed blocks
	buf   [BlockSize]byte
	nx    int
}

// New256 returns a hash.Hash computing the 256-bit Streebog digest.
func New256() hash.Hash {
	d := &digest{size: Size256}
	d.Reset()
	return d
}

// New512 returns a hash.Hash computing the 512-bit Streebog digest.
func New512() hash.Hash {
	d := &digest{size: Size512}
	d.Reset()
	return d
}

func (d *digest) Reset() {
	var iv uint64
	if d.size == Size256 {
		iv = 0x0101010101010101
	}
	for i := range d.h {
		d.h[i] = iv
	}
	d.n = block{}
	d.sigma = block{}
	d.nx = 0
}

func (d *digest) Size() int      { return d.size }
func (d *digest) BlockSize() int { return BlockSize }

var fullBlockBits = block{512}

func (d *digest) processBlock(b []byte) {
	m := load(b)
	compress(&d.h, &d.n, &m)
	add512(&d.n, &fullBlockBits)
	add512(&d.sigma, &m)
}

func (d *digest) Write(p []byte) (int, error) {
	written := len(p)
	if d.nx > 0 {
		n := copy(d.buf[d.nx:], p)
		d.nx += n
		p = p[n:]
		if d.nx == BlockSize {
			d.processBlock(d.buf[:])
			d.nx = 0
		}
	}
	for len(p) >= BlockSize {
		d.processBlock(p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.nx = copy(d.buf[:], p)
	}
	return written, nil
}

// Sum appends the digest to in. The running state is not modified.
func (d *digest) Sum(in []byte) []byte {
	c := *d
	out := c.finish()
	return append(in, out...)
}

func (d *digest) finish() []byte {
	var pad [BlockSize]byte
	copy(pad[:], d.buf[:d.nx])
	pad[d.nx] = 0x01
	m := load(pad[:])

	compress(&d.h, &d.n, &m)
	length := block{uint64(d.nx) * 8}
	add512(&d.n, &length)
	add512(&d.sigma, &m)

	var zero block
	compress(&d.h, &zero, &d.n)
	compress(&d.h, &zero, &d.sigma)

	out := make([]byte, Size512)
	for i, w := range d.h {
		binary.LittleEndian.PutUint64(out[8*i:], w)
	}
	if d.size == Size256 {
		return out[Size256:]
	}
	return out
}

// Sum256 returns the 256-bit digest of data.
func Sum256(data []byte) [Size256]byte {
	d := digest{size: Size256}
	d.Reset()
	_, _ = d.Write(data)
	var out [Size256]byte
	copy(out[:], d.finish())
	return out
}

// Sum512 returns the 512-bit digest of data.
func Sum512(data []byte) [Size512]byte {
	d := digest{size: Size512}
	d.Reset()
	_, _ = d.Write(data)
	var out [Size512]byte
	copy(out[:], d.finish())
	return out
}
