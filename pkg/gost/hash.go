package gost

import (
	"hash"
	"io"

	"github.com/smallyu/go-gost/internal/crypto/hash/gost341194"
	"github.com/smallyu/go-gost/internal/crypto/hash/streebog"
)

// NewHash256 returns a GOST R 34.11-2012 hash with a 256-bit output.
func NewHash256() hash.Hash { return streebog.New256() }

// NewHash512 returns a GOST R 34.11-2012 hash with a 512-bit output.
func NewHash512() hash.Hash { return streebog.New512() }

// NewHash94 returns a GOST R 34.11-94 hash with the CryptoPro S-box.
func NewHash94() hash.Hash { return gost341194.New() }

// NewHash94Test returns a GOST R 34.11-94 hash with the test S-box.
func NewHash94Test() hash.Hash { return gost341194.NewTest() }

// HashFor returns the GOST R 34.11-2012 variant whose output matches the
// key size of params.
func HashFor(params *DomainParameters) hash.Hash {
	if params.PointSize > streebog.Size256 {
		return streebog.New512()
	}
	return streebog.New256()
}

// HashReader feeds r into h until EOF and returns the digest.
func HashReader(h hash.Hash, r io.Reader) ([]byte, error) {
	if _, err := io.Copy(h, r); err != nil {
		return nil, wrapErr("hash", nil, err)
	}
	return h.Sum(nil), nil
}
