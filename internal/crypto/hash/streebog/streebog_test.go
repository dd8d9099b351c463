package streebog

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// Examples 1 and 2 of GOST R 34.11-2012, with the message and digest byte
// orders of RFC 6986.
var (
	m1 = []byte("012345678901234567890123456789012345678901234567890123456789012")
	m2 = "d1e520e2e5f2f0e82c20d1f2f0e8e1eee6e820e2edf3f6e82c20e2e5fef2fa20f120eceef0ff20f1f2f0e5ebe0ece820ede020f5f0e0e1f0fbff20efebfaeafb20c8e3eef0e5e2fb"
)

func TestKnownAnswers(t *testing.T) {
	tests := []struct {
		name    string
		msg     []byte
		want256 string
		want512 string
	}{
		{
			name:    "M1",
			msg:     m1,
			want256: "9d151eefd8590b89daa6ba6cb74af9275dd051026bb149a452fd84e5e57b5500",
			want512: "1b54d01a4af5b9d5cc3d86d68d285462b19abc2475222f35c085122be4ba1ffa00ad30f8767b3a82384c6574f024c311e2a481332b08ef7f41797891c1646f48",
		},
		{
			name:    "M2",
			msg:     mustDecode(t, m2),
			want256: "9dd2fe4e90409e5da87f53976d7405b0c0cac628fc669a741d50063c557e8f50",
			want512: "1e88e62226bfca6f9994f1f2d51569e0daf8475a3b0fe61a5300eee46d961376035fe83549ada2b8620fcd7c496ce5b33f0cb9dddc2b6460143b03dabac9fb28",
		},
		{
			name:    "empty",
			msg:     nil,
			want256: "3f539a213e97c802cc229d474c6aa32a825a360b2a933a949fd925208d9ce1bb",
			want512: "8e945da209aa869f0455928529bcae4679e9873ab707b55315f56ceb98bef0a7362f715528356ee83cda5f2aac4c6ad2ba3a715c1bcd81cb8e9f90bf4c1c1a8a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s256 := Sum256(tt.msg)
			s512 := Sum512(tt.msg)
			assert.Equal(t, tt.want256, hex.EncodeToString(s256[:]))
			assert.Equal(t, tt.want512, hex.EncodeToString(s512[:]))

			h := New256()
			h.Write(tt.msg)
			assert.Equal(t, tt.want256, hex.EncodeToString(h.Sum(nil)))

			h = New512()
			h.Write(tt.msg)
			assert.Equal(t, tt.want512, hex.EncodeToString(h.Sum(nil)))
		})
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	// lengths around the block boundary exercise the padding and the
	// eager processing of a full buffer
	for _, n := range []int{0, 1, 63, 64, 65, 127, 128, 129, 1000} {
		msg := make([]byte, n)
		_, _ = rand.Read(msg)
		want := Sum512(msg)

		for _, chunk := range []int{1, 7, 63, 64, 100} {
			h := New512()
			for off := 0; off < n; off += chunk {
				end := off + chunk
				if end > n {
					end = n
				}
				h.Write(msg[off:end])
			}
			if got := h.Sum(nil); !bytes.Equal(got, want[:]) {
				t.Fatalf("len %d chunk %d: streaming digest differs", n, chunk)
			}
		}
	}
}

func TestSumDoesNotChangeState(t *testing.T) {
	h := New256()
	h.Write(m1[:10])
	first := h.Sum(nil)
	again := h.Sum(nil)
	assert.Equal(t, first, again)

	h.Write(m1[10:])
	want := Sum256(m1)
	assert.Equal(t, want[:], h.Sum(nil))

	h.Reset()
	h.Write(m1)
	assert.Equal(t, want[:], h.Sum(nil))

	prefix := []byte("prefix")
	assert.Equal(t, append([]byte("prefix"), want[:]...), h.Sum(prefix))
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 32, New256().Size())
	assert.Equal(t, 64, New512().Size())
	assert.Equal(t, 64, New256().BlockSize())
}

// RFC 7836 section A.1.
func TestHMAC(t *testing.T) {
	key := mustDecode(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	data := mustDecode(t, "0126bdb87800af214341456563780100")

	tests := []struct {
		name string
		h    func() hash.Hash
		want string
	}{
		{"256", New256, "a1aa5f7de402d7b3d323f2991c8d4534013137010a83754fd0af6d7cd4922ed9"},
		{"512", New512, "a59bab22ecae19c65fbde6e5f4e9f5d8549d31f037f9df9b905500e171923a773d5f1530f2ed7e964cb2eedc29e9ad2f3afe93b2814f79f5000ffc0366c251e6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mac := hmac.New(tt.h, key)
			mac.Write(data)
			assert.Equal(t, tt.want, hex.EncodeToString(mac.Sum(nil)))
		})
	}
}

func BenchmarkStreebog512(b *testing.B) {
	buf := make([]byte, 8192)
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		Sum512(buf)
	}
}
