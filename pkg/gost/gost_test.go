package gost

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smallyu/go-gost/internal/crypto/codec"
)

func hexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic(s)
	}
	return v
}

func mustParams(t *testing.T, name string) *DomainParameters {
	t.Helper()
	params, err := ParamsByName(name)
	require.NoError(t, err)
	return params
}

func mustKey(t *testing.T, params *DomainParameters) *PrivateKey {
	t.Helper()
	k, err := GenerateKey(params, rand.Reader)
	require.NoError(t, err)
	return k
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source closed")
}

func TestParams(t *testing.T) {
	assert.Len(t, AllParams(), 9)

	p, err := ParamsByOID("1.2.643.7.1.2.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, ParamSet256A, p.Name)

	_, err = ParamsByName("no-such-set")
	assert.ErrorIs(t, err, ErrUnknownParamSet)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "params by name", gerr.Op)
}

// GOST R 34.10-2001 example: d, Q, e, k and the resulting (r, s).
func TestKnownAnswer2001(t *testing.T) {
	params := mustParams(t, ParamSet2001Test)
	d := hexInt("7A929ADE789BB9BE10ED359DD39A72C11B60961F49397EEE1D19CE9891EC3B28")
	e := "2DFBC1B372D89A1188C09C52E0EEC61FCE52032AB1022E8E67ECE6672B043EE5"
	k := "77105C9B20BCD3122823C8CF6FCC7B956DE33814E95B7FE64FED924594DCEAB3"
	want := "01456C64BA4642A1653C235A98A60249BCD6D3F746B631DF928014F6C5BF9C40" +
		"41AA28D2F1AB148280CD9ED56FEDA41974053554A42767B83AD043FD39DC0493"

	prv, err := NewPrivateKey(params, d)
	require.NoError(t, err)
	pub := prv.Public()
	assert.Equal(t, 0, pub.X().Cmp(hexInt("7F2B49E270DB6D90D8595BEC458B50C58585BA1D4E9B788F6689DBD8E56FD80B")))
	assert.Equal(t, 0, pub.Y().Cmp(hexInt("26F1B489D6701DD185C8413A977B3CBBAF64D1C593D26627DFFB101A87FF77DA")))

	digest, _ := hex.DecodeString(e)
	nonce, _ := hex.DecodeString(k)
	sig, err := NewSigner(prv, WithRand(bytes.NewReader(nonce))).SignDigest(digest)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(want), hex.EncodeToString(sig))

	ok, err := pub.VerifyDigest(digest, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	// SignHash takes the little-endian hash vector
	ok, err = pub.VerifyHash(codec.Reverse(digest), sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignVerifyAllParams(t *testing.T) {
	msg := []byte("Съешь же ещё этих мягких французских булок")
	for _, params := range AllParams() {
		t.Run(params.Name, func(t *testing.T) {
			prv := mustKey(t, params)
			signer := NewSigner(prv)

			sig, err := signer.HashAndSign(msg)
			require.NoError(t, err)
			assert.Len(t, sig, 2*params.ScalarSize)

			ok, err := prv.Public().HashAndVerify(msg, sig)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = prv.Public().HashAndVerify(append(msg, '!'), sig)
			require.NoError(t, err)
			assert.False(t, ok)

			other := mustKey(t, params)
			ok, err = other.Public().HashAndVerify(msg, sig)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBitFlips(t *testing.T) {
	params := mustParams(t, ParamSet2001CryptoProA)
	prv := mustKey(t, params)
	pub := prv.Public()

	digest := make([]byte, 32)
	_, err := rand.Read(digest)
	require.NoError(t, err)
	sig, err := NewSigner(prv).SignDigest(digest)
	require.NoError(t, err)

	for bit := 0; bit < len(sig)*8; bit += 13 {
		flipped := append([]byte(nil), sig...)
		flipped[bit/8] ^= 1 << (bit % 8)
		ok, err := pub.VerifyDigest(digest, flipped)
		if err != nil {
			// the flip pushed r or s out of [1, q-1]
			assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)
			continue
		}
		assert.False(t, ok, "signature bit %d", bit)
	}

	for bit := 0; bit < len(digest)*8; bit += 11 {
		flipped := append([]byte(nil), digest...)
		flipped[bit/8] ^= 1 << (bit % 8)
		ok, err := pub.VerifyDigest(flipped, sig)
		require.NoError(t, err)
		assert.False(t, ok, "digest bit %d", bit)
	}
}

func TestKeyEncodings(t *testing.T) {
	for _, name := range []string{ParamSet2001CryptoProA, ParamSet512A} {
		params := mustParams(t, name)
		one := big.NewInt(1)
		qMinus1 := new(big.Int).Sub(params.Q, one)

		for label, d := range map[string]*big.Int{"1": one, "q-1": qMinus1} {
			t.Run(name+"/"+label, func(t *testing.T) {
				prv, err := NewPrivateKey(params, d)
				require.NoError(t, err)

				back, err := ParsePrivateKey(params, prv.Bytes())
				require.NoError(t, err)
				assert.True(t, prv.Equal(back))

				back, err = NewPrivateKeyRaw(params, prv.Raw())
				require.NoError(t, err)
				assert.True(t, prv.Equal(back))

				der, err := prv.MarshalASN1()
				require.NoError(t, err)
				back, err = ParsePrivateKeyASN1(params, der)
				require.NoError(t, err)
				assert.True(t, prv.Equal(back))

				pub := prv.Public()
				pubBack, err := ParsePublicKey(params, pub.Bytes())
				require.NoError(t, err)
				assert.True(t, pub.Equal(pubBack))

				pubBack, err = NewPublicKeyRaw(params, pub.Raw())
				require.NoError(t, err)
				assert.True(t, pub.Equal(pubBack))

				der, err = pub.MarshalASN1()
				require.NoError(t, err)
				pubBack, err = ParsePublicKeyASN1(params, der)
				require.NoError(t, err)
				assert.True(t, pub.Equal(pubBack))
			})
		}
	}

	t.Run("G and -G", func(t *testing.T) {
		params := mustParams(t, ParamSet256A)
		g, err := NewPrivateKey(params, big.NewInt(1))
		require.NoError(t, err)
		negG, err := NewPrivateKey(params, new(big.Int).Sub(params.Q, big.NewInt(1)))
		require.NoError(t, err)
		assert.Equal(t, 0, g.Public().X().Cmp(params.X))
		assert.Equal(t, 0, negG.Public().X().Cmp(params.X))
		assert.Equal(t, 0, negG.Public().Y().Cmp(new(big.Int).Sub(params.P, params.Y)))
	})
}

func TestPrivateKeyASN1Integer(t *testing.T) {
	params := mustParams(t, ParamSet256A)
	// INTEGER 0x0102
	prv, err := ParsePrivateKeyASN1(params, []byte{0x02, 0x02, 0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, int64(0x0102), prv.D().Int64())

	// INTEGER 0
	_, err = ParsePrivateKeyASN1(params, []byte{0x02, 0x01, 0x00})
	assert.ErrorIs(t, err, ErrMalformedEncoding)

	// trailing data
	_, err = ParsePrivateKeyASN1(params, []byte{0x02, 0x01, 0x05, 0x00})
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestEncodingRejections(t *testing.T) {
	params := mustParams(t, ParamSet2001CryptoProA)
	prv := mustKey(t, params)
	pub := prv.Public()

	t.Run("private key out of range", func(t *testing.T) {
		_, err := ParsePrivateKey(params, make([]byte, params.ScalarSize))
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		q, _ := codec.EncodeInt(params.Q, params.ScalarSize)
		_, err = ParsePrivateKey(params, q)
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		_, err = NewPrivateKey(params, params.Q)
		assert.ErrorIs(t, err, ErrInvalidOperand)
	})

	t.Run("truncated buffers", func(t *testing.T) {
		_, err := ParsePrivateKey(params, prv.Bytes()[1:])
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		_, err = ParsePublicKey(params, pub.Bytes()[1:])
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		_, err = NewPublicKeyRaw(params, pub.Raw()[:10])
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		_, err = ParseSignature(params, make([]byte, 63))
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		_, err = ParsePublicKeyASN1(params, []byte{0x04, 0x40, 0x01})
		assert.ErrorIs(t, err, ErrMalformedEncoding)
	})

	t.Run("off-curve point", func(t *testing.T) {
		b := pub.Bytes()
		b[len(b)-1] ^= 1
		_, err := ParsePublicKey(params, b)
		assert.ErrorIs(t, err, ErrMalformedEncoding)

		_, err = NewPublicKey(params, pub.X(), new(big.Int).Add(pub.Y(), big.NewInt(1)))
		assert.ErrorIs(t, err, ErrInvalidPoint)

		_, err = ParsePublicKey(params, make([]byte, 2*params.PointSize))
		assert.ErrorIs(t, err, ErrMalformedEncoding)
	})
}

func TestSignatureEncoding(t *testing.T) {
	params := mustParams(t, ParamSet512B)
	one := big.NewInt(1)
	qMinus1 := new(big.Int).Sub(params.Q, one)

	for _, pair := range [][2]*big.Int{{one, one}, {one, qMinus1}, {qMinus1, one}, {qMinus1, qMinus1}} {
		sig, err := NewSignature(params, pair[0], pair[1])
		require.NoError(t, err)
		b := sig.Bytes()
		require.Len(t, b, 2*params.ScalarSize)

		back, err := ParseSignature(params, b)
		require.NoError(t, err)
		assert.Equal(t, 0, back.R().Cmp(pair[0]))
		assert.Equal(t, 0, back.S().Cmp(pair[1]))
	}

	_, err := NewSignature(params, big.NewInt(0), one)
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)

	_, err = ParseSignature(params, make([]byte, 2*params.ScalarSize))
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)

	// s ‖ r: the first half is s
	sig, err := NewSignature(params, one, big.NewInt(2))
	require.NoError(t, err)
	b := sig.Bytes()
	assert.Equal(t, byte(2), b[params.ScalarSize-1])
	assert.Equal(t, byte(1), b[len(b)-1])

	// a Signature not built by this package has no parameter set
	var zero Signature
	assert.Nil(t, zero.Bytes())
	assert.Nil(t, zero.R())
	assert.Nil(t, zero.S())
	assert.Nil(t, (*Signature)(nil).Bytes())
}

func TestSignAndVerifyFunctions(t *testing.T) {
	params := mustParams(t, ParamSet2001CryptoProB)
	prv := mustKey(t, params)
	digest := []byte{0xde, 0xad, 0xbe, 0xef}

	sig, err := Sign(prv, digest, rand.Reader)
	require.NoError(t, err)
	ok, err := Verify(prv.Public(), digest, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Verify(prv.Public(), digest, nil)
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)

	ok, err = Verify(prv.Public(), digest, &Signature{})
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)
	assert.False(t, ok)

	_, err = Verify(nil, digest, sig)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = Sign(nil, digest, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidOperand)
	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "sign", gerr.Op)

	other := mustKey(t, mustParams(t, ParamSet2001CryptoProA))
	_, err = Verify(other.Public(), digest, sig)
	assert.ErrorIs(t, err, ErrParamSetMismatch)

	sig, err = Sign(prv, digest, nil)
	require.NoError(t, err)
	ok, err = Verify(prv.Public(), digest, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Sign(prv, nil, rand.Reader)
	assert.ErrorIs(t, err, ErrMalformedDigest)

	_, err = Sign(prv, make([]byte, params.PointSize+1), rand.Reader)
	assert.ErrorIs(t, err, ErrMalformedDigest)

	// a zero digest is signed as e = 1
	sig, err = Sign(prv, make([]byte, 32), rand.Reader)
	require.NoError(t, err)
	ok, err = Verify(prv.Public(), []byte{1}, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

// A byte stream is hashed with GOST R 34.11-94, the hash is signed with a
// 2001 key and the signature is checked against the same stream.
func TestStreamHashSignVerify(t *testing.T) {
	params := mustParams(t, ParamSet2001CryptoProA)
	prv := mustKey(t, params)
	data := bytes.Repeat([]byte("GOST R 34.11-94 stream "), 300)

	hash, err := HashReader(NewHash94(), iotest.OneByteReader(bytes.NewReader(data)))
	require.NoError(t, err)
	require.Len(t, hash, 32)

	sig, err := NewSigner(prv).SignHash(hash)
	require.NoError(t, err)

	again, err := HashReader(NewHash94(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	ok, err := prv.Public().VerifyHash(again, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	tampered := append([]byte(nil), data...)
	tampered[len(tampered)/2] ^= 0x20
	other, err := HashReader(NewHash94(), bytes.NewReader(tampered))
	require.NoError(t, err)
	ok, err = prv.Public().VerifyHash(other, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignerOptions(t *testing.T) {
	params := mustParams(t, ParamSet256A)
	prv := mustKey(t, params)

	t.Run("random source failure", func(t *testing.T) {
		signer := NewSigner(prv, WithRand(failingReader{}), WithMaxRetries(0))
		_, err := signer.SignDigest([]byte{1})
		assert.ErrorIs(t, err, ErrSignatureGenerationFailed)

		var gerr *Error
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, "sign digest", gerr.Op)
		assert.Equal(t, ParamSet256A, gerr.ParamSet)
	})

	t.Run("logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		signer := NewSigner(prv, WithLogger(zap.New(core)))
		_, err := signer.SignDigest(nil)
		assert.ErrorIs(t, err, ErrMalformedDigest)

		entries := logs.FilterMessage("digest rejected").All()
		require.Len(t, entries, 1)
		assert.Equal(t, ParamSet256A, entries[0].ContextMap()["paramset"])
	})

	t.Run("nil logger", func(t *testing.T) {
		signer := NewSigner(prv, WithLogger(nil))
		_, err := signer.SignDigest([]byte{1})
		assert.NoError(t, err)
	})

	t.Run("zeroized key", func(t *testing.T) {
		k := mustKey(t, params)
		signer := NewSigner(k)
		k.Zeroize()
		assert.Equal(t, 0, k.D().Sign())
		_, err := signer.SignDigest([]byte{1})
		assert.ErrorIs(t, err, ErrInvalidOperand)
	})
}

func TestSignBatch(t *testing.T) {
	params := mustParams(t, ParamSet512C)
	prv := mustKey(t, params)
	digests := [][]byte{{1}, bytes.Repeat([]byte{0xff}, 64), []byte("batch")}

	sigs, err := NewSigner(prv).SignBatch(digests)
	require.NoError(t, err)
	require.Len(t, sigs, len(digests))
	for i, sig := range sigs {
		ok, err := prv.Public().VerifyDigest(digests[i], sig)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err = NewSigner(prv).SignBatch([][]byte{{1}, {}})
	assert.ErrorIs(t, err, ErrMalformedDigest)
}

func TestHashReader(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 100)
	got, err := HashReader(NewHash512(), bytes.NewReader(data))
	require.NoError(t, err)
	h := NewHash512()
	h.Write(data)
	assert.Equal(t, h.Sum(nil), got)

	_, err = HashReader(NewHash256(), failingReader{})
	assert.Error(t, err)

	assert.Equal(t, 32, HashFor(mustParams(t, ParamSet2001CryptoProC)).Size())
	assert.Equal(t, 64, HashFor(mustParams(t, ParamSet512Test)).Size())
	assert.Equal(t, 32, NewHash94().Size())
	assert.Equal(t, 32, NewHash94Test().Size())
}

func TestSharedSecretKnownAnswer(t *testing.T) {
	params := mustParams(t, ParamSet2001CryptoProA)
	a, err := NewPrivateKey(params, hexInt("b938451ee325faa633406bc44dc2a627940eee3cba6f875c2e84496e7857dd87"))
	require.NoError(t, err)
	b, err := NewPrivateKey(params, hexInt("a2da95a83ec33dd6887e840043e58844c2354e2bb7740a63c1d8fac168fb90d8"))
	require.NoError(t, err)

	want := "f9151fe8a3da57484fa07f31d0037d0ab2b96a5a8e71565af138c96eb0102ff8"
	s1, err := DeriveSharedSecret(a, b.Public())
	require.NoError(t, err)
	assert.Equal(t, want, hex.EncodeToString(s1))
	s2, err := b.DeriveSharedSecret(a.Public())
	require.NoError(t, err)
	assert.Equal(t, want, hex.EncodeToString(s2))

	ukm, _ := hex.DecodeString("1d80603c8544c727")
	k2001, err := KEK2001(a, b.Public(), ukm)
	require.NoError(t, err)
	assert.Equal(t, "d1266832e556db35a8b1a02fe307719905f46d989a0e06f157911aa8952639e8", hex.EncodeToString(k2001))
}

func TestKeyAgreement(t *testing.T) {
	ukm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	for _, params := range AllParams() {
		t.Run(params.Name, func(t *testing.T) {
			a, b := mustKey(t, params), mustKey(t, params)

			for _, kek := range []func(*PrivateKey, *PublicKey, []byte) ([]byte, error){KEK2001, KEK2012256, KEK2012512} {
				ab, err := kek(a, b.Public(), ukm)
				require.NoError(t, err)
				ba, err := kek(b, a.Public(), ukm)
				require.NoError(t, err)
				assert.Equal(t, ab, ba)
			}

			k1, err := DeriveKey(a, b.Public(), ukm, []byte("label"), []byte("seed"))
			require.NoError(t, err)
			k2, err := DeriveKey(b, a.Public(), ukm, []byte("label"), []byte("seed"))
			require.NoError(t, err)
			assert.Equal(t, k1, k2)
			assert.Len(t, k1, 32)

			t1, err := DeriveKeyTree(a, b.Public(), ukm, []byte("label"), []byte("seed"), 1, 80)
			require.NoError(t, err)
			t2, err := DeriveKeyTree(b, a.Public(), ukm, []byte("label"), []byte("seed"), 1, 80)
			require.NoError(t, err)
			assert.Equal(t, t1, t2)
			assert.Len(t, t1, 80)
		})
	}
}

func TestKeyAgreementRejections(t *testing.T) {
	a := mustKey(t, mustParams(t, ParamSet256A))
	other := mustKey(t, mustParams(t, ParamSet2001CryptoProA))

	_, err := DeriveSharedSecret(a, other.Public())
	assert.ErrorIs(t, err, ErrParamSetMismatch)

	_, err = DeriveSharedSecret(a, nil)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	// a multiple of q as UKM collapses the shared point
	ukm := codec.Reverse(a.Params().Q.Bytes())
	_, err = KEK2012256(a, a.Public(), ukm)
	assert.ErrorIs(t, err, ErrDegenerateSharedSecret)

	_, err = DeriveKeyTree(a, a.Public(), nil, nil, nil, 0, 32)
	assert.ErrorIs(t, err, ErrInvalidLength)
}
