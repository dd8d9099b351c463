package curves

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"go.uber.org/multierr"

	"github.com/smallyu/go-gost/internal/crypto/field"
)

var (
	// ErrUnknownParamSet is returned by ByName and ByOID for identifiers
	// that are not in the registry.
	ErrUnknownParamSet = errors.New("curves: unknown parameter set")
	// ErrInvalidParams wraps every violation reported by Validate.
	ErrInvalidParams = errors.New("curves: invalid domain parameters")
)

// Names of the built-in parameter sets.
const (
	Gost2001Test       = "id-GostR3410-2001-TestParamSet"
	Gost2001CryptoProA = "id-GostR3410-2001-CryptoPro-A-ParamSet"
	Gost2001CryptoProB = "id-GostR3410-2001-CryptoPro-B-ParamSet"
	Gost2001CryptoProC = "id-GostR3410-2001-CryptoPro-C-ParamSet"
	TC26Gost256A       = "id-tc26-gost-3410-2012-256-paramSetA"
	TC26Gost512Test    = "id-tc26-gost-3410-12-512-paramSetTest"
	TC26Gost512A       = "id-tc26-gost-3410-12-512-paramSetA"
	TC26Gost512B       = "id-tc26-gost-3410-12-512-paramSetB"
	TC26Gost512C       = "id-tc26-gost-3410-12-512-paramSetC"
)

// DomainParameters describes a curve y² = x³ + ax + b over F_p together with
// a base point G of prime order q. Values are immutable once constructed and
// may be shared between goroutines.
type DomainParameters struct {
	Name     string
	OIDs     []string
	P        *big.Int
	A        *big.Int
	B        *big.Int
	Q        *big.Int
	Cofactor *big.Int
	X        *big.Int // base point
	Y        *big.Int

	// PointSize is the byte width of one coordinate, ScalarSize the byte
	// width of a value mod q.
	PointSize  int
	ScalarSize int

	fp *field.Field
	fq *field.Field
	a  *field.Element
	b  *field.Element
	b3 *field.Element
	g  *Point
}

// NewDomainParameters builds a parameter set from its integers. It checks
// only what is needed to do arithmetic; call Validate for the full set of
// curve invariants.
func NewDomainParameters(name string, p, a, b, q, cofactor, x, y *big.Int) (*DomainParameters, error) {
	for _, v := range []*big.Int{p, a, b, q, cofactor, x, y} {
		if v == nil || v.Sign() < 0 {
			return nil, fmt.Errorf("%w: missing or negative value", ErrInvalidParams)
		}
	}
	fp, err := field.New(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	fq, err := field.New(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	ae, err := fp.FromBig(a)
	if err != nil {
		return nil, fmt.Errorf("%w: a is not below p", ErrInvalidParams)
	}
	be, err := fp.FromBig(b)
	if err != nil {
		return nil, fmt.Errorf("%w: b is not below p", ErrInvalidParams)
	}

	d := &DomainParameters{
		Name:       name,
		P:          new(big.Int).Set(p),
		A:          new(big.Int).Set(a),
		B:          new(big.Int).Set(b),
		Q:          new(big.Int).Set(q),
		Cofactor:   new(big.Int).Set(cofactor),
		X:          new(big.Int).Set(x),
		Y:          new(big.Int).Set(y),
		PointSize:  fp.Size(),
		ScalarSize: fq.Size(),
		fp:         fp,
		fq:         fq,
		a:          ae,
		b:          be,
		b3:         fp.Add(fp.Add(be, be), be),
	}
	g, err := d.NewPoint(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: base point: %v", ErrInvalidParams, err)
	}
	d.g = g
	return d, nil
}

// Validate checks the curve invariants and reports every violation.
func (d *DomainParameters) Validate() error {
	var err error
	if !d.P.ProbablyPrime(32) {
		err = multierr.Append(err, errors.New("p is not prime"))
	}
	if !d.Q.ProbablyPrime(32) {
		err = multierr.Append(err, errors.New("q is not prime"))
	}

	// 4a³ + 27b² != 0 mod p
	disc := new(big.Int).Exp(d.A, big.NewInt(3), d.P)
	disc.Mul(disc, big.NewInt(4))
	b2 := new(big.Int).Mul(d.B, d.B)
	b2.Mul(b2, big.NewInt(27))
	disc.Add(disc, b2)
	if disc.Mod(disc, d.P).Sign() == 0 {
		err = multierr.Append(err, errors.New("curve is singular"))
	}

	if !d.IsOnCurve(d.X, d.Y) {
		err = multierr.Append(err, errors.New("base point is not on the curve"))
	} else if !d.ScalarMult(d.Q, d.Generator()).IsInfinity() {
		err = multierr.Append(err, errors.New("base point order is not q"))
	}

	// Hasse: (h·q - p - 1)² <= 4p
	t := new(big.Int).Mul(d.Cofactor, d.Q)
	t.Sub(t, d.P)
	t.Sub(t, big.NewInt(1))
	t.Mul(t, t)
	if t.Cmp(new(big.Int).Lsh(d.P, 2)) > 0 {
		err = multierr.Append(err, errors.New("h·q is outside the Hasse interval"))
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParams, d.Name, err)
	}
	return nil
}

// Generator returns the base point G.
func (d *DomainParameters) Generator() *Point {
	return d.g
}

// Field returns the coordinate field F_p.
func (d *DomainParameters) Field() *field.Field {
	return d.fp
}

// ScalarField returns the field of integers mod q.
func (d *DomainParameters) ScalarField() *field.Field {
	return d.fq
}

// RandomScalar draws a value in [1, q-1] from rand. Candidates are
// ScalarSize bytes with the excess high bits cleared and are redrawn when
// out of range.
func (d *DomainParameters) RandomScalar(rand io.Reader) (*big.Int, error) {
	buf := make([]byte, d.ScalarSize)
	excess := uint(d.ScalarSize*8 - d.Q.BitLen())
	for i := 0; i < 128; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, err
		}
		buf[0] &= 0xFF >> excess
		k := new(big.Int).SetBytes(buf)
		if k.Sign() > 0 && k.Cmp(d.Q) < 0 {
			return k, nil
		}
	}
	return nil, errors.New("curves: random source keeps producing out-of-range scalars")
}

func (d *DomainParameters) String() string {
	return d.Name
}

type namedParams struct {
	name                string
	oids                []string
	p, a, b, q, h, x, y string
}

var builtin = []namedParams{
	{
		name: Gost2001Test,
		oids: []string{"1.2.643.2.2.35.0"},
		p:    "8000000000000000000000000000000000000000000000000000000000000431",
		a:    "7",
		b:    "5FBFF498AA938CE739B8E022FBAFEF40563F6E6A3472FC2A514C0CE9DAE23B7E",
		q:    "8000000000000000000000000000000150FE8A1892976154C59CFC193ACCF5B3",
		h:    "1",
		x:    "2",
		y:    "08E2A8A0E65147D4BD6316030E16D19C85C97F0A9CA267122B96ABBCEA7E8FC8",
	},
	{
		name: Gost2001CryptoProA,
		oids: []string{"1.2.643.2.2.35.1", "1.2.643.2.2.36.0", "1.2.643.7.1.2.1.1.2"},
		p:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD97",
		a:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD94",
		b:    "A6",
		q:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF6C611070995AD10045841B09B761B893",
		h:    "1",
		x:    "1",
		y:    "8D91E471E0989CDA27DF505A453F2B7635294F2DDF23E3B122ACC99C9E9F1E14",
	},
	{
		name: Gost2001CryptoProB,
		oids: []string{"1.2.643.2.2.35.2", "1.2.643.7.1.2.1.1.3"},
		p:    "8000000000000000000000000000000000000000000000000000000000000C99",
		a:    "8000000000000000000000000000000000000000000000000000000000000C96",
		b:    "3E1AF419A269A5F866A7D3C25C3DF80AE979259373FF2B182F49D4CE7E1BBC8B",
		q:    "800000000000000000000000000000015F700CFFF1A624E5E497161BCC8A198F",
		h:    "1",
		x:    "1",
		y:    "3FA8124359F96680B83D1C3EB2C070E5C545C9858D03ECFB744BF8D717717EFC",
	},
	{
		name: Gost2001CryptoProC,
		oids: []string{"1.2.643.2.2.35.3", "1.2.643.2.2.36.1", "1.2.643.7.1.2.1.1.4"},
		p:    "9B9F605F5A858107AB1EC85E6B41C8AACF846E86789051D37998F7B9022D759B",
		a:    "9B9F605F5A858107AB1EC85E6B41C8AACF846E86789051D37998F7B9022D7598",
		b:    "805A",
		q:    "9B9F605F5A858107AB1EC85E6B41C8AA582CA3511EDDFB74F02F3A6598980BB9",
		h:    "1",
		x:    "0",
		y:    "41ECE55743711A8C3CBF3783CD08C0EE4D4DC440D4641A8F366E550DFDB3BB67",
	},
	{
		name: TC26Gost256A,
		oids: []string{"1.2.643.7.1.2.1.1.1"},
		p:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD97",
		a:    "C2173F1513981673AF4892C23035A27CE25E2013BF95AA33B22C656F277E7335",
		b:    "295F9BAE7428ED9CCC20E7C359A9D41A22FCCD9108E17BF7BA9337A6F8AE9513",
		q:    "400000000000000000000000000000000FD8CDDFC87B6635C115AF556C360C67",
		h:    "4",
		x:    "91E38443A5E82C0D880923425712B2BB658B9196932E02C78B2582FE742DAA28",
		y:    "32879423AB1A0375895786C4BB46E9565FDE0B5344766740AF268ADB32322E5C",
	},
	{
		name: TC26Gost512Test,
		oids: []string{"1.2.643.7.1.2.1.2.0"},
		p:    "4531ACD1FE0023C7550D267B6B2FEE80922B14B2FFB90F04D4EB7C09B5D2D15DF1D852741AF4704A0458047E80E4546D35B8336FAC224DD81664BBF528BE6373",
		a:    "7",
		b:    "1CFF0806A31116DA29D8CFA54E57EB748BC5F377E49400FDD788B649ECA1AC4361834013B2AD7322480A89CA58E0CF74BC9E540C2ADD6897FAD0A3084F302ADC",
		q:    "4531ACD1FE0023C7550D267B6B2FEE80922B14B2FFB90F04D4EB7C09B5D2D15DA82F2D7ECB1DBAC719905C5EECC423F1D86E25EDBE23C595D644AAF187E6E6DF",
		h:    "1",
		x:    "24D19CC64572EE30F396BF6EBBFD7A6C5213B3B3D7057CC825F91093A68CD762FD60611262CD838DC6B60AA7EEE804E28BC849977FAC33B4B530F1B120248A9A",
		y:    "2BB312A43BD2CE6E0D020613C857ACDDCFBF061E91E5F2C3F32447C259F39B2C83AB156D77F1496BF7EB3351E1EE4E43DC1A18B91B24640B6DBB92CB1ADD371E",
	},
	{
		name: TC26Gost512A,
		oids: []string{"1.2.643.7.1.2.1.2.1"},
		p:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFDC7",
		a:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFDC4",
		b:    "E8C2505DEDFC86DDC1BD0B2B6667F1DA34B82574761CB0E879BD081CFD0B6265EE3CB090F30D27614CB4574010DA90DD862EF9D4EBEE4761503190785A71C760",
		q:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF27E69532F48D89116FF22B8D4E0560609B4B38ABFAD2B85DCACDB1411F10B275",
		h:    "1",
		x:    "3",
		y:    "7503CFE87A836AE3A61B8816E25450E6CE5E1C93ACF1ABC1778064FDCBEFA921DF1626BE4FD036E93D75E6A50E3A41E98028FE5FC235F5B889A589CB5215F2A4",
	},
	{
		name: TC26Gost512B,
		oids: []string{"1.2.643.7.1.2.1.2.2"},
		p:    "8000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000006F",
		a:    "8000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000006C",
		b:    "687D1B459DC841457E3E06CF6F5E2517B97C7D614AF138BCBF85DC806C4B289F3E965D2DB1416D217F8B276FAD1AB69C50F78BEE1FA3106EFB8CCBC7C5140116",
		q:    "800000000000000000000000000000000000000000000000000000000000000149A1EC142565A545ACFDB77BD9D40CFA8B996712101BEA0EC6346C54374F25BD",
		h:    "1",
		x:    "2",
		y:    "1A8F7EDA389B094C2C071E3647A8940F3C123B697578C213BE6DD9E6C8EC7335DCB228FD1EDF4A39152CBCAAF8C0398828041055F94CEEEC7E21340780FE41BD",
	},
	{
		name: TC26Gost512C,
		oids: []string{"1.2.643.7.1.2.1.2.3"},
		p:    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFDC7",
		a:    "DC9203E514A721875485A529D2C722FB187BC8980EB866644DE41C68E143064546E861C0E2C9EDD92ADE71F46FCF50FF2AD97F951FDA9F2A2EB6546F39689BD3",
		b:    "B4C4EE28CEBC6C2C8AC12952CF37F16AC7EFB6A9F69F4B57FFDA2E4F0DE5ADE038CBC2FFF719D2C18DE0284B8BFEF3B52B8CC7A5F5BF0A3C8D2319A5312557E1",
		q:    "3FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC98CDBA46506AB004C33A9FF5147502CC8EDA9E7A769A12694623CEF47F023ED",
		h:    "4",
		x:    "E2E31EDFC23DE7BDEBE241CE593EF5DE2295B7A9CBAEF021D385F7074CEA043AA27272A7AE602BF2A7B9033DB9ED3610C6FB85487EAE97AAC5BC7928C1950148",
		y:    "F5CE40D95B5EB899ABBCCFF5911CB8577939804D6527378B8C108C3D2090FF9BE18E2D33E3021ED2EF32D85822423B6304F726AA854BAE07D0396E9A9ADDC40F",
	},
}

var (
	registryOnce sync.Once
	byName       map[string]*DomainParameters
	byOID        map[string]*DomainParameters
	ordered      []*DomainParameters
)

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: bad constant " + s)
	}
	return v
}

func loadRegistry() {
	byName = make(map[string]*DomainParameters, len(builtin))
	byOID = make(map[string]*DomainParameters)
	for _, np := range builtin {
		d, err := NewDomainParameters(np.name,
			mustHex(np.p), mustHex(np.a), mustHex(np.b), mustHex(np.q),
			mustHex(np.h), mustHex(np.x), mustHex(np.y))
		if err != nil {
			panic(err)
		}
		d.OIDs = np.oids
		byName[d.Name] = d
		for _, oid := range d.OIDs {
			byOID[oid] = d
		}
		ordered = append(ordered, d)
	}
}

// ByName returns a built-in parameter set by its registered name.
func ByName(name string) (*DomainParameters, error) {
	registryOnce.Do(loadRegistry)
	d, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParamSet, name)
	}
	return d, nil
}

// ByOID returns a built-in parameter set by a dotted object identifier.
func ByOID(oid string) (*DomainParameters, error) {
	registryOnce.Do(loadRegistry)
	d, ok := byOID[oid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParamSet, oid)
	}
	return d, nil
}

// MustByName is like ByName but panics on unknown names. It is meant for
// the constants declared in this package.
func MustByName(name string) *DomainParameters {
	d, err := ByName(name)
	if err != nil {
		panic(err)
	}
	return d
}

// All returns every built-in parameter set in registration order.
func All() []*DomainParameters {
	registryOnce.Do(loadRegistry)
	out := make([]*DomainParameters, len(ordered))
	copy(out, ordered)
	return out
}
