// Package gost provides GOST R 34.10-2001/2012 signatures, GOST R 34.11
// hashing and VKO key agreement.
//
// Keys are bound to a DomainParameters value looked up by name or OID.
// Every failure is an *Error whose kind can be matched with errors.Is
// against the Err* variables of this package.
package gost

import (
	"github.com/smallyu/go-gost/internal/crypto/curves"
)

// DomainParameters is a curve with its base point, order and cofactor.
type DomainParameters = curves.DomainParameters

// Names of the built-in parameter sets.
const (
	ParamSet2001Test       = curves.Gost2001Test
	ParamSet2001CryptoProA = curves.Gost2001CryptoProA
	ParamSet2001CryptoProB = curves.Gost2001CryptoProB
	ParamSet2001CryptoProC = curves.Gost2001CryptoProC
	ParamSet256A           = curves.TC26Gost256A
	ParamSet512Test        = curves.TC26Gost512Test
	ParamSet512A           = curves.TC26Gost512A
	ParamSet512B           = curves.TC26Gost512B
	ParamSet512C           = curves.TC26Gost512C
)

// ParamsByName returns a built-in parameter set.
func ParamsByName(name string) (*DomainParameters, error) {
	d, err := curves.ByName(name)
	return d, wrapErr("params by name", nil, err)
}

// ParamsByOID returns a built-in parameter set by a dotted OID such as
// "1.2.643.7.1.2.1.1.1".
func ParamsByOID(oid string) (*DomainParameters, error) {
	d, err := curves.ByOID(oid)
	return d, wrapErr("params by oid", nil, err)
}

// AllParams lists the built-in parameter sets.
func AllParams() []*DomainParameters {
	return curves.All()
}
