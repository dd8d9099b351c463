package gost

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-gost/internal/crypto/codec"
	"github.com/smallyu/go-gost/internal/crypto/curves"
	"github.com/smallyu/go-gost/internal/crypto/field"
	"github.com/smallyu/go-gost/internal/crypto/signature"
	"github.com/smallyu/go-gost/internal/crypto/vko"
)

// Error kinds returned by this package. Match them with errors.Is.
var (
	ErrInvalidOperand            = field.ErrInvalidOperand
	ErrInvalidPoint              = curves.ErrInvalidPoint
	ErrInvalidSignatureEncoding  = signature.ErrInvalidSignatureEncoding
	ErrMalformedEncoding         = codec.ErrMalformedEncoding
	ErrSignatureGenerationFailed = signature.ErrSignatureGenerationFailed
	ErrDegenerateSharedSecret    = vko.ErrDegenerateSharedSecret
	ErrMalformedDigest           = signature.ErrMalformedDigest
	ErrUnknownParamSet           = curves.ErrUnknownParamSet
	ErrInvalidParams             = curves.ErrInvalidParams
	ErrParamSetMismatch          = errors.New("gost: keys use different parameter sets")
)

// Error records the operation and parameter set that produced a failure.
type Error struct {
	Op       string
	ParamSet string
	Err      error
}

func (e *Error) Error() string {
	if e.ParamSet != "" {
		return fmt.Sprintf("gost: %s (%s): %v", e.Op, e.ParamSet, e.Err)
	}
	return fmt.Sprintf("gost: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapErr returns nil for a nil err.
func wrapErr(op string, params *DomainParameters, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{Op: op, Err: err}
	if params != nil {
		e.ParamSet = params.Name
	}
	return e
}
