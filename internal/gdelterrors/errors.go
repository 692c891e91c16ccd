// Package gdelterrors defines the error taxonomy shared by every layer of
// the client (spec §7): a small set of sentinel kinds that callers can test
// with errors.Is, each wrapping the underlying cause.
package gdelterrors

import (
	"errors"
	"fmt"
)

// Kind is one of the taxonomy entries from spec §7.
type Kind string

const (
	KindConfiguration Kind = "configuration_error"
	KindAPI           Kind = "api_error"
	KindAPIUnavail    Kind = "api_unavailable"
	KindRateLimited   Kind = "rate_limited"
	KindParse         Kind = "parse_error"
	KindDecode        Kind = "decode_error"
	KindValidation    Kind = "validation_error"
	KindSecurity      Kind = "security_error"
)

// sentinels let callers do errors.Is(err, gdelterrors.ErrRateLimited).
var (
	ErrConfiguration = errors.New(string(KindConfiguration))
	ErrAPI           = errors.New(string(KindAPI))
	ErrAPIUnavail    = errors.New(string(KindAPIUnavail))
	ErrRateLimited   = errors.New(string(KindRateLimited))
	ErrParse         = errors.New(string(KindParse))
	ErrDecode        = errors.New(string(KindDecode))
	ErrValidation    = errors.New(string(KindValidation))
	ErrSecurity      = errors.New(string(KindSecurity))
)

func sentinelFor(k Kind) error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindAPI:
		return ErrAPI
	case KindAPIUnavail:
		return ErrAPIUnavail
	case KindRateLimited:
		return ErrRateLimited
	case KindParse:
		return ErrParse
	case KindDecode:
		return ErrDecode
	case KindValidation:
		return ErrValidation
	case KindSecurity:
		return ErrSecurity
	default:
		return ErrAPI
	}
}

// Error wraps a Kind, a human message, and an optional retry hint (e.g. from
// a server's Retry-After header, per §7's "rate_limited carries optional
// retry hint").
type Error struct {
	Kind      Kind
	Msg       string
	RetryHint string // opaque, e.g. "retry after 30s"; empty if none
	Cause     error
	HTTPCode  int // non-zero when Kind == KindAPI and the cause was an HTTP response
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return sentinelFor(e.Kind)
}

// Is lets errors.Is(err, gdelterrors.ErrRateLimited) succeed even when the
// *Error also wraps a distinct underlying cause.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func RateLimited(msg, retryHint string) *Error {
	return &Error{Kind: KindRateLimited, Msg: msg, RetryHint: retryHint}
}

// HTTPStatus builds a KindAPI error carrying the response status code, so
// callers classifying a FailedRequest's reason don't have to parse it back
// out of Msg.
func HTTPStatus(code int, msg string) *Error {
	return &Error{Kind: KindAPI, Msg: msg, HTTPCode: code}
}
