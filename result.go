package gdelt

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// Reason classifies why a single URL's fetch failed (spec §4 glossary:
// "FailedRequest — { url, reason, attempts }").
type Reason string

const (
	ReasonRateLimited Reason = "rate_limited"
	ReasonHTTPError   Reason = "http_error"
	ReasonTimeout     Reason = "timeout"
	ReasonDecodeError Reason = "decode_error"
	ReasonParseError  Reason = "parse_error"
	ReasonUnknown     Reason = "api_error"
)

// FailedRequest records one URL this client gave up on under a non-raising
// error_policy. Code is the HTTP status when Reason is ReasonHTTPError,
// zero otherwise.
type FailedRequest struct {
	URL      string
	Reason   Reason
	Code     int
	Attempts int
	Err      error
}

func (f FailedRequest) String() string {
	if f.Reason == ReasonHTTPError && f.Code != 0 {
		return fmt.Sprintf("%s: http_error(%d)", f.URL, f.Code)
	}
	return fmt.Sprintf("%s: %s", f.URL, f.Reason)
}

// classifyReason maps a gdelterrors.Error onto the closed Reason set (spec
// §4 glossary). attempts is always reported as 1 here — the transport layer
// already retries internally per max_retries, so by the time a failure
// surfaces as a FailedRequest every retry has already been spent.
func classifyReason(err error) (Reason, int) {
	if err == nil {
		return ReasonUnknown, 0
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout, 1
	}
	if errors.Is(err, gdelterrors.ErrRateLimited) {
		return ReasonRateLimited, 1
	}
	if errors.Is(err, gdelterrors.ErrDecode) {
		return ReasonDecodeError, 1
	}
	if errors.Is(err, gdelterrors.ErrParse) {
		return ReasonParseError, 1
	}
	if errors.Is(err, gdelterrors.ErrAPIUnavail) {
		return ReasonTimeout, 1
	}
	var gerr *gdelterrors.Error
	if errors.As(err, &gerr) && gerr.Kind == gdelterrors.KindAPI {
		return ReasonHTTPError, 1
	}
	return ReasonUnknown, 1
}

// asHTTPCode extracts the HTTP status code from err, if it carries one.
func asHTTPCode(err error) (int, bool) {
	var gerr *gdelterrors.Error
	if errors.As(err, &gerr) && gerr.HTTPCode != 0 {
		return gerr.HTTPCode, true
	}
	return 0, false
}

// FetchResult is the materialized result of a Query call (spec §4 glossary:
// "FetchResult<T> — container { data, failed }; invariant: complete ≡
// failed.empty").
type FetchResult[T any] struct {
	Data   []T
	Failed []FailedRequest
}

// Complete reports whether every resolved URL contributed data with no
// recorded failure.
func (r FetchResult[T]) Complete() bool {
	return len(r.Failed) == 0
}
