package gdelt

import (
	"context"
	"errors"
	"testing"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

func TestClassifyReason_ratelimited(t *testing.T) {
	err := gdelterrors.RateLimited("throttled", "30s")
	reason, attempts := classifyReason(err)
	if reason != ReasonRateLimited || attempts != 1 {
		t.Errorf("classifyReason = %v,%d, want rate_limited,1", reason, attempts)
	}
}

func TestClassifyReason_httpStatus(t *testing.T) {
	err := gdelterrors.HTTPStatus(503, "unexpected status 503")
	reason, _ := classifyReason(err)
	if reason != ReasonHTTPError {
		t.Errorf("classifyReason = %v, want http_error", reason)
	}
	code, ok := asHTTPCode(err)
	if !ok || code != 503 {
		t.Errorf("asHTTPCode = %d,%v, want 503,true", code, ok)
	}
}

func TestClassifyReason_timeout(t *testing.T) {
	reason, _ := classifyReason(context.DeadlineExceeded)
	if reason != ReasonTimeout {
		t.Errorf("classifyReason = %v, want timeout", reason)
	}
}

func TestClassifyReason_decodeAndParse(t *testing.T) {
	if r, _ := classifyReason(gdelterrors.New(gdelterrors.KindDecode, "too large")); r != ReasonDecodeError {
		t.Errorf("decode classify = %v", r)
	}
	if r, _ := classifyReason(gdelterrors.New(gdelterrors.KindParse, "bad row")); r != ReasonParseError {
		t.Errorf("parse classify = %v", r)
	}
}

func TestClassifyReason_unknownFallsBack(t *testing.T) {
	if r, _ := classifyReason(errors.New("mystery")); r != ReasonUnknown {
		t.Errorf("classify = %v, want unknown", r)
	}
}

func TestFetchResult_completeIffNoFailures(t *testing.T) {
	complete := FetchResult[int]{Data: []int{1, 2}}
	if !complete.Complete() {
		t.Error("Complete() = false, want true for no failures")
	}
	incomplete := FetchResult[int]{Data: []int{1}, Failed: []FailedRequest{{URL: "x"}}}
	if incomplete.Complete() {
		t.Error("Complete() = true, want false when Failed is non-empty")
	}
}
