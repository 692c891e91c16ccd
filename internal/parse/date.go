package parse

import (
	"strings"
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// ParseDateStrict normalizes a GDELT wire date (YYYYMMDDHHMMSS, YYYYMMDD, or
// ISO-8601) to UTC, returning an error for anything else (spec §4.3: "strict
// variant raises"). Naive inputs are tagged UTC; timezone-aware inputs are
// converted to UTC.
func ParseDateStrict(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 14:
		if t, err := time.ParseInLocation("20060102150405", s, time.UTC); err == nil {
			return t, nil
		}
	case 8:
		if t, err := time.ParseInLocation("20060102", s, time.UTC); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, gdelterrors.New(gdelterrors.KindParse, "unrecognized date format: "+s)
}

// ParseDateLenient is ParseDateStrict's non-raising counterpart: on failure
// it returns the zero Time and ok=false instead of an error, for callers
// (e.g. per-record parsing under Warn/Skip policy) that must not abort a
// whole stream over one bad timestamp.
func ParseDateLenient(s string) (t time.Time, ok bool) {
	t, err := ParseDateStrict(s)
	return t, err == nil
}
