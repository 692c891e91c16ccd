package gfilter

import (
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/masterlist"
)

// MaxDays bounds DateRange span per dataset (spec §3.1: "end−start ≤
// max_days per dataset: 7 or 30 or 365"). The spec names the three values
// but not their assignment; GKG's per-bucket payload is by far the largest
// of the four datasets, so it gets the tightest cap, NGrams the loosest.
var MaxDays = map[masterlist.Dataset]int{
	masterlist.Events:   30,
	masterlist.Mentions: 30,
	masterlist.GKG:      7,
	masterlist.NGrams:   365,
}

// DateRange is the mandatory temporal predicate every Filter carries (spec
// §3.1). End is inclusive; a zero End means "through now".
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate checks End≥Start and the span against dataset's MaxDays.
func (r DateRange) Validate(dataset masterlist.Dataset) error {
	if r.Start.IsZero() {
		return gdelterrors.New(gdelterrors.KindValidation, "date_range.start is required")
	}
	end := r.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if end.Before(r.Start) {
		return gdelterrors.New(gdelterrors.KindValidation, "date_range.end must be >= start")
	}
	max, ok := MaxDays[dataset]
	if !ok {
		return gdelterrors.New(gdelterrors.KindValidation, "unknown dataset for date range validation")
	}
	if end.Sub(r.Start) > time.Duration(max)*24*time.Hour {
		return gdelterrors.New(gdelterrors.KindValidation, "date_range span exceeds max_days for dataset")
	}
	return nil
}

// resolvedEnd mirrors Validate's "zero End means now" rule for callers that
// need the effective end instant after validation has already passed.
func (r DateRange) resolvedEnd() time.Time {
	if r.End.IsZero() {
		return time.Now().UTC()
	}
	return r.End
}
