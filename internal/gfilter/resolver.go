package gfilter

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/masterlist"
)

// Resolver expands a Filter's validated DateRange into file URLs via the
// master file list (spec §4.4: "Resolver expands a range into a bucket set
// and pairs it with the dataset to produce URL candidates via D").
type Resolver struct {
	list *masterlist.MasterList
}

func NewResolver(list *masterlist.MasterList) *Resolver {
	return &Resolver{list: list}
}

// Resolve validates f and, on success, returns the ordered URL candidates
// covering its date range for its dataset.
func (r *Resolver) Resolve(ctx context.Context, f Filter) ([]string, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rng := f.Range()
	return r.list.Resolve(ctx, f.Dataset(), rng.Start, rng.resolvedEnd())
}
