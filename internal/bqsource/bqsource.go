// Package bqsource implements spec §4.6's BigQuery fallback source: the same
// fetch(dataset, filter) contract as the file source, backed by GDELT's
// public BigQuery dataset instead of the archive mirror.
package bqsource

import (
	"context"
	"sync/atomic"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// Source wraps a BigQuery client plus a running query-cost counter (spec
// §4.6: "Cost tracking (optional) updates a session counter").
type Source struct {
	client    *bigquery.Client
	bytesRead int64 // atomic
}

// New constructs a Source, following
// other_examples/0f8d9c47_datacommonsorg-mixer__store-store.go.go's
// bigquery.NewClient(ctx, projectID, opts...) construction shape. An empty
// projectID is a configuration_error (spec §4.6): the capability probe that
// lets the orchestrator skip BigQuery entirely runs before this is ever
// called (config.Settings.BigQueryConfigured), so reaching here with no
// project means a caller bypassed that check.
func New(ctx context.Context, projectID string, credentialsPath string) (*Source, error) {
	if projectID == "" {
		return nil, gdelterrors.New(gdelterrors.KindConfiguration, "bigquery_project is required")
	}
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindConfiguration, "construct bigquery client", err)
	}
	return &Source{client: client}, nil
}

// Close releases the underlying BigQuery client.
func (s *Source) Close() error {
	return s.client.Close()
}

// BytesRead returns the cumulative bytes billed across queries run by this
// Source's lifetime, for the caller's cost-tracking session counter.
func (s *Source) BytesRead() int64 {
	return atomic.LoadInt64(&s.bytesRead)
}
