package filesource

import "github.com/gdeltgo/gdelt/internal/parse"

// Item is one unit pulled out of a file source stream: either a TSV row (Raw
// set) or a decoded NGrams JSON object (JSON set), whichever the dataset
// uses, tagged with its source URL for provenance.
type Item struct {
	URL  string
	Raw  *parse.RawRecord
	JSON map[string]interface{}
}

// FailedRequest records a per-bucket failure under a non-raising error_policy
// (spec §4.5: "warn records a FailedRequest and continues").
type FailedRequest struct {
	URL string
	Err error
}
