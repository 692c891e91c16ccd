package records

import (
	"strings"

	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/parse"
)

func splitHash(s string) []string { return strings.Split(s, "#") }

// RawViewFor adapts r to dedupKeyable directly off its raw column
// positions, per dataset (spec §4.8: "deduplication... applied over raw
// records before conversion"). Datasets that don't carry a given field
// (e.g. GKG has no actor pair) return "" for it.
func RawViewFor(dataset masterlist.Dataset, r parse.RawRecord) dedupKeyable {
	switch dataset {
	case masterlist.Events:
		return eventRawView{r}
	case masterlist.Mentions:
		return mentionRawView{r}
	case masterlist.GKG:
		return gkgRawView{r}
	default:
		return genericRawView{r}
	}
}

type eventRawView struct{ r parse.RawRecord }

func (v eventRawView) SourceURL() string         { return v.r.Field(evSourceURL) }
func (v eventRawView) RecordDate() string        { return v.r.Field(evDay) }
func (v eventRawView) PrimaryLocationID() string  { return v.r.Field(evActionGeoFeature) }
func (v eventRawView) Actor1Code() string         { return v.r.Field(evActor1Code) }
func (v eventRawView) Actor2Code() string         { return v.r.Field(evActor2Code) }

type mentionRawView struct{ r parse.RawRecord }

func (v mentionRawView) SourceURL() string        { return v.r.Field(mnMentionIdent) }
func (v mentionRawView) RecordDate() string       { return v.r.Field(mnEventTime) }
func (v mentionRawView) PrimaryLocationID() string { return "" }
func (v mentionRawView) Actor1Code() string       { return "" }
func (v mentionRawView) Actor2Code() string       { return "" }

type gkgRawView struct{ r parse.RawRecord }

func (v gkgRawView) SourceURL() string         { return v.r.Field(gkgDocumentID) }
func (v gkgRawView) RecordDate() string        { return v.r.Field(gkgDate) }
func (v gkgRawView) PrimaryLocationID() string { return firstLocationFeatureID(v.r.Field(gkgV2Locations)) }
func (v gkgRawView) Actor1Code() string        { return "" }
func (v gkgRawView) Actor2Code() string        { return "" }

// firstLocationFeatureID pulls the feature ID off the first V2Locations
// entry (format: "type#name#country#adm1#adm2#lat#lon#featureid;...").
func firstLocationFeatureID(field string) string {
	entries := splitSemicolon(field)
	if len(entries) == 0 {
		return ""
	}
	parts := splitHash(entries[0])
	if len(parts) < 8 {
		return ""
	}
	return parts[7]
}

// genericRawView is used for datasets with no defined dedup fields (e.g.
// NGrams, which spec §4.8 doesn't list a dedup key for); every strategy
// degrades to URL_ONLY-equivalent behavior via an empty source URL, which
// in practice means "never admit more than one record" — callers disable
// dedup for NGrams instead of relying on this default.
type genericRawView struct{ r parse.RawRecord }

func (v genericRawView) SourceURL() string         { return "" }
func (v genericRawView) RecordDate() string        { return "" }
func (v genericRawView) PrimaryLocationID() string { return "" }
func (v genericRawView) Actor1Code() string        { return "" }
func (v genericRawView) Actor2Code() string        { return "" }
