package gfilter

import (
	"strings"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/masterlist"
)

// Filter is the common shape every per-dataset filter satisfies: a
// validated query description, input to the fetcher (spec glossary).
type Filter interface {
	Dataset() masterlist.Dataset
	Range() DateRange
	Validate() error
	includeTranslated() bool
}

// Option configures construction of any filter type below.
type Option func(*common)

type common struct {
	dateRange     DateRange
	translated    bool
	codeTable     CodeTable
	validateCodes bool
}

func newCommon(r DateRange, opts []Option) common {
	c := common{dateRange: r, codeTable: DefaultCodeTable}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithIncludeTranslated sets the flag pulling in GDELT's translation
// inventory alongside the English one (spec §4.1).
func WithIncludeTranslated(v bool) Option {
	return func(c *common) { c.translated = v }
}

// WithCodeTable overrides the default embedded country-code table with a
// caller-supplied one (spec.md §1: lookup tables are "specified only via
// interfaces").
func WithCodeTable(t CodeTable) Option {
	return func(c *common) {
		if t != nil {
			c.codeTable = t
		}
	}
}

// WithCodeValidation turns on theme-code validation against KnownThemes
// (spec §3.1: "Themes are validated against a static known set when
// code-validation is enabled").
func WithCodeValidation(v bool) Option {
	return func(c *common) { c.validateCodes = v }
}

func (c common) Range() DateRange        { return c.dateRange }
func (c common) includeTranslated() bool { return c.translated }

func normalizeCountry(c common, code string) (string, error) {
	if code == "" {
		return "", nil
	}
	fips, ok := c.codeTable.ToFIPS(code)
	if !ok {
		return "", gdelterrors.New(gdelterrors.KindValidation, "unrecognized country code: "+code)
	}
	return fips, nil
}

// EventFilter queries the Events dataset (spec §3.1's exact-match fields:
// country codes, event codes).
type EventFilter struct {
	common
	Actor1Country string
	Actor2Country string
	EventCode     string
	ToneMin       *float64
	ToneMax       *float64
}

func NewEventFilter(r DateRange, opts ...Option) *EventFilter {
	return &EventFilter{common: newCommon(r, opts)}
}

func (f *EventFilter) Dataset() masterlist.Dataset { return masterlist.Events }

func (f *EventFilter) Validate() error {
	if err := f.dateRange.Validate(f.Dataset()); err != nil {
		return err
	}
	if f.ToneMin != nil && f.ToneMax != nil && *f.ToneMin > *f.ToneMax {
		return gdelterrors.New(gdelterrors.KindValidation, "tone_min must be <= tone_max")
	}
	fips, err := normalizeCountry(f.common, f.Actor1Country)
	if err != nil {
		return err
	}
	f.Actor1Country = fips
	fips, err = normalizeCountry(f.common, f.Actor2Country)
	if err != nil {
		return err
	}
	f.Actor2Country = fips
	return nil
}

// MentionFilter queries the Mentions dataset (spec §3.1's "station"
// exact-match field).
type MentionFilter struct {
	common
	MentionSourceName string
	Station           string
}

func NewMentionFilter(r DateRange, opts ...Option) *MentionFilter {
	return &MentionFilter{common: newCommon(r, opts)}
}

func (f *MentionFilter) Dataset() masterlist.Dataset { return masterlist.Mentions }

func (f *MentionFilter) Validate() error {
	return f.dateRange.Validate(f.Dataset())
}

// GKGFilter queries the GKG dataset (spec §3.1's list fields: themes,
// persons, organizations).
type GKGFilter struct {
	common
	Themes           []string
	ThemePrefix      string
	Persons          []string
	Organizations    []string
	ToneMin, ToneMax *float64
}

func NewGKGFilter(r DateRange, opts ...Option) *GKGFilter {
	return &GKGFilter{common: newCommon(r, opts)}
}

func (f *GKGFilter) Dataset() masterlist.Dataset { return masterlist.GKG }

func (f *GKGFilter) Validate() error {
	if err := f.dateRange.Validate(f.Dataset()); err != nil {
		return err
	}
	if f.ToneMin != nil && f.ToneMax != nil && *f.ToneMin > *f.ToneMax {
		return gdelterrors.New(gdelterrors.KindValidation, "tone_min must be <= tone_max")
	}
	if f.validateCodes {
		for _, theme := range f.Themes {
			if !KnownThemes[strings.ToUpper(theme)] {
				return gdelterrors.New(gdelterrors.KindValidation, "unknown theme code: "+theme)
			}
		}
	}
	return nil
}

// NGramsFilter queries the NGrams dataset (spec §3.1's text field "ngram
// substring" and positional field "article decile 0-90").
type NGramsFilter struct {
	common
	NGram       string
	Language    string
	MinPosition int
	MaxPosition int
}

func NewNGramsFilter(r DateRange, opts ...Option) *NGramsFilter {
	return &NGramsFilter{common: newCommon(r, opts), MaxPosition: 90}
}

func (f *NGramsFilter) Dataset() masterlist.Dataset { return masterlist.NGrams }

func (f *NGramsFilter) Validate() error {
	if err := f.dateRange.Validate(f.Dataset()); err != nil {
		return err
	}
	if f.MinPosition < 0 || f.MaxPosition > 90 || f.MinPosition > f.MaxPosition {
		return gdelterrors.New(gdelterrors.KindValidation, "position range must fall within 0..90")
	}
	return nil
}
