package records

import (
	"strconv"
	"strings"
	"time"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/parse"
)

// Column positions for GDELT 2.1 GKG (27 fields, parse.GKGColumns).
const (
	gkgRecordID       = 0
	gkgDate           = 1
	gkgSourceCollID   = 2
	gkgSourceCommon   = 3
	gkgDocumentID     = 4
	gkgCounts         = 5
	gkgV2Counts       = 6
	gkgThemes         = 7
	gkgV2Themes       = 8
	gkgLocations      = 9
	gkgV2Locations    = 10
	gkgPersons        = 11
	gkgV2Persons      = 12
	gkgOrganizations  = 13
	gkgV2Orgs         = 14
	gkgV2Tone         = 15
	gkgDates          = 16
	gkgGCAM           = 17
	gkgSharingImage   = 18
	gkgRelatedImages  = 19
	gkgSocialImageEmb = 20
	gkgSocialVideoEmb = 21
	gkgQuotations     = 22
	gkgAllNames       = 23
	gkgAmounts        = 24
	gkgTranslation    = 25
	gkgExtras         = 26
)

// GKGRecord is the public record for the Global Knowledge Graph dataset
// (spec §3.1/§4.8): "splits semicolon-delimited compound strings, parses
// offset-tagged entity mentions, and constructs quotations."
type GKGRecord struct {
	RecordID   string
	Date       time.Time
	SourceName string
	DocumentID string

	ThemeCodes     []string
	PersonMentions []EntityMention
	OrgMentions    []EntityMention

	ToneScores ToneScores

	Quotations []Quotation

	Warnings []Warning
}

// splitSemicolon splits a ';'-delimited compound field, dropping empty
// trailing entries (GDELT compound fields always end with a trailing ';').
func splitSemicolon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// themeNamesFrom extracts bare theme codes from the V1 Themes field
// (";"-delimited codes, no offsets).
func themeNamesFrom(field string) []string {
	return splitSemicolon(field)
}

// entityMentionsFromV2 parses GDELT's "Name,charoffset;Name,charoffset;..."
// V2 entity field format into offset-tagged mentions, counting repeats of
// the same name into EntityMention.Count.
func entityMentionsFromV2(field string) []EntityMention {
	entries := splitSemicolon(field)
	counts := make(map[string]int, len(entries))
	var mentions []EntityMention
	for _, e := range entries {
		name, offsetStr, ok := strings.Cut(e, ",")
		if !ok {
			continue
		}
		offset, _ := strconv.Atoi(offsetStr)
		counts[name]++
		mentions = append(mentions, EntityMention{Name: name, CharOffset: offset})
	}
	for i := range mentions {
		mentions[i].Count = counts[mentions[i].Name]
	}
	return mentions
}

// toneScoresFromV2Tone parses the seven comma-separated values GDELT packs
// into the V2Tone field (spec §3.1's ToneScores).
func toneScoresFromV2Tone(field string, warnings *[]Warning) ToneScores {
	parts := strings.Split(field, ",")
	get := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return ToneScores{
		Tone:                parseFloatDefault("tone", get(0), 0, warnings),
		PositiveScore:       parseFloatDefault("positive_score", get(1), 0, warnings),
		NegativeScore:       parseFloatDefault("negative_score", get(2), 0, warnings),
		Polarity:            parseFloatDefault("polarity", get(3), 0, warnings),
		ActivityRefDensity:  parseFloatDefault("activity_ref_density", get(4), 0, warnings),
		SelfGroupRefDensity: parseFloatDefault("self_group_ref_density", get(5), 0, warnings),
		WordCount:           parseFloatDefault("word_count", get(6), 0, warnings),
	}
}

// quotationsFromField parses GDELT's '#'-delimited quotation records, each
// internally '|'-delimited as offset|length|verb|quote.
func quotationsFromField(field string, warnings *[]Warning) []Quotation {
	if field == "" {
		return nil
	}
	var out []Quotation
	for _, rec := range strings.Split(field, "#") {
		if rec == "" {
			continue
		}
		parts := strings.SplitN(rec, "|", 4)
		if len(parts) < 4 {
			*warnings = append(*warnings, Warning{Field: "quotations", Msg: "malformed quotation record: " + rec})
			continue
		}
		offset, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		length, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		out = append(out, Quotation{
			Offset: offset,
			Length: length,
			Verb:   strings.TrimSpace(parts[2]),
			Text:   strings.TrimSpace(parts[3]),
		})
	}
	return out
}

// GKGFromRaw converts a parsed GKG row into a GKGRecord.
func GKGFromRaw(r parse.RawRecord) *GKGRecord {
	var warnings []Warning

	date, ok := parse.ParseDateLenient(r.Field(gkgDate))
	if !ok {
		warnings = append(warnings, Warning{Field: "date", Msg: "unparseable date: " + r.Field(gkgDate)})
	}

	themes := themeNamesFrom(r.Field(gkgThemes))
	persons := entityMentionsFromV2(r.Field(gkgV2Persons))
	if persons == nil {
		// V2Persons schema-tolerance fallback: some archives only ship the
		// offsetless V1 Persons field.
		for _, name := range splitSemicolon(r.Field(gkgPersons)) {
			persons = append(persons, EntityMention{Name: name})
		}
	}
	orgs := entityMentionsFromV2(r.Field(gkgV2Orgs))
	if orgs == nil {
		for _, name := range splitSemicolon(r.Field(gkgOrganizations)) {
			orgs = append(orgs, EntityMention{Name: name})
		}
	}

	return &GKGRecord{
		RecordID:       r.Field(gkgRecordID),
		Date:           date,
		SourceName:     r.Field(gkgSourceCommon),
		DocumentID:     r.Field(gkgDocumentID),
		ThemeCodes:     themes,
		PersonMentions: persons,
		OrgMentions:    orgs,
		ToneScores:     toneScoresFromV2Tone(r.Field(gkgV2Tone), &warnings),
		Quotations:     quotationsFromField(r.Field(gkgQuotations), &warnings),
		Warnings:       warnings,
	}
}

var _ gfilter.RecordView = (*GKGRecord)(nil)

func (g *GKGRecord) ActorCountry(int) string { return "" }
func (g *GKGRecord) EventCode() string       { return "" }
func (g *GKGRecord) Tone() (float64, bool)   { return g.ToneScores.Tone, true }
func (g *GKGRecord) Themes() []string        { return g.ThemeCodes }
func (g *GKGRecord) Persons() []string {
	names := make([]string, len(g.PersonMentions))
	for i, p := range g.PersonMentions {
		names[i] = p.Name
	}
	return names
}
func (g *GKGRecord) Organizations() []string {
	names := make([]string, len(g.OrgMentions))
	for i, o := range g.OrgMentions {
		names[i] = o.Name
	}
	return names
}
func (g *GKGRecord) NGram() string         { return "" }
func (g *GKGRecord) Language() string      { return "" }
func (g *GKGRecord) Position() (int, bool) { return 0, false }
func (g *GKGRecord) Source() string        { return g.SourceName }
