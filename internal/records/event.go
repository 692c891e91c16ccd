package records

import (
	"time"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/parse"
)

var _ gfilter.RecordView = (*Event)(nil)

// Column positions for GDELT 2.0 Events (61 fields, spec §6/parse.EventsColumns).
const (
	evGlobalEventID = 0
	evDay           = 1

	evActor1Code        = 5
	evActor1Name        = 6
	evActor1CountryCode = 7
	evActor1GroupCode   = 8
	evActor1EthnicCode  = 9
	evActor1Religion1   = 10
	evActor1Religion2   = 11
	evActor1Type1       = 12
	evActor1Type2       = 13
	evActor1Type3       = 14

	evActor2Code        = 15
	evActor2Name        = 16
	evActor2CountryCode = 17
	evActor2GroupCode   = 18
	evActor2EthnicCode  = 19
	evActor2Religion1   = 20
	evActor2Religion2   = 21
	evActor2Type1       = 22
	evActor2Type2       = 23
	evActor2Type3       = 24

	evEventCode  = 26
	evQuadClass  = 29
	evGoldstein  = 30
	evNumMent    = 31
	evNumSources = 32
	evNumArt     = 33
	evAvgTone    = 34

	evActor1GeoType    = 35
	evActor1GeoFull    = 36
	evActor1GeoCountry = 37
	evActor1GeoAdm1    = 38
	evActor1GeoAdm2    = 39
	evActor1GeoLat     = 40
	evActor1GeoLon     = 41
	evActor1GeoFeature = 42

	evActor2GeoType    = 43
	evActor2GeoFull    = 44
	evActor2GeoCountry = 45
	evActor2GeoAdm1    = 46
	evActor2GeoAdm2    = 47
	evActor2GeoLat     = 48
	evActor2GeoLon     = 49
	evActor2GeoFeature = 50

	evActionGeoType    = 51
	evActionGeoFull    = 52
	evActionGeoCountry = 53
	evActionGeoAdm1    = 54
	evActionGeoAdm2    = 55
	evActionGeoLat     = 56
	evActionGeoLon     = 57
	evActionGeoFeature = 58

	evDateAdded = 59
	evSourceURL = 60
)

// Event is the public record for the Events dataset (spec §3.1/§4.8).
type Event struct {
	GlobalEventID string
	Day           time.Time

	Actor1 Actor
	Actor2 Actor

	CAMEOCode      string
	QuadClass      int
	GoldsteinScale float64
	NumMentions    int
	NumSources     int
	NumArticles    int
	AvgTone        float64

	Actor1Geo Location
	Actor2Geo Location
	ActionGeo Location

	DateAdded time.Time
	SourceURL string

	Warnings []Warning
}

func geoFromFields(r parse.RawRecord, typ, full, country, adm1, adm2, lat, lon, feature int) Location {
	warnings := &[]Warning{} // discarded: geo type defaults silently to 0 (unspecified)
	return Location{
		Type:        parseIntDefault("geo_type", r.Field(typ), 0, warnings),
		Name:        r.Field(full),
		CountryCode: r.Field(country),
		Admin1Code:  r.Field(adm1),
		Admin2Code:  r.Field(adm2),
		Lat:         parseOptionalFloat(r.Field(lat)),
		Lon:         parseOptionalFloat(r.Field(lon)),
		FeatureID:   r.Field(feature),
	}
}

// EventFromRaw converts a parsed Events row into an Event (spec §4.8:
// "Event.from_raw normalizes country codes to FIPS, parses dates via the
// canonical function, and builds the nested Actor/Location/ToneScores").
// Country-code normalization to FIPS is the filter layer's job (gfilter);
// here we preserve whatever code the source actually shipped, since raw
// provenance must survive for dedup (spec §3.1).
func EventFromRaw(r parse.RawRecord) *Event {
	var warnings []Warning

	day, ok := parse.ParseDateLenient(r.Field(evDay))
	if !ok {
		warnings = append(warnings, Warning{Field: "day", Msg: "unparseable date: " + r.Field(evDay)})
	}
	dateAdded, ok := parse.ParseDateLenient(r.Field(evDateAdded))
	if !ok {
		warnings = append(warnings, Warning{Field: "date_added", Msg: "unparseable date: " + r.Field(evDateAdded)})
	}

	e := &Event{
		GlobalEventID: r.Field(evGlobalEventID),
		Day:           day,
		Actor1: Actor{
			Code:        r.Field(evActor1Code),
			Name:        r.Field(evActor1Name),
			CountryCode: r.Field(evActor1CountryCode),
			Group:       r.Field(evActor1GroupCode),
			Ethnic:      r.Field(evActor1EthnicCode),
			Religion1:   r.Field(evActor1Religion1),
			Religion2:   r.Field(evActor1Religion2),
			Type1:       r.Field(evActor1Type1),
			Type2:       r.Field(evActor1Type2),
			Type3:       r.Field(evActor1Type3),
		},
		Actor2: Actor{
			Code:        r.Field(evActor2Code),
			Name:        r.Field(evActor2Name),
			CountryCode: r.Field(evActor2CountryCode),
			Group:       r.Field(evActor2GroupCode),
			Ethnic:      r.Field(evActor2EthnicCode),
			Religion1:   r.Field(evActor2Religion1),
			Religion2:   r.Field(evActor2Religion2),
			Type1:       r.Field(evActor2Type1),
			Type2:       r.Field(evActor2Type2),
			Type3:       r.Field(evActor2Type3),
		},
		CAMEOCode:      r.Field(evEventCode),
		QuadClass:      parseIntDefault("quad_class", r.Field(evQuadClass), 0, &warnings),
		GoldsteinScale: parseFloatDefault("goldstein_scale", r.Field(evGoldstein), 0, &warnings),
		NumMentions:    parseIntDefault("num_mentions", r.Field(evNumMent), 0, &warnings),
		NumSources:     parseIntDefault("num_sources", r.Field(evNumSources), 0, &warnings),
		NumArticles:    parseIntDefault("num_articles", r.Field(evNumArt), 0, &warnings),
		AvgTone:        parseFloatDefault("avg_tone", r.Field(evAvgTone), 0, &warnings),
		Actor1Geo: geoFromFields(r, evActor1GeoType, evActor1GeoFull, evActor1GeoCountry,
			evActor1GeoAdm1, evActor1GeoAdm2, evActor1GeoLat, evActor1GeoLon, evActor1GeoFeature),
		Actor2Geo: geoFromFields(r, evActor2GeoType, evActor2GeoFull, evActor2GeoCountry,
			evActor2GeoAdm1, evActor2GeoAdm2, evActor2GeoLat, evActor2GeoLon, evActor2GeoFeature),
		ActionGeo: geoFromFields(r, evActionGeoType, evActionGeoFull, evActionGeoCountry,
			evActionGeoAdm1, evActionGeoAdm2, evActionGeoLat, evActionGeoLon, evActionGeoFeature),
		DateAdded: dateAdded,
		SourceURL: r.Field(evSourceURL),
		Warnings:  warnings,
	}
	return e
}

// RecordView implementation (gfilter.BuildPredicate's client-side filtering seam).

func (e *Event) ActorCountry(actorIndex int) string {
	if actorIndex == 2 {
		return e.Actor2.CountryCode
	}
	return e.Actor1.CountryCode
}

func (e *Event) EventCode() string       { return e.CAMEOCode }
func (e *Event) Tone() (float64, bool)   { return e.AvgTone, true }
func (e *Event) Themes() []string        { return nil }
func (e *Event) Persons() []string       { return nil }
func (e *Event) Organizations() []string { return nil }
func (e *Event) NGram() string           { return "" }
func (e *Event) Language() string        { return "" }
func (e *Event) Position() (int, bool)   { return 0, false }
func (e *Event) Source() string          { return "" }
