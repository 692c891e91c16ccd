package records

import (
	"testing"

	"github.com/gdeltgo/gdelt/internal/parse"
)

// rawRecordWith builds a parse.RawRecord with n empty fields, then
// overrides specific positions for readable test setup.
func rawRecordWith(n int, overrides map[int]string) parse.RawRecord {
	fields := make([]string, n)
	for i, v := range overrides {
		fields[i] = v
	}
	return parse.RawRecord{Fields: fields}
}

func TestEventFromRaw_buildsActorsAndGeo(t *testing.T) {
	r := rawRecordWith(parse.EventsColumns, map[int]string{
		evGlobalEventID: "123",
		evDay:           "20250101",
		evActor1Code:    "USAGOV",
		evActor1Name:    "UNITED STATES",
		evActor1CountryCode: "USA",
		evActor2Code:        "CHN",
		evEventCode:         "190",
		evQuadClass:         "4",
		evGoldstein:         "-10.0",
		evNumMent:           "5",
		evAvgTone:           "-2.5",
		evActionGeoFeature:  "12345",
		evDateAdded:         "20250101120000",
		evSourceURL:         "https://example.com/a",
	})

	e := EventFromRaw(r)
	if e.GlobalEventID != "123" {
		t.Errorf("GlobalEventID = %q", e.GlobalEventID)
	}
	if e.Actor1.Code != "USAGOV" || e.Actor1.Name != "UNITED STATES" {
		t.Errorf("Actor1 = %+v", e.Actor1)
	}
	if e.Actor2.Code != "CHN" {
		t.Errorf("Actor2.Code = %q", e.Actor2.Code)
	}
	if e.CAMEOCode != "190" {
		t.Errorf("CAMEOCode = %q", e.CAMEOCode)
	}
	if e.GoldsteinScale != -10.0 {
		t.Errorf("GoldsteinScale = %v", e.GoldsteinScale)
	}
	if e.AvgTone != -2.5 {
		t.Errorf("AvgTone = %v", e.AvgTone)
	}
	if e.ActionGeo.FeatureID != "12345" {
		t.Errorf("ActionGeo.FeatureID = %q", e.ActionGeo.FeatureID)
	}
	if e.SourceURL != "https://example.com/a" {
		t.Errorf("SourceURL = %q", e.SourceURL)
	}
	if len(e.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none for well-formed row", e.Warnings)
	}
}

func TestEventFromRaw_malformedNumericFieldDefaultsAndWarns(t *testing.T) {
	r := rawRecordWith(parse.EventsColumns, map[int]string{
		evGoldstein: "not-a-number",
	})
	e := EventFromRaw(r)
	if e.GoldsteinScale != 0 {
		t.Errorf("GoldsteinScale = %v, want 0 default", e.GoldsteinScale)
	}
	found := false
	for _, w := range e.Warnings {
		if w.Field == "goldstein_scale" {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a goldstein_scale warning", e.Warnings)
	}
}

func TestEventFromRaw_missingLatLonStaysNilNotZero(t *testing.T) {
	r := rawRecordWith(parse.EventsColumns, nil)
	e := EventFromRaw(r)
	if e.ActionGeo.Lat != nil || e.ActionGeo.Lon != nil {
		t.Errorf("Lat/Lon = %v/%v, want nil for absent coordinates", e.ActionGeo.Lat, e.ActionGeo.Lon)
	}
}

func TestEvent_satisfiesRecordViewActorCountryLookup(t *testing.T) {
	r := rawRecordWith(parse.EventsColumns, map[int]string{
		evActor1CountryCode: "US",
		evActor2CountryCode: "CN",
	})
	e := EventFromRaw(r)
	if e.ActorCountry(1) != "US" {
		t.Errorf("ActorCountry(1) = %q", e.ActorCountry(1))
	}
	if e.ActorCountry(2) != "CN" {
		t.Errorf("ActorCountry(2) = %q", e.ActorCountry(2))
	}
}
