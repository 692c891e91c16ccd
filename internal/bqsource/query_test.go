package bqsource

import (
	"strings"
	"testing"
	"time"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
)

func eventRange() gfilter.DateRange {
	return gfilter.DateRange{
		Start: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildQuery_eventsFilterBindsParamsNotLiterals(t *testing.T) {
	f := gfilter.NewEventFilter(eventRange())
	f.Actor1Country = "US"
	f.EventCode = "190"

	sql, params, err := BuildQuery(masterlist.Events, f)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sql, "'US'") || strings.Contains(sql, "'190'") {
		t.Errorf("sql embeds literal values, want parameter placeholders: %s", sql)
	}
	if !strings.Contains(sql, "@actor1_country") || !strings.Contains(sql, "@event_code") {
		t.Errorf("sql missing expected parameter placeholders: %s", sql)
	}
	foundActor, foundEvent := false, false
	for _, p := range params {
		if p.Name == "actor1_country" && p.Value == "US" {
			foundActor = true
		}
		if p.Name == "event_code" && p.Value == "190" {
			foundEvent = true
		}
	}
	if !foundActor || !foundEvent {
		t.Errorf("params = %v, missing bound values", params)
	}
}

func TestBuildQuery_partitionPruningAlwaysPresent(t *testing.T) {
	f := gfilter.NewEventFilter(eventRange())
	sql, _, err := BuildQuery(masterlist.Events, f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "_PARTITIONDATE BETWEEN") {
		t.Errorf("sql missing partition pruning clause: %s", sql)
	}
}

func TestBuildQuery_gkgThemesUseRegexpContains(t *testing.T) {
	f := gfilter.NewGKGFilter(gfilter.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	f.Themes = []string{"TERROR"}
	f.Persons = []string{"Obama"}
	sql, params, err := BuildQuery(masterlist.GKG, f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "REGEXP_CONTAINS(V2Themes") {
		t.Errorf("sql missing REGEXP_CONTAINS for themes: %s", sql)
	}
	if !strings.Contains(sql, "LOWER(V2Persons)") {
		t.Errorf("sql missing LOWER() case-insensitive match for persons: %s", sql)
	}
	if len(params) < 4 { // start, end, theme, person (order not asserted)
		t.Errorf("params = %v, want at least 4 bound values", params)
	}
}

func TestBuildQuery_invalidFilterIsRejectedBeforeQuerying(t *testing.T) {
	f := gfilter.NewEventFilter(gfilter.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), // exceeds Events' 30-day max
	})
	if _, _, err := BuildQuery(masterlist.Events, f); err == nil {
		t.Fatal("expected validation error to short-circuit query construction")
	}
}

func TestBuildQuery_unsupportedDatasetIsValidationError(t *testing.T) {
	f := gfilter.NewEventFilter(eventRange())
	if _, _, err := BuildQuery(masterlist.Dataset("bogus"), f); err == nil {
		t.Fatal("expected validation error for unknown dataset")
	}
}

func TestBuildQuery_mentionSourceNameAndStationBindAsParams(t *testing.T) {
	f := gfilter.NewMentionFilter(eventRange())
	f.MentionSourceName = "cnn.com"
	f.Station = "CNN"

	sql, params, err := BuildQuery(masterlist.Mentions, f)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sql, "'cnn.com'") || strings.Contains(sql, "'CNN'") {
		t.Errorf("sql embeds literal values, want parameter placeholders: %s", sql)
	}
	if !strings.Contains(sql, "LOWER(MentionSourceName) = LOWER(@mention_source_name)") ||
		!strings.Contains(sql, "LOWER(MentionSourceName) = LOWER(@station)") {
		t.Errorf("sql missing expected mention source/station predicates: %s", sql)
	}
	foundSource, foundStation := false, false
	for _, p := range params {
		if p.Name == "mention_source_name" && p.Value == "cnn.com" {
			foundSource = true
		}
		if p.Name == "station" && p.Value == "CNN" {
			foundStation = true
		}
	}
	if !foundSource || !foundStation {
		t.Errorf("params = %v, missing bound mention source/station values", params)
	}
}
