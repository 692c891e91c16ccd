package gfilter

import (
	"errors"
	"testing"
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/masterlist"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestDateRange_endBeforeStartIsValidationError(t *testing.T) {
	r := DateRange{Start: day("2024-01-15"), End: day("2024-01-10")}
	if err := r.Validate(masterlist.Events); err == nil {
		t.Fatal("expected validation error")
	} else if !errors.Is(err, gdelterrors.ErrValidation) {
		t.Errorf("err = %v, want validation_error", err)
	}
}

func TestDateRange_spanExceedsMaxDays(t *testing.T) {
	f := NewEventFilter(DateRange{Start: day("2024-01-01"), End: day("2024-03-01")})
	if err := f.Validate(); err == nil {
		t.Fatal("expected span-exceeds error for Events (max 30 days)")
	}
}

func TestDateRange_zeroEndMeansThroughNow(t *testing.T) {
	r := DateRange{Start: time.Now().UTC().Add(-time.Hour)}
	if err := r.Validate(masterlist.Events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventFilter_normalizesISO3Country(t *testing.T) {
	f := NewEventFilter(DateRange{Start: day("2024-01-15"), End: day("2024-01-15")})
	f.Actor1Country = "USA"
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Actor1Country != "US" {
		t.Errorf("Actor1Country = %q, want normalized FIPS US", f.Actor1Country)
	}
}

func TestEventFilter_unknownCountryIsValidationError(t *testing.T) {
	f := NewEventFilter(DateRange{Start: day("2024-01-15"), End: day("2024-01-15")})
	f.Actor1Country = "ZZZZZ"
	if err := f.Validate(); err == nil {
		t.Fatal("expected validation error for unrecognized country code")
	}
}

func TestEventFilter_toneRangeOrderEnforced(t *testing.T) {
	min, max := 5.0, 1.0
	f := NewEventFilter(DateRange{Start: day("2024-01-15"), End: day("2024-01-15")})
	f.ToneMin, f.ToneMax = &min, &max
	if err := f.Validate(); err == nil {
		t.Fatal("expected validation error for tone_min > tone_max")
	}
}

func TestGKGFilter_themeValidationWhenEnabled(t *testing.T) {
	f := NewGKGFilter(DateRange{Start: day("2024-01-01"), End: day("2024-01-01")}, WithCodeValidation(true))
	f.Themes = []string{"NOT_A_REAL_THEME"}
	if err := f.Validate(); err == nil {
		t.Fatal("expected validation error for unknown theme")
	}
}

func TestGKGFilter_themeValidationSkippedByDefault(t *testing.T) {
	f := NewGKGFilter(DateRange{Start: day("2024-01-01"), End: day("2024-01-01")})
	f.Themes = []string{"NOT_A_REAL_THEME"}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error when code validation is off: %v", err)
	}
}

func TestNGramsFilter_positionRangeDefaultsToFullDecile(t *testing.T) {
	f := NewNGramsFilter(DateRange{Start: day("2024-01-01"), End: day("2024-01-01")})
	if f.MaxPosition != 90 {
		t.Errorf("MaxPosition = %d, want 90", f.MaxPosition)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNGramsFilter_positionOutOfRangeIsValidationError(t *testing.T) {
	f := NewNGramsFilter(DateRange{Start: day("2024-01-01"), End: day("2024-01-01")})
	f.MinPosition = -1
	if err := f.Validate(); err == nil {
		t.Fatal("expected validation error for negative min_position")
	}
}

func TestWithCodeTable_overridesDefault(t *testing.T) {
	custom := mapCodeTable{"ZZZ": "ZZ"}
	f := NewEventFilter(DateRange{Start: day("2024-01-15"), End: day("2024-01-15")}, WithCodeTable(custom))
	f.Actor1Country = "ZZZ"
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Actor1Country != "ZZ" {
		t.Errorf("Actor1Country = %q, want ZZ", f.Actor1Country)
	}
}

type mapCodeTable map[string]string

func (m mapCodeTable) ToFIPS(code string) (string, bool) {
	fips, ok := m[code]
	return fips, ok
}
