package gfilter

import "strings"

// CodeTable normalizes a country code to its canonical FIPS form (spec §3.1:
// "Country codes accept FIPS or ISO3; normalized to FIPS at construction").
// The exhaustive CAMEO/themes/countries lookup tables are explicitly out of
// scope (spec.md §1 — "specified only via interfaces"); this interface is
// that seam. DefaultCodeTable ships a small built-in subset; callers with a
// full table wire their own implementation through WithCodeTable.
type CodeTable interface {
	// ToFIPS returns the FIPS equivalent of code (which may already be
	// FIPS), and whether the code was recognised at all.
	ToFIPS(code string) (fips string, ok bool)
}

// defaultCodeTable is a small embedded ISO3->FIPS map covering enough
// countries to exercise normalization end to end.
type defaultCodeTable struct{}

var iso3ToFIPS = map[string]string{
	"USA": "US", "GBR": "UK", "FRA": "FR", "DEU": "GE", "CHN": "CH",
	"RUS": "RS", "JPN": "JA", "IND": "IN", "BRA": "BR", "CAN": "CA",
	"AUS": "AS", "MEX": "MX", "ITA": "IT", "ESP": "SP", "UKR": "UP",
}

var validFIPS = func() map[string]bool {
	m := make(map[string]bool, len(iso3ToFIPS))
	for _, fips := range iso3ToFIPS {
		m[fips] = true
	}
	return m
}()

func (defaultCodeTable) ToFIPS(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	if validFIPS[code] {
		return code, true
	}
	if fips, ok := iso3ToFIPS[code]; ok {
		return fips, true
	}
	return "", false
}

// DefaultCodeTable is the built-in CodeTable used when no Option overrides it.
var DefaultCodeTable CodeTable = defaultCodeTable{}
