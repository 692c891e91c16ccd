package gfilter

// KnownThemes is the static set GKG theme codes are validated against when
// code-validation is enabled (spec §3.1). The full GKG theme taxonomy runs
// into the thousands of codes and is explicitly out of scope as an exhaustive
// table (spec.md §1); this is a small representative set sufficient to
// exercise the validation path, with TAX_* wildcard coverage handled by
// GKGFilter.ThemePrefix (prefix matching in predicate.go's themeHasPrefix)
// rather than an enumerated list.
var KnownThemes = map[string]bool{
	"TERROR":             true,
	"PROTEST":            true,
	"ECON_STOCKMARKET":   true,
	"ENV_CLIMATECHANGE":  true,
	"ELECTION":           true,
	"ARMEDCONFLICT":      true,
	"EPU_POLICY":         true,
	"WB_678_INFLATION":   true,
	"HEALTH_PANDEMIC":    true,
	"CORRUPTION":         true,
	"HUMAN_RIGHTS":       true,
	"REFUGEES":           true,
}
