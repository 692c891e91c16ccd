package gfilter

import "strings"

// RecordView exposes the subset of a public record's fields client-side
// filtering needs, without this package importing the records package (which
// itself depends on gfilter for filter types — RecordView is the seam that
// breaks that cycle).
type RecordView interface {
	ActorCountry(actorIndex int) string // 1 or 2
	EventCode() string
	Tone() (float64, bool)
	Themes() []string
	Persons() []string
	Organizations() []string
	NGram() string
	Language() string
	Position() (int, bool)
	Source() string // originating station/source identifier (Mentions)
}

// Predicate reports whether a record survives client-side filtering (spec
// §4.4). A nil Predicate matches everything.
type Predicate func(RecordView) bool

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if containsFold(h, needle) {
			return true
		}
	}
	return false
}

func anySubstringMatch(candidates, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	for _, term := range terms {
		if anyContainsFold(candidates, term) {
			return true
		}
	}
	return false
}

func themeSetIntersects(have []string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[strings.ToUpper(t)] = true
	}
	for _, w := range want {
		if set[strings.ToUpper(w)] {
			return true
		}
	}
	return false
}

func themeHasPrefix(have []string, prefix string) bool {
	if prefix == "" {
		return true
	}
	prefix = strings.ToUpper(prefix)
	for _, t := range have {
		if strings.HasPrefix(strings.ToUpper(t), prefix) {
			return true
		}
	}
	return false
}

// BuildPredicate compiles f's per-dataset fields into a single client-side
// Predicate, to be applied after raw→public conversion.
func BuildPredicate(f Filter) Predicate {
	switch v := f.(type) {
	case *EventFilter:
		return buildEventPredicate(v)
	case *MentionFilter:
		return buildMentionPredicate(v)
	case *GKGFilter:
		return buildGKGPredicate(v)
	case *NGramsFilter:
		return buildNGramsPredicate(v)
	default:
		return func(RecordView) bool { return true }
	}
}

func buildMentionPredicate(f *MentionFilter) Predicate {
	return func(r RecordView) bool {
		if f.MentionSourceName != "" && !strings.EqualFold(r.Source(), f.MentionSourceName) {
			return false
		}
		if f.Station != "" && !strings.EqualFold(r.Source(), f.Station) {
			return false
		}
		return true
	}
}

func buildEventPredicate(f *EventFilter) Predicate {
	return func(r RecordView) bool {
		if f.Actor1Country != "" && r.ActorCountry(1) != f.Actor1Country {
			return false
		}
		if f.Actor2Country != "" && r.ActorCountry(2) != f.Actor2Country {
			return false
		}
		if f.EventCode != "" && r.EventCode() != f.EventCode {
			return false
		}
		if tone, ok := r.Tone(); ok {
			if f.ToneMin != nil && tone < *f.ToneMin {
				return false
			}
			if f.ToneMax != nil && tone > *f.ToneMax {
				return false
			}
		}
		return true
	}
}

func buildGKGPredicate(f *GKGFilter) Predicate {
	return func(r RecordView) bool {
		themes := r.Themes()
		if !themeSetIntersects(themes, f.Themes) {
			return false
		}
		if !themeHasPrefix(themes, f.ThemePrefix) {
			return false
		}
		if !anySubstringMatch(r.Persons(), f.Persons) {
			return false
		}
		if !anySubstringMatch(r.Organizations(), f.Organizations) {
			return false
		}
		if tone, ok := r.Tone(); ok {
			if f.ToneMin != nil && tone < *f.ToneMin {
				return false
			}
			if f.ToneMax != nil && tone > *f.ToneMax {
				return false
			}
		}
		return true
	}
}

func buildNGramsPredicate(f *NGramsFilter) Predicate {
	return func(r RecordView) bool {
		if f.NGram != "" && !containsFold(r.NGram(), f.NGram) {
			return false
		}
		if f.Language != "" && !strings.EqualFold(r.Language(), f.Language) {
			return false
		}
		if pos, ok := r.Position(); ok {
			if pos < f.MinPosition || pos > f.MaxPosition {
				return false
			}
		}
		return true
	}
}
