package parse

// Policy governs how a malformed row/line is handled (spec §4.3 / §9 Open
// Question #1: "raise|warn|skip", default "warn").
type Policy int

const (
	Warn Policy = iota
	Raise
	Skip
)

// ParsePolicy maps the wire string form ("raise"/"warn"/"skip") used in
// config and filter options onto Policy, defaulting to Warn on anything
// else (including empty string).
func ParsePolicy(s string) Policy {
	switch s {
	case "raise":
		return Raise
	case "skip":
		return Skip
	default:
		return Warn
	}
}

func (p Policy) String() string {
	switch p {
	case Raise:
		return "raise"
	case Skip:
		return "skip"
	default:
		return "warn"
	}
}
