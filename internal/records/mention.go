package records

import (
	"time"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/parse"
)

// Column positions for GDELT 2.0 Mentions (16 fields, parse.MentionsColumns).
const (
	mnGlobalEventID   = 0
	mnEventTime       = 1
	mnMentionTime     = 2
	mnMentionType     = 3
	mnMentionSource   = 4
	mnMentionIdent    = 5
	mnSentenceID      = 6
	mnActor1CharOff   = 7
	mnActor2CharOff   = 8
	mnActionCharOff   = 9
	mnInRawText       = 10
	mnConfidence      = 11
	mnMentionDocLen   = 12
	mnMentionDocTone  = 13
	mnMentionDocTrans = 14
)

// Mention is the public record for the Mentions dataset (spec §3.1/§4.8):
// one article's reference to a previously-seen event.
type Mention struct {
	GlobalEventID string
	EventTime     time.Time
	MentionTime   time.Time
	MentionType   string
	SourceName    string
	Identifier    string
	SentenceID    int
	Actor1CharOff int
	Actor2CharOff int
	ActionCharOff int
	InRawText     bool
	Confidence    int
	DocLength     int
	DocTone       float64
	TranslationInfo string

	Warnings []Warning
}

// MentionFromRaw converts a parsed Mentions row into a Mention.
func MentionFromRaw(r parse.RawRecord) *Mention {
	var warnings []Warning

	eventTime, ok := parse.ParseDateLenient(r.Field(mnEventTime))
	if !ok {
		warnings = append(warnings, Warning{Field: "event_time", Msg: "unparseable date: " + r.Field(mnEventTime)})
	}
	mentionTime, ok := parse.ParseDateLenient(r.Field(mnMentionTime))
	if !ok {
		warnings = append(warnings, Warning{Field: "mention_time", Msg: "unparseable date: " + r.Field(mnMentionTime)})
	}

	return &Mention{
		GlobalEventID:   r.Field(mnGlobalEventID),
		EventTime:       eventTime,
		MentionTime:     mentionTime,
		MentionType:     r.Field(mnMentionType),
		SourceName:      r.Field(mnMentionSource),
		Identifier:      r.Field(mnMentionIdent),
		SentenceID:      parseIntDefault("sentence_id", r.Field(mnSentenceID), 0, &warnings),
		Actor1CharOff:   parseIntDefault("actor1_char_offset", r.Field(mnActor1CharOff), -1, &warnings),
		Actor2CharOff:   parseIntDefault("actor2_char_offset", r.Field(mnActor2CharOff), -1, &warnings),
		ActionCharOff:   parseIntDefault("action_char_offset", r.Field(mnActionCharOff), -1, &warnings),
		InRawText:       r.Field(mnInRawText) == "1",
		Confidence:      parseIntDefault("confidence", r.Field(mnConfidence), 0, &warnings),
		DocLength:       parseIntDefault("mention_doc_len", r.Field(mnMentionDocLen), 0, &warnings),
		DocTone:         parseFloatDefault("mention_doc_tone", r.Field(mnMentionDocTone), 0, &warnings),
		TranslationInfo: r.Field(mnMentionDocTrans),
		Warnings:        warnings,
	}
}

var _ gfilter.RecordView = (*Mention)(nil)

// RecordView implementation. Source is the one field that matters here:
// gfilter.buildMentionPredicate matches MentionFilter.MentionSourceName and
// .Station against it. The rest have no Mentions-side analog and stay inert.
func (m *Mention) ActorCountry(int) string      { return "" }
func (m *Mention) EventCode() string            { return "" }
func (m *Mention) Tone() (float64, bool)        { return m.DocTone, true }
func (m *Mention) Themes() []string             { return nil }
func (m *Mention) Persons() []string            { return nil }
func (m *Mention) Organizations() []string      { return nil }
func (m *Mention) NGram() string                { return "" }
func (m *Mention) Language() string             { return "" }
func (m *Mention) Position() (int, bool)        { return 0, false }
func (m *Mention) Source() string               { return m.SourceName }
