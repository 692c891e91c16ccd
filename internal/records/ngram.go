package records

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/parse"
)

// NGram is the public record for the NGrams dataset (spec §3.1/§4.8): one
// n-gram occurrence within a document, JSON-lines sourced rather than TSV
// (spec §4.3).
type NGram struct {
	Text  string
	Lang  string
	Date  time.Time
	Decile int // article position decile, 0-90
	DocURL string
	Count  int

	Warnings []Warning
}

func stringField(obj map[string]interface{}, key string) string {
	v, ok := obj[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// numberField reads a JSON number field regardless of whether it decoded
// as float64 (the common case) or json.Number/string (schema-tolerance for
// providers that quote numeric fields).
func numberField(obj map[string]interface{}, key string) (float64, bool) {
	v, ok := obj[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// NGramFromRaw converts a decoded NGrams JSON-line object into an NGram
// (spec §4.8's conversion contract extended to the JSON-lines source: total
// conversion, missing fields default rather than fail).
func NGramFromRaw(obj map[string]interface{}) *NGram {
	var warnings []Warning

	date, ok := parse.ParseDateLenient(stringField(obj, "date"))
	if !ok {
		warnings = append(warnings, Warning{Field: "date", Msg: "unparseable or missing ngram date"})
	}

	position := 0
	if v, ok := numberField(obj, "position"); ok {
		position = int(v)
	} else {
		warnings = append(warnings, Warning{Field: "position", Msg: "missing position, defaulting to 0"})
	}

	count := 0
	if v, ok := numberField(obj, "count"); ok {
		count = int(v)
	}

	return &NGram{
		Text:   stringField(obj, "ngram"),
		Lang:   stringField(obj, "lang"),
		Date:   date,
		Decile: position,
		DocURL: stringField(obj, "doc_url"),
		Count:  count,
		Warnings: warnings,
	}
}

var _ gfilter.RecordView = (*NGram)(nil)

func (n *NGram) ActorCountry(int) string { return "" }
func (n *NGram) EventCode() string       { return "" }
func (n *NGram) Tone() (float64, bool)   { return 0, false }
func (n *NGram) Themes() []string        { return nil }
func (n *NGram) Persons() []string       { return nil }
func (n *NGram) Organizations() []string { return nil }
func (n *NGram) NGram() string           { return n.Text }
func (n *NGram) Language() string        { return n.Lang }
func (n *NGram) Position() (int, bool)   { return n.Decile, true }
func (n *NGram) Source() string          { return "" }
