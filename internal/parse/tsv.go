package parse

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// Column counts from spec §6 ("Dataset column counts (parsing invariants)").
const (
	EventsColumns   = 61
	MentionsColumns = 16
	GKGColumns      = 27
)

// minColumnFraction below which a line is considered garbage rather than a
// short/truncated-but-usable record (spec's "tolerance margin").
const minColumnFraction = 0.5

// TSVScanner streams tab-delimited, header-less rows (spec §4.3's TSV
// contract) into RawRecord, applying the configurable error_policy to rows
// with an implausible column count. Deliberately hand-rolled rather than
// encoding/csv: GDELT's TSV has no quoting, no escaping, and a tab can never
// legitimately appear inside a field, so encoding/csv's quote-handling state
// machine buys nothing and costs allocations.
type TSVScanner struct {
	sc           *bufio.Scanner
	expectedCols int
	policy       Policy
	lineNo       int
	failed       []FailedLine
}

// FailedLine records a row dropped or warned about under Warn/Skip policy.
type FailedLine struct {
	Line   int
	Reason string
}

func NewTSVScanner(r io.Reader, expectedCols int, policy Policy) *TSVScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &TSVScanner{sc: sc, expectedCols: expectedCols, policy: policy}
}

// Next returns the next RawRecord. ok is false at end of stream (check err
// for a real failure vs clean EOF). Under Raise policy, a malformed row
// returns a *gdelterrors.Error immediately. Under Warn/Skip it is recorded
// (Warn also logs) and scanning continues to the next line.
func (s *TSVScanner) Next() (RawRecord, bool, error) {
	for s.sc.Scan() {
		s.lineNo++
		line := s.sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < int(float64(s.expectedCols)*minColumnFraction) {
			reason := "too few columns"
			if handled, herr := s.handleBad(reason); !handled {
				return RawRecord{}, false, herr
			}
			continue
		}

		rec := RawRecord{Line: s.lineNo}
		if len(fields) >= s.expectedCols {
			rec.Fields = fields[:s.expectedCols]
			rec.Extras = fields[s.expectedCols:]
		} else {
			rec.Fields = make([]string, s.expectedCols)
			copy(rec.Fields, fields)
		}
		return rec, true, nil
	}
	if err := s.sc.Err(); err != nil {
		return RawRecord{}, false, gdelterrors.Wrap(gdelterrors.KindParse, "tsv scan", err)
	}
	return RawRecord{}, false, nil
}

// handleBad applies error_policy to a malformed line. Returns handled=false
// with err set when policy is Raise (caller should stop iterating).
func (s *TSVScanner) handleBad(reason string) (handled bool, err error) {
	switch s.policy {
	case Raise:
		return false, gdelterrors.New(gdelterrors.KindParse, reason+" at line "+strconv.Itoa(s.lineNo))
	case Skip:
		s.failed = append(s.failed, FailedLine{Line: s.lineNo, Reason: reason})
		return true, nil
	default: // Warn
		s.failed = append(s.failed, FailedLine{Line: s.lineNo, Reason: reason})
		log.Printf("parse: tsv line %d: %s", s.lineNo, reason)
		return true, nil
	}
}

// Failed returns the lines skipped or warned about so far.
func (s *TSVScanner) Failed() []FailedLine {
	return s.failed
}
