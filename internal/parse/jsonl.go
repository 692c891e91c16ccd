package parse

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"strconv"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// JSONLScanner streams newline-delimited JSON objects (spec §4.3's
// JSON-lines contract for NGrams): one raw record per line, empty lines
// skipped, malformed lines governed by error_policy.
type JSONLScanner struct {
	sc     *bufio.Scanner
	policy Policy
	lineNo int
	failed []FailedLine
}

func NewJSONLScanner(r io.Reader, policy Policy) *JSONLScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &JSONLScanner{sc: sc, policy: policy}
}

// Next returns the next line decoded as a field map, preserved verbatim
// under RawRecord.Extras-equivalent handling: NGrams has no fixed column
// layout, so the whole decoded object is the raw record (spec: "object
// fields per schema").
func (s *JSONLScanner) Next() (map[string]interface{}, bool, error) {
	for s.sc.Scan() {
		s.lineNo++
		line := s.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal(line, &obj); err != nil {
			switch s.policy {
			case Raise:
				return nil, false, gdelterrors.Wrap(gdelterrors.KindParse,
					"malformed json at line "+strconv.Itoa(s.lineNo), err)
			case Skip:
				s.failed = append(s.failed, FailedLine{Line: s.lineNo, Reason: err.Error()})
				continue
			default: // Warn
				s.failed = append(s.failed, FailedLine{Line: s.lineNo, Reason: err.Error()})
				log.Printf("parse: jsonl line %d: %v", s.lineNo, err)
				continue
			}
		}
		return obj, true, nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, false, gdelterrors.Wrap(gdelterrors.KindParse, "jsonl scan", err)
	}
	return nil, false, nil
}

func (s *JSONLScanner) Failed() []FailedLine {
	return s.failed
}
