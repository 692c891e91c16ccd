package fetchengine

// State is one stage of the orchestrator's state machine (spec §4.7:
// "INIT → STREAMING_FILES|STREAMING_BQ → DONE").
type State string

const (
	StateInit           State = "INIT"
	StateStreamingFiles State = "STREAMING_FILES"
	StateStreamingBQ    State = "STREAMING_BQ"
	StateDone           State = "DONE"
)

func (s State) String() string { return string(s) }
