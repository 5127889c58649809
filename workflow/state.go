package workflow

// State is a step of a transcription run. Runs move forward through the
// states in declaration order, or end in StateFailed.
type State int

const (
	StateReceived State = iota
	StateDownloading
	StateTranscoding
	StateSubmitting
	StateAwaiting
	StateAggregating
	StatePersisting
	StateResponded
	StateFailed
)

var stateNames = [...]string{
	StateReceived:    "received",
	StateDownloading: "downloading",
	StateTranscoding: "transcoding",
	StateSubmitting:  "submitting",
	StateAwaiting:    "awaiting",
	StateAggregating: "aggregating",
	StatePersisting:  "persisting",
	StateResponded:   "responded",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateResponded || s == StateFailed
}

// canTransition reports whether a run in from may move to to.
func canTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	return to == StateFailed || to == from+1
}
