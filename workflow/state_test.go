package workflow

import "testing"

func TestState_Transitions(t *testing.T) {
	order := []State{
		StateReceived, StateDownloading, StateTranscoding, StateSubmitting,
		StateAwaiting, StateAggregating, StatePersisting, StateResponded,
	}
	for i := 0; i < len(order)-1; i++ {
		if !canTransition(order[i], order[i+1]) {
			t.Errorf("%s -> %s should be allowed", order[i], order[i+1])
		}
		if !canTransition(order[i], StateFailed) {
			t.Errorf("%s -> failed should be allowed", order[i])
		}
	}

	tests := []struct {
		from, to State
	}{
		{StateReceived, StateTranscoding},
		{StateAwaiting, StateSubmitting},
		{StateResponded, StateFailed},
		{StateFailed, StateReceived},
		{StateDownloading, StateDownloading},
	}
	for _, tt := range tests {
		if canTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be rejected", tt.from, tt.to)
		}
	}
}

func TestState_String(t *testing.T) {
	if StateAwaiting.String() != "awaiting" || State(99).String() != "unknown" {
		t.Error("unexpected names")
	}
	if !StateFailed.Terminal() || StatePersisting.Terminal() {
		t.Error("unexpected terminal states")
	}
}
