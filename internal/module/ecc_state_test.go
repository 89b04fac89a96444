package module

import "testing"

// S1 — state decoding from spec.md §8.
func TestECCStateFromWire(t *testing.T) {
	cases := []struct {
		name                         string
		state, transition, errorCode int
		want                         ECCState
	}{
		{"ready, no transition, no error", 4, 0, 0, ECCReady},
		{"ready becomes transition when transitioning", 4, 1, 0, ECCTransition},
		{"error code wins over state", 4, 0, 2, ECCError},
		{"offline", 0, 0, 0, ECCOffline},
		{"out of range state is Error", 10, 0, 0, ECCError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ECCStateFromWire(c.state, c.transition, c.errorCode)
			if got != c.want {
				t.Errorf("ECCStateFromWire(%d,%d,%d) = %s, want %s", c.state, c.transition, c.errorCode, got, c.want)
			}
		})
	}
}

func TestForwardBackwardOperations(t *testing.T) {
	fwd := map[ECCState]ECCOperation{
		ECCIdle:      OpDescribe,
		ECCDescribed: OpPrepare,
		ECCPrepared:  OpConfigure,
		ECCReady:     OpStart,
		ECCOffline:   OpInvalid,
		ECCRunning:   OpInvalid,
	}
	for state, want := range fwd {
		if got := state.ForwardOperation(); got != want {
			t.Errorf("%s.ForwardOperation() = %s, want %s", state, got, want)
		}
	}

	bwd := map[ECCState]ECCOperation{
		ECCDescribed: OpUndo,
		ECCPrepared:  OpUndo,
		ECCReady:     OpUndo,
		ECCIdle:      OpInvalid,
		ECCRunning:   OpInvalid,
	}
	for state, want := range bwd {
		if got := state.BackwardOperation(); got != want {
			t.Errorf("%s.BackwardOperation() = %s, want %s", state, got, want)
		}
	}
}

func TestParseECCOperationRoundTrip(t *testing.T) {
	for op := OpDescribe; op <= OpInvalid; op++ {
		if got := ParseECCOperation(op.String()); got != op {
			t.Errorf("ParseECCOperation(%q) = %v, want %v", op.String(), got, op)
		}
	}
	if got := ParseECCOperation("NotAnOperation"); got != OpInvalid {
		t.Errorf("ParseECCOperation(garbage) = %v, want OpInvalid", got)
	}
}
