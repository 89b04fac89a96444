package module

// ECCState is the lifecycle state of a single ECC module, ordered
// Offline -> Idle -> Described -> Prepared -> Ready -> Running, plus
// the sentinel states Transition, Busy, Inconsistent, and Error that
// never appear on the wire but are produced locally by the aggregator.
type ECCState int

const (
	ECCOffline ECCState = iota
	ECCIdle
	ECCDescribed
	ECCPrepared
	ECCReady
	ECCRunning
	ECCTransition
	ECCBusy
	ECCInconsistent
	ECCError
)

var eccStateText = map[ECCState]string{
	ECCOffline:      "Offline",
	ECCIdle:         "Idle",
	ECCDescribed:    "Described",
	ECCPrepared:     "Prepared",
	ECCReady:        "Ready",
	ECCRunning:      "Running",
	ECCTransition:   "Transition",
	ECCBusy:         "Busy",
	ECCInconsistent: "Inconsistent",
	ECCError:        "Error",
}

func (s ECCState) String() string {
	if text, ok := eccStateText[s]; ok {
		return text
	}
	return "Error"
}

// ECCStateFromWire maps the integer state/transition/error-code triple
// from an ECCStatusResponse to an ECCState, per spec.md §6:
//
//	error_code != 0        -> Error
//	transition != 0        -> Transition (regardless of state)
//	0..5                    -> Offline..Running
//	6..9                    -> Transition, Busy, Inconsistent, Error
//	anything else           -> Error
func ECCStateFromWire(state, transition, errorCode int) ECCState {
	if errorCode != 0 {
		return ECCError
	}
	if transition != 0 {
		return ECCTransition
	}
	switch state {
	case 0:
		return ECCOffline
	case 1:
		return ECCIdle
	case 2:
		return ECCDescribed
	case 3:
		return ECCPrepared
	case 4:
		return ECCReady
	case 5:
		return ECCRunning
	default:
		// Sentinel states (Transition, Busy, Inconsistent, Error) never
		// arrive on the wire but are round-tripped through the same
		// field when the aggregator stamps a synthetic status locally
		// (e.g. SetECCBusy); anything else out of range is Error.
		if sentinel := ECCState(state); sentinel >= ECCTransition && sentinel <= ECCError {
			return sentinel
		}
		return ECCError
	}
}

// ForwardOperation returns the operation that advances this state, or
// OpInvalid if the state has no forward transition.
func (s ECCState) ForwardOperation() ECCOperation {
	switch s {
	case ECCIdle:
		return OpDescribe
	case ECCDescribed:
		return OpPrepare
	case ECCPrepared:
		return OpConfigure
	case ECCReady:
		return OpStart
	default:
		return OpInvalid
	}
}

// BackwardOperation returns the operation that regresses this state, or
// OpInvalid if the state has no backward transition.
func (s ECCState) BackwardOperation() ECCOperation {
	switch s {
	case ECCDescribed, ECCPrepared, ECCReady:
		return OpUndo
	default:
		return OpInvalid
	}
}

// CanGoForward is the generic (module-local) forward-transition
// predicate; the aggregator's CanECCGoForward layers the cross-module
// gating invariants on top of this.
func (s ECCState) CanGoForward() bool {
	return s.ForwardOperation() != OpInvalid
}

// CanGoBackward reports whether this state has a legal Undo transition.
func (s ECCState) CanGoBackward() bool {
	return s.BackwardOperation() != OpInvalid
}
