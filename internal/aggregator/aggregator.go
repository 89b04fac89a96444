// Package aggregator implements the observer that consumes response
// envelopes drained from the hub, maintains each module's last-known
// state with short-lived "busy" holds around commanded transitions,
// and derives system-level state plus the run-lifecycle predicates the
// orchestrator depends on. Grounded in
// _examples/original_source/src/ui/status_manager.rs, generalized with
// the busy-hold bookkeeping spec.md §4.4 requires (absent from that
// file, present only as is_all_but_mutant_running/is_mutant_stopped).
package aggregator

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

// Aggregator holds the parallel per-module arrays spec.md §4.4
// describes: last-known ECC status, last-known Surveyor status, and
// the busy-hold flag gating ECCStatus admission.
//
// spec.md §5's single-writer assumption only holds while the hub drain
// and the orchestrator's busy-waits share one thread; cmd/attpc-envoyd
// runs the drain on its own goroutine so the orchestrator's blocking
// StartRun/StopRun never starves it (see connect.go), which makes
// HandleMessages and every read/predicate method genuinely concurrent.
// mu serializes all of it.
type Aggregator struct {
	mu sync.Mutex

	numModules int
	mutantID   int

	eccStatus      []message.ECCStatusResponse
	surveyorStatus []message.SurveyorResponse
	eccHolds       []bool

	log zerolog.Logger
}

// New constructs an Aggregator sized for numModules ECC modules and
// numModules-1 Surveyors, all starting at their zero-value (Offline)
// status.
func New(numModules, mutantID int, log zerolog.Logger) *Aggregator {
	a := &Aggregator{
		numModules: numModules,
		mutantID:   mutantID,
		log:        log.With().Str("component", "aggregator").Logger(),
	}
	a.Reset()
	return a
}

// Reset empties every status array back to its zero value and clears
// all holds, as happens on hub disconnect per spec.md §3's Lifetimes.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *Aggregator) reset() {
	a.eccStatus = make([]message.ECCStatusResponse, a.numModules)
	a.surveyorStatus = make([]message.SurveyorResponse, a.numModules-1)
	a.eccHolds = make([]bool, a.numModules)
}

// HandleMessages consumes an ordered batch of envelopes drained from
// the hub, per spec.md §4.4.
func (a *Aggregator) HandleMessages(msgs []message.Envelope) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, msg := range msgs {
		id := msg.ModuleID()
		switch msg.Kind() {
		case message.KindECCOperation:
			resp, err := msg.AsECCOperation()
			if err != nil {
				return err
			}
			if resp.ErrorCode != 0 {
				a.log.Error().Int("module_id", id).Int("error_code", resp.ErrorCode).Str("error_message", resp.ErrorMessage).Msg("ECC operation failed")
			} else {
				a.log.Info().Int("module_id", id).Str("text", resp.Text).Msg("ECC operation completed")
			}
			a.releaseHold(id)

		case message.KindECCStatus:
			resp, err := msg.AsECCStatus()
			if err != nil {
				return err
			}
			if resp.ErrorCode != 0 {
				a.log.Error().Int("module_id", id).Int("error_code", resp.ErrorCode).Str("error_message", resp.ErrorMessage).Msg("ECC status reported an error")
			}
			if a.onHold(id) {
				continue
			}
			a.eccStatus[id] = resp

		case message.KindSurveyor:
			resp, err := msg.AsSurveyor()
			if err != nil {
				return err
			}
			a.surveyorStatus[id] = resp

		default:
			a.log.Warn().Str("kind", msg.Kind().String()).Msg("aggregator received an unexpected message kind")
		}
	}
	return nil
}

func (a *Aggregator) onHold(id int) bool {
	return id >= 0 && id < len(a.eccHolds) && a.eccHolds[id]
}

func (a *Aggregator) releaseHold(id int) {
	if id >= 0 && id < len(a.eccHolds) {
		a.eccHolds[id] = false
	}
}

// SetECCBusy stamps ecc_status[id].state = Busy and raises its hold,
// called by the orchestrator immediately before submitting a
// transition command. Subsequent ECCStatus updates for id are dropped
// until the matching ECCOperation response arrives.
func (a *Aggregator) SetECCBusy(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id < 0 || id >= len(a.eccStatus) {
		return
	}
	a.eccStatus[id] = message.ECCStatusResponse{State: int(module.ECCBusy)}
	a.eccHolds[id] = true
}

// GetECCStatus returns a snapshot of the current ECC status array. The
// result is a copy so the caller can read it without holding a.mu.
func (a *Aggregator) GetECCStatus() []message.ECCStatusResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]message.ECCStatusResponse, len(a.eccStatus))
	copy(out, a.eccStatus)
	return out
}

// GetSurveyorStatus returns a snapshot of the current Surveyor status
// array. The result is a copy so the caller can read it without
// holding a.mu.
func (a *Aggregator) GetSurveyorStatus() []message.SurveyorResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]message.SurveyorResponse, len(a.surveyorStatus))
	copy(out, a.surveyorStatus)
	return out
}

// GetSystemECCStatus returns the common effective state if all N
// modules agree, else Inconsistent.
func (a *Aggregator) GetSystemECCStatus() module.ECCState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.eccStatus) == 0 {
		return module.ECCOffline
	}
	want := a.eccStatus[0].Effective()
	for _, s := range a.eccStatus[1:] {
		if s.Effective() != want {
			return module.ECCInconsistent
		}
	}
	return want
}

// GetSurveyorSystemStatus returns the common Surveyor state if all N-1
// CoBos agree, else Inconsistent.
func (a *Aggregator) GetSurveyorSystemStatus() module.SurveyorState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.surveyorStatus) == 0 {
		return module.SurveyorOffline
	}
	want := a.surveyorStatus[0].State()
	for _, s := range a.surveyorStatus[1:] {
		if s.State() != want {
			return module.SurveyorInconsistent
		}
	}
	return want
}

// coboStatuses returns the slice of ecc_status entries for CoBos only,
// i.e. [0, N) excluding the master — spec.md §4.4's "[0, N-1)".
func (a *Aggregator) coboStatuses() []message.ECCStatusResponse {
	out := make([]message.ECCStatusResponse, 0, len(a.eccStatus)-1)
	for id, s := range a.eccStatus {
		if id == a.mutantID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// IsAllButMutantRunning reports whether every CoBo (every module but
// the master) is Running.
func (a *Aggregator) IsAllButMutantRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isAllButMutant(module.ECCRunning)
}

// IsAllButMutantReady reports whether every CoBo is Ready.
func (a *Aggregator) IsAllButMutantReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isAllButMutant(module.ECCReady)
}

func (a *Aggregator) isAllButMutant(want module.ECCState) bool {
	cobos := a.coboStatuses()
	if len(cobos) == 0 {
		return false
	}
	for _, s := range cobos {
		if s.Effective() != want {
			return false
		}
	}
	return true
}

// IsMutantStopped reports whether the master is anything other than
// Running.
func (a *Aggregator) IsMutantStopped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mutantID < 0 || a.mutantID >= len(a.eccStatus) {
		return true
	}
	return a.eccStatus[a.mutantID].Effective() != module.ECCRunning
}

// CanECCGoForward implements the cross-module forward-gating
// invariants of spec.md §3/§4.4: a CoBo in Described may only advance
// to Prepare if the master is Prepared or Ready; the master may only
// advance from Prepared to Configure once every CoBo is Ready.
// Everything else defers to the generic per-state predicate.
func (a *Aggregator) CanECCGoForward(id int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id < 0 || id >= len(a.eccStatus) {
		return false
	}
	state := a.eccStatus[id].Effective()

	if id != a.mutantID && state == module.ECCDescribed {
		mutant := a.eccStatus[a.mutantID].Effective()
		return mutant == module.ECCPrepared || mutant == module.ECCReady
	}

	if id == a.mutantID && state == module.ECCPrepared {
		return a.isAllButMutant(module.ECCReady)
	}

	return state.CanGoForward()
}
