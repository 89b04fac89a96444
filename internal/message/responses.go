package message

import "github.com/gwm17/attpc-envoy/internal/module"

// ECCStatusResponse is the decoded body of an ECC GetStatus reply.
type ECCStatusResponse struct {
	ErrorCode    int
	ErrorMessage string
	State        int
	Transition   int
}

// Effective folds the wire fields into the ECCState the aggregator
// actually tracks, per spec.md §6.
func (r ECCStatusResponse) Effective() module.ECCState {
	return module.ECCStateFromWire(r.State, r.Transition, r.ErrorCode)
}

// DefaultECCStatusResponse is the sentinel emitted by the status driver
// when a transport error makes the real state unknown (state=0,
// equivalent to Offline).
func DefaultECCStatusResponse() ECCStatusResponse {
	return ECCStatusResponse{}
}

// ECCOperationResponse is the decoded body of an ECC transition reply.
type ECCOperationResponse struct {
	ErrorCode    int
	ErrorMessage string
	Text         string
}

// SurveyorResponse is the decoded file/disk report from a CoBo's
// Surveyor endpoint.
type SurveyorResponse struct {
	StateCode   int
	Location    string
	DiskStatus  string
	PercentUsed string
	DiskSpace   uint64
	Files       int
	BytesUsed   uint64
	DataRate    float64
}

// DefaultSurveyorResponse is the sentinel emitted when the Surveyor is
// offline or unreachable.
func DefaultSurveyorResponse() SurveyorResponse {
	return SurveyorResponse{
		Location:    "N/A",
		DiskStatus:  "N/A",
		PercentUsed: "N/A",
	}
}

// State decodes the wire state field into a module.SurveyorState.
func (r SurveyorResponse) State() module.SurveyorState {
	return module.SurveyorStateFromWire(r.StateCode)
}
