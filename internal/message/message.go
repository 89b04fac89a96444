// Package message defines the envelope that carries data between the
// driver tasks and the hub (internal/hub), and onward to the aggregator
// (internal/aggregator). Rather than the original's text-serialized
// payload decoded lazily by kind, Envelope carries its payload as a
// typed field directly — the tagged-union shape spec.md §9 recommends
// for a port. Kind mismatches are still reported as errors, preserving
// the one externally-visible behavior spec.md §7 requires.
package message

import "fmt"

// Kind discriminates the payload carried by an Envelope.
type Kind int

const (
	KindECCOperation Kind = iota
	KindECCStatus
	KindSurveyor
	KindCancel
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindECCOperation:
		return "ECCOperation"
	case KindECCStatus:
		return "ECCStatus"
	case KindSurveyor:
		return "Surveyor"
	case KindCancel:
		return "Cancel"
	default:
		return "Other"
	}
}

// ErrKindMismatch is returned by the As* accessors when the envelope's
// declared kind does not match the requested decoding.
type ErrKindMismatch struct {
	Expected, Received Kind
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("embassy expected %s message, received %s message", e.Expected, e.Received)
}

// Envelope is the unified message carrier between driver tasks, the
// hub, and the aggregator. A given Envelope carries exactly one
// payload, selected by Kind; the other payload fields are nil.
type Envelope struct {
	kind      Kind
	moduleID  int
	operation string

	eccStatus    *ECCStatusResponse
	eccOperation *ECCOperationResponse
	surveyor     *SurveyorResponse
}

// Kind reports the envelope's payload discriminant.
func (e Envelope) Kind() Kind { return e.kind }

// ModuleID reports which module this envelope concerns.
func (e Envelope) ModuleID() int { return e.moduleID }

// Operation reports the operation name associated with this envelope,
// for ECCOperation-kind envelopes (both outgoing commands and the
// acknowledging response carry it).
func (e Envelope) Operation() string { return e.operation }

// NewECCCommand builds an outgoing command envelope: the hub routes it
// to module id's transition driver by matching Kind/ModuleID; the
// operation name is what the driver composes into the SOAP request.
func NewECCCommand(moduleID int, operation string) Envelope {
	return Envelope{kind: KindECCOperation, moduleID: moduleID, operation: operation}
}

// NewECCOperationResponse builds a response envelope acknowledging a
// previously issued transition command.
func NewECCOperationResponse(moduleID int, operation string, resp ECCOperationResponse) Envelope {
	return Envelope{kind: KindECCOperation, moduleID: moduleID, operation: operation, eccOperation: &resp}
}

// NewECCStatusResponse builds a status-poll response envelope.
func NewECCStatusResponse(moduleID int, resp ECCStatusResponse) Envelope {
	return Envelope{kind: KindECCStatus, moduleID: moduleID, eccStatus: &resp}
}

// NewSurveyorResponse builds a Surveyor status-poll response envelope.
func NewSurveyorResponse(moduleID int, resp SurveyorResponse) Envelope {
	return Envelope{kind: KindSurveyor, moduleID: moduleID, surveyor: &resp}
}

// NewCancel builds the broadcast cancel envelope.
func NewCancel() Envelope {
	return Envelope{kind: KindCancel}
}

// AsECCOperation decodes the envelope as an ECCOperationResponse,
// failing with ErrKindMismatch if Kind is not KindECCOperation or the
// envelope is a bare outgoing command with no response payload yet.
func (e Envelope) AsECCOperation() (ECCOperationResponse, error) {
	if e.kind != KindECCOperation || e.eccOperation == nil {
		return ECCOperationResponse{}, &ErrKindMismatch{Expected: KindECCOperation, Received: e.kind}
	}
	return *e.eccOperation, nil
}

// AsECCStatus decodes the envelope as an ECCStatusResponse.
func (e Envelope) AsECCStatus() (ECCStatusResponse, error) {
	if e.kind != KindECCStatus || e.eccStatus == nil {
		return ECCStatusResponse{}, &ErrKindMismatch{Expected: KindECCStatus, Received: e.kind}
	}
	return *e.eccStatus, nil
}

// AsSurveyor decodes the envelope as a SurveyorResponse.
func (e Envelope) AsSurveyor() (SurveyorResponse, error) {
	if e.kind != KindSurveyor || e.surveyor == nil {
		return SurveyorResponse{}, &ErrKindMismatch{Expected: KindSurveyor, Received: e.kind}
	}
	return *e.surveyor, nil
}
