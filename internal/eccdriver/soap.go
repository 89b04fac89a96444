package eccdriver

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

// configID and dataLinkSet mirror the two nested bodies spec.md §4.1
// requires inside every transition request: a configID block naming
// the module's describe/prepare/configure identifiers, and a
// DataLinkSet block pointing the module's data sender at its own
// data-router.
type configID struct {
	XMLName  xml.Name `xml:"configID"`
	SourceID string   `xml:"SourceId"`
	ConfigID string   `xml:"ConfigId"`
}

type dataLinkSet struct {
	XMLName    xml.Name `xml:"DataLinkSet"`
	DataSender string   `xml:"DataSender"`
	DataRouter string   `xml:"DataRouter"`
	DataLink   string   `xml:"DataLink"`
}

// transitionRequest is the operation tag wrapping the two nested
// bodies. The tag name itself carries the operation (Describe,
// Prepare, Configure, Start, Undo, Stop, Breakup), so the struct is
// re-tagged per call site via xml.Name rather than a fixed tag.
type transitionRequest struct {
	XMLName     xml.Name
	ConfigID    configID
	DataLinkSet dataLinkSet
}

// statusRequest is the body of a GetStatus poll.
type statusRequest struct {
	XMLName xml.Name `xml:"GetStatus"`
}

// BuildTransitionRequest composes the SOAP body for a lifecycle
// transition command, per spec.md §4.1/§6.
func BuildTransitionRequest(op module.ECCOperation, fleet module.FleetConfig, id int) ([]byte, error) {
	req := transitionRequest{
		XMLName: xml.Name{Local: op.String()},
		ConfigID: configID{
			SourceID: fleet.SourceName(id),
			ConfigID: fleet.DescribeName(id),
		},
		DataLinkSet: dataLinkSet{
			DataSender: fleet.SourceName(id),
			DataRouter: fleet.DataRouterName(id),
			DataLink:   fmt.Sprintf("%s:%d", fleet.Address(id), fleet.DataRouterPort),
		},
	}
	return xml.Marshal(req)
}

// BuildStatusRequest composes the SOAP body for a status poll.
func BuildStatusRequest() []byte {
	body, _ := xml.Marshal(statusRequest{})
	return body
}

// operationResponseXML and statusResponseXML are the wire shapes from
// spec.md §6: a top-level element wrapping ErrorCode, an optional
// ErrorMessage, and either Text (operations) or State/Transition
// (status). The root element name is intentionally unconstrained —
// Unmarshal matches by child tag regardless of the enclosing name.
type operationResponseXML struct {
	ErrorCode    int    `xml:"ErrorCode"`
	ErrorMessage string `xml:"ErrorMessage"`
	Text         string `xml:"Text"`
}

type statusResponseXML struct {
	ErrorCode    int    `xml:"ErrorCode"`
	ErrorMessage string `xml:"ErrorMessage"`
	State        int    `xml:"State"`
	Transition   int    `xml:"Transition"`
}

// ParseOperationResponse decodes an ECC transition reply.
func ParseOperationResponse(body []byte) (message.ECCOperationResponse, error) {
	var decoded operationResponseXML
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&decoded); err != nil {
		return message.ECCOperationResponse{}, fmt.Errorf("parsing ECC operation response: %w", err)
	}
	return message.ECCOperationResponse{
		ErrorCode:    decoded.ErrorCode,
		ErrorMessage: decoded.ErrorMessage,
		Text:         decoded.Text,
	}, nil
}

// ParseStatusResponse decodes an ECC GetStatus reply.
func ParseStatusResponse(body []byte) (message.ECCStatusResponse, error) {
	var decoded statusResponseXML
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&decoded); err != nil {
		return message.ECCStatusResponse{}, fmt.Errorf("parsing ECC status response: %w", err)
	}
	return message.ECCStatusResponse{
		ErrorCode:    decoded.ErrorCode,
		ErrorMessage: decoded.ErrorMessage,
		State:        decoded.State,
		Transition:   decoded.Transition,
	}, nil
}
