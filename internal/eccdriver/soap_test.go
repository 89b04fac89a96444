package eccdriver

import (
	"strings"
	"testing"

	"github.com/gwm17/attpc-envoy/internal/module"
)

func testFleet() module.FleetConfig {
	return module.FleetConfig{
		NumModules:     3,
		MutantID:       0,
		BaseAddress:    "192.168.1",
		Experiment:     "e20009",
		ECCPort:        8083,
		SurveyorPort:   8090,
		DataRouterPort: 46005,
	}
}

func TestBuildTransitionRequestTagsByOperation(t *testing.T) {
	fleet := testFleet()
	body, err := BuildTransitionRequest(module.OpPrepare, fleet, 1)
	if err != nil {
		t.Fatalf("BuildTransitionRequest: %v", err)
	}
	s := string(body)
	if !strings.HasPrefix(s, "<Prepare>") {
		t.Errorf("expected root tag <Prepare>, got %q", s)
	}
	if !strings.Contains(s, "<SourceId>CoBo[1]</SourceId>") {
		t.Errorf("expected SourceId CoBo[1], got %q", s)
	}
	if !strings.Contains(s, "<ConfigId>cobo1</ConfigId>") {
		t.Errorf("expected ConfigId cobo1, got %q", s)
	}
	if !strings.Contains(s, "<DataRouter>data1</DataRouter>") {
		t.Errorf("expected DataRouter data1, got %q", s)
	}
	if !strings.Contains(s, "192.168.1.61:46005") {
		t.Errorf("expected data link address 192.168.1.61:46005, got %q", s)
	}
}

func TestBuildTransitionRequestMutant(t *testing.T) {
	fleet := testFleet()
	body, err := BuildTransitionRequest(module.OpDescribe, fleet, 0)
	if err != nil {
		t.Fatalf("BuildTransitionRequest: %v", err)
	}
	s := string(body)
	if !strings.HasPrefix(s, "<Describe>") {
		t.Errorf("expected root tag <Describe>, got %q", s)
	}
	if !strings.Contains(s, "<ConfigId>e20009</ConfigId>") {
		t.Errorf("expected ConfigId e20009 for master, got %q", s)
	}
}

func TestBuildStatusRequest(t *testing.T) {
	body := BuildStatusRequest()
	if string(body) != "<GetStatus></GetStatus>" {
		t.Errorf("unexpected status request body: %q", body)
	}
}

func TestParseOperationResponse(t *testing.T) {
	xmlBody := []byte(`<DescribeResponse><ErrorCode>0</ErrorCode><ErrorMessage></ErrorMessage><Text>ok</Text></DescribeResponse>`)
	resp, err := ParseOperationResponse(xmlBody)
	if err != nil {
		t.Fatalf("ParseOperationResponse: %v", err)
	}
	if resp.ErrorCode != 0 || resp.Text != "ok" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestParseOperationResponseError(t *testing.T) {
	xmlBody := []byte(`<StartResponse><ErrorCode>3</ErrorCode><ErrorMessage>bad transition</ErrorMessage><Text></Text></StartResponse>`)
	resp, err := ParseOperationResponse(xmlBody)
	if err != nil {
		t.Fatalf("ParseOperationResponse: %v", err)
	}
	if resp.ErrorCode != 3 || resp.ErrorMessage != "bad transition" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestParseStatusResponse(t *testing.T) {
	xmlBody := []byte(`<GetStatusResponse><ErrorCode>0</ErrorCode><ErrorMessage></ErrorMessage><State>4</State><Transition>0</Transition></GetStatusResponse>`)
	resp, err := ParseStatusResponse(xmlBody)
	if err != nil {
		t.Fatalf("ParseStatusResponse: %v", err)
	}
	if resp.State != 4 || resp.Transition != 0 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Effective() != module.ECCReady {
		t.Errorf("Effective() = %s, want Ready", resp.Effective())
	}
}

func TestParseStatusResponseMalformed(t *testing.T) {
	_, err := ParseStatusResponse([]byte(`not xml`))
	if err == nil {
		t.Error("expected error parsing malformed XML")
	}
}
