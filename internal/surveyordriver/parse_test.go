package surveyordriver

import (
	"testing"

	"github.com/gwm17/attpc-envoy/internal/message"
)

// S2 — Surveyor parsing, from spec.md §8.
func TestParseSurveyorBody(t *testing.T) {
	body := "1\n" +
		"/mnt/data\n" +
		"ignored line\n" +
		"Filesystem 2097152 x x 37% y\n" +
		"run_0001.graw 0 0 1048576\n" +
		"run_0002.graw 0 0 524288\n"

	resp, err := parseSurveyorBody(body, 0)
	if err != nil {
		t.Fatalf("parseSurveyorBody: %v", err)
	}

	if resp.StateCode != 1 {
		t.Errorf("StateCode = %d, want 1", resp.StateCode)
	}
	if resp.Location != "/mnt/data" {
		t.Errorf("Location = %q, want /mnt/data", resp.Location)
	}
	if resp.DiskSpace != 2097152*512 {
		t.Errorf("DiskSpace = %d, want %d", resp.DiskSpace, uint64(2097152*512))
	}
	if resp.PercentUsed != "37%" {
		t.Errorf("PercentUsed = %q, want 37%%", resp.PercentUsed)
	}
	if resp.Files != 2 {
		t.Errorf("Files = %d, want 2", resp.Files)
	}
	if resp.BytesUsed != 1572864 {
		t.Errorf("BytesUsed = %d, want 1572864", resp.BytesUsed)
	}
	if resp.DataRate != 786432.0 {
		t.Errorf("DataRate = %v, want 786432.0", resp.DataRate)
	}
	if resp.DiskStatus != "Filled" {
		t.Errorf("DiskStatus = %q, want Filled", resp.DiskStatus)
	}
}

func TestParseSurveyorBodyOffline(t *testing.T) {
	resp, err := parseSurveyorBody("0\n", 12345)
	if err != nil {
		t.Fatalf("parseSurveyorBody: %v", err)
	}
	want := message.DefaultSurveyorResponse()
	if resp != want {
		t.Errorf("parseSurveyorBody(offline) = %+v, want default %+v", resp, want)
	}
}

func TestParseSurveyorBodyShortBody(t *testing.T) {
	// Only a state line and location, no disk report or file listing —
	// must not panic on out-of-range line access.
	resp, err := parseSurveyorBody("1\n/mnt/data\n", 0)
	if err != nil {
		t.Fatalf("parseSurveyorBody: %v", err)
	}
	if resp.StateCode != 1 || resp.Location != "/mnt/data" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.PercentUsed != "N/A" {
		t.Errorf("PercentUsed = %q, want N/A", resp.PercentUsed)
	}
	if resp.Files != 0 || resp.DiskStatus != "Empty" {
		t.Errorf("unexpected file accounting: %+v", resp)
	}
}

func TestParseSurveyorBodyEmptyBody(t *testing.T) {
	resp, err := parseSurveyorBody("", 0)
	if err != nil {
		t.Fatalf("parseSurveyorBody: %v", err)
	}
	want := message.DefaultSurveyorResponse()
	if resp != want {
		t.Errorf("parseSurveyorBody(empty) = %+v, want default %+v", resp, want)
	}
}

func TestParseSurveyorBodyRateUsesLastBytes(t *testing.T) {
	body := "1\n/mnt/data\nignored\nFilesystem 100 x x 1% y\nrun_0003.graw 0 0 2097152\n"
	resp, err := parseSurveyorBody(body, 1048576)
	if err != nil {
		t.Fatalf("parseSurveyorBody: %v", err)
	}
	if resp.DataRate != 524288.0 {
		t.Errorf("DataRate = %v, want 524288.0", resp.DataRate)
	}
}
