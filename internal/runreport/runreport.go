// Package runreport writes a timestamped JSON summary of a completed
// run to disk, the same "write a JSON artifact per invocation" pattern
// the teacher's internal/reports package used for its health/compare/
// watch commands, adapted here to a single domain-specific summary
// produced once per stop_run instead of once per CLI invocation.
package runreport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gwm17/attpc-envoy/internal/message"
)

// Summary is the JSON-serializable record of one completed run. The
// shell hand-offs' own success/failure is logged by the orchestrator
// at the time they run (spec.md §7 treats a post-stop shell failure as
// non-fatal to the run itself); this summary only records what the
// run produced, not how the cleanup went.
type Summary struct {
	Experiment    string                     `json:"experiment"`
	RunNumber     int                        `json:"run_number"`
	StoppedAt     time.Time                  `json:"stopped_at"`
	SurveyorState []message.SurveyorResponse `json:"surveyor_state"`
}

// dir is where run summaries accumulate, parallel to the teacher's
// fixed "reports/" directory.
const dir = "run-reports"

// Write marshals summary to dir/{experiment}-{run_number}.json,
// creating dir if necessary.
func Write(summary Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating run report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%d.json", summary.Experiment, summary.RunNumber))

	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling run report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("writing run report %s: %w", path, err)
	}
	return path, nil
}
