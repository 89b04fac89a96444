// Package shellrunner maps the three named run-lifecycle shell
// operations to argv vectors and subprocess exit codes, per spec.md
// §4.7/§6. Grounded in
// _examples/original_source/src/command/command.rs's CommandName
// dispatch, with MoveGrawFiles fanned out with golang.org/x/sync/errgroup
// the way the teacher's cmd/block and cmd/snapshot fan out concurrent
// provider queries.
//
// The original's move_graw_files/check_run_exists read a Surveyor
// response's address field, but the SurveyorResponse this module
// carries (internal/message) has no address — a module is identified
// by id, and its address is derived from module.FleetConfig, not
// reported back over the wire. Runner resolves addresses that way.
package shellrunner

import (
	"context"
	"os/exec"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

// Status is the tri-valued outcome of a shell invocation.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusCouldNotExecute
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	default:
		return "CouldNotExecute"
	}
}

// Runner dispatches the three named shell operations against a fixed
// script directory and interpreter. ScriptDir, ConfigDir, and
// BackupConfigDir are set once at construction and not changed
// afterward.
type Runner struct {
	Interpreter     string
	ScriptDir       string
	ConfigDir       string
	BackupConfigDir string
}

// NewRunner constructs a Runner. interpreter is the shell used to
// invoke every script (the original used "zsh").
func NewRunner(interpreter, scriptDir, configDir, backupConfigDir string) *Runner {
	return &Runner{
		Interpreter:     interpreter,
		ScriptDir:       scriptDir,
		ConfigDir:       configDir,
		BackupConfigDir: backupConfigDir,
	}
}

func (r *Runner) run(ctx context.Context, script string, args ...string) Status {
	cmd := exec.CommandContext(ctx, r.Interpreter, append([]string{r.ScriptDir + script}, args...)...)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return StatusFailure
		}
		return StatusCouldNotExecute
	}
	return StatusSuccess
}

// MoveGrawFiles invokes move_graw.sh once per Surveyor (addresses
// resolved via fleet, locations from each CoBo's last-known Surveyor
// response), fanned out concurrently. It returns Failure if any
// invocation fails.
func (r *Runner) MoveGrawFiles(ctx context.Context, fleet module.FleetConfig, surveyorStatus []message.SurveyorResponse, experiment string, runNumber int) Status {
	g, gctx := errgroup.WithContext(ctx)
	statuses := make([]Status, len(surveyorStatus))

	for id, resp := range surveyorStatus {
		id, resp := id, resp
		g.Go(func() error {
			statuses[id] = r.run(gctx, "move_graw.sh",
				fleet.Address(id), resp.Location, experiment, strconv.Itoa(runNumber))
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range statuses {
		if s != StatusSuccess {
			return StatusFailure
		}
	}
	return StatusSuccess
}

// BackupConfig invokes backup_configs.sh once.
func (r *Runner) BackupConfig(ctx context.Context, experiment string, runNumber int) Status {
	return r.run(ctx, "backup_configs.sh", r.ConfigDir, r.BackupConfigDir, experiment, strconv.Itoa(runNumber))
}

// CheckRunExists invokes test_graw.sh against the first CoBo's address
// and last-known Surveyor location, per spec.md §4.7/§6.
func (r *Runner) CheckRunExists(ctx context.Context, fleet module.FleetConfig, surveyorStatus []message.SurveyorResponse, experiment string, runNumber int) Status {
	if len(surveyorStatus) == 0 {
		return StatusCouldNotExecute
	}
	return r.run(ctx, "test_graw.sh", fleet.Address(0), surveyorStatus[0].Location, experiment, strconv.Itoa(runNumber))
}
