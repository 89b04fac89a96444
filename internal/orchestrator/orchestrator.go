// Package orchestrator sequences the multi-module start/stop protocol
// spec.md §4.6 specifies, including the asymmetric master ordering and
// the post-stop shell hand-offs. Grounded in
// _examples/original_source/src/ui/app.rs's start_run/stop_run methods.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
	"github.com/gwm17/attpc-envoy/internal/shellrunner"
)

// busyWaitInterval is how often the orchestrator re-checks a
// run-lifecycle predicate while the hub continues to be drained by the
// outer UI loop, per spec.md §4.6.
const busyWaitInterval = 100 * time.Millisecond

// Submitter is the subset of the hub's synchronous surface the
// orchestrator needs: submitting a command envelope.
type Submitter interface {
	Submit(message.Envelope) error
}

// StatusSource is the subset of the aggregator's surface the
// orchestrator needs to evaluate its run-lifecycle predicates and to
// mark a module busy ahead of a commanded transition.
type StatusSource interface {
	SetECCBusy(id int)
	GetSystemECCStatus() module.ECCState
	GetSurveyorStatus() []message.SurveyorResponse
	IsAllButMutantRunning() bool
	IsMutantStopped() bool
}

// Orchestrator sequences start_run/stop_run against a hub, an
// aggregator, a rate-graph manager, and a shell runner.
type Orchestrator struct {
	Fleet  module.FleetConfig
	Hub    Submitter
	Status StatusSource
	Graphs interface{ ResetAll() }
	Shell  *shellrunner.Runner
	log    zerolog.Logger
}

// New constructs an Orchestrator.
func New(fleet module.FleetConfig, hub Submitter, status StatusSource, graphs interface{ ResetAll() }, shell *shellrunner.Runner, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{Fleet: fleet, Hub: hub, Status: status, Graphs: graphs, Shell: shell, log: log.With().Str("component", "orchestrator").Logger()}
}

func (o *Orchestrator) submit(id int, operation module.ECCOperation) error {
	o.Status.SetECCBusy(id)
	return o.Hub.Submit(message.NewECCCommand(id, operation.String()))
}

func (o *Orchestrator) busyWait(ctx context.Context, predicate func() bool) error {
	if predicate() {
		return nil
	}
	ticker := time.NewTicker(busyWaitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if predicate() {
				return nil
			}
		}
	}
}

// StartRun implements spec.md §4.6's start protocol. It refuses with an
// error, issuing no commands, unless the aggregator reports the system
// Ready.
func (o *Orchestrator) StartRun(ctx context.Context, experiment string, runNumber int) error {
	if o.Status.GetSystemECCStatus() != module.ECCReady {
		return fmt.Errorf("orchestrator: start_run requires system state Ready, got %s", o.Status.GetSystemECCStatus())
	}

	status := o.Shell.CheckRunExists(ctx, o.Fleet, o.Status.GetSurveyorStatus(), experiment, runNumber)
	if status == shellrunner.StatusSuccess {
		o.log.Warn().Str("experiment", experiment).Int("run_number", runNumber).Msg("run number already exists, aborting start")
		return fmt.Errorf("orchestrator: run %s/%d already exists", experiment, runNumber)
	}

	o.Graphs.ResetAll()

	for id := 0; id < o.Fleet.NumCobos(); id++ {
		if err := o.submit(id, module.OpStart); err != nil {
			return err
		}
	}

	if err := o.busyWait(ctx, o.Status.IsAllButMutantRunning); err != nil {
		return err
	}

	return o.submit(o.Fleet.MutantID, module.OpStart)
}

// StopRun implements spec.md §4.6's stop protocol, the inverse
// ordering of StartRun. Only callable when the system is Running.
func (o *Orchestrator) StopRun(ctx context.Context, experiment string, runNumber int) (int, error) {
	if o.Status.GetSystemECCStatus() != module.ECCRunning {
		return runNumber, fmt.Errorf("orchestrator: stop_run requires system state Running, got %s", o.Status.GetSystemECCStatus())
	}

	if err := o.submit(o.Fleet.MutantID, module.OpStop); err != nil {
		return runNumber, err
	}

	if err := o.busyWait(ctx, o.Status.IsMutantStopped); err != nil {
		return runNumber, err
	}

	for id := 0; id < o.Fleet.NumCobos(); id++ {
		if err := o.submit(id, module.OpStop); err != nil {
			return runNumber, err
		}
	}

	moveStatus := o.Shell.MoveGrawFiles(ctx, o.Fleet, o.Status.GetSurveyorStatus(), experiment, runNumber)
	if moveStatus != shellrunner.StatusSuccess {
		o.log.Error().Str("status", moveStatus.String()).Msg("move_graw_files reported a failure")
	}

	backupStatus := o.Shell.BackupConfig(ctx, experiment, runNumber)
	if backupStatus != shellrunner.StatusSuccess {
		o.log.Error().Str("status", backupStatus.String()).Msg("backup_config reported a failure")
	}

	return runNumber + 1, nil
}
