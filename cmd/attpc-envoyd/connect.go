package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gwm17/attpc-envoy/internal/aggregator"
	"github.com/gwm17/attpc-envoy/internal/dashboard"
	"github.com/gwm17/attpc-envoy/internal/hub"
	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
	"github.com/gwm17/attpc-envoy/internal/orchestrator"
	"github.com/gwm17/attpc-envoy/internal/rategraph"
	"github.com/gwm17/attpc-envoy/internal/runconfig"
	"github.com/gwm17/attpc-envoy/internal/runreport"
	"github.com/gwm17/attpc-envoy/internal/shellrunner"
)

// frameInterval is the UI drain/render cadence: fast enough to feel
// live, slow enough not to busy-spin the terminal.
const frameInterval = 500 * time.Millisecond

// maxRatePoints is the rate graph's ring buffer capacity (not
// currently surfaced on the dashboard's single-line-per-module table,
// but kept live so a future sparkline column has data to draw from).
const maxRatePoints = 30

func connectCmd() *cobra.Command {
	var (
		interpreter     string
		scriptDir       string
		backupConfigDir string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to the fleet, render the dashboard, and accept operator commands",
		Long: `connect spins up one transition task and one status task per ECC
module, one status task per CoBo Surveyor, drains their responses on a
ticker into the aggregator and rate graphs, and renders the result as a
terminal dashboard. While connected, it reads line-oriented commands
from stdin: "forward <id>", "backward <id>", "start", "stop", "quit".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(interpreter, scriptDir, backupConfigDir)
		},
	}

	cmd.Flags().StringVar(&interpreter, "shell", "/bin/sh", "Interpreter used to run lifecycle shell scripts")
	cmd.Flags().StringVar(&scriptDir, "script-dir", "./scripts/", "Directory containing move_graw.sh/backup_configs.sh/test_graw.sh")
	cmd.Flags().StringVar(&backupConfigDir, "backup-config-dir", "./config-backups/", "Directory lifecycle config backups are written to")

	return cmd
}

func runConnect(interpreter, scriptDir, backupConfigDir string) error {
	log := loggerFromFlags()

	cfg, err := runconfig.Load(configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("no experiment config found, using defaults")
		cfg = runconfig.Default(configPath)
	}

	fleet := fleetFromFlags(cfg.Experiment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	h, wg := hub.Connect(ctx, fleet, log)
	agg := aggregator.New(fleet.NumModules, fleet.MutantID, log)
	graphs := rategraph.NewManager(fleet, maxRatePoints)
	shell := shellrunner.NewRunner(interpreter, scriptDir, fleetConfigDir(), backupConfigDir)
	orch := orchestrator.New(fleet, h, agg, graphs, shell, log)

	go func() {
		<-sigCh
		log.Info().Msg("received shutdown signal")
		h.Shutdown()
		cancel()
	}()

	cmds := make(chan string, 1)
	go readOperatorCommands(cmds)

	// The hub drain runs on its own goroutine, independent of command
	// dispatch below. orch.StartRun/StopRun block in busyWait until the
	// aggregator reflects a module transition that only this drain can
	// observe; if drain and dispatch shared a goroutine, a busy-wait
	// would starve its own precondition. agg and graphs each hold a
	// mutex so this goroutine and the one below can call into them
	// concurrently.
	go drainHub(ctx, cancel, h, agg, graphs, fleet, log)

	runNumber := cfg.RunNumber

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			fmt.Println("disconnected")
			return nil

		case line, ok := <-cmds:
			if !ok {
				continue
			}
			switch cmd, arg := parseOperatorCommand(line); cmd {
			case "forward", "backward":
				id, err := strconv.Atoi(arg)
				if err != nil || id < 0 || id >= fleet.NumModules {
					log.Warn().Str("command", line).Msg("rejecting operator command: bad module id")
					continue
				}
				state := agg.GetECCStatus()[id].Effective()
				operation := state.ForwardOperation()
				if cmd == "backward" {
					operation = state.BackwardOperation()
				}
				if operation == module.OpInvalid || (cmd == "forward" && !agg.CanECCGoForward(id)) {
					log.Warn().Str("command", line).Str("state", state.String()).Msg("rejecting operator command: no legal transition")
					continue
				}
				submitTransition(h, agg, id, operation)

			case "start":
				if err := orch.StartRun(ctx, cfg.Experiment, runNumber); err != nil {
					log.Error().Err(err).Msg("start_run failed")
				}

			case "stop":
				next, err := orch.StopRun(ctx, cfg.Experiment, runNumber)
				if err != nil {
					log.Error().Err(err).Msg("stop_run failed")
					continue
				}
				runNumber = next
				cfg.RunNumber = runNumber
				if err := cfg.Save(); err != nil {
					log.Error().Err(err).Msg("failed to persist incremented run number")
				}
				if err := cfg.WriteCSVRow("./tables/"); err != nil {
					log.Error().Err(err).Msg("failed to append run log row")
				}
				reportPath, err := runreport.Write(runreport.Summary{
					Experiment:    cfg.Experiment,
					RunNumber:     runNumber - 1,
					StoppedAt:     time.Now(),
					SurveyorState: agg.GetSurveyorStatus(),
				})
				if err != nil {
					log.Error().Err(err).Msg("failed to write run report")
				} else {
					log.Info().Str("path", reportPath).Msg("wrote run report")
				}

			case "quit":
				h.Shutdown()
				cancel()

			default:
				log.Warn().Str("command", line).Msg("unrecognized operator command")
			}
		}
	}
}

// drainHub runs on its own goroutine for the lifetime of the
// connection: on frameInterval it drains the hub's response channel
// into the aggregator and rate graphs and renders a dashboard frame.
// It runs independently of command dispatch in runConnect so that
// orch.StartRun/StopRun's busy-waits (driven by the very state this
// loop produces) are never starved by sharing a goroutine with them.
func drainHub(ctx context.Context, cancel context.CancelFunc, h *hub.Hub, agg *aggregator.Aggregator, graphs *rategraph.Manager, fleet module.FleetConfig, log zerolog.Logger) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			msgs, err := h.Poll()
			if err != nil {
				log.Error().Err(err).Msg("hub response channel disconnected")
				h.Shutdown()
				cancel()
				return
			}
			if err := agg.HandleMessages(msgs); err != nil {
				log.Error().Err(err).Msg("aggregator failed to handle a response batch")
			}
			graphs.HandleMessages(msgs)
			dashboard.Render(os.Stdout, fleet, agg, graphs)
		}
	}
}

// fleetConfigDir is the directory the master's live configuration is
// read from before a backup_configs.sh invocation; distinct from
// backupConfigDir, which is where the copy lands.
func fleetConfigDir() string { return "./config/" }

// submitTransition marks id busy ahead of a commanded transition, the
// same sequencing the orchestrator uses for its own Start/Stop
// commands, so a manual forward/backward and an orchestrated run never
// race on the hold flag.
func submitTransition(h *hub.Hub, agg *aggregator.Aggregator, id int, operation module.ECCOperation) {
	agg.SetECCBusy(id)
	_ = h.Submit(message.NewECCCommand(id, operation.String()))
}

// parseOperatorCommand splits a line like "forward 3" into its verb
// and argument; "start"/"stop"/"quit" carry no argument.
func parseOperatorCommand(line string) (cmd, arg string) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], fields[1]
}

// readOperatorCommands feeds stdin lines to ch until stdin closes,
// then closes ch.
func readOperatorCommands(ch chan<- string) {
	defer close(ch)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		ch <- scanner.Text()
	}
}
