// Command attpc-envoyd is the supervisory controller's CLI front end:
// a cobra root command wiring structured logging and the experiment
// configuration, with `connect` (the fleet dashboard + operator
// console) and `config` (experiment record management) as
// subcommands. Grounded in
// _examples/DanDo385-eth-rpc-monitor/cmd/monitor/*.go's cobra
// command-per-file layout.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gwm17/attpc-envoy/internal/env"
	"github.com/gwm17/attpc-envoy/internal/logging"
	"github.com/gwm17/attpc-envoy/internal/module"
)

var (
	configPath string
	logLevel   string

	fleetNumModules     int
	fleetMutantID       int
	fleetBaseAddress    string
	fleetECCPort        int
	fleetSurveyorPort   int
	fleetDataRouterPort int
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attpc-envoyd",
		Short: "Supervisory controller for an AT-TPC DAQ fleet",
		Long: `attpc-envoyd supervises a fleet of ECC-driven DAQ modules (one master,
the rest CoBos): it drives each module's lifecycle state machine over
SOAP, polls each CoBo's disk/data-rate status, and sequences
fleet-wide start/stop runs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "experiment.yml", "Experiment configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.PersistentFlags().IntVar(&fleetNumModules, "num-modules", 12, "Total module count (master + CoBos)")
	cmd.PersistentFlags().IntVar(&fleetMutantID, "mutant-id", 11, "Module id of the master (Mutant)")
	cmd.PersistentFlags().StringVar(&fleetBaseAddress, "base-address", env.Getenv("ATTPC_BASE_ADDRESS", "192.168.1"), "Dotted /24 address prefix for the fleet")
	cmd.PersistentFlags().IntVar(&fleetECCPort, "ecc-port", 46005, "ECC SOAP server port")
	cmd.PersistentFlags().IntVar(&fleetSurveyorPort, "surveyor-port", 46005, "Surveyor plain-text HTTP port")
	cmd.PersistentFlags().IntVar(&fleetDataRouterPort, "data-router-port", 46005, "Data router port")

	cmd.AddCommand(connectCmd())
	cmd.AddCommand(configCmd())

	return cmd
}

func fleetFromFlags(experiment string) module.FleetConfig {
	return module.FleetConfig{
		NumModules:     fleetNumModules,
		MutantID:       fleetMutantID,
		BaseAddress:    fleetBaseAddress,
		Experiment:     experiment,
		ECCPort:        fleetECCPort,
		SurveyorPort:   fleetSurveyorPort,
		DataRouterPort: fleetDataRouterPort,
	}
}

func loggerFromFlags() zerolog.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(logLevel))
}

func main() {
	env.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
